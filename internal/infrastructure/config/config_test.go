package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Storage config
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.Root)
	assert.Zero(t, cfg.Storage.WalkWorkers)

	// Archive config
	assert.Equal(t, "deflate", cfg.Archive.Method)
	assert.Equal(t, -1, cfg.Archive.Level)
	assert.Equal(t, 1024, cfg.Archive.ChunkSize)

	// Object store config
	assert.Equal(t, "localhost:9000", cfg.ObjectStore.Endpoint)
	assert.Equal(t, "storage", cfg.ObjectStore.Bucket)
	assert.False(t, cfg.ObjectStore.Secure)

	// Breaker config
	assert.Equal(t, uint32(5), cfg.Breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Timeout)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.False(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutEnvironmentMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, 1024, cfg.Archive.ChunkSize)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"STORAGE_BACKEND":        "objectstore",
		"STORAGE_ROOT":           "/var/lib/files",
		"STORAGE_WALK_WORKERS":   "4",
		"ARCHIVE_METHOD":         "zstd",
		"ARCHIVE_LEVEL":          "9",
		"ARCHIVE_CHUNK_SIZE":     "4096",
		"OBJECTSTORE_ENDPOINT":   "minio:9000",
		"OBJECTSTORE_ACCESS_KEY": "minioadmin",
		"OBJECTSTORE_SECRET_KEY": "minioadmin",
		"OBJECTSTORE_BUCKET":     "reports",
		"OBJECTSTORE_PREFIX":     "exports/",
		"OBJECTSTORE_SECURE":     "true",
		"OBJECTSTORE_RPS":        "50",
		"BREAKER_MAX_FAILURES":   "3",
		"BREAKER_TIMEOUT":        "5s",
		"LOG_LEVEL":              "debug",
		"LOG_DEV":                "true",
		"METRICS_ENABLED":        "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendObjectStore, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/files", cfg.Storage.Root)
	assert.Equal(t, 4, cfg.Storage.WalkWorkers)

	assert.Equal(t, "zstd", cfg.Archive.Method)
	assert.Equal(t, 9, cfg.Archive.Level)
	assert.Equal(t, 4096, cfg.Archive.ChunkSize)

	assert.Equal(t, "minio:9000", cfg.ObjectStore.Endpoint)
	assert.Equal(t, "minioadmin", cfg.ObjectStore.AccessKey)
	assert.Equal(t, "reports", cfg.ObjectStore.Bucket)
	assert.Equal(t, "exports/", cfg.ObjectStore.Prefix)
	assert.True(t, cfg.ObjectStore.Secure)
	assert.InDelta(t, 50.0, cfg.ObjectStore.RPS, 0.001)

	assert.Equal(t, uint32(3), cfg.Breaker.MaxFailures)
	assert.Equal(t, 5*time.Second, cfg.Breaker.Timeout)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("STORAGE_ROOT", "files")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "files", cfg.Storage.Root)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Defaults still apply
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, "deflate", cfg.Archive.Method)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown backend", key: "STORAGE_BACKEND", value: "tape"},
		{name: "unknown archive method", key: "ARCHIVE_METHOD", value: "rar"},
		{name: "zero chunk size", key: "ARCHIVE_CHUNK_SIZE", value: "0"},
		{name: "negative walk workers", key: "STORAGE_WALK_WORKERS", value: "-2"},
		{name: "malformed duration", key: "BREAKER_TIMEOUT", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidateObjectStore(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = BackendObjectStore
	assert.NoError(t, cfg.Validate())

	cfg.ObjectStore.Bucket = ""
	assert.ErrorContains(t, cfg.Validate(), "OBJECTSTORE_BUCKET")

	cfg.ObjectStore.Bucket = "b"
	cfg.ObjectStore.Endpoint = ""
	assert.ErrorContains(t, cfg.Validate(), "OBJECTSTORE_ENDPOINT")
}
