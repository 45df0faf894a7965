package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendLocal       = "local"
	BackendObjectStore = "objectstore"
)

// Config holds all storagekit configuration.
type Config struct {
	Storage     StorageConfig
	Archive     ArchiveConfig
	ObjectStore ObjectStoreConfig
	Breaker     BreakerConfig
	Logging     LogConfig
	Metrics     MetricsConfig
}

// StorageConfig selects and configures the backing.
type StorageConfig struct {
	Backend     string `envconfig:"STORAGE_BACKEND" default:"local"`
	Root        string `envconfig:"STORAGE_ROOT" default:""`
	WalkWorkers int    `envconfig:"STORAGE_WALK_WORKERS" default:"0"`
}

// ArchiveConfig holds zip construction settings.
type ArchiveConfig struct {
	Method    string `envconfig:"ARCHIVE_METHOD" default:"deflate"`
	Level     int    `envconfig:"ARCHIVE_LEVEL" default:"-1"`
	ChunkSize int    `envconfig:"ARCHIVE_CHUNK_SIZE" default:"1024"`
}

// ObjectStoreConfig holds S3-compatible endpoint settings.
type ObjectStoreConfig struct {
	Endpoint     string  `envconfig:"OBJECTSTORE_ENDPOINT" default:"localhost:9000"`
	AccessKey    string  `envconfig:"OBJECTSTORE_ACCESS_KEY" default:""`
	SecretKey    string  `envconfig:"OBJECTSTORE_SECRET_KEY" default:""`
	Bucket       string  `envconfig:"OBJECTSTORE_BUCKET" default:"storage"`
	Prefix       string  `envconfig:"OBJECTSTORE_PREFIX" default:""`
	Secure       bool    `envconfig:"OBJECTSTORE_SECURE" default:"false"`
	CreateBucket bool    `envconfig:"OBJECTSTORE_CREATE_BUCKET" default:"false"`
	RPS          float64 `envconfig:"OBJECTSTORE_RPS" default:"0"`
}

// BreakerConfig holds circuit breaker settings for remote backings.
type BreakerConfig struct {
	MaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	Timeout     time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// MetricsConfig toggles the Prometheus decorator.
type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendLocal,
		},
		Archive: ArchiveConfig{
			Method:    "deflate",
			Level:     -1,
			ChunkSize: 1024,
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint: "localhost:9000",
			Bucket:   "storage",
		},
		Breaker: BreakerConfig{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendLocal:
	case BackendObjectStore:
		if c.ObjectStore.Endpoint == "" {
			return fmt.Errorf("OBJECTSTORE_ENDPOINT is required for the %s backend", BackendObjectStore)
		}
		if c.ObjectStore.Bucket == "" {
			return fmt.Errorf("OBJECTSTORE_BUCKET is required for the %s backend", BackendObjectStore)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Archive.Method {
	case "deflate", "zstd", "store":
	default:
		return fmt.Errorf("unknown archive method %q", c.Archive.Method)
	}
	if c.Archive.ChunkSize <= 0 {
		return fmt.Errorf("ARCHIVE_CHUNK_SIZE must be positive, got %d", c.Archive.ChunkSize)
	}
	if c.Storage.WalkWorkers < 0 {
		return fmt.Errorf("STORAGE_WALK_WORKERS must not be negative, got %d", c.Storage.WalkWorkers)
	}
	return nil
}
