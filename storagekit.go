package storagekit

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/storagekit/internal/logging"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage/local"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage/objectstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config is the full environment-driven configuration.
type Config = config.Config

// Backend names accepted in Config.Storage.Backend.
const (
	BackendLocal       = config.BackendLocal
	BackendObjectStore = config.BackendObjectStore
)

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	return config.Load()
}

// DefaultConfig returns a local-filesystem configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// Store is an opened backend together with the logger it writes to.
type Store struct {
	storage.Backend
	logger *zap.Logger
	ownLog bool
}

// Logger returns the logger the backend writes to.
func (s *Store) Logger() *zap.Logger {
	return s.logger
}

// Close flushes the logger when Open created it.
func (s *Store) Close() error {
	if !s.ownLog {
		return nil
	}
	_ = s.logger.Sync()
	return nil
}

type openOptions struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// Option customizes Open.
type Option func(*openOptions)

// WithLogger makes the backend log to l instead of a logger built from Config.Logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *openOptions) { o.logger = l }
}

// WithRegisterer sets where metrics are registered when Config.Metrics.Enabled
// is true. Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *openOptions) { o.registerer = reg }
}

// Open validates cfg and returns the configured backend.
func Open(ctx context.Context, cfg *Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{logger: o.logger}
	if s.logger == nil {
		l, err := logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		s.logger = l
		s.ownLog = true
	}

	var reg prometheus.Registerer
	if cfg.Metrics.Enabled {
		reg = o.registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
	}

	backend, err := openBackend(ctx, cfg, s.logger, reg)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if reg != nil {
		if backend, err = storage.Instrument(backend, reg); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	s.Backend = backend

	s.logger.Info("storage opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.Bool("metrics", reg != nil))
	return s, nil
}

func openBackend(ctx context.Context, cfg *Config, logger *zap.Logger, reg prometheus.Registerer) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendObjectStore:
		return openObjectStore(ctx, cfg, logger, reg)
	default:
		store, err := local.New(local.Options{
			Root:             cfg.Storage.Root,
			ArchiveMethod:    cfg.Archive.Method,
			CompressionLevel: cfg.Archive.Level,
			ChunkSize:        cfg.Archive.ChunkSize,
			WalkWorkers:      cfg.Storage.WalkWorkers,
			Logger:           logger,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func openObjectStore(ctx context.Context, cfg *Config, logger *zap.Logger, reg prometheus.Registerer) (storage.Backend, error) {
	osc := cfg.ObjectStore
	client, err := minio.New(osc.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(osc.AccessKey, osc.SecretKey, ""),
		Secure: osc.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	store, err := objectstore.New(client, objectstore.Options{
		Bucket:           osc.Bucket,
		Prefix:           osc.Prefix,
		ArchiveMethod:    cfg.Archive.Method,
		CompressionLevel: cfg.Archive.Level,
		ChunkSize:        cfg.Archive.ChunkSize,
		RPS:              osc.RPS,
		MaxFailures:      cfg.Breaker.MaxFailures,
		BreakerTimeout:   cfg.Breaker.Timeout,
		Registerer:       reg,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}

	if osc.CreateBucket {
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket %s: %w", osc.Bucket, err)
		}
	}
	return store, nil
}
