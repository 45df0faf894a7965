// Package config provides 12-factor configuration management for storagekit.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Storage: backing selection (local, objectstore), root directory, walk workers
//   - Archive: zip method (deflate, zstd, store), compression level, chunk size
//   - ObjectStore: S3-compatible endpoint, credentials, bucket and key prefix
//   - Breaker: circuit breaker thresholds for remote backings
//   - Logging: Log level and output format
//   - Metrics: Prometheus decorator toggle
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	store, err := storagekit.Open(ctx, cfg)
//
// Environment Variables:
//   - STORAGE_BACKEND, STORAGE_ROOT, STORAGE_WALK_WORKERS
//   - ARCHIVE_METHOD, ARCHIVE_LEVEL, ARCHIVE_CHUNK_SIZE
//   - OBJECTSTORE_ENDPOINT, OBJECTSTORE_ACCESS_KEY, OBJECTSTORE_SECRET_KEY,
//     OBJECTSTORE_BUCKET, OBJECTSTORE_PREFIX, OBJECTSTORE_SECURE,
//     OBJECTSTORE_CREATE_BUCKET, OBJECTSTORE_RPS
//   - BREAKER_MAX_FAILURES, BREAKER_TIMEOUT
//   - LOG_LEVEL, LOG_DEV, METRICS_ENABLED
package config
