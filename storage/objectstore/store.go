package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/archive"
	"github.com/GriffinCanCode/AgentOS/storagekit/internal/logging"
	"github.com/GriffinCanCode/AgentOS/storagekit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/storagekit/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures a Store.
type Options struct {
	Bucket string
	// Prefix is prepended to every key.
	Prefix string

	// ArchiveMethod is "deflate" (default), "zstd" or "store".
	ArchiveMethod    string
	CompressionLevel int
	ChunkSize        int

	// RPS caps remote requests per second. Zero or less disables limiting.
	RPS   float64
	Burst int

	// MaxFailures consecutive failures open the breaker for BreakerTimeout.
	MaxFailures    uint32
	BreakerTimeout time.Duration

	// Registerer receives breaker metrics when set.
	Registerer prometheus.Registerer
	Logger     *zap.Logger
}

// Store is the object-store storage.Backend.
type Store struct {
	client  *minio.Client
	bucket  string
	prefix  string
	archive archive.Options
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger
}

var _ storage.Backend = (*Store)(nil)

// New returns a Store over client. The bucket must already exist; see EnsureBucket.
func New(client *minio.Client, opts Options) (*Store, error) {
	if client == nil {
		return nil, errors.New("minio client required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("bucket required")
	}

	s := &Store{
		client: client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
		logger: logging.ForBackend(opts.Logger, "objectstore", opts.Bucket),
		archive: archive.Options{
			Method:    archive.Method(opts.ArchiveMethod),
			Level:     opts.CompressionLevel,
			ChunkSize: opts.ChunkSize,
		},
	}
	if s.archive.Level == 0 {
		s.archive.Level = archive.DefaultOptions().Level
	}
	if _, err := archive.NewWriter(io.Discard, s.archive); err != nil {
		return nil, err
	}

	s.limiter = rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	var metrics *monitoring.BreakerMetrics
	if opts.Registerer != nil {
		var err error
		if metrics, err = monitoring.NewBreakerMetrics(opts.Registerer); err != nil {
			return nil, err
		}
	}
	s.breaker = resilience.New("objectstore", resilience.Settings{
		MaxFailures: opts.MaxFailures,
		Timeout:     opts.BreakerTimeout,
		IsFailure:   countsAsFailure,
		OnStateChange: func(name string, from, to resilience.State) {
			s.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if metrics != nil {
				metrics.SetState(name, int(to), to.String())
			}
		},
	})

	return s, nil
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket when it does not exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	return s.do(ctx, func(ctx context.Context) error {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
		s.logger.Info("bucket created")
		return nil
	})
}

// key maps a caller path onto an object key. Backslashes are separators and
// ".." components are rejected.
func (s *Store) key(op, p string) (string, error) {
	slashed := strings.ReplaceAll(p, `\`, "/")
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return "", storage.InvalidArgument(op, p, "path must not contain ..")
		}
	}
	return strings.TrimPrefix(path.Join(s.prefix, path.Clean("/"+slashed)), "/"), nil
}

// dirKey is the marker key for a directory key. The root maps to the prefix itself.
func dirKey(key string) string {
	if key == "" {
		return ""
	}
	return key + "/"
}

func (s *Store) prepare(ctx context.Context, op, p string) (string, error) {
	if err := storage.ValidatePath(op, p); err != nil {
		return "", err
	}
	key, err := s.key(op, p)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return key, nil
}

// do rate-limits fn and runs it through the breaker.
func (s *Store) do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.breaker.Execute(func() error { return fn(ctx) })
}

func isNotFound(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

func countsAsFailure(err error) bool {
	if err == nil || isNotFound(err) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// notExist rewrites a missing-key response so callers can match fs.ErrNotExist.
func notExist(err error) error {
	if err != nil && isNotFound(err) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", fs.ErrNotExist, err)
	}
	return err
}
