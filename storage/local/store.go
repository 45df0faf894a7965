package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/archive"
	"github.com/GriffinCanCode/AgentOS/storagekit/internal/logging"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"go.uber.org/zap"
)

// Options configures a Store.
type Options struct {
	// Root anchors relative paths. Empty means the process working directory.
	Root string
	// FileMode is used for created files. Defaults to 0644.
	FileMode fs.FileMode
	// DirMode is used for created directories. Defaults to 0755.
	DirMode fs.FileMode
	// ArchiveMethod is "deflate" (default), "zstd" or "store".
	ArchiveMethod string
	// CompressionLevel is the deflate level, 1-9. Zero selects the library default.
	CompressionLevel int
	// ChunkSize is the archive transfer buffer in bytes. Defaults to 1024.
	ChunkSize int
	// WalkWorkers bounds fastwalk concurrency during tree enumeration. Zero uses the library default.
	WalkWorkers int
	Logger      *zap.Logger
}

// Store is the filesystem-backed storage.Backend.
type Store struct {
	root        string
	fileMode    fs.FileMode
	dirMode     fs.FileMode
	archive     archive.Options
	walkWorkers int
	logger      *zap.Logger
}

var _ storage.Backend = (*Store)(nil)

// New validates opts and returns a Store.
func New(opts Options) (*Store, error) {
	s := &Store{
		fileMode:    opts.FileMode,
		dirMode:     opts.DirMode,
		walkWorkers: opts.WalkWorkers,
		logger:      logging.ForBackend(opts.Logger, "local", opts.Root),
		archive: archive.Options{
			Method:    archive.Method(opts.ArchiveMethod),
			Level:     opts.CompressionLevel,
			ChunkSize: opts.ChunkSize,
		},
	}
	if s.fileMode == 0 {
		s.fileMode = 0o644
	}
	if s.dirMode == 0 {
		s.dirMode = 0o755
	}
	if s.archive.Level == 0 {
		s.archive.Level = archive.DefaultOptions().Level
	}
	if s.archive.ChunkSize <= 0 {
		s.archive.ChunkSize = archive.DefaultChunkSize
	}
	if s.walkWorkers < 0 {
		return nil, fmt.Errorf("walk workers must not be negative, got %d", s.walkWorkers)
	}

	// Fail on bad archive settings now rather than on the first BuildArchive.
	if _, err := archive.NewWriter(io.Discard, s.archive); err != nil {
		return nil, err
	}

	if opts.Root != "" {
		root, err := filepath.Abs(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("resolve root %s: %w", opts.Root, err)
		}
		s.root = root
	}

	return s, nil
}

// Root returns the absolute root directory, or "" when unrooted.
func (s *Store) Root() string {
	return s.root
}

// resolve maps a caller path onto the filesystem, rejecting paths that
// escape the root.
func (s *Store) resolve(op, path string) (string, error) {
	if s.root == "" {
		return filepath.Clean(path), nil
	}

	var full string
	if filepath.IsAbs(path) {
		full = filepath.Clean(path)
	} else {
		full = filepath.Join(s.root, path)
	}

	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", storage.InvalidArgument(op, path, "path is outside storage root %s", s.root)
	}
	return full, nil
}

// prepare runs the checks every operation shares: argument validation, root
// confinement and cancellation.
func (s *Store) prepare(ctx context.Context, op, path string) (string, error) {
	if err := storage.ValidatePath(op, path); err != nil {
		return "", err
	}
	full, err := s.resolve(op, path)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return full, nil
}
