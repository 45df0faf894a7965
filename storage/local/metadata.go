package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/textcodec"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Exists reports whether path names any filesystem entry. Symlinks are not followed.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	full, err := s.prepare(ctx, storage.OpExists, path)
	if err != nil {
		return false, err
	}

	_, err = os.Lstat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, storage.IOError(storage.OpExists, path, err)
	}
}

// Stat returns metadata for path. Regular files get a sniffed content type.
func (s *Store) Stat(ctx context.Context, path string) (storage.FileInfo, error) {
	full, err := s.prepare(ctx, storage.OpStat, path)
	if err != nil {
		return storage.FileInfo{}, err
	}

	info, err := os.Lstat(full)
	if err != nil {
		return storage.FileInfo{}, storage.IOError(storage.OpStat, path, err)
	}

	fi := storage.FileInfo{
		Name:     info.Name(),
		Path:     path,
		Size:     info.Size(),
		IsDir:    info.IsDir(),
		Mode:     info.Mode().String(),
		Modified: info.ModTime(),
	}
	if info.Mode().IsRegular() {
		mtype, err := mimetype.DetectFile(full)
		if err != nil {
			s.logger.Debug("mime detection failed", zap.String("path", path), zap.Error(err))
		} else {
			fi.ContentType = mtype.String()
		}
	}
	return fi, nil
}

// List returns the files under dir matching pattern, joined onto dir and sorted.
func (s *Store) List(ctx context.Context, dir, pattern string) ([]string, error) {
	full, err := s.prepare(ctx, storage.OpList, dir)
	if err != nil {
		return nil, err
	}
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return nil, storage.InvalidArgument(storage.OpList, dir, "invalid pattern %q", pattern)
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, storage.IOError(storage.OpList, dir, err)
	}
	if !info.IsDir() {
		return nil, storage.IOError(storage.OpList, dir, errors.New("not a directory"))
	}

	matches, err := doublestar.Glob(os.DirFS(full), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, storage.IOError(storage.OpList, dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadTextRecords reads a file written by SaveTextRecords back into records.
func (s *Store) ReadTextRecords(ctx context.Context, path string) ([]string, error) {
	full, err := s.prepare(ctx, storage.OpReadTextRecords, path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		s.logger.Error("read text records failed", zap.String("path", path), zap.Error(err))
		return nil, storage.IOError(storage.OpReadTextRecords, path, err)
	}

	records, err := textcodec.Decode(data)
	if err != nil {
		s.logger.Error("decode text records failed", zap.String("path", path), zap.Error(err))
		return nil, storage.IOError(storage.OpReadTextRecords, path, err)
	}
	return records, nil
}
