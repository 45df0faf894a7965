package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// CreateDirectory creates path and any missing parents. It never reports an
// I/O failure; a failed creation is logged at warn level.
func (s *Store) CreateDirectory(ctx context.Context, path string) error {
	full, err := s.prepare(ctx, storage.OpCreateDirectory, path)
	if err != nil {
		return err
	}

	if info, err := os.Stat(full); err == nil {
		if info.IsDir() {
			s.logger.Debug("directory already exists", zap.String("path", path))
		} else {
			s.logger.Warn("create directory failed: path exists and is not a directory", zap.String("path", path))
		}
		return nil
	}

	if err := os.MkdirAll(full, s.dirMode); err != nil {
		s.logger.Warn("create directory failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	s.logger.Info("directory created", zap.String("path", path))
	return nil
}

// DeleteOne removes a single file or empty directory. A missing path is a
// no-op; a non-empty directory is left in place. Neither is reported.
func (s *Store) DeleteOne(ctx context.Context, path string) error {
	full, err := s.prepare(ctx, storage.OpDeleteOne, path)
	if err != nil {
		return err
	}

	info, err := os.Lstat(full)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("path does not exist", zap.String("path", path))
		return nil
	}
	if err != nil {
		s.logger.Warn("delete failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	s.remove(full, info.IsDir())
	return nil
}

// DeleteTree removes path and, when it is a directory, everything below it.
// Entries that cannot be removed are logged and skipped, so residue may
// remain after a nil return.
func (s *Store) DeleteTree(ctx context.Context, path string) error {
	full, err := s.prepare(ctx, storage.OpDeleteTree, path)
	if err != nil {
		return err
	}

	info, err := os.Lstat(full)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("directory does not exist", zap.String("path", path))
		return nil
	}
	if err != nil {
		s.logger.Warn("delete tree failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	if !info.IsDir() {
		s.remove(full, false)
		return nil
	}

	files, dirs, err := s.collectTree(ctx, full)
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.remove(f, false)
	}
	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.remove(d.path, true)
	}
	s.remove(full, true)
	return nil
}

type treeDir struct {
	path  string
	depth int
}

// collectTree lists every entry below root. Directories come back ordered
// deepest first so removing them in order never meets a non-empty child
// directory. Unreadable directories are logged and their contents skipped.
func (s *Store) collectTree(ctx context.Context, root string) ([]string, []treeDir, error) {
	var (
		mu    sync.Mutex
		files []string
		dirs  []treeDir
	)

	conf := fastwalk.Config{Follow: false, NumWorkers: s.walkWorkers}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("cannot list directory", zap.String("path", p), zap.Error(err))
			return nil
		}
		if p == root {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		if d.IsDir() {
			dirs = append(dirs, treeDir{path: p, depth: depth(root, p)})
		} else {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		s.logger.Warn("tree walk incomplete", zap.String("path", root), zap.Error(err))
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		return dirs[i].depth > dirs[j].depth
	})
	return files, dirs, nil
}

func depth(root, p string) int {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator))
}

// remove deletes one entry and logs the outcome.
func (s *Store) remove(full string, isDir bool) {
	kind := "file"
	if isDir {
		kind = "directory"
	}

	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info(kind+" does not exist", zap.String("path", full))
			return
		}
		s.logger.Warn("failed to delete "+kind, zap.String("path", full), zap.Error(err))
		return
	}

	s.logger.Debug("deleted "+kind, zap.String("path", full))
}
