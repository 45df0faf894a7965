package objectstore

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// CreateDirectory writes the directory marker for path. Best-effort: failures
// are logged and swallowed.
func (s *Store) CreateDirectory(ctx context.Context, path string) error {
	key, err := s.prepare(ctx, storage.OpCreateDirectory, path)
	if err != nil {
		return err
	}
	if key == "" {
		s.logger.Debug("directory already exists", zap.String("path", path))
		return nil
	}

	isFile, err := s.objectExists(ctx, key)
	if err != nil {
		s.logger.Warn("create directory failed", zap.String("path", path), zap.Error(err))
		return ctx.Err()
	}
	if isFile {
		s.logger.Warn("path exists and is not a directory", zap.String("path", path))
		return nil
	}

	if err := s.put(ctx, dirKey(key), bytes.NewReader(nil), 0, "application/x-directory"); err != nil {
		s.logger.Warn("create directory failed", zap.String("path", path), zap.Error(err))
		return ctx.Err()
	}

	s.logger.Info("directory created", zap.String("path", path))
	return nil
}

// DeleteOne removes the object at path, or the marker of an empty directory.
// Best-effort: a missing path is logged at info, a non-empty directory at warn.
func (s *Store) DeleteOne(ctx context.Context, path string) error {
	key, err := s.prepare(ctx, storage.OpDeleteOne, path)
	if err != nil {
		return err
	}

	isFile, err := s.objectExists(ctx, key)
	if err != nil {
		s.logger.Warn("failed to delete file", zap.String("path", path), zap.Error(err))
		return ctx.Err()
	}
	if isFile {
		s.remove(ctx, path, key, "file")
		return ctx.Err()
	}

	children, err := s.listKeys(ctx, dirKey(key), false, 2)
	if err != nil {
		s.logger.Warn("failed to delete directory", zap.String("path", path), zap.Error(err))
		return ctx.Err()
	}

	marker := false
	for _, k := range children {
		if k == dirKey(key) {
			marker = true
			continue
		}
		s.logger.Warn("failed to delete directory",
			zap.String("path", path),
			zap.Error(errors.New("directory not empty")))
		return nil
	}
	if !marker {
		s.logger.Info("path does not exist", zap.String("path", path))
		return nil
	}

	s.remove(ctx, path, dirKey(key), "directory")
	return ctx.Err()
}

// DeleteTree removes path and every object beneath it. Best-effort: each
// failed removal is logged and the rest continue.
func (s *Store) DeleteTree(ctx context.Context, path string) error {
	key, err := s.prepare(ctx, storage.OpDeleteTree, path)
	if err != nil {
		return err
	}

	isFile, err := s.objectExists(ctx, key)
	if err != nil {
		s.logger.Warn("cannot stat path", zap.String("path", path), zap.Error(err))
		return ctx.Err()
	}
	if isFile {
		s.remove(ctx, path, key, "file")
		return ctx.Err()
	}

	keys, err := s.listKeys(ctx, dirKey(key), true, 0)
	if err != nil {
		s.logger.Warn("cannot list directory", zap.String("path", path), zap.Error(err))
		return ctx.Err()
	}
	if len(keys) == 0 {
		s.logger.Info("directory does not exist", zap.String("path", path))
		return nil
	}

	failed := s.removeAll(ctx, keys)
	s.logger.Debug("deleted directory tree",
		zap.String("path", path),
		zap.Int("objects", len(keys)),
		zap.Int("failed", failed))
	return ctx.Err()
}

func (s *Store) remove(ctx context.Context, path, key, kind string) {
	err := s.do(ctx, func(ctx context.Context) error {
		return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	})
	switch {
	case err == nil:
		s.logger.Debug("deleted "+kind, zap.String("path", path))
	case isNotFound(err):
		s.logger.Info(kind+" does not exist", zap.String("path", path))
	default:
		s.logger.Warn("failed to delete "+kind, zap.String("path", path), zap.Error(err))
	}
}

// removeAll batch-deletes keys, logging every per-object failure. It returns
// the number of objects that could not be removed.
func (s *Store) removeAll(ctx context.Context, keys []string) int {
	failed := 0
	err := s.do(ctx, func(ctx context.Context) error {
		objects := make(chan minio.ObjectInfo)
		go func() {
			defer close(objects)
			for _, k := range keys {
				select {
				case objects <- minio.ObjectInfo{Key: k}:
				case <-ctx.Done():
					return
				}
			}
		}()

		for rerr := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
			if isNotFound(rerr.Err) {
				continue
			}
			failed++
			kind := "file"
			if strings.HasSuffix(rerr.ObjectName, "/") {
				kind = "directory"
			}
			s.logger.Warn("failed to delete "+kind,
				zap.String("key", rerr.ObjectName),
				zap.Error(rerr.Err))
		}
		return ctx.Err()
	})
	if err != nil && failed == 0 {
		s.logger.Warn("batch delete failed", zap.Int("objects", len(keys)), zap.Error(err))
		failed = len(keys)
	}
	return failed
}
