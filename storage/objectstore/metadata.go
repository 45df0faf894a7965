package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	gopath "path"
	"sort"
	"strings"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/textcodec"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Exists reports whether path names an object or an emulated directory.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	key, err := s.prepare(ctx, storage.OpExists, path)
	if err != nil {
		return false, err
	}

	isFile, err := s.objectExists(ctx, key)
	if err != nil {
		return false, storage.IOError(storage.OpExists, path, err)
	}
	if isFile {
		return true, nil
	}

	isDir, err := s.dirExists(ctx, key)
	if err != nil {
		return false, storage.IOError(storage.OpExists, path, err)
	}
	return isDir, nil
}

// Stat returns object metadata, or a directory entry for emulated directories.
func (s *Store) Stat(ctx context.Context, path string) (storage.FileInfo, error) {
	key, err := s.prepare(ctx, storage.OpStat, path)
	if err != nil {
		return storage.FileInfo{}, err
	}

	if key != "" {
		info, err := s.stat(ctx, key)
		if err == nil {
			return storage.FileInfo{
				Name:        gopath.Base(key),
				Path:        path,
				Size:        info.Size,
				Modified:    info.LastModified,
				ContentType: info.ContentType,
			}, nil
		}
		if !isNotFound(err) {
			return storage.FileInfo{}, storage.IOError(storage.OpStat, path, err)
		}
	}

	isDir, err := s.dirExists(ctx, key)
	if err != nil {
		return storage.FileInfo{}, storage.IOError(storage.OpStat, path, err)
	}
	if !isDir {
		return storage.FileInfo{}, storage.IOError(storage.OpStat, path, fs.ErrNotExist)
	}

	fi := storage.FileInfo{Name: gopath.Base("/" + key), Path: path, IsDir: true}
	if key != "" {
		if marker, err := s.stat(ctx, dirKey(key)); err == nil {
			fi.Modified = marker.LastModified
		}
	}
	return fi, nil
}

// List returns the objects beneath dir whose dir-relative key matches pattern,
// joined onto dir and sorted. Directory markers are never returned.
func (s *Store) List(ctx context.Context, dir, pattern string) ([]string, error) {
	key, err := s.prepare(ctx, storage.OpList, dir)
	if err != nil {
		return nil, err
	}
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return nil, storage.InvalidArgument(storage.OpList, dir, "invalid pattern %q", pattern)
	}

	isFile, err := s.objectExists(ctx, key)
	if err != nil {
		return nil, storage.IOError(storage.OpList, dir, err)
	}
	if isFile {
		return nil, storage.IOError(storage.OpList, dir, errors.New("not a directory"))
	}

	prefix := dirKey(key)
	keys, err := s.listKeys(ctx, prefix, true, 0)
	if err != nil {
		return nil, storage.IOError(storage.OpList, dir, err)
	}
	if len(keys) == 0 {
		return nil, storage.IOError(storage.OpList, dir, fs.ErrNotExist)
	}

	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		rel := strings.TrimPrefix(k, prefix)
		if rel == "" || strings.HasSuffix(rel, "/") {
			continue
		}
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return nil, storage.InvalidArgument(storage.OpList, dir, "invalid pattern %q: %v", pattern, err)
		}
		if ok {
			paths = append(paths, gopath.Join(dir, rel))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadTextRecords downloads path and splits it back into records.
func (s *Store) ReadTextRecords(ctx context.Context, path string) ([]string, error) {
	key, err := s.prepare(ctx, storage.OpReadTextRecords, path)
	if err != nil {
		return nil, err
	}

	data, err := s.get(ctx, key)
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

func (s *Store) stat(ctx context.Context, key string) (minio.ObjectInfo, error) {
	var info minio.ObjectInfo
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		info, err = s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
		return err
	})
	return info, notExist(err)
}

// objectExists reports whether a plain object lives at key.
func (s *Store) objectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	_, err := s.stat(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// dirExists reports whether key has a marker or any object beneath it.
func (s *Store) dirExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}
	keys, err := s.listKeys(ctx, dirKey(key), false, 1)
	return len(keys) > 0, err
}

// listKeys returns keys under prefix. A positive limit stops the listing early.
func (s *Store) listKeys(ctx context.Context, prefix string, recursive bool, limit int) ([]string, error) {
	var keys []string
	err := s.do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: recursive}
		for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
			if obj.Err != nil {
				return fmt.Errorf("list %s: %w", prefix, obj.Err)
			}
			keys = append(keys, obj.Key)
			if limit > 0 && len(keys) >= limit {
				return nil
			}
		}
		return nil
	})
	return keys, err
}
