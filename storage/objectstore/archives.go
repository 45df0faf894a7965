package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/archive"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const zipContentType = "application/zip"

// BuildArchive streams a zip of sources, in order, into a single upload at
// dest. Entries are named by each source's base name. A failure aborts the
// upload, so no partial archive is stored.
func (s *Store) BuildArchive(ctx context.Context, sources []string, dest string) error {
	if err := storage.ValidateSources(storage.OpBuildArchive, sources, dest); err != nil {
		return err
	}
	destKey, err := s.prepare(ctx, storage.OpBuildArchive, dest)
	if err != nil {
		return err
	}
	keys := make([]string, len(sources))
	for i, src := range sources {
		if keys[i], err = s.key(storage.OpBuildArchive, src); err != nil {
			return err
		}
	}

	var failed string
	err = s.do(ctx, func(ctx context.Context) error {
		var ferr error
		failed, ferr = s.streamArchive(ctx, sources, keys, destKey)
		return ferr
	})
	if err != nil {
		path := dest
		if failed != "" {
			path = failed
		}
		s.logger.Error("zip file failed",
			zap.String("archive", dest),
			zap.String("source", failed),
			zap.Error(err))
		return storage.IOError(storage.OpBuildArchive, path, notExist(err))
	}

	s.logger.Info("archive created", zap.String("path", dest), zap.Int("entries", len(sources)))
	return nil
}

// streamArchive pipes the zip writer into PutObject. It returns the source
// that failed, if any. The upload goroutine is always joined.
func (s *Store) streamArchive(ctx context.Context, sources, keys []string, destKey string) (string, error) {
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, destKey, pr, -1, minio.PutObjectOptions{ContentType: zipContentType})
		_ = pr.CloseWithError(err)
		done <- err
	}()

	abort := func(src string, err error) (string, error) {
		_ = pw.CloseWithError(err)
		<-done
		return src, err
	}

	zw, err := archive.NewWriter(pw, s.archive)
	if err != nil {
		return abort("", err)
	}
	for i, src := range sources {
		if err := s.addToArchive(ctx, zw, src, keys[i]); err != nil {
			return abort(src, err)
		}
	}
	if err := zw.Close(); err != nil {
		return abort("", err)
	}
	if err := pw.Close(); err != nil {
		<-done
		return "", err
	}
	return "", <-done
}

func (s *Store) addToArchive(ctx context.Context, zw *archive.Writer, src, key string) error {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	if _, err := obj.Stat(); err != nil {
		if isNotFound(err) {
			if isDir, derr := s.hasChildren(ctx, key); derr == nil && isDir {
				return fmt.Errorf("%s is a directory", src)
			}
		}
		return err
	}

	n, err := zw.Add(ctx, archive.EntryName(src), obj)
	if err != nil {
		return err
	}

	s.logger.Info("zipping file", zap.String("source", src), zap.Int64("bytes", n))
	return nil
}

// hasChildren lists without the limiter or breaker; it only runs inside an
// operation that already holds both.
func (s *Store) hasChildren(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: dirKey(key), MaxKeys: 1}) {
		if obj.Err != nil {
			return false, obj.Err
		}
		return true, nil
	}
	return false, nil
}
