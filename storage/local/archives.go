package local

import (
	"context"
	"fmt"
	"os"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/archive"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"go.uber.org/zap"
)

// BuildArchive writes a ZIP at dest with one entry per source, in order,
// each named by the source's base name. Duplicate base names are not
// detected. On failure the partially written archive is left on disk.
func (s *Store) BuildArchive(ctx context.Context, sources []string, dest string) (err error) {
	if err := storage.ValidateSources(storage.OpBuildArchive, sources, dest); err != nil {
		return err
	}
	fullDest, err := s.prepare(ctx, storage.OpBuildArchive, dest)
	if err != nil {
		return err
	}
	fullSources := make([]string, len(sources))
	for i, src := range sources {
		if fullSources[i], err = s.resolve(storage.OpBuildArchive, src); err != nil {
			return err
		}
	}

	out, err := os.OpenFile(fullDest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.fileMode)
	if err != nil {
		s.logger.Error("create archive failed", zap.String("path", dest), zap.Error(err))
		return storage.IOError(storage.OpBuildArchive, dest, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			s.logger.Error("close archive failed", zap.String("path", dest), zap.Error(cerr))
			err = storage.IOError(storage.OpBuildArchive, dest, cerr)
		}
	}()

	zw, err := archive.NewWriter(out, s.archive)
	if err != nil {
		return storage.IOError(storage.OpBuildArchive, dest, err)
	}

	for i, src := range sources {
		if err := s.addToArchive(ctx, zw, src, fullSources[i]); err != nil {
			s.logger.Error("zip file failed",
				zap.String("archive", dest),
				zap.String("source", src),
				zap.Error(err))
			return storage.IOError(storage.OpBuildArchive, src, err)
		}
	}

	if err := zw.Close(); err != nil {
		s.logger.Error("finalize archive failed", zap.String("path", dest), zap.Error(err))
		return storage.IOError(storage.OpBuildArchive, dest, err)
	}

	s.logger.Info("archive created", zap.String("path", dest), zap.Int("entries", zw.Count()))
	return nil
}

func (s *Store) addToArchive(ctx context.Context, zw *archive.Writer, src, full string) error {
	f, err := os.Open(full)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	n, err := zw.Add(ctx, archive.EntryName(src), f)
	if err != nil {
		return err
	}

	s.logger.Info("zipping file", zap.String("source", src), zap.Int64("bytes", n))
	return nil
}
