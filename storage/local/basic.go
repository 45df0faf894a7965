package local

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/textcodec"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"go.uber.org/zap"
)

// SaveBinary writes data to path, replacing any existing content.
func (s *Store) SaveBinary(ctx context.Context, path string, data []byte) error {
	if err := storage.ValidatePayload(storage.OpSaveBinary, path, data); err != nil {
		return err
	}
	full, err := s.prepare(ctx, storage.OpSaveBinary, path)
	if err != nil {
		return err
	}

	err = s.writeFile(full, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		s.logger.Error("save file failed", zap.String("path", path), zap.Error(err))
		return storage.IOError(storage.OpSaveBinary, path, err)
	}

	s.logger.Debug("file written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// SaveTextRecords writes a UTF-8 BOM and then every record verbatim.
// Records carry their own line terminators.
func (s *Store) SaveTextRecords(ctx context.Context, path string, records []string) error {
	if err := storage.ValidateRecords(storage.OpSaveTextRecords, path, records); err != nil {
		return err
	}
	full, err := s.prepare(ctx, storage.OpSaveTextRecords, path)
	if err != nil {
		return err
	}

	var written int64
	err = s.writeFile(full, func(w io.Writer) error {
		n, err := textcodec.WriteTo(w, records)
		written = n
		return err
	})
	if err != nil {
		s.logger.Error("save text records failed", zap.String("path", path), zap.Error(err))
		return storage.IOError(storage.OpSaveTextRecords, path, err)
	}

	s.logger.Debug("text records written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int64("bytes", written))
	return nil
}

// ReadBinary loads the whole file at path into memory.
func (s *Store) ReadBinary(ctx context.Context, path string) ([]byte, error) {
	full, err := s.prepare(ctx, storage.OpReadBinary, path)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("reading file", zap.String("path", path))
	data, err := os.ReadFile(full)
	if err != nil {
		s.logger.Error("read file failed", zap.String("path", path), zap.Error(err))
		return nil, storage.IOError(storage.OpReadBinary, path, err)
	}
	return data, nil
}

// SetReadOnly clears every write permission bit on path. Failures are logged only.
func (s *Store) SetReadOnly(ctx context.Context, path string) error {
	full, err := s.prepare(ctx, storage.OpSetReadOnly, path)
	if err != nil {
		return err
	}

	info, err := os.Stat(full)
	if err != nil {
		s.logger.Debug("set read-only skipped", zap.String("path", path), zap.Error(err))
		return nil
	}

	mode := info.Mode().Perm() &^ 0o222
	if err := os.Chmod(full, mode); err != nil {
		s.logger.Debug("set read-only failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	s.logger.Debug("file set read-only", zap.String("path", path), zap.Stringer("mode", mode))
	return nil
}

// writeFile truncates or creates full and hands a buffered writer to fill.
// The file is closed on every path; a close error is reported if nothing
// failed earlier.
func (s *Store) writeFile(full string, fill func(w io.Writer) error) (err error) {
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.fileMode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		return err
	}
	return bw.Flush()
}
