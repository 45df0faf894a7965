package objectstore

import (
	"bytes"
	"context"
	"io"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/textcodec"
	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const textContentType = "text/plain; charset=utf-8"

// SaveBinary uploads data to path, replacing any existing object.
func (s *Store) SaveBinary(ctx context.Context, path string, data []byte) error {
	if err := storage.ValidatePayload(storage.OpSaveBinary, path, data); err != nil {
		return err
	}
	key, err := s.prepare(ctx, storage.OpSaveBinary, path)
	if err != nil {
		return err
	}

	contentType := mimetype.Detect(data).String()
	err = s.put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		s.logger.Error("save object failed", zap.String("path", path), zap.Error(err))
		return storage.IOError(storage.OpSaveBinary, path, err)
	}

	s.logger.Debug("object written",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.String("content_type", contentType))
	return nil
}

// SaveTextRecords uploads the BOM-prefixed concatenation of records to path.
func (s *Store) SaveTextRecords(ctx context.Context, path string, records []string) error {
	if err := storage.ValidateRecords(storage.OpSaveTextRecords, path, records); err != nil {
		return err
	}
	key, err := s.prepare(ctx, storage.OpSaveTextRecords, path)
	if err != nil {
		return err
	}

	body, size := textcodec.Encode(records)
	if err := s.put(ctx, key, body, size, textContentType); err != nil {
		s.logger.Error("save text records failed", zap.String("path", path), zap.Error(err))
		return storage.IOError(storage.OpSaveTextRecords, path, err)
	}

	s.logger.Debug("text records written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int64("bytes", size))
	return nil
}

// SetReadOnly is accepted for interface parity. Object permissions are governed
// by bucket policy, so nothing changes.
func (s *Store) SetReadOnly(ctx context.Context, path string) error {
	if _, err := s.prepare(ctx, storage.OpSetReadOnly, path); err != nil {
		return err
	}
	s.logger.Debug("read-only not supported by object storage, ignoring", zap.String("path", path))
	return nil
}

// ReadBinary downloads the full object at path.
func (s *Store) ReadBinary(ctx context.Context, path string) ([]byte, error) {
	key, err := s.prepare(ctx, storage.OpReadBinary, path)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("reading object", zap.String("path", path))
	data, err := s.get(ctx, key)
	if err != nil {
		s.logger.Error("read object failed", zap.String("path", path), zap.Error(err))
		return nil, storage.IOError(storage.OpReadBinary, path, err)
	}
	return data, nil
}

func (s *Store) put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.do(ctx, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
		return err
	})
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.do(ctx, func(ctx context.Context) error {
		obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return err
		}
		defer obj.Close()

		data, err = io.ReadAll(obj)
		return err
	})
	return data, notExist(err)
}
