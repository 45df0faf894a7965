package storage

import (
	"context"
	"errors"
	"time"

	"github.com/GriffinCanCode/AgentOS/storagekit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/storagekit/internal/textcodec"
	"github.com/prometheus/client_golang/prometheus"
)

// Instrument wraps b so every call is counted and timed in reg. Instrumenting
// several backends against one registry shares the same series.
func Instrument(b Backend, reg prometheus.Registerer) (Backend, error) {
	metrics, err := monitoring.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &instrumented{next: b, metrics: metrics}, nil
}

type instrumented struct {
	next    Backend
	metrics *monitoring.Metrics
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.metrics.RecordOperation(op, resultLabel(err), time.Since(start))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return monitoring.ResultOK
	case errors.Is(err, ErrInvalidArgument):
		return monitoring.ResultInvalidArgument
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return monitoring.ResultCanceled
	default:
		return monitoring.ResultIOError
	}
}

func (i *instrumented) SaveBinary(ctx context.Context, path string, data []byte) error {
	start := time.Now()
	err := i.next.SaveBinary(ctx, path, data)
	if err == nil {
		i.metrics.AddBytesWritten(OpSaveBinary, len(data))
	}
	i.observe(OpSaveBinary, start, err)
	return err
}

func (i *instrumented) SaveTextRecords(ctx context.Context, path string, records []string) error {
	start := time.Now()
	err := i.next.SaveTextRecords(ctx, path, records)
	if err == nil {
		n := len(textcodec.BOM)
		for _, r := range records {
			n += len(r)
		}
		i.metrics.AddBytesWritten(OpSaveTextRecords, n)
	}
	i.observe(OpSaveTextRecords, start, err)
	return err
}

func (i *instrumented) CreateDirectory(ctx context.Context, path string) error {
	start := time.Now()
	err := i.next.CreateDirectory(ctx, path)
	i.observe(OpCreateDirectory, start, err)
	return err
}

func (i *instrumented) SetReadOnly(ctx context.Context, path string) error {
	start := time.Now()
	err := i.next.SetReadOnly(ctx, path)
	i.observe(OpSetReadOnly, start, err)
	return err
}

func (i *instrumented) ReadBinary(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := i.next.ReadBinary(ctx, path)
	if err == nil {
		i.metrics.AddBytesRead(OpReadBinary, len(data))
	}
	i.observe(OpReadBinary, start, err)
	return data, err
}

func (i *instrumented) DeleteOne(ctx context.Context, path string) error {
	start := time.Now()
	err := i.next.DeleteOne(ctx, path)
	i.observe(OpDeleteOne, start, err)
	return err
}

func (i *instrumented) DeleteTree(ctx context.Context, path string) error {
	start := time.Now()
	err := i.next.DeleteTree(ctx, path)
	i.observe(OpDeleteTree, start, err)
	return err
}

func (i *instrumented) BuildArchive(ctx context.Context, sources []string, dest string) error {
	start := time.Now()
	err := i.next.BuildArchive(ctx, sources, dest)
	i.observe(OpBuildArchive, start, err)
	return err
}

func (i *instrumented) Exists(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := i.next.Exists(ctx, path)
	i.observe(OpExists, start, err)
	return ok, err
}

func (i *instrumented) Stat(ctx context.Context, path string) (FileInfo, error) {
	start := time.Now()
	info, err := i.next.Stat(ctx, path)
	i.observe(OpStat, start, err)
	return info, err
}

func (i *instrumented) List(ctx context.Context, dir, pattern string) ([]string, error) {
	start := time.Now()
	names, err := i.next.List(ctx, dir, pattern)
	i.observe(OpList, start, err)
	return names, err
}

func (i *instrumented) ReadTextRecords(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	records, err := i.next.ReadTextRecords(ctx, path)
	if err == nil {
		n := 0
		for _, r := range records {
			n += len(r)
		}
		i.metrics.AddBytesRead(OpReadTextRecords, n)
	}
	i.observe(OpReadTextRecords, start, err)
	return records, err
}
