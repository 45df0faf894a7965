package monitoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for storage operations.
const (
	ResultOK              = "ok"
	ResultInvalidArgument = "invalid_argument"
	ResultIOError         = "io_error"
	ResultCanceled        = "canceled"
)

// Metrics holds all Prometheus metrics for storage operations
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	BytesTotal        *prometheus.CounterVec
}

// NewMetrics registers storage metrics with reg. A nil reg uses the default
// registerer. Collectors already registered under the same names are reused,
// so several instrumented stores can share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	ops, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Total number of storage operations by outcome",
		},
		[]string{"op", "result"},
	))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	))
	if err != nil {
		return nil, err
	}

	bytes, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_bytes_total",
			Help: "Bytes moved by storage operations: stored bytes for writes, bytes returned to callers for reads",
		},
		[]string{"op", "direction"},
	))
	if err != nil {
		return nil, err
	}

	return &Metrics{OperationsTotal: ops, OperationDuration: duration, BytesTotal: bytes}, nil
}

// RecordOperation records one finished operation
func (m *Metrics) RecordOperation(op, result string, duration time.Duration) {
	m.OperationsTotal.WithLabelValues(op, result).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// AddBytesRead counts payload bytes returned to callers
func (m *Metrics) AddBytesRead(op string, n int) {
	m.BytesTotal.WithLabelValues(op, "read").Add(float64(n))
}

// AddBytesWritten counts bytes handed to the backing store
func (m *Metrics) AddBytesWritten(op string, n int) {
	m.BytesTotal.WithLabelValues(op, "write").Add(float64(n))
}

// BreakerMetrics publishes circuit breaker state for remote backings. It is
// registered separately so a backend and its decorator can share a registry.
type BreakerMetrics struct {
	State       *prometheus.GaugeVec
	Transitions *prometheus.CounterVec
}

// NewBreakerMetrics registers breaker metrics with reg, reusing collectors
// that are already registered. A nil reg uses the default registerer.
func NewBreakerMetrics(reg prometheus.Registerer) (*BreakerMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	state, err := register(reg, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storage_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	))
	if err != nil {
		return nil, err
	}

	transitions, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_breaker_transitions_total",
			Help: "Circuit breaker state changes",
		},
		[]string{"name", "to"},
	))
	if err != nil {
		return nil, err
	}

	return &BreakerMetrics{State: state, Transitions: transitions}, nil
}

// SetState publishes a breaker state change
func (b *BreakerMetrics) SetState(name string, state int, label string) {
	b.State.WithLabelValues(name).Set(float64(state))
	b.Transitions.WithLabelValues(name, label).Inc()
}

// register adds c to reg. When an identical collector is already registered
// that one is returned instead.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, fmt.Errorf("register metrics: %w", err)
}
