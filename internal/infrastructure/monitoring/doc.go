/*
Package monitoring provides Prometheus metrics for storage operations.

Metrics:
  - storage_operations_total{op, result}: operation count by outcome
  - storage_operation_duration_seconds{op}: latency histogram
  - storage_bytes_total{op, direction}: bytes stored by writes and returned by reads
  - storage_breaker_state{name}: circuit breaker state of remote backings
  - storage_breaker_transitions_total{name, to}: breaker state changes

Metrics are registered against a caller-supplied prometheus.Registerer.
Breaker metrics come from NewBreakerMetrics so a remote backing and
the operation decorator can share one registry. Registering the same metrics
twice reuses the collectors already in the registry.

Usage:

	reg := prometheus.NewRegistry()
	m, err := monitoring.NewMetrics(reg)
	if err != nil {
		return err
	}
	m.RecordOperation("read_binary", monitoring.ResultOK, time.Since(start))
*/
package monitoring
