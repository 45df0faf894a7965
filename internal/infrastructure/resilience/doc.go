/*
Package resilience provides a circuit breaker for remote storage backings.

The breaker has three states:
  - Closed: calls pass through; consecutive failures are counted
  - Open: calls fail fast with ErrCircuitOpen until Timeout elapses
  - Half-Open: a limited number of trial calls decide between closing and reopening

Settings.IsFailure lets callers exclude expected errors, such as a missing
object, from the failure count.

Usage:

	breaker := resilience.New("objectstore", resilience.Settings{
		MaxFailures: 5,
		Timeout:     30 * time.Second,
		IsFailure: func(err error) bool {
			return !errors.Is(err, fs.ErrNotExist)
		},
	})
	err := breaker.Execute(func() error {
		return client.RemoveObject(ctx, bucket, key, opts)
	})
*/
package resilience
