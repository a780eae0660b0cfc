package resilience

import "errors"

// Sentinel errors reported by the resilience layers. Callers branch on them
// with errors.Is, e.g. to show an offline banner on ErrCircuitOpen.
var (
	// ErrCircuitOpen means the breaker is shedding requests.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrMaxRetriesExceeded means the retry budget ran out.
	ErrMaxRetriesExceeded = errors.New("resilience: max retries exceeded")

	// ErrRateLimitExceeded means no token was available in time.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull means every concurrency slot was taken.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout means the attempt outlived its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")
)
