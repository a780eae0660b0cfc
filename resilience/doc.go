// Package resilience provides resilience patterns for catalog and streaming
// requests.
//
// A mobile client talks to one remote server over a flaky link, so every
// network call goes through some combination of these patterns. They can be
// used independently or composed into an execution pipeline.
//
// # Patterns
//
//   - Circuit Breaker: stops hammering the server after repeated failures,
//     letting the head unit fall back to cached data until the link recovers.
//
//   - Retry: automatically retries failed requests with configurable
//     backoff strategies (exponential, linear, constant).
//
//   - Rate Limiter: throttles bursty background work such as cover-art
//     prefetching so it never starves interactive requests. Backed by
//     golang.org/x/time/rate.
//
//   - Bulkhead: bounds concurrent background fetches (page prefetch,
//     artwork). Backed by golang.org/x/sync/semaphore.
//
//   - Timeout: ensures requests complete within a time limit.
//
// # Usage
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: time.Minute,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: 100 * time.Millisecond,
//	    })),
//	    resilience.WithTimeout(15*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return fetchPage(ctx)
//	})
//
// Retry policy interacts with error classification: the catalog client wires
// RetryIf to its retryable error categories so that 4xx responses fail fast
// while network errors and 5xx responses retry.
package resilience
