package resilience

import (
	"context"
	"time"
)

// layer is one resilience pattern wrapping an operation. Every pattern in
// this package satisfies it.
type layer interface {
	Execute(ctx context.Context, op func(context.Context) error) error
}

// Executor composes the configured patterns around a single remote call so
// call sites deal with one Execute instead of five.
type Executor struct {
	limiter  *RateLimiter
	bulkhead *Bulkhead
	breaker  *CircuitBreaker
	retry    *Retry
	timeout  *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor from the given patterns. With no options
// it is a transparent pass-through.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker sheds requests while the server link is down.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.breaker = cb }
}

// WithRetry retries transient failures with backoff.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithRateLimiter throttles the request rate.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) { e.limiter = rl }
}

// WithBulkhead bounds concurrent requests.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithTimeout bounds each attempt to the given duration.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout}) }
}

// WithTimeoutConfig is WithTimeout with a caller-built Timeout.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) { e.timeout = t }
}

// Execute runs op through every configured pattern. From the outside in the
// order is rate limiter, bulkhead, circuit breaker, retry, timeout: the
// cheap admission checks run before anything that could spend time, the
// breaker sees one outcome per user-visible call rather than one per retry
// attempt, and the timeout bounds each individual attempt.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op
	for _, l := range e.chain() {
		inner := run
		wrap := l
		run = func(ctx context.Context) error {
			return wrap.Execute(ctx, inner)
		}
	}
	return run(ctx)
}

// chain lists the configured patterns innermost first.
func (e *Executor) chain() []layer {
	var chain []layer
	if e.timeout != nil {
		chain = append(chain, e.timeout)
	}
	if e.retry != nil {
		chain = append(chain, e.retry)
	}
	if e.breaker != nil {
		chain = append(chain, e.breaker)
	}
	if e.bulkhead != nil {
		chain = append(chain, e.bulkhead)
	}
	if e.limiter != nil {
		chain = append(chain, e.limiter)
	}
	return chain
}
