package resilience

import (
	"context"
	"sync"
	"time"
)

// State is the circuit breaker's position.
type State int

const (
	// StateClosed lets requests through to the server.
	StateClosed State = iota
	// StateOpen sheds every request so the UI falls back to cached data.
	StateOpen
	// StateHalfOpen lets a few trial requests through to see whether the
	// link recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// MaxFailures is how many consecutive failures trip the breaker open.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the breaker stays open before letting trial
	// requests through. Default: 30 seconds
	ResetTimeout time.Duration

	// HalfOpenMaxRequests caps in-flight trial requests while half-open.
	// Default: 1
	HalfOpenMaxRequests int

	// OnStateChange is invoked on every transition, e.g. to flip the UI
	// into its offline banner.
	OnStateChange func(from, to State)

	// IsFailure decides which errors count against MaxFailures. The
	// catalog client wires this to its retryable categories so that 4xx
	// responses, which say nothing about server health, never trip the
	// breaker. Default: every non-nil error counts.
	IsFailure func(err error) bool
}

// CircuitBreaker stops the client from hammering a server that has stopped
// answering. An in-car client behind a dead radio link gains nothing from
// queueing doomed requests; tripping open lets browse screens render from
// cache until the link comes back.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int // consecutive failures while closed
	successes   int
	lastFailure time.Time
	trials      int // trial requests admitted while half-open
}

// NewCircuitBreaker creates a circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxRequests <= 0 {
		config.HalfOpenMaxRequests = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{config: config, state: StateClosed}
}

// Execute runs op if the breaker admits it, recording the outcome.
// Rejected calls return ErrCircuitOpen without invoking op.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.admit(); err != nil {
		return err
	}

	err := op(ctx)
	cb.record(err)
	return err
}

// State returns the breaker's current position, moving open to half-open
// when the reset timeout has elapsed.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

// Reset forces the breaker closed and clears its counters, e.g. when the
// user switches servers.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	prev := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.trials = 0

	if prev != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(prev, StateClosed)
	}
}

// admit decides whether a request may go out right now.
func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.stateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.trials >= cb.config.HalfOpenMaxRequests {
			return ErrCircuitOpen
		}
		cb.trials++
	}
	return nil
}

// record folds one request outcome into the breaker state.
func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failed := cb.config.IsFailure(err)
	prev := cb.state

	switch cb.state {
	case StateClosed:
		if !failed {
			cb.failures = 0
			break
		}
		cb.failures++
		cb.lastFailure = time.Now()
		if cb.failures >= cb.config.MaxFailures {
			cb.state = StateOpen
		}

	case StateHalfOpen:
		if failed {
			// The trial showed the link is still down; restart the
			// open-state clock.
			cb.lastFailure = time.Now()
			cb.state = StateOpen
			break
		}
		cb.successes++
		cb.state = StateClosed
		cb.failures = 0
		cb.successes = 0
	}

	if prev != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(prev, cb.state)
	}
}

// stateLocked returns the current state, promoting open to half-open once
// ResetTimeout has passed since the last failure.
func (cb *CircuitBreaker) stateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.config.ResetTimeout {
		cb.state = StateHalfOpen
		cb.trials = 0
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

// CircuitBreakerMetrics is a snapshot of the breaker's counters.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int
	Successes   int
	LastFailure time.Time
}

// Metrics returns a snapshot of the breaker's counters.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:       cb.stateLocked(),
		Failures:    cb.failures,
		Successes:   cb.successes,
		LastFailure: cb.lastFailure,
	}
}
