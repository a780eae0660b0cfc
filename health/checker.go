package health

import (
	"context"
	"time"
)

// Status is the health state of one component.
type Status int

const (
	// StatusHealthy means the component is fully operational.
	StatusHealthy Status = iota

	// StatusDegraded means the component works but below par, e.g. the
	// server answers pings slowly or the cache is near capacity.
	StatusDegraded

	// StatusUnhealthy means the component is down.
	StatusUnhealthy
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single health check.
type Result struct {
	// Status classifies the component's state.
	Status Status

	// Message is a short summary suitable for a diagnostics screen.
	Message string

	// Details carries checker-specific data such as ping latency or
	// cache hit rate.
	Details map[string]any

	// Duration is how long the check took.
	Duration time.Duration

	// Timestamp is when the check ran.
	Timestamp time.Time

	// Error is the underlying failure, if any.
	Error error
}

func newResult(status Status, message string) Result {
	return Result{Status: status, Message: message, Timestamp: time.Now()}
}

// Healthy builds a passing result.
func Healthy(message string) Result {
	return newResult(StatusHealthy, message)
}

// Degraded builds a result for a component that works but poorly.
func Degraded(message string) Result {
	return newResult(StatusDegraded, message)
}

// Unhealthy builds a failing result. err may be nil.
func Unhealthy(message string, err error) Result {
	r := newResult(StatusUnhealthy, message)
	r.Error = err
	return r
}

// WithDetails returns a copy of the result carrying the given details.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithDuration returns a copy of the result with the check duration set.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// Checker reports the health of one component: the streaming server, the
// auth session, the local cache.
type Checker interface {
	// Name identifies the component being checked.
	Name() string

	// Check runs the health check. Implementations must honor ctx
	// cancellation; slow checks are cut off by the aggregator.
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a plain function into a Checker.
type CheckerFunc struct {
	name string
	fn   func(ctx context.Context) Result
}

// NewCheckerFunc wraps fn as a named Checker.
func NewCheckerFunc(name string, fn func(ctx context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (c *CheckerFunc) Name() string {
	return c.name
}

// Check invokes the wrapped function.
func (c *CheckerFunc) Check(ctx context.Context) Result {
	return c.fn(ctx)
}
