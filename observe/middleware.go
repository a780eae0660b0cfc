package observe

import (
	"context"
	"time"
)

// RequestFunc is the signature for instrumented request functions.
type RequestFunc func(ctx context.Context) error

// Middleware runs requests under a span with their duration metered and
// their outcome logged.
//
// Contract:
//   - Concurrency: Do is safe for concurrent use.
//   - Context: the span's context is what fn receives.
//   - Errors: fn's error is recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware assembles a Middleware from its three components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// Do runs fn inside a span, records request metrics, and logs the outcome.
func (m *Middleware) Do(ctx context.Context, meta OpMeta, fn RequestFunc) error {
	start := time.Now()
	ctx, span := m.tracer.StartSpan(ctx, meta)

	err := fn(ctx)
	elapsed := time.Since(start)

	m.tracer.EndSpan(span, err)
	m.metrics.RecordRequest(ctx, meta, elapsed, err)
	m.logOutcome(ctx, meta, elapsed, err)
	return err
}

func (m *Middleware) logOutcome(ctx context.Context, meta OpMeta, elapsed time.Duration, err error) {
	log := m.logger.WithOp(meta)
	fields := []Field{{Key: "duration_ms", Value: float64(elapsed.Milliseconds())}}
	if err != nil {
		log.Error(ctx, "request failed", append(fields, Field{Key: "error", Value: err.Error()})...)
		return
	}
	log.Debug(ctx, "request completed", fields...)
}

// Metrics exposes the middleware's metrics recorder so callers can emit
// counters outside the request path (coalesce, cache lookups).
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// MiddlewareFromObserver wires a Middleware off an assembled Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// NewNoopMiddleware returns a Middleware that traces to a no-op tracer and
// records nothing.
func NewNoopMiddleware() *Middleware {
	return NewMiddleware(newNoopTracer(), &noopMetrics{}, &noopLogger{})
}
