package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for client operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records a server request with duration and error status.
	RecordRequest(ctx context.Context, meta OpMeta, duration time.Duration, err error)

	// RecordCoalesce records a request that joined an already in-flight one.
	RecordCoalesce(ctx context.Context, op string)

	// RecordCacheLookup records a cache lookup outcome.
	RecordCacheLookup(ctx context.Context, scope string, hit bool)

	// RecordStateChange records a playback state transition.
	RecordStateChange(ctx context.Context, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	coalesced    metric.Int64Counter
	cacheLookups metric.Int64Counter
	stateChanges metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"request.total",
		metric.WithDescription("Total number of server requests"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"request.errors",
		metric.WithDescription("Total number of failed server requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"request.duration_ms",
		metric.WithDescription("Server request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	coalesced, err := meter.Int64Counter(
		"dedup.coalesced.total",
		metric.WithDescription("Requests that joined an in-flight identical request"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"cache.lookups.total",
		metric.WithDescription("Cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	stateChanges, err := meter.Int64Counter(
		"player.state_changes.total",
		metric.WithDescription("Playback state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		coalesced:    coalesced,
		cacheLookups: cacheLookups,
		stateChanges: stateChanges,
	}, nil
}

// RecordRequest records metrics for a server request.
func (m *metricsImpl) RecordRequest(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("op.name", meta.Op),
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("op.component", meta.Component))
	}
	if meta.Entity != "" {
		attrs = append(attrs, attribute.String("media.entity", meta.Entity))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordCoalesce(ctx context.Context, op string) {
	m.coalesced.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op.name", op),
	))
}

func (m *metricsImpl) RecordCacheLookup(ctx context.Context, scope string, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.scope", scope),
		attribute.Bool("cache.hit", hit),
	))
}

func (m *metricsImpl) RecordStateChange(ctx context.Context, from, to string) {
	m.stateChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("player.from", from),
		attribute.String("player.to", to),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordRequest(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordCoalesce(ctx context.Context, op string)                  {}
func (m *noopMetrics) RecordCacheLookup(ctx context.Context, scope string, hit bool)  {}
func (m *noopMetrics) RecordStateChange(ctx context.Context, from, to string)         {}

// NewNoopMetrics returns a Metrics that records nothing. Useful when a
// component requires Metrics but telemetry is disabled.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}
