package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OpMeta identifies a client operation for telemetry purposes.
type OpMeta struct {
	Component string // owning component, e.g. "catalog" or "player" (may be empty)
	Op        string // operation name, e.g. "listAlbums" (required)
	Entity    string // entity kind: album, artist, playlist, track (optional)
	ID        string // entity identifier (optional)
}

// SpanName returns the deterministic span name for this operation.
// Format: <component>.<op> or op.<op>
func (m OpMeta) SpanName() string {
	if m.Component != "" {
		return m.Component + "." + m.Op
	}
	return "op." + m.Op
}

// Qualified returns the fully qualified operation identifier.
func (m OpMeta) Qualified() string {
	if m.Component != "" {
		return m.Component + "." + m.Op
	}
	return m.Op
}

// Validate checks that the required metadata is present.
func (m OpMeta) Validate() error {
	if m.Op == "" {
		return ErrMissingOp
	}
	return nil
}

// Tracer opens and closes spans named after client operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan opens a span carrying the operation's metadata.
	StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span)

	// EndSpan closes the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer wraps an OpenTelemetry tracer in the operation-aware surface.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// spanAttributes flattens the non-empty meta fields into span attributes.
// op.error starts false; EndSpan flips it on failure.
func spanAttributes(meta OpMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("op.name", meta.Op),
		attribute.Bool("op.error", false),
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("op.component", meta.Component))
	}
	if meta.Entity != "" {
		attrs = append(attrs, attribute.String("media.entity", meta.Entity))
	}
	if meta.ID != "" {
		attrs = append(attrs, attribute.String("media.id", meta.ID))
	}
	return attrs
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(spanAttributes(meta)...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("op.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer keeps the span plumbing alive when tracing is off.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
