package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*tracerImpl, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return &tracerImpl{tracer: tp.Tracer("test")}, recorder
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[string]attribute.Value {
	attrs := make(map[string]attribute.Value)
	for _, a := range s.Attributes() {
		attrs[string(a.Key)] = a.Value
	}
	return attrs
}

func TestOpMeta_Naming(t *testing.T) {
	tests := []struct {
		name      string
		meta      OpMeta
		spanName  string
		qualified string
	}{
		{
			name:      "component qualified",
			meta:      OpMeta{Component: "catalog", Op: "listAlbums"},
			spanName:  "catalog.listAlbums",
			qualified: "catalog.listAlbums",
		},
		{
			name:      "bare operation",
			meta:      OpMeta{Op: "ping"},
			spanName:  "op.ping",
			qualified: "ping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.SpanName(); got != tt.spanName {
				t.Errorf("SpanName() = %q, want %q", got, tt.spanName)
			}
			if got := tt.meta.Qualified(); got != tt.qualified {
				t.Errorf("Qualified() = %q, want %q", got, tt.qualified)
			}
		})
	}
}

func TestOpMeta_Validate(t *testing.T) {
	if err := (OpMeta{Op: "getAlbum"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := (OpMeta{Component: "catalog"}).Validate(); !errors.Is(err, ErrMissingOp) {
		t.Errorf("Validate() error = %v, want ErrMissingOp", err)
	}
}

func TestTracer_FullMetaBecomesAttributes(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), OpMeta{
		Component: "catalog",
		Op:        "getAlbum",
		Entity:    "album",
		ID:        "al-42",
	})
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != "catalog.getAlbum" {
		t.Errorf("span name = %q, want catalog.getAlbum", spans[0].Name())
	}

	attrs := spanAttrs(spans[0])
	for key, want := range map[string]string{
		"op.name":      "getAlbum",
		"op.component": "catalog",
		"media.entity": "album",
		"media.id":     "al-42",
	} {
		if got, ok := attrs[key]; !ok || got.AsString() != want {
			t.Errorf("attribute %s = %v, want %q", key, got, want)
		}
	}
	if got, ok := attrs["op.error"]; !ok || got.AsBool() {
		t.Errorf("op.error = %v, want false on a clean span", got)
	}
}

func TestTracer_EmptyMetaFieldsStayOff(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), OpMeta{Op: "ping"})
	tr.EndSpan(span, nil)

	attrs := spanAttrs(recorder.Ended()[0])
	if _, ok := attrs["op.name"]; !ok {
		t.Error("op.name missing")
	}
	for _, key := range []string{"op.component", "media.entity", "media.id"} {
		if _, ok := attrs[key]; ok {
			t.Errorf("attribute %s present for an empty meta field", key)
		}
	}
}

func TestTracer_ChildJoinsParentTrace(t *testing.T) {
	tr, recorder := newRecordingTracer()

	parentCtx, parentSpan := tr.tracer.Start(context.Background(), "browse-screen")
	_, childSpan := tr.StartSpan(parentCtx, OpMeta{Component: "catalog", Op: "search"})
	tr.EndSpan(childSpan, nil)
	parentSpan.End()

	var child sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "catalog.search" {
			child = s
		}
	}
	if child == nil {
		t.Fatal("search span not recorded")
	}
	if child.Parent().TraceID() != parentSpan.SpanContext().TraceID() {
		t.Error("child span left its parent's trace")
	}
	if !child.Parent().SpanID().IsValid() {
		t.Error("child span has no parent span ID")
	}
}

func TestTracer_EndSpanRecordsError(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), OpMeta{Op: "getTrack"})
	tr.EndSpan(span, errors.New("stream endpoint down"))

	s := recorder.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if got, ok := spanAttrs(s)["op.error"]; !ok || !got.AsBool() {
		t.Error("failed span lacks op.error=true")
	}
}
