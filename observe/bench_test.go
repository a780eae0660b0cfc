package observe

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func newBenchObserver(b *testing.B, logging bool) Observer {
	b.Helper()
	cfg := Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	}
	if logging {
		cfg.Logging = LoggingConfig{Enabled: true, Level: "info"}
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		b.Fatalf("NewObserver: %v", err)
	}
	b.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	if logging {
		// Measure serialization, not the terminal.
		obs.(*observer).logger = NewLoggerWithWriter("info", io.Discard)
	}
	return obs
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "track started", Field{Key: "track_id", Value: i})
	}
}

func BenchmarkLogger_InfoManyFields(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	fields := []Field{
		{Key: "album_id", Value: "al-42"},
		{Key: "status", Value: 200},
		{Key: "cached", Value: true},
		{Key: "duration_ms", Value: 12.5},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "request completed", fields...)
	}
}

func BenchmarkLogger_WithOp(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	meta := OpMeta{Component: "catalog", Op: "listAlbums", Entity: "album"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = logger.WithOp(meta)
	}
}

func BenchmarkLogger_FilteredOut(b *testing.B) {
	// Entries below the level must cost close to nothing, they run on
	// every request.
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "buffered chunk")
	}
}

func BenchmarkLogger_Parallel(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			logger.Info(ctx, "concurrent entry")
		}
	})
}

func BenchmarkOpMeta_SpanName(b *testing.B) {
	meta := OpMeta{Component: "catalog", Op: "getAlbum"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.SpanName()
	}
}

func BenchmarkTracer_NoopSpan(b *testing.B) {
	tracer := newNoopTracer()
	ctx := context.Background()
	meta := OpMeta{Component: "catalog", Op: "listAlbums"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, span := tracer.StartSpan(ctx, meta)
		tracer.EndSpan(span, nil)
	}
}

func BenchmarkMetrics_RecordRequest(b *testing.B) {
	obs := newBenchObserver(b, false)
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		b.Fatalf("newMetrics: %v", err)
	}
	ctx := context.Background()
	meta := OpMeta{Component: "catalog", Op: "listAlbums"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics.RecordRequest(ctx, meta, 100*time.Millisecond, nil)
	}
}

func BenchmarkMetrics_RecordRequestError(b *testing.B) {
	obs := newBenchObserver(b, false)
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		b.Fatalf("newMetrics: %v", err)
	}
	ctx := context.Background()
	meta := OpMeta{Component: "catalog", Op: "search"}
	reqErr := errors.New("gateway unreachable")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics.RecordRequest(ctx, meta, 100*time.Millisecond, reqErr)
	}
}

func BenchmarkMiddleware_Do(b *testing.B) {
	obs := newBenchObserver(b, false)
	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("MiddlewareFromObserver: %v", err)
	}
	ctx := context.Background()
	meta := OpMeta{Component: "catalog", Op: "listAlbums"}
	fn := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mw.Do(ctx, meta, fn)
	}
}

func BenchmarkMiddleware_DoWithLogging(b *testing.B) {
	obs := newBenchObserver(b, true)
	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("MiddlewareFromObserver: %v", err)
	}
	ctx := context.Background()
	meta := OpMeta{Component: "catalog", Op: "listAlbums"}
	fn := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mw.Do(ctx, meta, fn)
	}
}

func BenchmarkMiddleware_Parallel(b *testing.B) {
	obs := newBenchObserver(b, false)
	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("MiddlewareFromObserver: %v", err)
	}
	ctx := context.Background()
	fn := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = mw.Do(ctx, OpMeta{Component: "catalog", Op: "getAlbum"}, fn)
		}
	})
}

func BenchmarkConfig_Validate(b *testing.B) {
	cfg := Config{
		ServiceName: "dashtune",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}
