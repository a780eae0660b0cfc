// Package observe carries the client's telemetry: tracing, metrics, and
// structured logging over OpenTelemetry.
//
// It is pure instrumentation. No transport, no execution, no I/O beyond
// exporter setup; catalog and player wire it in through Middleware and
// Metrics, and everything degrades to no-ops when disabled in settings.
package observe
