package observe

import "errors"

// Config validation errors. Validate wraps these so callers can branch on
// the broken field with errors.Is.
var (
	// ErrMissingServiceName means Config.ServiceName was left empty.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidSamplePct means Tracing.SamplePct fell outside [0, 1].
	ErrInvalidSamplePct = errors.New("observe: sample percentage must be between 0.0 and 1.0")

	// ErrInvalidTracingExporter means an unknown tracing exporter name.
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")

	// ErrInvalidMetricsExporter means an unknown metrics exporter name.
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")

	// ErrInvalidLogLevel means an unknown log level name.
	ErrInvalidLogLevel = errors.New("observe: invalid log level")
)

var (
	// ErrNilObserver is returned when a nil Observer is handed to a
	// constructor that needs a real one.
	ErrNilObserver = errors.New("observe: observer is nil")

	// ErrMissingOp means OpMeta.Op was left empty.
	ErrMissingOp = errors.New("observe: operation name is required")

	// ErrEndpointNotConfigured means an exporter needs an endpoint
	// environment variable that is not set.
	ErrEndpointNotConfigured = errors.New("observe: endpoint not configured")
)

// RedactedFields are log field keys whose values are replaced with
// "[REDACTED]" before serialization. They cover the credential and session
// material this client handles.
var RedactedFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apiKey",
	"credential",
}
