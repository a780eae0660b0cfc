package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel orders log severities for filtering.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel maps a level name to its LogLevel. Unknown names fall back
// to info rather than failing; validation happens in Config.Validate.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// redactedKeys indexes RedactedFields for the hot path.
var redactedKeys = func() map[string]bool {
	keys := make(map[string]bool, len(RedactedFields))
	for _, k := range RedactedFields {
		keys[k] = true
	}
	return keys
}()

// jsonLogger writes one JSON object per line. Writes are serialized so
// interleaved operations never corrupt a line.
type jsonLogger struct {
	level LogLevel
	mu    *sync.Mutex
	out   io.Writer
	bound map[string]any // operation context from WithOp
}

// NewLogger creates a structured logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a structured logger writing to w. Tests use
// it to capture output.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &jsonLogger{
		level: ParseLogLevel(level),
		mu:    &sync.Mutex{},
		out:   w,
	}
}

// WithOp returns a logger whose entries carry the operation's identity.
// The parent and child share the writer lock.
func (l *jsonLogger) WithOp(meta OpMeta) Logger {
	bound := make(map[string]any, len(l.bound)+3)
	for k, v := range l.bound {
		bound[k] = v
	}
	bound["op"] = meta.Qualified()
	if meta.Entity != "" {
		bound["entity"] = meta.Entity
	}
	if meta.ID != "" {
		bound["id"] = meta.ID
	}

	return &jsonLogger{
		level: l.level,
		mu:    l.mu,
		out:   l.out,
		bound: bound,
	}
}

func (l *jsonLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelInfo, msg, fields)
}

func (l *jsonLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelWarn, msg, fields)
}

func (l *jsonLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelError, msg, fields)
}

func (l *jsonLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelDebug, msg, fields)
}

func (l *jsonLogger) emit(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(l.bound)+len(fields)+3)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	for k, v := range l.bound {
		entry[k] = v
	}
	for _, f := range fields {
		if redactedKeys[f.Key] {
			entry[f.Key] = "[REDACTED]"
		} else {
			entry[f.Key] = f.Value
		}
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return // a log line is never worth failing the operation
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(line)
	l.out.Write([]byte("\n"))
}

var _ Logger = (*jsonLogger)(nil)
