package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusOrdering(t *testing.T) {
	// OverallStatus relies on the severity ordering of the constants.
	if !(StatusHealthy < StatusDegraded && StatusDegraded < StatusUnhealthy) {
		t.Error("statuses must order healthy < degraded < unhealthy")
	}
}

func TestResultConstructors(t *testing.T) {
	pingErr := errors.New("connection refused")

	tests := []struct {
		name    string
		result  Result
		status  Status
		message string
		err     error
	}{
		{"healthy", Healthy("server reachable"), StatusHealthy, "server reachable", nil},
		{"degraded", Degraded("cache near capacity"), StatusDegraded, "cache near capacity", nil},
		{"unhealthy", Unhealthy("server unreachable", pingErr), StatusUnhealthy, "server unreachable", pingErr},
		{"unhealthy without cause", Unhealthy("session expired", nil), StatusUnhealthy, "session expired", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Status != tt.status {
				t.Errorf("Status = %v, want %v", tt.result.Status, tt.status)
			}
			if tt.result.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.result.Message, tt.message)
			}
			if tt.result.Error != tt.err {
				t.Errorf("Error = %v, want %v", tt.result.Error, tt.err)
			}
			if tt.result.Timestamp.IsZero() {
				t.Error("constructors must stamp the result")
			}
		})
	}
}

func TestResult_With(t *testing.T) {
	base := Healthy("server reachable")
	stamped := base.
		WithDetails(map[string]any{"latency": "12ms"}).
		WithDuration(12 * time.Millisecond)

	if stamped.Details["latency"] != "12ms" {
		t.Errorf("Details[latency] = %v, want 12ms", stamped.Details["latency"])
	}
	if stamped.Duration != 12*time.Millisecond {
		t.Errorf("Duration = %v, want 12ms", stamped.Duration)
	}
	// Value receiver: the original stays untouched.
	if base.Details != nil || base.Duration != 0 {
		t.Error("With helpers must not mutate the original result")
	}
}

func TestNewCheckerFunc(t *testing.T) {
	checker := NewCheckerFunc("session", func(ctx context.Context) Result {
		return Healthy("token valid")
	})

	if checker.Name() != "session" {
		t.Errorf("Name() = %q, want \"session\"", checker.Name())
	}
	result := checker.Check(context.Background())
	if result.Status != StatusHealthy || result.Message != "token valid" {
		t.Errorf("Check() = %v %q, want healthy \"token valid\"", result.Status, result.Message)
	}
}

func TestCheckerFunc_SeesCancellation(t *testing.T) {
	checker := NewCheckerFunc("session", func(ctx context.Context) Result {
		if ctx.Err() != nil {
			return Unhealthy("check cancelled", ctx.Err())
		}
		return Healthy("token valid")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := checker.Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy on a cancelled context", result.Status)
	}
	if !errors.Is(result.Error, context.Canceled) {
		t.Errorf("Error = %v, want context.Canceled", result.Error)
	}
}
