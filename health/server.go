package health

import (
	"context"
	"fmt"
	"time"
)

// PingFunc probes a remote component and returns an error when it is
// unreachable.
type PingFunc func(ctx context.Context) error

// ServerCheckerConfig configures a ServerChecker.
type ServerCheckerConfig struct {
	// Name identifies the checker.
	// Default: "server"
	Name string

	// DegradedAfter is the ping latency above which the server is
	// reported as degraded rather than healthy.
	// Default: 2 seconds
	DegradedAfter time.Duration
}

// ServerChecker reports the reachability of the streaming server by timing
// a ping round trip. A failed ping is unhealthy; a slow one is degraded.
type ServerChecker struct {
	name          string
	ping          PingFunc
	degradedAfter time.Duration
}

var _ Checker = (*ServerChecker)(nil)

// NewServerChecker creates a checker around the given ping function.
func NewServerChecker(ping PingFunc, config ...ServerCheckerConfig) *ServerChecker {
	cfg := ServerCheckerConfig{
		Name:          "server",
		DegradedAfter: 2 * time.Second,
	}
	if len(config) > 0 {
		if config[0].Name != "" {
			cfg.Name = config[0].Name
		}
		if config[0].DegradedAfter > 0 {
			cfg.DegradedAfter = config[0].DegradedAfter
		}
	}

	return &ServerChecker{
		name:          cfg.Name,
		ping:          ping,
		degradedAfter: cfg.DegradedAfter,
	}
}

// Name returns the name of this checker.
func (c *ServerChecker) Name() string {
	return c.name
}

// Check pings the server and classifies the result by latency.
func (c *ServerChecker) Check(ctx context.Context) Result {
	start := time.Now()
	err := c.ping(ctx)
	elapsed := time.Since(start)

	details := map[string]any{
		"latency": elapsed.String(),
	}

	if err != nil {
		return Unhealthy("server unreachable", err).
			WithDetails(details).
			WithDuration(elapsed)
	}
	if elapsed > c.degradedAfter {
		return Degraded(fmt.Sprintf("server slow: ping took %s", elapsed.Round(time.Millisecond))).
			WithDetails(details).
			WithDuration(elapsed)
	}
	return Healthy("server reachable").
		WithDetails(details).
		WithDuration(elapsed)
}
