package resilience

import (
	"context"
	"time"
)

// TimeoutConfig configures a Timeout.
type TimeoutConfig struct {
	// Timeout bounds a single attempt. Default: 30 seconds
	Timeout time.Duration
}

// Timeout caps how long one request attempt may run. The deadline lives
// here, on the wrapped operation, never inside the deduplication layer: a
// shared fetch must not inherit the shortest subscriber's deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Timeout{config: config}
}

// Execute runs op under the configured deadline. A blown deadline returns
// ErrTimeout; op keeps running on its goroutine until it notices the
// cancelled context, so operations must honor ctx.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		result <- op(ctx)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout runs op under a one-off deadline without constructing
// a Timeout first.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	return NewTimeout(TimeoutConfig{Timeout: timeout}).Execute(ctx, op)
}
