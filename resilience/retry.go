package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy shapes the delay curve between retry attempts.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear grows the delay by the initial delay each attempt.
	BackoffLinear
	// BackoffConstant keeps the delay fixed.
	BackoffConstant
)

// RetryConfig configures a Retry.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, the first included.
	// Default: 3
	MaxAttempts int

	// InitialDelay is the pause before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the pause between attempts.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier scales the delay under BackoffExponential.
	// Default: 2.0
	Multiplier float64

	// Strategy selects the backoff curve.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter randomizes delays so a fleet of clients recovering from the
	// same outage does not retry in lockstep.
	Jitter bool

	// RetryIf decides which errors are worth another attempt. The catalog
	// client wires this to its retryable error categories: a 404 is final,
	// a 503 is not. Default: every non-nil error retries.
	RetryIf func(err error) bool

	// OnRetry is invoked before each retry with the failed attempt's
	// number, error, and the pause about to be taken.
	OnRetry func(attempt int, err error, delay time.Duration)
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.RetryIf == nil {
		c.RetryIf = func(err error) bool { return err != nil }
	}
	return c
}

// delayFor computes the pause taken after the given failed attempt.
func (c RetryConfig) delayFor(attempt int) time.Duration {
	delay := c.InitialDelay
	switch c.Strategy {
	case BackoffLinear:
		delay *= time.Duration(attempt)
	case BackoffExponential:
		delay = time.Duration(float64(delay) * math.Pow(c.Multiplier, float64(attempt-1)))
	}
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	if c.Jitter && delay > 0 {
		// Up to 25% extra, spreading out synchronized retries.
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}
	return delay
}

// Retry re-runs failed operations with backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a retry handler.
func NewRetry(config RetryConfig) *Retry {
	return &Retry{config: config.withDefaults()}
}

// Execute runs op until it succeeds, fails permanently, exhausts
// MaxAttempts, or ctx ends. The last attempt's error is returned.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !r.config.RetryIf(err) || attempt == r.config.MaxAttempts {
			return err
		}

		delay := r.config.delayFor(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
