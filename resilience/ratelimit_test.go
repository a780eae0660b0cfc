package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})

	cfg := rl.Config()
	if cfg.Rate != 10 {
		t.Errorf("default Rate = %v, want 10", cfg.Rate)
	}
	if cfg.Burst != 5 {
		t.Errorf("default Burst = %d, want 5", cfg.Burst)
	}
	if cfg.MaxWait != time.Second {
		t.Errorf("default MaxWait = %v, want 1s", cfg.MaxWait)
	}
}

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("Allow() = false within burst at call %d", i+1)
		}
	}
	if rl.Allow() {
		t.Error("Allow() = true after burst exhausted")
	}
}

func TestRateLimiter_AllowN(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 4})

	if !rl.AllowN(4) {
		t.Error("AllowN(4) = false with full bucket")
	}
	if rl.AllowN(1) {
		t.Error("AllowN(1) = true with empty bucket")
	}
}

func TestRateLimiter_Execute_FailFast(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1})
	ctx := context.Background()

	calls := 0
	op := func(context.Context) error {
		calls++
		return nil
	}

	if err := rl.Execute(ctx, op); err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	err := rl.Execute(ctx, op)
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("second Execute returned %v, want ErrRateLimitExceeded", err)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
}

func TestRateLimiter_Execute_WaitOnLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:        50,
		Burst:       1,
		WaitOnLimit: true,
		MaxWait:     time.Second,
	})
	ctx := context.Background()

	calls := 0
	op := func(context.Context) error {
		calls++
		return nil
	}

	// Second call has to wait ~20ms for a token but succeeds.
	if err := rl.Execute(ctx, op); err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if err := rl.Execute(ctx, op); err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("operation ran %d times, want 2", calls)
	}
}

func TestRateLimiter_Wait_MaxWaitExceeded(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:        0.1, // one token every 10s
		Burst:       1,
		WaitOnLimit: true,
		MaxWait:     30 * time.Millisecond,
	})
	ctx := context.Background()

	if !rl.Allow() {
		t.Fatal("initial token should be available")
	}

	err := rl.Wait(ctx)
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Wait returned %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_Wait_ContextCancelled(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:        0.1,
		Burst:       1,
		WaitOnLimit: true,
		MaxWait:     5 * time.Second,
	})

	rl.Allow() // drain the bucket

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := rl.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait returned %v, want context.Canceled", err)
	}
}

func TestRateLimiter_Wait_PreCancelledContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 100, Burst: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait returned %v, want context.Canceled", err)
	}
	if tokens := rl.Tokens(); tokens < 1 {
		t.Errorf("Tokens = %v, cancelled Wait must not consume a token", tokens)
	}
}

func TestRateLimiter_Wait_TokenWithinMaxWait(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:    50, // a token every 20ms
		Burst:   1,
		MaxWait: time.Second,
	})

	rl.Allow() // drain the bucket

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Wait took %v, want roughly one refill interval", elapsed)
	}
}

func TestRateLimiter_TokensRefill(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 100, Burst: 10})

	for i := 0; i < 10; i++ {
		rl.Allow()
	}
	if tokens := rl.Tokens(); tokens >= 1 {
		t.Errorf("Tokens = %v immediately after drain, want < 1", tokens)
	}

	time.Sleep(50 * time.Millisecond)
	if tokens := rl.Tokens(); tokens < 1 {
		t.Errorf("Tokens = %v after refill window, want >= 1", tokens)
	}
}
