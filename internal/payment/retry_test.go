package payment

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDelay_ExponentialWithJitter(t *testing.T) {
	p := RetryPolicy{Base: time.Second, Cap: 30 * time.Second, MaxAttempts: 5}

	// base=1000ms, attempt=3: 4000ms + джиттер < 10% => [4000, 4400).
	for i := 0; i < 50; i++ {
		d := p.Delay(3)
		if d < 4*time.Second || d >= 4400*time.Millisecond {
			t.Fatalf("attempt 3: expected delay in [4s, 4.4s), got %v", d)
		}
	}
}

func TestDelay_FirstAttempt(t *testing.T) {
	p := RetryPolicy{Base: time.Second, Cap: 30 * time.Second, MaxAttempts: 5}

	for i := 0; i < 50; i++ {
		d := p.Delay(1)
		if d < time.Second || d >= 1100*time.Millisecond {
			t.Fatalf("attempt 1: expected delay in [1s, 1.1s), got %v", d)
		}
	}
}

func TestDelay_CappedForAnyAttempt(t *testing.T) {
	p := RetryPolicy{Base: time.Second, Cap: 30 * time.Second, MaxAttempts: 5}

	for _, attempt := range []int{6, 10, 40, 100} {
		if d := p.Delay(attempt); d != 30*time.Second {
			t.Fatalf("attempt %d: expected cap 30s, got %v", attempt, d)
		}
	}
}

func TestIsTransient(t *testing.T) {
	transient := []error{
		errors.New("429: rate limit exceeded"),
		errors.New("provider: lock timeout while charging"),
		errors.New("service temporarily unavailable"),
		errors.New("503 Service Unavailable"),
	}
	for _, err := range transient {
		if !IsTransient(err) {
			t.Fatalf("expected %q to be transient", err)
		}
	}

	permanent := []error{
		errors.New("card declined"),
		errors.New("invalid api key"),
		nil,
	}
	for _, err := range permanent {
		if IsTransient(err) {
			t.Fatalf("expected %v not to be transient", err)
		}
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	p := RetryPolicy{Base: time.Millisecond, Cap: 5 * time.Millisecond, MaxAttempts: 5}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("rate limit")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	p := RetryPolicy{Base: time.Millisecond, Cap: 5 * time.Millisecond, MaxAttempts: 5}

	boom := errors.New("card declined")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected permanent error to propagate, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 call, got %d", calls)
	}
}

func TestDo_ExhaustionIsServiceBusy(t *testing.T) {
	p := RetryPolicy{Base: time.Millisecond, Cap: 5 * time.Millisecond, MaxAttempts: 3}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return errors.New("service unavailable")
	})
	if !errors.Is(err, ErrServiceBusy) {
		t.Fatalf("expected ErrServiceBusy, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	p := RetryPolicy{Base: time.Hour, Cap: time.Hour, MaxAttempts: 5}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Do(ctx, func() error { return errors.New("rate limit") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
