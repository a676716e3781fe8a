package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_Delays(t *testing.T) {
	p := DefaultRetryPolicy()
	if d := p.Delay(0); d != time.Second {
		t.Errorf("Delay(0) = %v, want 1s", d)
	}
	if d := p.Delay(1); d != 1500*time.Millisecond {
		t.Errorf("Delay(1) = %v, want 1.5s", d)
	}
}

func TestRetryPolicy_ExhaustionIsServiceUnavailable(t *testing.T) {
	var slept []time.Duration
	p := DefaultRetryPolicy()
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	calls := 0
	boom := errors.New("connection reset")
	_, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", boom
	})

	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected last error to be wrapped, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
	want := []time.Duration{time.Second, 1500 * time.Millisecond}
	if len(slept) != len(want) || slept[0] != want[0] || slept[1] != want[1] {
		t.Errorf("slept %v, want %v", slept, want)
	}
}

func TestRetryPolicy_SucceedsAfterFailure(t *testing.T) {
	p := DefaultRetryPolicy()
	p.Sleep = func(context.Context, time.Duration) error { return nil }

	calls := 0
	var retried []int
	p.OnRetry = func(attempt int, _ time.Duration, _ error) { retried = append(retried, attempt) }

	out, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("503")
		}
		return "ok", nil
	})
	if err != nil || out != "ok" {
		t.Fatalf("Do() = %q, %v", out, err)
	}
	if len(retried) != 1 || retried[0] != 1 {
		t.Errorf("OnRetry calls = %v", retried)
	}
}

func TestRetryPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultRetryPolicy()
	p.Sleep = func(context.Context, time.Duration) error {
		t.Fatal("should not sleep after cancellation")
		return nil
	}

	calls := 0
	_, err := p.Do(ctx, func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", ctx.Err()
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
