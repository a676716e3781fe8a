package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RetryPolicy retries a model call with exponential backoff. The delay before
// retry i (0-based) is Base * Factor^i; no delay follows the last attempt.
type RetryPolicy struct {
	MaxAttempts int
	Base        time.Duration
	Factor      float64

	// Sleep waits for d or until ctx is done; replaced in tests
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry, when set, observes each failed attempt that will be retried
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultRetryPolicy is three attempts spaced 1s then 1.5s apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Base:        time.Second,
		Factor:      1.5,
		Sleep:       sleepContext,
	}
}

// Delay returns the wait after failed attempt i (0-based)
func (p RetryPolicy) Delay(i int) time.Duration {
	return time.Duration(float64(p.Base) * math.Pow(p.Factor, float64(i)))
}

// Do calls fn until it succeeds or attempts run out. Exhaustion returns an
// error wrapping both ErrServiceUnavailable and the last failure. Context
// cancellation stops retrying immediately.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", ErrServiceUnavailable, ctx.Err())
		}
		if i == attempts-1 {
			break
		}

		d := p.Delay(i)
		if p.OnRetry != nil {
			p.OnRetry(i+1, d, err)
		}
		if err := sleep(ctx, d); err != nil {
			return "", fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %w", ErrServiceUnavailable, attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
