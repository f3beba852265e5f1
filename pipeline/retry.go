package pipeline

import (
	"context"
	"time"
)

// backoffDelay computes the exponential backoff for an attempt:
// base * 2^(attempt-1).
func backoffDelay(base time.Duration, attempt int) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// sleepBackoff waits out the backoff for the given attempt, returning
// early with the context error if ctx is done first.
func sleepBackoff(ctx context.Context, base time.Duration, attempt int) error {
	timer := time.NewTimer(backoffDelay(base, attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
