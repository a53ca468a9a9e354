package utils

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryConfig bounds a retry loop.
type RetryConfig struct {
	// MaxAttempts is the total number of calls, including the first (values below 1 mean 1)
	MaxAttempts int
	// Delay is the pause between attempts
	Delay time.Duration
}

// FixedDelay retries up to attempts times with the same pause in between.
func FixedDelay(attempts int, delay time.Duration) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, Delay: delay}
}

// Retry calls op until it succeeds, returns an error retryable rejects, or the
// attempts are used up. The value and error of the last call are returned
// unchanged. A nil retryable retries every error.
func Retry[T any](
	ctx context.Context,
	config RetryConfig,
	retryable func(error) bool,
	op func(ctx context.Context, attempt int) (T, error),
) (T, error) {
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := config.Delay

	var (
		value T
		err   error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		value, err = op(ctx, attempt)
		if err == nil {
			return value, nil
		}
		if retryable != nil && !retryable(err) {
			return value, err
		}
		if attempt == attempts {
			break
		}

		zap.S().Debugw("Operation failed, retrying",
			"attempt", attempt,
			"maxAttempts", attempts,
			"delay", delay.String(),
		)

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return value, ctx.Err()
			case <-timer.C:
			}
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			return value, ctxErr
		}
	}
	return value, err
}
