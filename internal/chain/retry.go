package chain

import (
	"context"
	"errors"
	"time"
)

const (
	defaultRetryDelay = 100 * time.Millisecond
	maxRetryDelay     = 5 * time.Second
)

// WithRetry runs fn once plus up to maxRetries more times. The wait
// between attempts starts at baseDelay and doubles up to maxRetryDelay.
// Context errors returned by fn are not retried.
func WithRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if baseDelay <= 0 {
		baseDelay = defaultRetryDelay
	}

	var err error
	wait := baseDelay
	for remaining := max(maxRetries, 0); ; remaining-- {
		if err = fn(ctx); err == nil {
			return nil
		}
		if remaining == 0 || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, maxRetryDelay)
	}
}
