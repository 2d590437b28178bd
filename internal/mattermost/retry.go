package mattermost

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	retryAttempts  = 4
	retryBaseDelay = 250 * time.Millisecond
)

// WithRetry runs fn, retrying transient failures.
//
// Rate-limit errors are waited out for the duration the server asked for and
// do not consume an attempt. ErrUnavailable is retried up to retryAttempts
// times with exponential backoff. Any other error returns immediately.
func WithRetry(ctx context.Context, logger *zap.Logger, fn func() error) error {
	delay := retryBaseDelay
	attempt := 1

	for {
		err := fn()
		if err == nil {
			return nil
		}

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			logger.Debug("rate limited, waiting",
				zap.Duration("retry_after", rateLimitErr.RetryAfter))
			if waitErr := sleepCtx(ctx, rateLimitErr.RetryAfter); waitErr != nil {
				return waitErr
			}
			continue
		}

		if !errors.Is(err, ErrUnavailable) || attempt >= retryAttempts {
			return err
		}

		logger.Debug("transient failure, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))
		if waitErr := sleepCtx(ctx, delay); waitErr != nil {
			return waitErr
		}
		delay *= 2
		attempt++
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
