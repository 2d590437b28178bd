package mattermost

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWithRetry_SuccessOnFirstTry(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	callCount := 0
	err := WithRetry(ctx, logger, func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("WithRetry returned error: %v", err)
	}
	if callCount != 1 {
		t.Errorf("call count: got %d, want 1", callCount)
	}
}

func TestWithRetry_PermanentErrorNotRetried(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	expectedErr := errors.New("channel is archived")
	callCount := 0
	err := WithRetry(ctx, logger, func() error {
		callCount++
		return expectedErr
	})

	if !errors.Is(err, expectedErr) {
		t.Errorf("error: got %v, want %v", err, expectedErr)
	}
	if callCount != 1 {
		t.Errorf("call count: got %d, want 1", callCount)
	}
}

func TestWithRetry_UnavailableThenSuccess(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	callCount := 0
	err := WithRetry(ctx, logger, func() error {
		callCount++
		if callCount < 3 {
			return fmt.Errorf("fetch: %w", ErrUnavailable)
		}
		return nil
	})

	if err != nil {
		t.Errorf("WithRetry returned error: %v", err)
	}
	if callCount != 3 {
		t.Errorf("call count: got %d, want 3", callCount)
	}
}

func TestWithRetry_UnavailableExhaustsAttempts(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	callCount := 0
	err := WithRetry(ctx, logger, func() error {
		callCount++
		return fmt.Errorf("fetch: %w", ErrUnavailable)
	})

	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error: got %v, want ErrUnavailable", err)
	}
	if callCount != retryAttempts {
		t.Errorf("call count: got %d, want %d", callCount, retryAttempts)
	}
}

func TestWithRetry_RateLimitThenSuccess(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	callCount := 0
	err := WithRetry(ctx, logger, func() error {
		callCount++
		if callCount == 1 {
			return &RateLimitError{RetryAfter: time.Millisecond}
		}
		return nil
	})

	if err != nil {
		t.Errorf("WithRetry returned error: %v", err)
	}
	if callCount != 2 {
		t.Errorf("call count: got %d, want 2", callCount)
	}
}

func TestWithRetry_ContextCancelledDuringWait(t *testing.T) {
	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	err := WithRetry(ctx, logger, func() error {
		callCount++
		if callCount == 1 {
			cancel()
			return &RateLimitError{RetryAfter: time.Hour}
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error: got %v, want context.Canceled", err)
	}
	if callCount != 1 {
		t.Errorf("call count: got %d, want 1", callCount)
	}
}
