package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/podex/internal/service"
)

func TestRetryableErrorUnwrap(t *testing.T) {
	wrapped := &RetryableError{Err: ErrRateLimit, Retryable: true}
	assert.ErrorIs(t, wrapped, ErrRateLimit)

	inner := errors.New("boom")
	assert.ErrorIs(t, &RetryableError{Err: inner, Retryable: true}, inner)
}

func TestWithRetrySucceedsAfterFailure(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return &RetryableError{Err: errors.New("transient"), Retryable: true}
		}
		return nil
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("bad request"), Retryable: false}
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.NotErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetryRateLimitJumpsToMaxDelay(t *testing.T) {
	opts := service.RetryOptions{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     60 * time.Millisecond,
		Multiplier:   2.0,
	}

	tests := []struct {
		err  error
		name string
	}{
		{name: "bare rate limit", err: ErrRateLimit},
		{name: "wrapped rate limit", err: &RetryableError{Err: ErrRateLimit, Retryable: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			err := WithRetry(context.Background(), func() error { return tt.err }, opts)
			elapsed := time.Since(start)

			require.ErrorIs(t, err, ErrMaxRetries)
			// The single sleep between the two attempts must be the
			// ceiling, not the initial delay.
			assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
		})
	}
}

func TestWithRetryExhaustion(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("transient"), Retryable: true}
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})

	require.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, calls)
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return &RetryableError{Err: errors.New("transient"), Retryable: true}
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 50 * time.Millisecond})

	assert.ErrorIs(t, err, context.Canceled)
}
