package oracle

import (
	"context"
	"log/slog"

	"github.com/mfreitas/podex/internal/common"
	"github.com/mfreitas/podex/internal/service"
)

// RetryingClient wraps a Client with a bounded retry policy. When the
// retry budget is exhausted it degrades to the well-formed empty
// response instead of surfacing an error, so one flaky oracle call
// never stalls a whole batch.
type RetryingClient struct {
	inner  Client
	logger *slog.Logger
	opts   service.RetryOptions
}

// NewRetryingClient wraps inner with the given retry policy.
func NewRetryingClient(inner Client, opts service.RetryOptions, logger *slog.Logger) *RetryingClient {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 3
	}
	return &RetryingClient{inner: inner, opts: opts, logger: logger}
}

// Extract calls the wrapped client with retries and exponential
// backoff. It never returns an error: exhausted retries yield the
// degraded all-empty, zero-confidence response.
func (c *RetryingClient) Extract(ctx context.Context, req Request) (Response, error) {
	var resp Response

	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = c.inner.Extract(ctx, req)
		if callErr != nil {
			c.logger.Warn("oracle call attempt failed",
				"policy", req.Policy,
				"error", callErr)
			if common.IsRetryable(callErr) {
				// Already classified (rate limit, connection, timeout);
				// pass it through so the backoff policy can see it.
				return callErr
			}
			// The oracle's output is nondeterministic, so malformed
			// answers are worth another attempt too.
			return &common.RetryableError{Err: callErr, Retryable: true}
		}
		return nil
	}, c.opts)

	if err != nil {
		c.logger.Error("oracle retries exhausted, degrading to empty result",
			"policy", req.Policy,
			"error", err)
		return EmptyResponse(), nil
	}

	return resp, nil
}
