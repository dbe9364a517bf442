// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Oracle errors.
	ErrOracleConnection = errors.New("oracle connection failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrOracleConnection) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
