package github

import (
	"context"
	"time"

	"github.com/codeGROOVE-dev/retry"

	domainErrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/logger"
)

const (
	maxRetryAttempts  = 3
	initialRetryDelay = 1 * time.Second
	maxRetryDelay     = 8 * time.Second
)

// withRetry runs fn with exponential backoff (1s, 2s). Only errors wrapped in
// temporaryError are retried; once attempts run out they become ErrGitHubUnavailable.
func (ghc *GitHubClient) withRetry(ctx context.Context, operation string, fn func() error) error {
	err := retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(maxRetryAttempts),
		retry.Delay(ghc.retryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTemporary),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn(ctx, "github request failed, retrying",
				"operation", operation,
				"attempt", n+1,
				"max_attempts", maxRetryAttempts,
				"error", err)
		}),
	)
	if err != nil && isTemporary(err) {
		return domainErrors.ErrGitHubUnavailable.WithError(err).WithContext("operation", operation)
	}
	return err
}
