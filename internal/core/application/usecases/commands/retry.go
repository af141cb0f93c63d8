package commands

import (
	"context"
	"errors"
	"time"

	"canteen/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// transientRetryAttempts bounds how many times an atomic unit is re-run
// after the storage layer reports a concurrency conflict.
const transientRetryAttempts = 3

// retryTransient runs op, re-running it with increasing delay when it fails
// with errs.ErrTransient. Any other error aborts immediately. Each attempt
// of op must be a complete atomic unit: a failed attempt leaves no state
// behind, so re-running is safe.
func retryTransient(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(50*time.Millisecond),
				backoff.WithMaxInterval(time.Second),
			),
			transientRetryAttempts,
		),
		ctx,
	)

	return backoff.Retry(func() error {
		if err := op(); err != nil {
			if errors.Is(err, errs.ErrTransient) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, policy)
}
