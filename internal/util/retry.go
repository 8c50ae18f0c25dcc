// internal/util/retry.go
package util

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	readRetryBase     = 20 * time.Millisecond
	readRetryAttempts = 3
)

// RetryRead runs an idempotent read, retrying it with exponential backoff
// while it fails with ErrStorageUnavailable. Any other error returns at once.
// Never use it for writes.
func RetryRead(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(readRetryAttempts, retry.NewExponential(readRetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && errors.Is(err, ErrStorageUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}
