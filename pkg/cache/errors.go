package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is wrapped by every connection-level failure of a remote
// backend. It is the only error RetryWithBackoff retries.
var ErrNetwork = errors.New("cache backend unreachable")

// Retry policy for remote backend calls.
const retryAttempts = 3

// retryDelay is the wait before the second attempt. It doubles after each
// further attempt.
var retryDelay = 50 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, fails with an error that
// does not wrap ErrNetwork, or has been tried retryAttempts times. Server
// replies such as a WRONGTYPE error are returned after the first call.
// The last error is returned, or ctx.Err() if ctx ends while waiting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, ErrNetwork) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
