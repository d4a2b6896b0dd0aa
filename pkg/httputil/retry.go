package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxServerWait caps how long [Retry] honors a server-requested delay.
const MaxServerWait = 10 * time.Second

// RetryableError marks a transient failure (transport error, 5xx, 429)
// that [Retry] should attempt again.
type RetryableError struct {
	Err error

	// After is the wait the server asked for, typically from a
	// Retry-After header. Zero means use the backoff delay.
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// Only errors wrapped in [RetryableError] are retried; other errors are
// returned immediately. The delay doubles after each failed attempt, and a
// longer server-requested wait (up to [MaxServerWait]) takes precedence.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := max(delay, min(re.After, MaxServerWait))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}
