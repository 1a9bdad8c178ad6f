// Package resilience bounds the execution time and retry count of provider
// calls. The provider can block indefinitely; WithTimeout races the call
// against a deadline on its own goroutine so the caller observes either the
// result or the deadline, whichever comes first. The provider offers no
// cancellation primitive, so an abandoned call may keep running in the
// background and its eventual result is discarded.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when an operation exceeds its allotted duration.
var ErrTimeout = errors.New("operation timed out")

// RetryExhaustedError is returned when WithRetry runs out of attempts and
// the final attempt failed with a timeout. It carries the last failure.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// WithTimeout executes op and fails with ErrTimeout if it has not completed
// within d. The operation runs on its own goroutine; on expiry the caller
// returns immediately and the operation's eventual result, if any, is
// dropped. The context passed to op is cancelled on return as a courtesy,
// but op is not required to honor it.
func WithTimeout[T any](ctx context.Context, d time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if d <= 0 {
		return zero, fmt.Errorf("timeout must be positive, got %v", d)
	}

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	// Buffered so the goroutine can exit even after the caller is gone.
	done := make(chan outcome, 1)
	go func() {
		v, err := op(opCtx)
		done <- outcome{v, err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.val, out.err
	case <-timer.C:
		return zero, fmt.Errorf("%w after %v", ErrTimeout, d)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// WithRetry re-invokes op up to attempts times, sleeping delay between
// attempts, returning the first success. After the final failed attempt it
// surfaces that attempt's error, except a final timeout which is wrapped in
// a RetryExhaustedError.
func WithRetry[T any](ctx context.Context, attempts int, delay time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		return zero, fmt.Errorf("attempts must be at least 1, got %d", attempts)
	}
	if delay <= 0 {
		return zero, fmt.Errorf("retry delay must be positive, got %v", delay)
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if i < attempts {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	if errors.Is(lastErr, ErrTimeout) {
		return zero, &RetryExhaustedError{Attempts: attempts, Last: lastErr}
	}
	return zero, lastErr
}

// WithTimeoutAndRetry composes WithRetry and WithTimeout, applying the
// timeout to each individual attempt.
func WithTimeoutAndRetry[T any](ctx context.Context, d time.Duration, attempts int, delay time.Duration, op func(context.Context) (T, error)) (T, error) {
	return WithRetry(ctx, attempts, delay, func(ctx context.Context) (T, error) {
		return WithTimeout(ctx, d, op)
	})
}
