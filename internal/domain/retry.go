package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default retry settings for chat API calls.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 30 * time.Second
)

// BackoffFunc returns the delay before the given retry (1 = first retry).
type BackoffFunc func(retry int) time.Duration

// FixedBackoff waits d before every retry.
func FixedBackoff(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff doubles initial on every retry, capped at maxDelay.
func ExponentialBackoff(initial, maxDelay time.Duration) BackoffFunc {
	return func(retry int) time.Duration {
		d := initial
		for i := 1; i < retry; i++ {
			d *= 2
			if d >= maxDelay {
				return maxDelay
			}
		}
		return min(d, maxDelay)
	}
}

// RetryPolicy decides how often and how long to wait when an operation fails.
type RetryPolicy struct {
	Backoff     BackoffFunc
	OnRetry     func(attempt int, err error, wait time.Duration) // Optional hook
	MaxAttempts int                                               // Total attempts, including the first
}

// DefaultRetryPolicy returns 3 attempts with a fixed 30 second delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     FixedBackoff(DefaultRetryDelay),
	}
}

// NoRetry runs operations exactly once.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// WithOnRetry returns a copy of p with the retry hook set.
func (p RetryPolicy) WithOnRetry(fn func(attempt int, err error, wait time.Duration)) RetryPolicy {
	p.OnRetry = fn
	return p
}

// Do runs op until it succeeds, returns a permanent error, the context ends,
// or MaxAttempts is reached.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := max(p.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if attempt == attempts {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr, wait)
		}
		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, lastErr)
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }
