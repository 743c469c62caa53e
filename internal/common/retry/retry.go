package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Policy describes how an operation is retried: attempt budget plus an
// exponential backoff window with optional jitter.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

// DefaultPolicy returns the retry policy used for transport-level fetches.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      true,
	}
}

// Delay calculates the backoff delay for the given zero-based attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return p.BaseDelay
	}

	delay := p.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.Jitter && delay >= 10*time.Millisecond {
		jitter := time.Duration(rand.Intn(int(delay.Milliseconds()/10))) * time.Millisecond
		delay += jitter
	}

	return delay
}

// permanentError marks a failure that retrying cannot fix, such as a
// definitive HTTP status. Do stops immediately and returns the wrapped
// error.
type permanentError struct {
	err error
}

func (pe *permanentError) Error() string { return pe.err.Error() }
func (pe *permanentError) Unwrap() error { return pe.err }

// Permanent wraps err so Do treats it as terminal instead of retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs op until it succeeds, returns a permanent error, the attempt
// budget is exhausted, or the context is cancelled. The last error is
// returned when all attempts fail.
func Do(ctx context.Context, policy Policy, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(policy.Delay(attempt - 1)):
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		var pe *permanentError
		if errors.As(err, &pe) {
			return pe.err
		}
		lastErr = err
	}

	return lastErr
}
