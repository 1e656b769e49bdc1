package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Policy is a parameterized exponential backoff: attempt n (1-based) failing
// causes a wait of BaseDelay * 2^n before attempt n+1. The wait is the only
// suspension point; cancelling the context aborts the wait but not an
// attempt already in flight.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      bool
}

func Default() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps an error so that Do gives up immediately instead of
// retrying. Do returns the wrapped error, not the wrapper.
func Permanent(err error) error {
	return &permanentError{err: err}
}

// Do runs fn up to MaxAttempts times, sleeping between attempts.
// It returns nil on the first success, the context error if cancelled
// during a wait, and otherwise the error from the last attempt.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if attempt == attempts {
			break
		}

		select {
		case <-time.After(p.delay(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}

func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if p.Jitter {
		d += time.Duration(rand.Int63n(int64(p.BaseDelay) + 1))
	}
	return d
}
