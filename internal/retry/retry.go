// Package retry runs an operation under a bounded retry policy.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy decides how often and how long to wait between attempts.
// Attempts are numbered from 1 and never overlap.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int
	// Delay returns the wait after failed attempt n, before attempt n+1.
	Delay func(attempt int) time.Duration
	// Retryable reports whether err is worth another attempt. Nil means never retry.
	Retryable func(err error) bool
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Linear returns base * attempt.
func Linear(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Do calls op until it succeeds, returns a non-retryable error, or the policy
// runs out of attempts.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = op(ctx, attempt)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		var wait time.Duration
		if p.Delay != nil {
			wait = p.Delay(attempt)
		}
		if serr := sleep(ctx, wait); serr != nil {
			return serr
		}
	}
	return &ExhaustedError{Attempts: maxAttempts, Last: err}
}

// Sleep blocks for d unless ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
