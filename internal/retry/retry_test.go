package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConflict = errors.New("duplicate key")

// recorder captures requested waits instead of sleeping.
type recorder struct{ waits []time.Duration }

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func conflictPolicy(r *recorder) Policy {
	return Policy{
		MaxAttempts: 3,
		Delay:       Linear(500 * time.Millisecond),
		Retryable:   func(err error) bool { return errors.Is(err, errConflict) },
		Sleep:       r.sleep,
	}
}

func TestDo_SucceedsOnThirdAttempt(t *testing.T) {
	rec := &recorder{}
	var attempts []int

	err := conflictPolicy(rec).Do(context.Background(), func(_ context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		if attempt < 3 {
			return errConflict
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, attempts)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, rec.waits)
}

func TestDo_Exhausted(t *testing.T) {
	rec := &recorder{}
	calls := 0

	err := conflictPolicy(rec).Do(context.Background(), func(context.Context, int) error {
		calls++
		return errConflict
	})

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, errConflict)
	assert.Equal(t, 3, calls)
	assert.Len(t, rec.waits, 2, "no wait after the final attempt")
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	rec := &recorder{}
	fatal := errors.New("foreign key")
	calls := 0

	err := conflictPolicy(rec).Do(context.Background(), func(context.Context, int) error {
		calls++
		return fatal
	})

	assert.Same(t, fatal, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.waits)
}

func TestDo_ZeroValuePolicyRunsOnce(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func(context.Context, int) error {
		calls++
		return errConflict
	})
	assert.ErrorIs(t, err, errConflict)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		MaxAttempts: 3,
		Delay:       Linear(time.Hour),
		Retryable:   func(error) bool { return true },
	}

	calls := 0
	err := p.Do(ctx, func(context.Context, int) error {
		calls++
		cancel()
		return errConflict
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	assert.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Second), context.Canceled)
}

func TestLinear(t *testing.T) {
	d := Linear(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, d(1))
	assert.Equal(t, 1500*time.Millisecond, d(3))
}
