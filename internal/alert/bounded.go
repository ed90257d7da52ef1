package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/manav03panchal/safecompanion/internal/errors"
)

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("collaborator panicked: %v", e.value)
}

func isPanic(err error) bool {
	var pe *panicError
	return errors.As(err, &pe)
}

// bounded runs fn with a deadline of d. A collaborator that ignores
// cancellation is abandoned when the deadline passes; its goroutine exits on
// its own. Panics are returned as *panicError.
func bounded[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &panicError{value: r}}
			}
		}()
		v, err := fn(ctx)
		done <- result{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w after %s: %w", errors.ErrTimeout, d, ctx.Err())
	}
}
