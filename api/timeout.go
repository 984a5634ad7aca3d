package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var errOperationTimeout = errors.New("operation timed out")

// runWithTimeout runs op and gives up waiting after timeout or when ctx ends.
// Document operations cannot be interrupted, so a timed-out op still runs to
// completion in the background and its result is dropped.
func runWithTimeout[T any](ctx context.Context, timeout time.Duration, op func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := op()
		done <- result{value, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		if ctx.Err() == context.DeadlineExceeded {
			return zero, fmt.Errorf("%w after %v", errOperationTimeout, timeout)
		}
		return zero, ctx.Err()
	}
}
