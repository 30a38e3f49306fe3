package common

import (
	"context"
	"time"
)

// StateWaiter is implemented by *state.State and by test fakes.
// WaitFor blocks until filter returns true for an event or ctx is done, in which case it returns nil.
type StateWaiter interface {
	WaitFor(context.Context, func(any) bool) any
}

// WaitFor is a wrapper around s.WaitFor that only passes events of type T to filter.
func WaitFor[T any](ctx context.Context, s StateWaiter, filter func(t T) bool) (t T, ok bool) {
	v := s.WaitFor(ctx, func(i any) bool {
		if t, ok := i.(T); ok {
			return filter(t)
		}
		return false
	})

	if v == nil {
		return t, false
	}

	t, ok = v.(T)
	return t, ok
}

// WaitForTimeout is WaitFor bounded by a timeout. timedOut is true only if the deadline,
// not the parent context, ended the wait.
func WaitForTimeout[T any](ctx context.Context, s StateWaiter, timeout time.Duration, filter func(t T) bool) (t T, timedOut bool, ok bool) {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	t, ok = WaitFor(wctx, s, filter)
	if ok {
		return t, false, true
	}
	return t, ctx.Err() == nil, false
}
