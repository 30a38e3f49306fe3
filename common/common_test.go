package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := NewSet(1, 2)

	assert.True(t, s.Exists(1))
	assert.False(t, s.Add(1), "adding a present value fails")
	assert.True(t, s.Add(3))
	assert.Equal(t, 3, s.Length())

	assert.True(t, s.Remove(3))
	assert.False(t, s.Remove(3))
	assert.False(t, s.Exists(3))
}

func TestMap(t *testing.T) {
	m := NewMap[string, int]()

	calls := 0
	fn := func() int {
		calls++
		return 5
	}
	assert.Equal(t, 5, m.GetOrSet("a", fn))
	assert.Equal(t, 5, m.GetOrSet("a", fn))
	assert.Equal(t, 1, calls)

	m.Set("b", 2)
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, m.Length())

	assert.True(t, m.Remove("b"))
	_, ok = m.Get("b")
	assert.False(t, ok)
}

func TestSliceHelpers(t *testing.T) {
	s := []string{"a", "b", "a"}

	assert.True(t, Contains(s, "b"))
	assert.False(t, Contains(s, "c"))
	assert.Equal(t, 1, Index(s, "b"))
	assert.Equal(t, -1, Index(s, "c"))
	assert.Equal(t, []string{"b"}, Without(s, func(v string) bool { return v == "a" }))
	assert.Len(t, s, 3, "Without doesn't modify its input")
}

type events []any

func (e events) WaitFor(ctx context.Context, filter func(any) bool) any {
	for _, ev := range e {
		if filter(ev) {
			return ev
		}
	}
	<-ctx.Done()
	return nil
}

func TestWaitFor(t *testing.T) {
	s := events{"skip", 1, 2, 3}

	v, ok := WaitFor(context.Background(), s, func(i int) bool { return i > 1 })
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, timedOut, ok := WaitForTimeout(context.Background(), s, 10*time.Millisecond, func(i int) bool { return i > 5 })
	assert.False(t, ok)
	assert.True(t, timedOut)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, timedOut, ok = WaitForTimeout(ctx, s, time.Minute, func(i int) bool { return i > 5 })
	assert.False(t, ok)
	assert.False(t, timedOut, "a cancelled parent is not a timeout")
}
