package common

import "sync"

// Map is a map guarded by a read-write mutex.
type Map[K comparable, V any] struct {
	m  map[K]V
	mu sync.RWMutex
}

// NewMap returns a new Map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		m: make(map[K]V),
	}
}

// Get gets the value at key k, or the zero value if not set.
func (m *Map[K, V]) Get(k K) (v V, ok bool) {
	m.mu.RLock()
	v, ok = m.m[k]
	m.mu.RUnlock()
	return v, ok
}

// Set sets the key k to the value v.
func (m *Map[K, V]) Set(k K, v V) {
	m.mu.Lock()
	m.m[k] = v
	m.mu.Unlock()
}

// GetOrSet returns the value at k, storing the result of fn first if k is unset.
func (m *Map[K, V]) GetOrSet(k K, fn func() V) V {
	if v, ok := m.Get(k); ok {
		return v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.m[k]; ok {
		return v
	}
	v := fn()
	m.m[k] = v
	return v
}

// Remove removes k, returning whether it existed.
func (m *Map[K, V]) Remove(k K) (exists bool) {
	m.mu.Lock()
	_, exists = m.m[k]
	delete(m.m, k)
	m.mu.Unlock()
	return exists
}

// Length returns the size of m.
func (m *Map[K, V]) Length() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
