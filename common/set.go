package common

import "sync"

type entry struct{}

// Set is a concurrent, unordered set.
type Set[T comparable] struct {
	m  map[T]entry
	mu sync.RWMutex
}

// NewSet returns a new Set containing initial.
func NewSet[T comparable](initial ...T) *Set[T] {
	s := &Set[T]{m: make(map[T]entry, len(initial))}
	for _, v := range initial {
		s.m[v] = entry{}
	}
	return s
}

// Add adds v to the set. It returns false if v was already present,
// which makes it usable as a try-lock keyed on v.
func (s *Set[T]) Add(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.m[v]; exists {
		return false
	}
	s.m[v] = entry{}
	return true
}

// Remove removes v from the set, returning whether it was present.
func (s *Set[T]) Remove(v T) (exists bool) {
	s.mu.Lock()
	_, exists = s.m[v]
	delete(s.m, v)
	s.mu.Unlock()
	return exists
}

// Exists returns true if v is in the set.
func (s *Set[T]) Exists(v T) (exists bool) {
	s.mu.RLock()
	_, exists = s.m[v]
	s.mu.RUnlock()
	return exists
}

// Length returns the number of values in the set.
func (s *Set[T]) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
