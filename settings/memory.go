package settings

import (
	"context"
	"encoding/json"
	"sync"

	"emperror.dev/errors"
)

// Memory is an in-process Store. Values do not survive a restart.
type Memory struct {
	mu     sync.RWMutex
	values map[Scope]map[string][]byte
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[Scope]map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, scope Scope, key string, v any) error {
	m.mu.RLock()
	raw, ok := m.values[scope][key]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	return errors.Wrap(json.Unmarshal(raw, v), "unmarshaling value")
}

func (m *Memory) Set(_ context.Context, scope Scope, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling value")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[scope] == nil {
		m.values[scope] = make(map[string][]byte)
	}
	m.values[scope][key] = b
	return nil
}

func (m *Memory) Delete(_ context.Context, scope Scope, key string) error {
	m.mu.Lock()
	delete(m.values[scope], key)
	m.mu.Unlock()
	return nil
}
