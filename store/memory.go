package store

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemory returns a store that lives as long as the process
func NewMemory() PreferenceStore {
	return &memoryStore{values: map[string]map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, profile, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[profile][key]
	return v, ok, nil
}

func (m *memoryStore) Set(_ context.Context, profile, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[profile] == nil {
		m.values[profile] = map[string]string{}
	}

	m.values[profile][key] = value
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}
