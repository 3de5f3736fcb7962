package memory

import (
	"context"
	"sync"
)

// SettingsStore implements ports.SettingsStore over a mutex-guarded map.
type SettingsStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewSettingsStore creates an empty SettingsStore.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{values: make(map[string][]byte)}
}

// Get returns a copy of the value at key, or nil when absent.
func (s *SettingsStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.values[key]), nil
}

// Set upserts the value at key.
func (s *SettingsStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = clone(value)
	return nil
}

// Swap replaces the value at key under the store lock and returns the old one.
func (s *SettingsStore) Swap(ctx context.Context, key string, value []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.values[key]
	s.values[key] = clone(value)
	return prev, nil
}

// DeleteAll drops every setting.
func (s *SettingsStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string][]byte)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
