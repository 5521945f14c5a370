// Package memory implements an in-memory kv.Store. It backs tests and
// throwaway sessions where nothing should touch the disk.
package memory

import (
	"context"
	"sync"

	"listy/kv"
)

// Store keeps all records in a map guarded by a RWMutex.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns the value for key, or (nil, nil) if it was never set.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Close releases nothing; it exists to satisfy kv.Store.
func (s *Store) Close() error {
	return nil
}

// Verify interface compliance at compile time
var _ kv.Store = (*Store)(nil)
