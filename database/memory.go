package database

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store. It backs tests and the KV_BACKEND=memory
// development mode where no ArangoDB is reachable. Values are stored as
// marshaled JSON so reads see a copy, not shared state.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

// Get reads the value stored under key into out.
func (s *MemoryStore) Get(_ context.Context, key string, out interface{}) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

// Set replaces the value stored under key.
func (s *MemoryStore) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*ArangoStore)(nil)
