// Package storage holds the string-keyed stores the client persists credentials
// and the local cart in. Every implementation gives read-after-write consistency
// within a process; durability beyond that is up to the backend.
package storage

import (
	"context"
	"sync"

	"github.com/eshaffer321/foodapp-go/internal/types"
)

// Store is a flat key-value store
type Store interface {
	// Get returns the value stored at key, or types.ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// MultiRemove deletes all given keys
	MultiRemove(ctx context.Context, keys ...string) error
}

// MemoryStore keeps values in a map. Nothing survives the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", types.ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) MultiRemove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}
