package credential

import (
	"sync"
	"time"
)

// Store is one location that can hold a single named value. Every store is
// best-effort: the reconciler never lets a store failure surface to callers.
type Store interface {
	// Name identifies the store for logging and token origin reporting.
	Name() string
	// Read returns the stored value, or "" when absent.
	Read() (string, error)
	// Write persists the value. Stores without expiry semantics ignore ttl.
	Write(value string, ttl time.Duration) error
	// Clear removes the value.
	Clear() error
}

// MemoryStore holds a value for the lifetime of the process. It is the
// session-scoped tier of the credential fallback chain.
type MemoryStore struct {
	name string

	mu    sync.Mutex
	value string
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{name: name}
}

// Name identifies the store.
func (s *MemoryStore) Name() string { return s.name }

// Read returns the stored value.
func (s *MemoryStore) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

// Write replaces the stored value. TTL does not apply in memory.
func (s *MemoryStore) Write(value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	return nil
}

// Clear empties the store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	return nil
}
