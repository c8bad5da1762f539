// apps/entropy-server/internal/store/memory.go
//
// In-memory session store used for simulated games and live trackers.
//
// Characteristics:
//   - Stores values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Get returns ErrNotFound for missing IDs.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for sessions.
type Store[T any] interface {
	// Save persists or updates a value under id.
	Save(ctx context.Context, id string, v T) error

	// Get retrieves a value by ID.
	Get(ctx context.Context, id string) (T, error)

	// Delete removes a value by ID.
	Delete(ctx context.Context, id string) error

	// Len reports the number of stored values.
	Len() int

	// Range calls fn for every stored value until fn returns false. fn must
	// not call back into the store.
	Range(fn func(id string, v T) bool)
}

// memory is an in-memory map-based Store implementation.
type memory[T any] struct {
	mu    sync.RWMutex // guards items
	items map[string]T
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore[T any]() Store[T] {
	return &memory[T]{items: make(map[string]T)}
}

func (m *memory[T]) Save(ctx context.Context, id string, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = v
	return nil
}

func (m *memory[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[id]; ok {
		return v, nil
	}
	var zero T
	return zero, ErrNotFound
}

func (m *memory[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *memory[T]) Range(fn func(id string, v T) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, v := range m.items {
		if !fn(id, v) {
			return
		}
	}
}
