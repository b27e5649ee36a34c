package store

import (
	"context"
	"sync"
)

// MemoryStore implements Store without durability. Used in tests and as the
// STORE_DRIVER=memory option for throwaway environments.
type MemoryStore struct {
	mu    sync.RWMutex
	state *Snapshot
}

// OpenMemory returns an empty in-memory store.
func OpenMemory() *MemoryStore {
	return &MemoryStore{state: &Snapshot{}}
}

// View runs fn against the current snapshot under a read lock.
func (m *MemoryStore) View(ctx context.Context, fn func(*Snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(m.state)
}

// Update runs fn against a copy of the snapshot and swaps it in on success.
func (m *MemoryStore) Update(ctx context.Context, fn func(*Snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	m.state = next
	return nil
}

// Ping reports whether the store is usable.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
