package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the snapshot in memory and rewrites a single JSON document
// on every successful Update. The document has top-level "users" and "posts"
// keys, the same layout older deployments of the dashboard wrote.
type FileStore struct {
	path  string
	mu    sync.RWMutex
	state *Snapshot
}

// OpenFile loads the snapshot from path. A missing file yields an empty
// snapshot; the file is only created on the first Update.
func OpenFile(path string) (*FileStore, error) {
	state := &Snapshot{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read store file: %w", err)
	default:
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("parse store file %s: %w", path, err)
		}
	}
	return &FileStore{path: path, state: state}, nil
}

// View runs fn against the current snapshot under a read lock.
func (f *FileStore) View(ctx context.Context, fn func(*Snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return fn(f.state)
}

// Update runs fn against a copy of the snapshot, persists the result, then
// swaps it in. A failed fn or a failed write leaves the previous state
// untouched, on disk and in memory.
func (f *FileStore) Update(ctx context.Context, fn func(*Snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := f.persist(next); err != nil {
		return err
	}
	f.state = next
	return nil
}

// persist writes the whole document to a temp file and renames it into
// place so a crash mid-write never leaves a truncated store.
func (f *FileStore) persist(state *Snapshot) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Ping reports whether the store is usable.
func (f *FileStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op; every Update is already durable.
func (f *FileStore) Close() error {
	return nil
}
