// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("key not found")

// Store is a versioned key-value store with compare-and-swap writes.
//
// Get returns ErrNotFound for a missing key. CompareAndSwap writes value
// only if the stored version equals version (0 means the key must not
// exist yet) and reports whether the write happened.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, version int64, err error)
	CompareAndSwap(ctx context.Context, key string, value []byte, version int64) (bool, error)
}

type memEntry struct {
	value   []byte
	version int64
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return append([]byte(nil), e.value...), e.version, nil
}

func (m *MemoryStore) CompareAndSwap(_ context.Context, key string, value []byte, version int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[key].version != version {
		return false, nil
	}
	m.entries[key] = memEntry{value: append([]byte(nil), value...), version: version + 1}
	return true, nil
}
