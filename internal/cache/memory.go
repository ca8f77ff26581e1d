// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// MemoryStore is a process-local Store. Entries are cloned on the way in
// and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*types.CacheEntry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*types.CacheEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key types.AircraftKey) (*types.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[key.Normalized()].Clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, entry *types.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Key.Normalized()] = entry.Clone()
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]*types.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*types.CacheEntry, len(keys))
	for i, k := range keys {
		out[i] = m.entries[k].Clone()
	}
	return out, nil
}
