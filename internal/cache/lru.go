// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

const defaultLRUSize = 256

// LRUStore fronts a backing Store with a bounded in-process cache. Reads
// fall through to the backend on a miss and populate the cache; writes go
// to the backend first and update the cache only on success.
type LRUStore struct {
	backend Store
	lru     *lru.Cache[string, *types.CacheEntry]
}

// NewLRUStore wraps backend. size <= 0 uses the default of 256 entries.
func NewLRUStore(backend Store, size int) (*LRUStore, error) {
	if size <= 0 {
		size = defaultLRUSize
	}
	c, err := lru.New[string, *types.CacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUStore{backend: backend, lru: c}, nil
}

func (s *LRUStore) Get(ctx context.Context, key types.AircraftKey) (*types.CacheEntry, error) {
	k := key.Normalized()
	if e, ok := s.lru.Get(k); ok {
		return e.Clone(), nil
	}
	e, err := s.backend.Get(ctx, key)
	if err != nil || e == nil {
		return nil, err
	}
	s.lru.Add(k, e.Clone())
	return e, nil
}

func (s *LRUStore) Put(ctx context.Context, entry *types.CacheEntry) error {
	if err := s.backend.Put(ctx, entry); err != nil {
		return err
	}
	s.lru.Add(entry.Key.Normalized(), entry.Clone())
	return nil
}

// List always reads the backend.
func (s *LRUStore) List(ctx context.Context) ([]*types.CacheEntry, error) {
	return s.backend.List(ctx)
}

// Len returns the number of entries held in memory.
func (s *LRUStore) Len() int {
	return s.lru.Len()
}
