// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// --- test helpers ---

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleEntry(model string, stale bool) *types.CacheEntry {
	specs := types.ResolvedSpecs{
		CruiseSpeed: types.CruiseSpeeds{
			Normal: &types.Measurement{Value: 120, Unit: "kt", Source: types.SourceHeuristic, CollectedAt: t0},
		},
		FuelBurn: types.FuelBurns{
			Cruise: &types.Measurement{Value: 40, Unit: "L/h", Source: types.SourceHeuristic, CollectedAt: t0},
		},
		Sources: []types.SourceEntry{{Type: types.SourceHeuristic, Tier: "heuristic", CollectedAt: t0}},
	}
	specs.Recompute()

	e := &types.CacheEntry{
		Key:       types.AircraftKey{Manufacturer: "Cessna", Model: model},
		Specs:     specs,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	if stale {
		s := t0.Add(90 * 24 * time.Hour)
		e.StaleAt = &s
	}
	return e
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	front, err := NewLRUStore(NewMemoryStore(), 4)
	require.NoError(t, err)

	return map[string]Store{
		"sqlite": sq,
		"memory": NewMemoryStore(),
		"lru":    front,
	}
}

// --- Store contract ---

func TestStoreGetMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			e, err := s.Get(context.Background(), types.AircraftKey{Manufacturer: "Piper", Model: "Archer"})
			require.NoError(t, err)
			assert.Nil(t, e)
		})
	}
}

func TestStorePutGetRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleEntry("172", true)
			require.NoError(t, s.Put(ctx, want))

			// Lookup is case-insensitive on the key.
			got, err := s.Get(ctx, types.AircraftKey{Manufacturer: "CESSNA", Model: " 172 "})
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, want.Key, got.Key)
			assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
			require.NotNil(t, got.StaleAt)
			assert.True(t, want.StaleAt.Equal(*got.StaleAt))
			assert.Equal(t, 120.0, got.Specs.CruiseSpeed.Normal.Value)
			assert.True(t, got.Specs.IsComplete)
		})
	}
}

func TestStorePutReplacesWholeEntry(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, sampleEntry("172", true)))

			override := sampleEntry("172", false)
			override.Specs.CruiseSpeed.Normal.Value = 118
			override.Specs.CruiseSpeed.Normal.Source = types.SourceManual
			require.NoError(t, s.Put(ctx, override))

			got, err := s.Get(ctx, override.Key)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Nil(t, got.StaleAt, "override entry must keep a null stale time")
			assert.Equal(t, 118.0, got.Specs.CruiseSpeed.Normal.Value)
			assert.Equal(t, types.SourceManual, got.Specs.CruiseSpeed.Normal.Source)
		})
	}
}

func TestStoreReturnsIndependentCopies(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			e := sampleEntry("172", true)
			require.NoError(t, s.Put(ctx, e))

			e.Specs.CruiseSpeed.Normal.Value = 999

			got, err := s.Get(ctx, e.Key)
			require.NoError(t, err)
			got.Specs.CruiseSpeed.Normal.Value = 555

			again, err := s.Get(ctx, e.Key)
			require.NoError(t, err)
			assert.Equal(t, 120.0, again.Specs.CruiseSpeed.Normal.Value)
		})
	}
}

func TestStoreListOrdered(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, m := range []string{"182", "152", "172"} {
				require.NoError(t, s.Put(ctx, sampleEntry(m, true)))
			}
			entries, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, "152", entries[0].Key.Model)
			assert.Equal(t, "172", entries[1].Key.Model)
			assert.Equal(t, "182", entries[2].Key.Model)
		})
	}
}

// --- SQLite specifics ---

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, sampleEntry("172", false)))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, types.AircraftKey{Manufacturer: "cessna", Model: "172"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsOverride())

	var staleAt *string
	require.NoError(t, s.db.QueryRow(
		`SELECT stale_at FROM spec_cache WHERE cache_key = ?`, got.Key.Normalized(),
	).Scan(&staleAt))
	assert.Nil(t, staleAt)
}

// --- LRU front cache ---

type countingStore struct {
	Store
	gets int
}

func (c *countingStore) Get(ctx context.Context, key types.AircraftKey) (*types.CacheEntry, error) {
	c.gets++
	return c.Store.Get(ctx, key)
}

func TestLRUStoreServesRepeatReadsFromMemory(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Store: NewMemoryStore()}
	require.NoError(t, backend.Put(ctx, sampleEntry("172", true)))

	s, err := NewLRUStore(backend, 2)
	require.NoError(t, err)

	key := types.AircraftKey{Manufacturer: "Cessna", Model: "172"}
	for i := 0; i < 3; i++ {
		e, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, e)
	}
	assert.Equal(t, 1, backend.gets)
	assert.Equal(t, 1, s.Len())
}

func TestLRUStoreEvicts(t *testing.T) {
	ctx := context.Background()
	s, err := NewLRUStore(NewMemoryStore(), 2)
	require.NoError(t, err)

	for _, m := range []string{"152", "172", "182"} {
		require.NoError(t, s.Put(ctx, sampleEntry(m, true)))
	}
	assert.Equal(t, 2, s.Len())

	// Evicted entries are still served by the backend.
	e, err := s.Get(ctx, types.AircraftKey{Manufacturer: "Cessna", Model: "152"})
	require.NoError(t, err)
	assert.NotNil(t, e)
}

// --- export ---

func TestExportYAMLAndJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, sampleEntry("172", true)))
	require.NoError(t, s.Put(ctx, sampleEntry("182", false)))

	dir := filepath.Join(t.TempDir(), "export")

	yamlPath, err := ExportYAML(ctx, s, dir)
	require.NoError(t, err)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []ExportEntry
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "cessna|172||", fromYAML[0].Key)
	assert.False(t, fromYAML[0].Override)
	assert.True(t, fromYAML[1].Override)

	jsonPath, err := ExportJSON(ctx, s, dir)
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []ExportEntry
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.True(t, fromJSON[0].Complete)
}
