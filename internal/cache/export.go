// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// ExportEntry is the flattened form of a cache entry written by exports.
type ExportEntry struct {
	Key       string              `json:"key" yaml:"key"`
	Aircraft  types.AircraftKey   `json:"aircraft" yaml:"aircraft"`
	Override  bool                `json:"override" yaml:"override"`
	Complete  bool                `json:"complete" yaml:"complete"`
	Missing   []string            `json:"missing,omitempty" yaml:"missing,omitempty"`
	UpdatedAt time.Time           `json:"updated_at" yaml:"updated_at"`
	StaleAt   *time.Time          `json:"stale_at" yaml:"stale_at"`
	Specs     types.ResolvedSpecs `json:"specs" yaml:"specs"`
}

// Export returns every cached entry in export form, ordered by key.
func Export(ctx context.Context, s Store) ([]ExportEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries for export: %w", err)
	}
	out := make([]ExportEntry, len(entries))
	for i, e := range entries {
		out[i] = ExportEntry{
			Key:       e.Key.Normalized(),
			Aircraft:  e.Key,
			Override:  e.IsOverride(),
			Complete:  e.Specs.IsComplete,
			Missing:   e.Specs.MissingFields,
			UpdatedAt: e.UpdatedAt,
			StaleAt:   e.StaleAt,
			Specs:     e.Specs,
		}
	}
	return out, nil
}

// ExportYAML writes the cache to dir/spec-cache.yaml and returns the path.
func ExportYAML(ctx context.Context, s Store, dir string) (string, error) {
	entries, err := Export(ctx, s)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(dir, "spec-cache.yaml", data)
}

// ExportJSON writes the cache to dir/spec-cache.json and returns the path.
func ExportJSON(ctx context.Context, s Store, dir string) (string, error) {
	entries, err := Export(ctx, s)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(dir, "spec-cache.json", data)
}

func writeExport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
