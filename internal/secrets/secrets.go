// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials for the external spec tiers from a
// directory of plain-text files. Each file is one secret: the filename is
// the key name and the trimmed file contents are the value. An environment
// variable TRIP_ESTIMATOR_<KEY> (upper-cased, dashes as underscores) takes
// precedence over the file.
//
// Known keys: aircraft-api-key, scrape-user-agent.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	KeyAircraftAPI     = "aircraft-api-key"
	KeyScrapeUserAgent = "scrape-user-agent"

	envPrefix = "TRIP_ESTIMATOR_"
)

// Set holds loaded secrets.
type Set map[string]string

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty Set. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (Set, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "err", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}

// Get returns explicit if non-empty, then the environment override, then
// the loaded value for key.
func (s Set) Get(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(EnvName(key)); v != "" {
		return v
	}
	return s[key]
}

// Keys returns the loaded key names (never the values).
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
