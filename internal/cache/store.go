// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists resolved aircraft specs keyed by the normalized
// aircraft key. The SQLite store is the durable backend; the LRU store
// fronts any backend with an in-process cache; the memory store serves
// tests and runs without a cache directory.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

const dbFile = "spec-cache.db"

// Store is the key-value interface the specs resolver needs. Get returns
// (nil, nil) when no entry exists for key.
type Store interface {
	Get(ctx context.Context, key types.AircraftKey) (*types.CacheEntry, error)
	Put(ctx context.Context, entry *types.CacheEntry) error
	List(ctx context.Context) ([]*types.CacheEntry, error)
}

// SQLiteStore keeps cache entries in a SQLite database. The entry itself
// is stored as JSON; key parts and timestamps are broken out as columns
// for inspection and export ordering.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates dir/spec-cache.db and its schema.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS spec_cache (
			cache_key TEXT PRIMARY KEY,
			manufacturer TEXT NOT NULL,
			model TEXT NOT NULL,
			variant TEXT,
			year INTEGER,
			entry TEXT NOT NULL,
			is_complete INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			stale_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spec_cache_stale_at ON spec_cache(stale_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get loads the entry for key.
func (s *SQLiteStore) Get(ctx context.Context, key types.AircraftKey) (*types.CacheEntry, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT entry FROM spec_cache WHERE cache_key = ?`, key.Normalized(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", key.Normalized(), err)
	}
	return decodeEntry(raw)
}

// Put upserts entry. The whole entry is replaced.
func (s *SQLiteStore) Put(ctx context.Context, entry *types.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	var staleAt any
	if entry.StaleAt != nil {
		staleAt = entry.StaleAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO spec_cache (cache_key, manufacturer, model, variant, year, entry, is_complete, created_at, updated_at, stale_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
			manufacturer=excluded.manufacturer, model=excluded.model,
			variant=excluded.variant, year=excluded.year, entry=excluded.entry,
			is_complete=excluded.is_complete, created_at=excluded.created_at,
			updated_at=excluded.updated_at, stale_at=excluded.stale_at`,
		entry.Key.Normalized(), entry.Key.Manufacturer, entry.Key.Model,
		entry.Key.Variant, entry.Key.Year, string(data), entry.Specs.IsComplete,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
		staleAt,
	)
	if err != nil {
		return fmt.Errorf("upserting cache entry %s: %w", entry.Key.Normalized(), err)
	}
	return nil
}

// List returns every entry ordered by cache key.
func (s *SQLiteStore) List(ctx context.Context) ([]*types.CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entry FROM spec_cache ORDER BY cache_key`)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	var entries []*types.CacheEntry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		e, err := decodeEntry(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func decodeEntry(raw string) (*types.CacheEntry, error) {
	var e types.CacheEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("parsing cache entry: %w", err)
	}
	return &e, nil
}
