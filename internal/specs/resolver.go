// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package specs resolves aircraft performance specs through an ordered
// pipeline of tiers (authoritative API, scraping, local heuristic) and
// caches the merged result with a staleness deadline. Manual overrides
// replace the cached specs and never go stale.
package specs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pdiddy/trip-estimator/internal/cache"
	"github.com/pdiddy/trip-estimator/internal/logging"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

const (
	// DefaultTTL is how long resolved specs stay fresh.
	DefaultTTL = 90 * 24 * time.Hour

	defaultTierTimeout = 10 * time.Second
)

// ErrSpecsUnavailable is matched by SpecsUnavailableError.
var ErrSpecsUnavailable = errors.New("specs unavailable")

// SpecsUnavailableError reports that no tier produced usable specs. With
// the heuristic tier in the pipeline this indicates a programming error.
type SpecsUnavailableError struct {
	Key     types.AircraftKey
	Missing []string
}

func (e *SpecsUnavailableError) Error() string {
	return fmt.Sprintf("specs unavailable for %s (missing %v)", e.Key, e.Missing)
}

func (e *SpecsUnavailableError) Is(target error) bool {
	return target == ErrSpecsUnavailable
}

// Tier is one source in the resolution pipeline. Lookup returns (nil, nil)
// on a miss; current holds the specs merged from earlier tiers.
type Tier interface {
	Name() string
	Lookup(ctx context.Context, key types.AircraftKey, current *types.ResolvedSpecs) (*types.ResolvedSpecs, error)
}

// Resolver runs the tier pipeline behind a cache.
type Resolver struct {
	store       cache.Store
	tiers       []Tier
	ttl         time.Duration
	tierTimeout time.Duration
	logger      *slog.Logger

	// Now is the clock; tests replace it.
	Now func() time.Time

	locks keyLocks
}

// NewResolver returns a resolver over store running tiers in order. Zero
// TTL and TierTimeout in cfg use the defaults (90 days, 10 s).
func NewResolver(store cache.Store, tiers []Tier, cfg types.ResolverConfig, logger *slog.Logger) *Resolver {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	timeout := cfg.TierTimeout
	if timeout <= 0 {
		timeout = defaultTierTimeout
	}
	return &Resolver{
		store:       store,
		tiers:       tiers,
		ttl:         ttl,
		tierTimeout: timeout,
		logger:      logging.OrDiscard(logger),
		Now:         time.Now,
	}
}

// DefaultTiers builds the standard pipeline: API, scrape, heuristic. The
// network tiers miss when their URLs are not configured.
func DefaultTiers(client *http.Client, cfg types.ResolverConfig, logger *slog.Logger) []Tier {
	return []Tier{
		&APITier{
			Client:    client,
			BaseURL:   cfg.APIBaseURL,
			APIKey:    cfg.APIKey,
			UserAgent: cfg.UserAgent,
			Logger:    logger,
		},
		&ScrapeTier{
			Client:      client,
			URLTemplate: cfg.ScrapeURL,
			UserAgent:   cfg.UserAgent,
			Delay:       cfg.ScrapeDelay,
			Logger:      logger,
		},
		&HeuristicTier{},
	}
}

// Resolve returns specs for key, from cache when the entry is fresh or an
// override, otherwise by running the pipeline and persisting the result.
// When ctx ends during the pipeline nothing is persisted and ctx's error
// is returned.
func (r *Resolver) Resolve(ctx context.Context, key types.AircraftKey) (*types.ResolvedSpecs, error) {
	unlock := r.locks.lock(key.Normalized())
	defer unlock()

	now := r.Now()
	existing, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn("spec cache read failed", "key", key.Normalized(), "err", err)
		existing = nil
	}
	if existing != nil && existing.IsFresh(now) {
		r.logger.Debug("spec cache hit", "key", key.Normalized(), "override", existing.IsOverride())
		return &existing.Specs, nil
	}

	specs := r.runPipeline(ctx, key)
	if err := ctx.Err(); err != nil {
		// Tiers cut short by the caller counted as misses; never persist that.
		return nil, fmt.Errorf("resolving %s: %w", key, err)
	}
	if !specs.IsComplete {
		return nil, &SpecsUnavailableError{Key: key, Missing: specs.MissingFields}
	}

	staleAt := now.Add(r.ttl)
	entry := &types.CacheEntry{
		Key:       key,
		Specs:     *specs,
		CreatedAt: now,
		UpdatedAt: now,
		StaleAt:   &staleAt,
	}
	if existing != nil {
		entry.CreatedAt = existing.CreatedAt
	}
	if err := r.store.Put(ctx, entry); err != nil {
		r.logger.Warn("spec cache write failed", "key", key.Normalized(), "err", err)
	}
	return specs, nil
}

// runPipeline queries each tier in order and merges the results. Tier
// errors and timeouts count as misses. The heuristic tier, or any tier,
// is skipped once no field remains missing.
func (r *Resolver) runPipeline(ctx context.Context, key types.AircraftKey) *types.ResolvedSpecs {
	specs := &types.ResolvedSpecs{}
	specs.Recompute()

	for _, tier := range r.tiers {
		if len(specs.MissingFields) == 0 {
			break
		}
		part, err := r.lookup(ctx, tier, key, specs)
		if err != nil {
			r.logger.Warn("spec tier failed", "tier", tier.Name(), "key", key.Normalized(), "err", err)
			continue
		}
		if part == nil {
			r.logger.Debug("spec tier miss", "tier", tier.Name(), "key", key.Normalized())
			continue
		}
		filled := Merge(specs, part)
		specs.Recompute()
		r.logger.Debug("spec tier hit", "tier", tier.Name(), "key", key.Normalized(), "filled", filled)
	}
	return specs
}

func (r *Resolver) lookup(ctx context.Context, tier Tier, key types.AircraftKey, current *types.ResolvedSpecs) (*types.ResolvedSpecs, error) {
	tctx, cancel := context.WithTimeout(ctx, r.tierTimeout)
	defer cancel()
	return tier.Lookup(tctx, key, current.Clone())
}

// SetManualOverride merges overrides onto the existing (or empty) specs
// with overrides winning, records a manual source, clears the staleness
// deadline and persists immediately. The tier pipeline is not consulted.
func (r *Resolver) SetManualOverride(ctx context.Context, key types.AircraftKey, overrides *types.ResolvedSpecs) (*types.CacheEntry, error) {
	unlock := r.locks.lock(key.Normalized())
	defer unlock()

	now := r.Now()
	existing, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	entry := &types.CacheEntry{Key: key, CreatedAt: now}
	if existing != nil {
		entry.Specs = existing.Specs
		entry.CreatedAt = existing.CreatedAt
	}

	applied := &types.ResolvedSpecs{}
	if overrides != nil {
		applied = overrides.Clone()
		applied.Sources = nil
	}
	for _, f := range applied.Fields() {
		m := *f.Ptr
		if m == nil {
			continue
		}
		if m.Source == "" {
			m.Source = types.SourceManual
		}
		if m.CollectedAt.IsZero() {
			m.CollectedAt = now
		}
	}
	fields := Override(&entry.Specs, applied)
	entry.Specs.Sources = append(entry.Specs.Sources, types.SourceEntry{
		Type: types.SourceManual, CollectedAt: now, Fields: fields,
	})
	entry.Specs.Recompute()
	entry.UpdatedAt = now
	entry.StaleAt = nil

	if err := r.store.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("persisting override for %s: %w", key, err)
	}
	r.logger.Info("manual override stored", "key", key.Normalized(), "fields", fields)
	return entry, nil
}

// Entry returns the cached entry for key without resolving. It returns
// (nil, nil) when nothing is cached.
func (r *Resolver) Entry(ctx context.Context, key types.AircraftKey) (*types.CacheEntry, error) {
	return r.store.Get(ctx, key)
}

// keyLocks serializes work per cache key. Locks are never removed; the
// set of aircraft keys in a process is small.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyLocks) lock(key string) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[string]*sync.Mutex)
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
