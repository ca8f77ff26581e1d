// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trip-estimator/internal/airports"
	"github.com/pdiddy/trip-estimator/internal/auto"
	"github.com/pdiddy/trip-estimator/internal/cache"
	"github.com/pdiddy/trip-estimator/internal/estimate"
	"github.com/pdiddy/trip-estimator/internal/secrets"
	"github.com/pdiddy/trip-estimator/internal/specs"
	"github.com/pdiddy/trip-estimator/internal/weather"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

// app holds the wired components a command works with.
type app struct {
	cfg      types.EstimatorConfig
	store    cache.Store
	resolver *specs.Resolver
	airports *airports.FileDirectory
	engine   *estimate.Engine
	auto     *auto.Estimator

	closer io.Closer
}

// newApp wires the cache, the resolver pipeline, the airport directory and
// the estimate engine from configuration. Wind flags on cmd, when present,
// select a static wind provider.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := loadConfig()

	var (
		backend cache.Store
		closer  io.Closer = nopCloser{}
	)
	if cfg.Cache.Dir != "" {
		s, err := cache.NewSQLiteStore(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening spec cache: %w", err)
		}
		backend, closer = s, s
	} else {
		backend = cache.NewMemoryStore()
	}
	store, err := cache.NewLRUStore(backend, cfg.Cache.LRUSize)
	if err != nil {
		closer.Close()
		return nil, err
	}

	rc := cfg.Resolver
	rc.APIKey = loadedSecrets.Get(secrets.KeyAircraftAPI, rc.APIKey)
	if ua := loadedSecrets.Get(secrets.KeyScrapeUserAgent, ""); ua != "" {
		rc.UserAgent = ua
	}

	client := &http.Client{Timeout: rc.Timeout}
	resolver := specs.NewResolver(store, specs.DefaultTiers(client, rc, logger), rc, logger)

	dir := airports.NewFileDirectory(cfg.AirportsFile)
	engine := estimate.NewEngine(resolver, dir, windFrom(cmd), cfg.Cost, logger)

	return &app{
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		airports: dir,
		engine:   engine,
		auto:     auto.New(engine, logger),
		closer:   closer,
	}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}

// windFrom returns a static wind provider when --wind-speed was given.
func windFrom(cmd *cobra.Command) weather.WindProvider {
	f := cmd.Flags().Lookup("wind-speed")
	if f == nil || !f.Changed {
		return weather.None{}
	}
	speed, _ := cmd.Flags().GetFloat64("wind-speed")
	dir, _ := cmd.Flags().GetFloat64("wind-direction")
	temp, _ := cmd.Flags().GetFloat64("temperature")
	return weather.Static{Speed: speed, Direction: dir, Temperature: temp}
}

func addWindFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("wind-speed", 0, "wind speed at cruise altitude in knots (default: calm air)")
	cmd.Flags().Float64("wind-direction", 0, "direction the wind blows from, degrees true")
	cmd.Flags().Float64("temperature", 15, "outside air temperature at cruise altitude, °C")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
