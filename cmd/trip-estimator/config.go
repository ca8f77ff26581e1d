// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// Default configuration values.
const (
	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "trip-estimator/0.1"
	defaultCacheDir    = "data"
	defaultSecretsDir  = ".secrets"
)

func setDefaults() {
	viper.SetDefault("secrets_dir", defaultSecretsDir)
	viper.SetDefault("cache.dir", defaultCacheDir)
	viper.SetDefault("cache.lru_size", 256)
	viper.SetDefault("resolver.timeout", defaultHTTPTimeout)
	viper.SetDefault("resolver.user_agent", defaultUserAgent)
	viper.SetDefault("resolver.scrape_delay", 2*time.Second)
	viper.SetDefault("resolver.tier_timeout", 10*time.Second)
	viper.SetDefault("resolver.ttl", 90*24*time.Hour)
	viper.SetDefault("log.level", "warn")
}

// loadConfig assembles the estimator configuration from viper, which has
// already merged flags, TRIP_ESTIMATOR_* environment variables and the
// config file.
func loadConfig() types.EstimatorConfig {
	return types.EstimatorConfig{
		Resolver: types.ResolverConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("resolver.timeout"),
				UserAgent: viper.GetString("resolver.user_agent"),
			},
			APIBaseURL:  viper.GetString("resolver.api_base_url"),
			APIKey:      viper.GetString("resolver.api_key"),
			ScrapeURL:   viper.GetString("resolver.scrape_url"),
			ScrapeDelay: viper.GetDuration("resolver.scrape_delay"),
			TierTimeout: viper.GetDuration("resolver.tier_timeout"),
			TTL:         viper.GetDuration("resolver.ttl"),
		},
		Cache: types.CacheConfig{
			Dir:     viper.GetString("cache.dir"),
			LRUSize: viper.GetInt("cache.lru_size"),
		},
		Cost: types.CostConfig{
			DefaultFuelPrice:   viper.GetFloat64("cost.default_fuel_price"),
			FixedHourlyRate:    viper.GetFloat64("cost.fixed_hourly_rate"),
			ReserveMinutes:     viper.GetFloat64("cost.reserve_minutes"),
			DefaultTaxiMinutes: viper.GetFloat64("cost.default_taxi_minutes"),
		}.WithDefaults(),
		Log: types.LogConfig{
			Dir:   viper.GetString("log.dir"),
			Level: viper.GetString("log.level"),
		},
		AirportsFile: viper.GetString("airports_file"),
	}
}
