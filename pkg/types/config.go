package types

import "time"

// HTTPConfig holds shared HTTP settings used by tiers that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trip-estimator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolverConfig holds settings for the aircraft specs resolver.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBaseURL is the authoritative specs API. Empty disables the tier.
	APIBaseURL string `json:"api_base_url" yaml:"api_base_url"`

	// APIKey authenticates against the specs API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ScrapeURL is a page template with {manufacturer} and {model}
	// placeholders. Empty disables the scraping tier.
	ScrapeURL string `json:"scrape_url" yaml:"scrape_url"`

	// ScrapeDelay is the minimum delay between two scrape fetches (default 2s).
	ScrapeDelay time.Duration `json:"scrape_delay" yaml:"scrape_delay"`

	// TierTimeout bounds each external tier; a timed-out tier produced nothing (default 10s).
	TierTimeout time.Duration `json:"tier_timeout" yaml:"tier_timeout"`

	// TTL is how long resolved specs stay fresh (default 90 days).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// CacheConfig holds settings for the persistent spec cache.
type CacheConfig struct {
	// Dir contains the cache database. Empty keeps the cache in memory.
	Dir string `json:"dir" yaml:"dir"`

	// LRUSize is the number of entries kept in the in-process front cache (default 256).
	LRUSize int `json:"lru_size" yaml:"lru_size"`
}

// CostConfig holds the pricing constants of the estimate engine.
type CostConfig struct {
	// DefaultFuelPrice is used when neither an override nor an airport price exists (default 8.5 per liter).
	DefaultFuelPrice float64 `json:"default_fuel_price" yaml:"default_fuel_price"`

	// FixedHourlyRate is the operational cost per block hour (default 2800).
	FixedHourlyRate float64 `json:"fixed_hourly_rate" yaml:"fixed_hourly_rate"`

	// ReserveMinutes is the reserve fuel expressed as cruise minutes (default 45).
	ReserveMinutes float64 `json:"reserve_minutes" yaml:"reserve_minutes"`

	// DefaultTaxiMinutes is used when a request gives no taxi time (default 10).
	DefaultTaxiMinutes float64 `json:"default_taxi_minutes" yaml:"default_taxi_minutes"`
}

// WithDefaults returns c with zero values replaced by defaults.
func (c CostConfig) WithDefaults() CostConfig {
	if c.DefaultFuelPrice <= 0 {
		c.DefaultFuelPrice = 8.5
	}
	if c.FixedHourlyRate <= 0 {
		c.FixedHourlyRate = 2800
	}
	if c.ReserveMinutes <= 0 {
		c.ReserveMinutes = 45
	}
	if c.DefaultTaxiMinutes <= 0 {
		c.DefaultTaxiMinutes = 10
	}
	return c
}

// LogConfig selects where and how verbosely to log.
type LogConfig struct {
	// Dir receives a rotating log file. Empty logs to stderr.
	Dir string `json:"dir" yaml:"dir"`

	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`
}

// EstimatorConfig groups all configuration for the trip estimator.
type EstimatorConfig struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Cost     CostConfig     `json:"cost" yaml:"cost"`
	Log      LogConfig      `json:"log" yaml:"log"`

	// AirportsFile is a YAML airport list. Empty uses the built-in set.
	AirportsFile string `json:"airports_file" yaml:"airports_file"`
}
