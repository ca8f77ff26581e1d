// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the trip estimator:
// aircraft identity and resolved performance specs, the spec cache entry,
// airports and wind, flight estimate requests and results, and configuration.
package types

import (
	"strconv"
	"strings"
	"time"
)

// AircraftKey identifies an aircraft type. Keys compare case-insensitively;
// Normalized returns the form used as the cache key.
type AircraftKey struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
	Variant      string `json:"variant,omitempty" yaml:"variant,omitempty"`
	Year         int    `json:"year,omitempty" yaml:"year,omitempty"`
}

// Normalized returns the lowercased, trimmed key joined with "|".
// An empty variant and a zero year are encoded as empty segments.
func (k AircraftKey) Normalized() string {
	year := ""
	if k.Year > 0 {
		year = strconv.Itoa(k.Year)
	}
	parts := []string{
		normalizePart(k.Manufacturer),
		normalizePart(k.Model),
		normalizePart(k.Variant),
		year,
	}
	return strings.Join(parts, "|")
}

// Equal reports whether two keys identify the same aircraft, ignoring case
// and surrounding whitespace.
func (k AircraftKey) Equal(other AircraftKey) bool {
	return k.Normalized() == other.Normalized()
}

// Name returns the human-readable "Manufacturer Model Variant" form.
func (k AircraftKey) Name() string {
	return strings.Join(strings.Fields(k.Manufacturer+" "+k.Model+" "+k.Variant), " ")
}

func (k AircraftKey) String() string {
	if k.Year > 0 {
		return k.Name() + " (" + strconv.Itoa(k.Year) + ")"
	}
	return k.Name()
}

func normalizePart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// SourceType identifies where a spec value came from.
type SourceType string

const (
	SourceManual       SourceType = "manual"
	SourceManufacturer SourceType = "manufacturer"
	SourceAPI          SourceType = "api"
	SourceScrape       SourceType = "scrape"
	SourceEstimate     SourceType = "estimate"
	SourceHeuristic    SourceType = "heuristic"
)

// Confidence is a qualitative trust level for a value or an estimate.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Measurement is a single spec value with provenance. Numeric specs use
// Value; categorical specs (engine type, fuel type) use Text.
type Measurement struct {
	Value       float64    `json:"value,omitempty" yaml:"value,omitempty"`
	Text        string     `json:"text,omitempty" yaml:"text,omitempty"`
	Unit        string     `json:"unit,omitempty" yaml:"unit,omitempty"`
	Source      SourceType `json:"source" yaml:"source"`
	CollectedAt time.Time  `json:"collected_at" yaml:"collected_at"`
	Confidence  Confidence `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// SourceEntry records one contribution to a ResolvedSpecs.
type SourceEntry struct {
	Type        SourceType `json:"type" yaml:"type"`
	Tier        string     `json:"tier,omitempty" yaml:"tier,omitempty"`
	URL         string     `json:"url,omitempty" yaml:"url,omitempty"`
	CollectedAt time.Time  `json:"collected_at" yaml:"collected_at"`
	Fields      []string   `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// CruiseSpeeds holds true airspeeds in knots.
type CruiseSpeeds struct {
	Normal   *Measurement `json:"normal,omitempty" yaml:"normal,omitempty"`
	Economic *Measurement `json:"economic,omitempty" yaml:"economic,omitempty"`
	Max      *Measurement `json:"max,omitempty" yaml:"max,omitempty"`
}

// FuelBurns holds per-phase fuel flow in liters per hour.
type FuelBurns struct {
	Climb   *Measurement `json:"climb,omitempty" yaml:"climb,omitempty"`
	Cruise  *Measurement `json:"cruise,omitempty" yaml:"cruise,omitempty"`
	Descent *Measurement `json:"descent,omitempty" yaml:"descent,omitempty"`
	Idle    *Measurement `json:"idle,omitempty" yaml:"idle,omitempty"`
}

// ResolvedSpecs is the per-field performance record for one aircraft.
// A nil Measurement means the field is unknown.
type ResolvedSpecs struct {
	CruiseSpeed    CruiseSpeeds `json:"cruise_speed" yaml:"cruise_speed"`
	FuelBurn       FuelBurns    `json:"fuel_burn" yaml:"fuel_burn"`
	MTOW           *Measurement `json:"mtow,omitempty" yaml:"mtow,omitempty"`
	Seats          *Measurement `json:"seats,omitempty" yaml:"seats,omitempty"`
	Range          *Measurement `json:"range,omitempty" yaml:"range,omitempty"`
	EngineType     *Measurement `json:"engine_type,omitempty" yaml:"engine_type,omitempty"`
	EnginePower    *Measurement `json:"engine_power,omitempty" yaml:"engine_power,omitempty"`
	FuelType       *Measurement `json:"fuel_type,omitempty" yaml:"fuel_type,omitempty"`
	RateOfClimb    *Measurement `json:"rate_of_climb,omitempty" yaml:"rate_of_climb,omitempty"`
	CruiseAltitude *Measurement `json:"cruise_altitude,omitempty" yaml:"cruise_altitude,omitempty"`

	IsComplete    bool          `json:"is_complete" yaml:"is_complete"`
	MissingFields []string      `json:"missing_fields,omitempty" yaml:"missing_fields,omitempty"`
	Sources       []SourceEntry `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Field is a named, addressable measurement slot of a ResolvedSpecs.
type Field struct {
	Name string
	Ptr  **Measurement
}

// Fields returns every measurement slot in a fixed order. Merge and
// completeness logic iterate this list instead of naming fields one by one.
func (s *ResolvedSpecs) Fields() []Field {
	return []Field{
		{"cruiseSpeed.normal", &s.CruiseSpeed.Normal},
		{"cruiseSpeed.economic", &s.CruiseSpeed.Economic},
		{"cruiseSpeed.max", &s.CruiseSpeed.Max},
		{"fuelBurn.climb", &s.FuelBurn.Climb},
		{"fuelBurn.cruise", &s.FuelBurn.Cruise},
		{"fuelBurn.descent", &s.FuelBurn.Descent},
		{"fuelBurn.idle", &s.FuelBurn.Idle},
		{"mtow", &s.MTOW},
		{"seats", &s.Seats},
		{"range", &s.Range},
		{"engineType", &s.EngineType},
		{"enginePower", &s.EnginePower},
		{"fuelType", &s.FuelType},
		{"rateOfClimb", &s.RateOfClimb},
		{"cruiseAltitude", &s.CruiseAltitude},
	}
}

// PresentFields lists the names of the fields that hold a value.
func (s *ResolvedSpecs) PresentFields() []string {
	var names []string
	for _, f := range s.Fields() {
		if *f.Ptr != nil {
			names = append(names, f.Name)
		}
	}
	return names
}

// Recompute refreshes IsComplete and MissingFields. Specs are complete when
// a selectable cruise speed (normal or economic) and the cruise fuel burn
// are both present.
func (s *ResolvedSpecs) Recompute() {
	s.MissingFields = s.MissingFields[:0]
	for _, f := range s.Fields() {
		if *f.Ptr == nil {
			s.MissingFields = append(s.MissingFields, f.Name)
		}
	}
	if len(s.MissingFields) == 0 {
		s.MissingFields = nil
	}
	hasSpeed := s.CruiseSpeed.Normal != nil || s.CruiseSpeed.Economic != nil
	s.IsComplete = hasSpeed && s.FuelBurn.Cruise != nil
}

// Clone returns a deep copy.
func (s *ResolvedSpecs) Clone() *ResolvedSpecs {
	if s == nil {
		return nil
	}
	out := &ResolvedSpecs{IsComplete: s.IsComplete}
	src := s.Fields()
	for i, f := range out.Fields() {
		if m := *src[i].Ptr; m != nil {
			c := *m
			*f.Ptr = &c
		}
	}
	if s.MissingFields != nil {
		out.MissingFields = append([]string(nil), s.MissingFields...)
	}
	for _, e := range s.Sources {
		e.Fields = append([]string(nil), e.Fields...)
		out.Sources = append(out.Sources, e)
	}
	return out
}

// CacheEntry is the persisted record for one aircraft key. A nil StaleAt
// marks a manual override that is never refreshed.
type CacheEntry struct {
	Key       AircraftKey   `json:"key" yaml:"key"`
	Specs     ResolvedSpecs `json:"specs" yaml:"specs"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at"`
	StaleAt   *time.Time    `json:"stale_at" yaml:"stale_at"`
}

// IsFresh reports whether the entry can be served without re-resolution.
func (e *CacheEntry) IsFresh(now time.Time) bool {
	return e.StaleAt == nil || !now.After(*e.StaleAt)
}

// IsOverride reports whether the entry is a permanent manual override.
func (e *CacheEntry) IsOverride() bool {
	return e.StaleAt == nil
}

// Clone returns a deep copy.
func (e *CacheEntry) Clone() *CacheEntry {
	if e == nil {
		return nil
	}
	out := *e
	out.Specs = *e.Specs.Clone()
	if e.StaleAt != nil {
		t := *e.StaleAt
		out.StaleAt = &t
	}
	return &out
}
