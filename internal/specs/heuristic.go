// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package specs

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// Family is a broad aircraft class used by the heuristic tier.
type Family string

const (
	FamilyJet          Family = "jet"
	FamilyTurboprop    Family = "turboprop"
	FamilyPistonTwin   Family = "piston-twin"
	FamilyPistonSingle Family = "piston-single"
	FamilyUnknown      Family = "unknown"
)

// Default performance when nothing about the aircraft is known.
const (
	defaultCruiseSpeed = 150.0 // kt
	defaultFuelBurn    = 100.0 // L/h
)

// heuristicRule maps a set of keywords to base performance.
type heuristicRule struct {
	family   Family
	keywords []string
	speed    float64 // kt
	fuelBurn float64 // L/h
}

// heuristicRules is evaluated top-down and the first rule with a matching
// keyword wins. Jets come before turboprops, turboprops before twins and
// twins before singles; reordering changes classifications.
var heuristicRules = []heuristicRule{
	{FamilyJet, []string{"citation", "phenom", "learjet", "gulfstream", "falcon", "challenger", "hondajet", "eclipse", "legacy", "praetor", "global", "jet"}, 420, 600},
	{FamilyTurboprop, []string{"king air", "kingair", "pc-12", "pc12", "tbm", "caravan", "kodiak", "meridian", "m500", "m600", "turboprop"}, 260, 250},
	{FamilyPistonTwin, []string{"baron", "seneca", "seminole", "twin", "da42", "aztec", "navajo", "310", "duchess"}, 170, 90},
	{FamilyPistonSingle, []string{"172"}, 120, 40},
	{FamilyPistonSingle, []string{"182"}, 140, 50},
	{FamilyPistonSingle, []string{"152"}, 100, 25},
	{FamilyPistonSingle, []string{"cirrus", "sr20", "sr22"}, 170, 60},
	{FamilyPistonSingle, []string{"bonanza"}, 165, 60},
	{FamilyPistonSingle, []string{"mooney"}, 160, 45},
	{FamilyPistonSingle, []string{"piper", "cherokee", "archer", "warrior"}, 120, 38},
	{FamilyPistonSingle, []string{"diamond", "da40"}, 140, 35},
	{FamilyPistonSingle, []string{"cessna"}, 125, 40},
}

// familyTraits fills the secondary fields a heuristic match implies.
type familyTraits struct {
	altitude    float64 // typical cruise altitude, ft
	rateOfClimb float64 // fpm
	seats       float64
	engineType  string
	fuelType    string
}

var traits = map[Family]familyTraits{
	FamilyJet:          {35000, 3000, 8, "turbofan", types.FuelJetA},
	FamilyTurboprop:    {25000, 1800, 9, "turboprop", types.FuelJetA},
	FamilyPistonTwin:   {12000, 1500, 6, "piston", types.FuelAvgas},
	FamilyPistonSingle: {8000, 700, 4, "piston", types.FuelAvgas},
}

// Estimate is the outcome of the heuristic classifier.
type Estimate struct {
	Family      Family
	CruiseSpeed float64 // kt
	FuelBurn    float64 // L/h
	Keyword     string
}

// Heuristic classifies name (manufacturer and model, any case) against the
// keyword table. With no match and a known rated power it derives speed and
// burn from horsepower; otherwise it returns fixed defaults. powerHP <= 0
// means unknown.
func Heuristic(name string, powerHP float64) Estimate {
	lower := strings.ToLower(name)
	for _, r := range heuristicRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return Estimate{Family: r.family, CruiseSpeed: r.speed, FuelBurn: r.fuelBurn, Keyword: kw}
			}
		}
	}
	if powerHP > 0 {
		return Estimate{
			Family:      FamilyUnknown,
			CruiseSpeed: clamp(powerHP*0.8, 100, 500),
			FuelBurn:    math.Max(30, powerHP*0.3),
		}
	}
	return Estimate{Family: FamilyUnknown, CruiseSpeed: defaultCruiseSpeed, FuelBurn: defaultFuelBurn}
}

// HeuristicFor classifies an aircraft key.
func HeuristicFor(key types.AircraftKey, powerHP float64) Estimate {
	return Heuristic(key.Manufacturer+" "+key.Model+" "+key.Variant, powerHP)
}

// HeuristicTier is the last pipeline tier. It never misses.
type HeuristicTier struct {
	Now func() time.Time
}

func (h *HeuristicTier) Name() string { return "heuristic" }

// Lookup derives specs locally from the key. A rated engine power found by
// an earlier tier feeds the horsepower rule.
func (h *HeuristicTier) Lookup(_ context.Context, key types.AircraftKey, current *types.ResolvedSpecs) (*types.ResolvedSpecs, error) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	var power float64
	if current != nil && current.EnginePower != nil {
		power = current.EnginePower.Value
	}
	est := HeuristicFor(key, power)

	note := "heuristic estimate: " + string(est.Family)
	if est.Keyword != "" {
		note += " (matched " + est.Keyword + ")"
	} else if power > 0 {
		note += " (from rated power)"
	}
	m := func(v float64, unit string) *types.Measurement {
		return &types.Measurement{
			Value: v, Unit: unit, Source: types.SourceHeuristic,
			CollectedAt: now, Confidence: types.ConfidenceLow, Notes: note,
		}
	}

	out := &types.ResolvedSpecs{}
	out.CruiseSpeed.Normal = m(est.CruiseSpeed, "kt")
	out.FuelBurn.Cruise = m(est.FuelBurn, "L/h")

	if tr, ok := traits[est.Family]; ok {
		out.CruiseAltitude = m(tr.altitude, "ft")
		out.RateOfClimb = m(tr.rateOfClimb, "fpm")
		out.Seats = m(tr.seats, "seats")
		out.EngineType = m(0, "")
		out.EngineType.Text = tr.engineType
		out.FuelType = m(0, "")
		out.FuelType.Text = tr.fuelType
	}

	out.Sources = []types.SourceEntry{{
		Type:        types.SourceHeuristic,
		Tier:        h.Name(),
		CollectedAt: now,
		Fields:      out.PresentFields(),
	}}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
