// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package perf picks the concrete cruise speed and per-phase fuel burn an
// estimate uses for a flight profile, tagging each with how it was
// obtained.
package perf

import (
	"github.com/pdiddy/trip-estimator/internal/specs"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

// Fuel flow ratios applied to the cruise burn when a phase burn is unknown.
const (
	ClimbBurnRatio   = 1.5
	DescentBurnRatio = 0.7
)

// Select returns the performance to fly specs at the given profile. The
// profile's speed field is tried first (economic, max or normal), then the
// economic speed, then a fresh heuristic for the aircraft name, so the
// result always carries a usable speed and burn.
func Select(key types.AircraftKey, s *types.ResolvedSpecs, profile types.Profile) types.PerformanceEstimate {
	if s == nil {
		s = &types.ResolvedSpecs{}
	}
	var est types.PerformanceEstimate

	var heur *specs.Estimate
	heuristic := func() specs.Estimate {
		if heur == nil {
			var power float64
			if s.EnginePower != nil {
				power = s.EnginePower.Value
			}
			e := specs.HeuristicFor(key, power)
			heur = &e
		}
		return *heur
	}

	if m := speedFor(s, profile); m != nil {
		est.CruiseSpeed = types.SpeedSelection{Value: m.Value, Method: MethodOf(m), Confidence: confidenceOf(m)}
	} else if s.CruiseSpeed.Economic != nil && s.CruiseSpeed.Economic.Value > 0 {
		m := s.CruiseSpeed.Economic
		est.CruiseSpeed = types.SpeedSelection{Value: m.Value, Method: MethodOf(m), Confidence: confidenceOf(m)}
	} else {
		est.CruiseSpeed = types.SpeedSelection{
			Value:      heuristic().CruiseSpeed,
			Method:     types.MethodHeuristic,
			Confidence: types.ConfidenceLow,
		}
	}

	cruise := s.FuelBurn.Cruise
	if cruise != nil && cruise.Value > 0 {
		est.FuelBurn = types.FuelBurnSelection{
			Cruise:     cruise.Value,
			Method:     MethodOf(cruise),
			Confidence: confidenceOf(cruise),
		}
	} else {
		est.FuelBurn = types.FuelBurnSelection{
			Cruise:     heuristic().FuelBurn,
			Method:     types.MethodHeuristic,
			Confidence: types.ConfidenceLow,
		}
	}
	est.FuelBurn.Climb = phaseBurn(s.FuelBurn.Climb, est.FuelBurn.Cruise*ClimbBurnRatio)
	est.FuelBurn.Descent = phaseBurn(s.FuelBurn.Descent, est.FuelBurn.Cruise*DescentBurnRatio)

	if s.RateOfClimb != nil && s.RateOfClimb.Value > 0 {
		roc := s.RateOfClimb.Value
		est.RateOfClimb = &roc
	}
	return est
}

func speedFor(s *types.ResolvedSpecs, profile types.Profile) *types.Measurement {
	var m *types.Measurement
	switch profile {
	case types.ProfileEconomic:
		m = s.CruiseSpeed.Economic
	case types.ProfileFast:
		m = s.CruiseSpeed.Max
	default:
		m = s.CruiseSpeed.Normal
	}
	if m == nil || m.Value <= 0 {
		return nil
	}
	return m
}

func phaseBurn(m *types.Measurement, derived float64) float64 {
	if m != nil && m.Value > 0 {
		return m.Value
	}
	return derived
}

// MethodOf maps a measurement's source to the method tag: primary and
// manufacturer data is known, model estimates are ml, everything else is
// heuristic.
func MethodOf(m *types.Measurement) types.Method {
	if m == nil {
		return types.MethodHeuristic
	}
	switch m.Source {
	case types.SourceManual, types.SourceManufacturer, types.SourceAPI:
		return types.MethodKnown
	case types.SourceEstimate:
		return types.MethodML
	default:
		return types.MethodHeuristic
	}
}

func confidenceOf(m *types.Measurement) types.Confidence {
	if m.Confidence != "" {
		return m.Confidence
	}
	switch MethodOf(m) {
	case types.MethodKnown:
		return types.ConfidenceHigh
	case types.MethodML:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}
