// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package estimate

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// Score thresholds for the confidence level.
const (
	highScore   = 8
	mediumScore = 5
)

var baseUncertainty = map[types.Confidence]float64{
	types.ConfidenceHigh:   0.05,
	types.ConfidenceMedium: 0.15,
	types.ConfidenceLow:    0.30,
}

// lowInputPenalty widens the interval for each low-confidence input.
const lowInputPenalty = 0.10

// ScoreInputs are the facts the confidence score is built from.
type ScoreInputs struct {
	SpeedMethod   types.Method
	BurnMethod    types.Method
	HasWeather    bool
	SpecsComplete bool
}

// Score sums the confidence points for in.
func Score(in ScoreInputs) int {
	score := methodPoints(in.SpeedMethod) + methodPoints(in.BurnMethod)
	if in.HasWeather {
		score += 2
	}
	if in.SpecsComplete {
		score += 2
	} else {
		score++
	}
	return score
}

func methodPoints(m types.Method) int {
	switch m {
	case types.MethodKnown:
		return 3
	case types.MethodML:
		return 2
	default:
		return 1
	}
}

// Level maps a score to a confidence level.
func Level(score int) types.Confidence {
	switch {
	case score >= highScore:
		return types.ConfidenceHigh
	case score >= mediumScore:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

// reasons lists why the estimate is not fully trusted.
func reasons(p types.PerformanceEstimate, specs *types.ResolvedSpecs, hasWeather bool) []string {
	var out []string
	if p.CruiseSpeed.Method != types.MethodKnown {
		out = append(out, fmt.Sprintf("cruise speed estimated (%s, %s confidence)", p.CruiseSpeed.Method, p.CruiseSpeed.Confidence))
	}
	if p.FuelBurn.Method != types.MethodKnown {
		out = append(out, fmt.Sprintf("fuel burn estimated (%s, %s confidence)", p.FuelBurn.Method, p.FuelBurn.Confidence))
	}
	if p.RateOfClimb == nil {
		out = append(out, "rate of climb unknown, 1000 fpm assumed")
	}
	if !hasWeather {
		out = append(out, "no wind data, calm air assumed")
	}
	if specs != nil && !specs.IsComplete {
		out = append(out, "aircraft specs incomplete: "+strings.Join(specs.MissingFields, ", "))
	}
	return out
}

// uncertaintyMultiplier is the relative half-width of every interval.
func uncertaintyMultiplier(level types.Confidence, p types.PerformanceEstimate) float64 {
	m := baseUncertainty[level]
	if p.CruiseSpeed.Confidence == types.ConfidenceLow {
		m += lowInputPenalty
	}
	if p.FuelBurn.Confidence == types.ConfidenceLow {
		m += lowInputPenalty
	}
	return m
}

// interval returns point·(1∓m) with the lower bound floored at zero.
func interval(point, m float64) types.Interval {
	return types.Interval{
		Min: math.Max(0, point*(1-m)),
		Max: point * (1 + m),
	}
}
