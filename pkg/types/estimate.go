// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Profile selects which cruise regime a trip is flown at.
type Profile string

const (
	ProfileEconomic Profile = "economic"
	ProfileNormal   Profile = "normal"
	ProfileFast     Profile = "fast"
)

// ParseProfile maps a user-supplied string to a Profile. Unknown and empty
// values fall back to ProfileNormal.
func ParseProfile(s string) Profile {
	switch Profile(s) {
	case ProfileEconomic, ProfileFast:
		return Profile(s)
	default:
		return ProfileNormal
	}
}

// Method tags how a performance value was obtained.
type Method string

const (
	MethodKnown     Method = "known"
	MethodML        Method = "ml"
	MethodHeuristic Method = "heuristic"
)

// SpeedSelection is the cruise speed chosen for a profile, in knots.
type SpeedSelection struct {
	Value      float64    `json:"value" yaml:"value"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Method     Method     `json:"method" yaml:"method"`
}

// FuelBurnSelection holds per-phase fuel flow in liters per hour.
type FuelBurnSelection struct {
	Climb      float64    `json:"climb" yaml:"climb"`
	Cruise     float64    `json:"cruise" yaml:"cruise"`
	Descent    float64    `json:"descent" yaml:"descent"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Method     Method     `json:"method" yaml:"method"`
}

// PerformanceEstimate is the concrete performance used for one estimate.
type PerformanceEstimate struct {
	CruiseSpeed SpeedSelection    `json:"cruise_speed" yaml:"cruise_speed"`
	FuelBurn    FuelBurnSelection `json:"fuel_burn" yaml:"fuel_burn"`

	// RateOfClimb is in feet per minute; nil when unknown.
	RateOfClimb *float64 `json:"rate_of_climb,omitempty" yaml:"rate_of_climb,omitempty"`
}

// FlightEstimateRequest describes a trip to estimate. Pointer fields are
// optional; nil means "derive it".
type FlightEstimateRequest struct {
	Origin      string      `json:"origin" yaml:"origin"`
	Destination string      `json:"destination" yaml:"destination"`
	Aircraft    AircraftKey `json:"aircraft" yaml:"aircraft"`
	Profile     Profile     `json:"profile,omitempty" yaml:"profile,omitempty"`

	// Altitude is the cruise altitude in feet.
	Altitude *float64   `json:"altitude,omitempty" yaml:"altitude,omitempty"`
	Date     *time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	Passengers *int `json:"passengers,omitempty" yaml:"passengers,omitempty"`

	// Baggage is in kilograms.
	Baggage *float64 `json:"baggage,omitempty" yaml:"baggage,omitempty"`

	// InitialFuel is in liters.
	InitialFuel *float64 `json:"initial_fuel,omitempty" yaml:"initial_fuel,omitempty"`

	// TaxiTime is in minutes.
	TaxiTime *float64 `json:"taxi_time,omitempty" yaml:"taxi_time,omitempty"`

	// FuelPriceOverride is in currency per liter.
	FuelPriceOverride *float64 `json:"fuel_price_override,omitempty" yaml:"fuel_price_override,omitempty"`
}

// PhaseEstimate is the time (minutes) and fuel (liters) of one flight phase.
type PhaseEstimate struct {
	TimeMinutes float64 `json:"time_minutes" yaml:"time_minutes"`
	Fuel        float64 `json:"fuel" yaml:"fuel"`
}

// Phases breaks a trip into ground and flight phases.
type Phases struct {
	Taxi    PhaseEstimate `json:"taxi" yaml:"taxi"`
	Climb   PhaseEstimate `json:"climb" yaml:"climb"`
	Cruise  PhaseEstimate `json:"cruise" yaml:"cruise"`
	Descent PhaseEstimate `json:"descent" yaml:"descent"`
}

// FuelSum returns the sum of all phase fuels.
func (p Phases) FuelSum() float64 {
	return p.Taxi.Fuel + p.Climb.Fuel + p.Cruise.Fuel + p.Descent.Fuel
}

// Totals holds trip-level time (hours) and fuel (liters).
type Totals struct {
	FlightTimeHours float64 `json:"flight_time_hours" yaml:"flight_time_hours"`
	BlockTimeHours  float64 `json:"block_time_hours" yaml:"block_time_hours"`
	FuelNecessary   float64 `json:"fuel_necessary" yaml:"fuel_necessary"`
	FuelReserve     float64 `json:"fuel_reserve" yaml:"fuel_reserve"`
	FuelTotal       float64 `json:"fuel_total" yaml:"fuel_total"`
}

// CostBreakdown is the trip cost split by component.
type CostBreakdown struct {
	Fuel        float64 `json:"fuel" yaml:"fuel"`
	Landing     float64 `json:"landing" yaml:"landing"`
	Parking     float64 `json:"parking" yaml:"parking"`
	Operational float64 `json:"operational" yaml:"operational"`
	Total       float64 `json:"total" yaml:"total"`
}

// Rates are values derived from the totals and costs.
type Rates struct {
	CostPerHour float64 `json:"cost_per_hour" yaml:"cost_per_hour"`
	CostPerNM   float64 `json:"cost_per_nm" yaml:"cost_per_nm"`
	CostPerKM   float64 `json:"cost_per_km" yaml:"cost_per_km"`
	FuelPerHour float64 `json:"fuel_per_hour" yaml:"fuel_per_hour"`

	// Efficiency is nautical miles per gallon-equivalent of fuel.
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
}

// Interval bounds an estimated quantity.
type Interval struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies within the interval.
func (i Interval) Contains(v float64) bool {
	return i.Min <= v && v <= i.Max
}

// Uncertainty holds intervals around flight time, total fuel and total cost.
type Uncertainty struct {
	Multiplier float64  `json:"multiplier" yaml:"multiplier"`
	Time       Interval `json:"time" yaml:"time"`
	Fuel       Interval `json:"fuel" yaml:"fuel"`
	Cost       Interval `json:"cost" yaml:"cost"`
}

// FuelPriceSource records which rule produced the fuel price.
type FuelPriceSource string

const (
	FuelPriceOverride FuelPriceSource = "override"
	FuelPriceAirport  FuelPriceSource = "airport"
	FuelPriceDefault  FuelPriceSource = "default"
)

// FlightEstimateResult is the complete estimate for one trip.
type FlightEstimateResult struct {
	Origin      Airport     `json:"origin" yaml:"origin"`
	Destination Airport     `json:"destination" yaml:"destination"`
	Aircraft    AircraftKey `json:"aircraft" yaml:"aircraft"`
	Profile     Profile     `json:"profile" yaml:"profile"`

	DistanceNM    float64 `json:"distance_nm" yaml:"distance_nm"`
	Course        float64 `json:"course" yaml:"course"`
	Altitude      float64 `json:"altitude" yaml:"altitude"`
	TrueAirspeed  float64 `json:"true_airspeed" yaml:"true_airspeed"`
	GroundSpeed   float64 `json:"ground_speed" yaml:"ground_speed"`
	WindComponent float64 `json:"wind_component" yaml:"wind_component"`
	Weather       *Wind   `json:"weather,omitempty" yaml:"weather,omitempty"`

	Performance PerformanceEstimate `json:"performance" yaml:"performance"`
	Phases      Phases              `json:"phases" yaml:"phases"`
	Totals      Totals              `json:"totals" yaml:"totals"`

	FuelPrice       float64         `json:"fuel_price" yaml:"fuel_price"`
	FuelPriceSource FuelPriceSource `json:"fuel_price_source" yaml:"fuel_price_source"`
	Costs           CostBreakdown   `json:"costs" yaml:"costs"`
	Rates           Rates           `json:"rates" yaml:"rates"`

	ConfidenceScore   int         `json:"confidence_score" yaml:"confidence_score"`
	Confidence        Confidence  `json:"confidence" yaml:"confidence"`
	ConfidenceReasons []string    `json:"confidence_reasons" yaml:"confidence_reasons"`
	Uncertainty       Uncertainty `json:"uncertainty" yaml:"uncertainty"`

	Passengers  int     `json:"passengers,omitempty" yaml:"passengers,omitempty"`
	Baggage     float64 `json:"baggage,omitempty" yaml:"baggage,omitempty"`
	InitialFuel float64 `json:"initial_fuel,omitempty" yaml:"initial_fuel,omitempty"`

	// FuelShortfall is positive when InitialFuel does not cover FuelTotal.
	FuelShortfall float64   `json:"fuel_shortfall,omitempty" yaml:"fuel_shortfall,omitempty"`
	Date          time.Time `json:"date" yaml:"date"`
}
