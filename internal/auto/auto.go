// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auto fills in the trip inputs a user did not give (altitude,
// profile, baggage, taxi time, fuel price) from the route and passenger
// count, then runs the estimate engine. It also suggests an aircraft for
// a passenger count and distance.
package auto

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/trip-estimator/internal/estimate"
	"github.com/pdiddy/trip-estimator/internal/logging"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

const (
	// BaggagePerPassenger is in kilograms.
	BaggagePerPassenger = 15.0

	// TaxiMinutes is the fixed taxi time used for auto estimates.
	TaxiMinutes = 10.0
)

// altitudeTiers maps distance upper bounds (NM, exclusive) to cruise
// altitudes (ft). Distances beyond the last bound use topAltitude.
var altitudeTiers = []struct {
	below    float64
	altitude float64
}{
	{200, 6000},
	{500, 8000},
	{1000, 12000},
}

const topAltitude = 18000.0

// Params are the inputs of an auto estimate. Nil pointers are inferred.
type Params struct {
	Origin       string
	Destination  string
	Passengers   int
	Manufacturer string
	Model        string
	InitialFuel  *float64
	FuelPrice    *float64
}

// Engine is the subset of *estimate.Engine the estimator needs.
type Engine interface {
	Airport(ctx context.Context, code string) (*types.Airport, error)
	Estimate(ctx context.Context, req types.FlightEstimateRequest) (*types.FlightEstimateResult, error)
}

// Estimator infers trip parameters and delegates to an Engine.
type Estimator struct {
	engine Engine
	logger *slog.Logger

	// Now supplies the flight date.
	Now func() time.Time
}

// New returns an estimator over engine.
func New(engine Engine, logger *slog.Logger) *Estimator {
	return &Estimator{engine: engine, logger: logging.OrDiscard(logger), Now: time.Now}
}

// Estimate resolves both airports, infers the missing inputs and returns
// the engine's result with notes about what was inferred appended to its
// confidence reasons.
func (a *Estimator) Estimate(ctx context.Context, p Params) (*types.FlightEstimateResult, error) {
	origin, err := a.engine.Airport(ctx, p.Origin)
	if err != nil {
		return nil, err
	}
	dest, err := a.engine.Airport(ctx, p.Destination)
	if err != nil {
		return nil, err
	}

	distance := estimate.Distance(origin.Latitude, origin.Longitude, dest.Latitude, dest.Longitude)
	alt := Altitude(distance)
	profile := Profile(distance, p.Passengers)
	baggage := float64(p.Passengers) * BaggagePerPassenger
	taxi := TaxiMinutes
	price, priceSource := fuelPrice(p.FuelPrice, origin)
	date := a.Now()
	pax := p.Passengers

	a.logger.Debug("auto parameters inferred",
		"origin", origin.Code(), "destination", dest.Code(), "distance_nm", distance,
		"altitude", alt, "profile", profile, "fuel_price_source", priceSource)

	res, err := a.engine.Estimate(ctx, types.FlightEstimateRequest{
		Origin:            p.Origin,
		Destination:       p.Destination,
		Aircraft:          types.AircraftKey{Manufacturer: p.Manufacturer, Model: p.Model},
		Profile:           profile,
		Altitude:          &alt,
		Date:              &date,
		Passengers:        &pax,
		Baggage:           &baggage,
		InitialFuel:       p.InitialFuel,
		TaxiTime:          &taxi,
		FuelPriceOverride: price,
	})
	if err != nil {
		return nil, err
	}

	if price != nil {
		res.FuelPriceSource = priceSource
	}
	res.ConfidenceReasons = append(res.ConfidenceReasons,
		fmt.Sprintf("origin %s (%s), destination %s (%s)", origin.Code(), origin.Name, dest.Code(), dest.Name),
		fmt.Sprintf("altitude %.0f ft inferred from %.0f NM distance", alt, distance),
		fmt.Sprintf("profile %s inferred from distance and %d passengers", profile, p.Passengers),
		priceNote(res.FuelPrice, res.FuelPriceSource, origin),
	)
	return res, nil
}

// Altitude picks a cruise altitude by distance band.
func Altitude(distanceNM float64) float64 {
	for _, t := range altitudeTiers {
		if distanceNM < t.below {
			return t.altitude
		}
	}
	return topAltitude
}

// Profile flies long or crowded trips economically and short hops fast.
func Profile(distanceNM float64, passengers int) types.Profile {
	switch {
	case distanceNM > 800 || passengers > 6:
		return types.ProfileEconomic
	case distanceNM < 200:
		return types.ProfileFast
	default:
		return types.ProfileNormal
	}
}

// fuelPrice applies override, then the origin's avgas price, then its
// jet-a price. With none of those it returns a nil price so the engine's
// configured default applies.
func fuelPrice(override *float64, origin *types.Airport) (*float64, types.FuelPriceSource) {
	if override != nil && *override > 0 {
		v := *override
		return &v, types.FuelPriceOverride
	}
	for _, fuel := range []string{types.FuelAvgas, types.FuelJetA} {
		if price, ok := origin.FuelPrice(fuel); ok {
			return &price, types.FuelPriceAirport
		}
	}
	return nil, types.FuelPriceDefault
}

func priceNote(price float64, source types.FuelPriceSource, origin *types.Airport) string {
	switch source {
	case types.FuelPriceOverride:
		return fmt.Sprintf("fuel price %.2f/L given", price)
	case types.FuelPriceAirport:
		return fmt.Sprintf("fuel price %.2f/L from %s", price, origin.Code())
	default:
		return fmt.Sprintf("fuel price %.2f/L default", price)
	}
}

// Suggestion is a recommended aircraft for a trip.
type Suggestion struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
	Reason       string `json:"reason" yaml:"reason"`
}

// suggestionBrackets are checked in order; fallbackSuggestion covers the rest.
var suggestionBrackets = []struct {
	maxPassengers int
	maxDistance   float64
	suggestion    Suggestion
}{
	{3, 300, Suggestion{"Cessna", "172", "short hops with few passengers"}},
	{4, 800, Suggestion{"Cirrus", "SR22", "fast single for regional trips"}},
	{8, 1500, Suggestion{"Pilatus", "PC-12", "turboprop for mid-range cabin trips"}},
}

var fallbackSuggestion = Suggestion{"Embraer", "Phenom 300", "jet for long or large-group trips"}

// SuggestAircraft returns the first bracket that fits passengers and
// distance (NM).
func SuggestAircraft(passengers int, distanceNM float64) Suggestion {
	for _, b := range suggestionBrackets {
		if passengers <= b.maxPassengers && distanceNM <= b.maxDistance {
			return b.suggestion
		}
	}
	return fallbackSuggestion
}
