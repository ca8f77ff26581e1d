// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package estimate computes a full trip estimate: great-circle distance,
// wind-corrected ground speed, a taxi/climb/cruise/descent phase table,
// fuel with reserve, costs and derived rates, and a confidence level with
// uncertainty intervals.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/trip-estimator/internal/airports"
	"github.com/pdiddy/trip-estimator/internal/logging"
	"github.com/pdiddy/trip-estimator/internal/perf"
	"github.com/pdiddy/trip-estimator/internal/weather"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

// Flight model constants.
const (
	DefaultAltitude   = 10000.0 // ft
	DefaultClimbRate  = 1000.0  // fpm
	DescentRate       = 500.0   // fpm
	ClimbDescentRatio = 3.0     // NM per 1000 ft
	TaxiBurnFactor    = 0.3     // fraction of cruise burn while taxiing
	LitersPerGallon   = 3.785
)

const (
	minGroundSpeed    = 1.0 // kt
	minClimbMinutes   = 5.0
	maxClimbMinutes   = 30.0
	minDescentMinutes = 5.0
	maxDescentMinutes = 20.0
)

// ErrAirportNotFound is matched by AirportNotFoundError.
var ErrAirportNotFound = errors.New("airport not found")

// AirportNotFoundError reports an airport code the directory does not know.
type AirportNotFoundError struct {
	Code string
}

func (e *AirportNotFoundError) Error() string {
	return fmt.Sprintf("airport not found: %q", e.Code)
}

func (e *AirportNotFoundError) Is(target error) bool {
	return target == ErrAirportNotFound
}

// SpecsSource resolves aircraft specs. *specs.Resolver implements it.
type SpecsSource interface {
	Resolve(ctx context.Context, key types.AircraftKey) (*types.ResolvedSpecs, error)
}

// Engine computes flight estimates.
type Engine struct {
	specs    SpecsSource
	airports airports.Directory
	wind     weather.WindProvider
	cost     types.CostConfig
	logger   *slog.Logger

	// Now supplies the date when a request has none.
	Now func() time.Time
}

// NewEngine returns an engine. A nil wind provider means no wind data.
func NewEngine(specs SpecsSource, dir airports.Directory, wind weather.WindProvider, cost types.CostConfig, logger *slog.Logger) *Engine {
	if wind == nil {
		wind = weather.None{}
	}
	return &Engine{
		specs:    specs,
		airports: dir,
		wind:     wind,
		cost:     cost.WithDefaults(),
		logger:   logging.OrDiscard(logger),
		Now:      time.Now,
	}
}

// Airport resolves a code through the engine's directory, failing with
// AirportNotFoundError when nothing matches.
func (e *Engine) Airport(ctx context.Context, code string) (*types.Airport, error) {
	a, err := e.airports.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("looking up airport %s: %w", code, err)
	}
	if a == nil {
		return nil, &AirportNotFoundError{Code: code}
	}
	return a, nil
}

// Estimate computes the trip described by req.
func (e *Engine) Estimate(ctx context.Context, req types.FlightEstimateRequest) (*types.FlightEstimateResult, error) {
	var (
		origin, dest *types.Airport
		specs        *types.ResolvedSpecs
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		origin, err = e.Airport(gctx, req.Origin)
		return err
	})
	eg.Go(func() (err error) {
		dest, err = e.Airport(gctx, req.Destination)
		return err
	})
	eg.Go(func() (err error) {
		specs, err = e.specs.Resolve(gctx, req.Aircraft)
		if err != nil {
			return fmt.Errorf("resolving specs for %s: %w", req.Aircraft, err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	profile := types.ParseProfile(string(req.Profile))
	p := perf.Select(req.Aircraft, specs, profile)

	res := &types.FlightEstimateResult{
		Origin:      *origin,
		Destination: *dest,
		Aircraft:    req.Aircraft,
		Profile:     profile,
		Performance: p,
	}

	res.DistanceNM = Distance(origin.Latitude, origin.Longitude, dest.Latitude, dest.Longitude)
	res.Course = Course(origin.Latitude, origin.Longitude, dest.Latitude, dest.Longitude)
	res.Altitude = altitude(req.Altitude, specs)
	res.Date = e.Now()
	if req.Date != nil {
		res.Date = *req.Date
	}

	wind, err := e.wind.GetWindAtAltitude(ctx, origin.Latitude, origin.Longitude, res.Altitude, res.Date)
	if err != nil {
		e.logger.Warn("wind lookup failed, assuming calm air", "origin", origin.Code(), "err", err)
		wind = nil
	}
	res.Weather = wind
	if wind != nil {
		res.WindComponent = HeadwindComponent(wind.WindSpeed, wind.WindDirection, res.Course)
	}
	res.TrueAirspeed = p.CruiseSpeed.Value
	res.GroundSpeed = math.Max(minGroundSpeed, res.TrueAirspeed-res.WindComponent)

	taxiMin := e.cost.DefaultTaxiMinutes
	if req.TaxiTime != nil && *req.TaxiTime >= 0 {
		taxiMin = *req.TaxiTime
	}
	res.Phases = phases(res.DistanceNM, res.Altitude, res.GroundSpeed, taxiMin, p)
	res.Totals = e.totals(res.Phases, p)

	res.FuelPrice, res.FuelPriceSource = e.fuelPrice(req.FuelPriceOverride, origin, specs)
	res.Costs = e.costs(res.Totals, res.FuelPrice, origin, dest)
	res.Rates = rates(res.DistanceNM, res.Totals, res.Costs)

	res.ConfidenceScore = Score(ScoreInputs{
		SpeedMethod:   p.CruiseSpeed.Method,
		BurnMethod:    p.FuelBurn.Method,
		HasWeather:    wind != nil,
		SpecsComplete: specs.IsComplete,
	})
	res.Confidence = Level(res.ConfidenceScore)
	res.ConfidenceReasons = reasons(p, specs, wind != nil)

	m := uncertaintyMultiplier(res.Confidence, p)
	res.Uncertainty = types.Uncertainty{
		Multiplier: m,
		Time:       interval(res.Totals.FlightTimeHours, m),
		Fuel:       interval(res.Totals.FuelTotal, m),
		Cost:       interval(res.Costs.Total, m),
	}

	if req.Passengers != nil {
		res.Passengers = *req.Passengers
	}
	if req.Baggage != nil {
		res.Baggage = *req.Baggage
	}
	if req.InitialFuel != nil {
		res.InitialFuel = *req.InitialFuel
		res.FuelShortfall = math.Max(0, res.Totals.FuelTotal-res.InitialFuel)
	}

	e.logger.Debug("estimate computed",
		"origin", origin.Code(), "destination", dest.Code(), "aircraft", req.Aircraft.String(),
		"distance_nm", res.DistanceNM, "block_hours", res.Totals.BlockTimeHours,
		"fuel_total", res.Totals.FuelTotal, "confidence", res.Confidence)
	return res, nil
}

// altitude picks the request altitude, then the typical cruise altitude,
// then DefaultAltitude.
func altitude(requested *float64, specs *types.ResolvedSpecs) float64 {
	if requested != nil && *requested > 0 {
		return *requested
	}
	if specs.CruiseAltitude != nil && specs.CruiseAltitude.Value > 0 {
		return specs.CruiseAltitude.Value
	}
	return DefaultAltitude
}

// phases builds the phase table. Climb and descent each cover 3 NM per
// 1000 ft; cruise covers what remains, never less than zero.
func phases(distance, alt, groundSpeed, taxiMin float64, p types.PerformanceEstimate) types.Phases {
	climbRate := DefaultClimbRate
	if p.RateOfClimb != nil && *p.RateOfClimb > 0 {
		climbRate = *p.RateOfClimb
	}
	climbMin := clamp(alt/climbRate, minClimbMinutes, maxClimbMinutes)
	descentMin := clamp(alt/DescentRate, minDescentMinutes, maxDescentMinutes)

	legDist := alt / 1000 * ClimbDescentRatio
	cruiseDist := math.Max(0, distance-2*legDist)
	cruiseHours := cruiseDist / groundSpeed

	return types.Phases{
		Taxi: types.PhaseEstimate{
			TimeMinutes: taxiMin,
			Fuel:        taxiMin / 60 * p.FuelBurn.Cruise * TaxiBurnFactor,
		},
		Climb: types.PhaseEstimate{
			TimeMinutes: climbMin,
			Fuel:        climbMin / 60 * p.FuelBurn.Climb,
		},
		Cruise: types.PhaseEstimate{
			TimeMinutes: cruiseHours * 60,
			Fuel:        cruiseHours * p.FuelBurn.Cruise,
		},
		Descent: types.PhaseEstimate{
			TimeMinutes: descentMin,
			Fuel:        descentMin / 60 * p.FuelBurn.Descent,
		},
	}
}

func (e *Engine) totals(ph types.Phases, p types.PerformanceEstimate) types.Totals {
	flight := (ph.Climb.TimeMinutes + ph.Cruise.TimeMinutes + ph.Descent.TimeMinutes) / 60
	necessary := ph.FuelSum()
	reserve := e.cost.ReserveMinutes / 60 * p.FuelBurn.Cruise
	return types.Totals{
		FlightTimeHours: flight,
		BlockTimeHours:  flight + ph.Taxi.TimeMinutes/60,
		FuelNecessary:   necessary,
		FuelReserve:     reserve,
		FuelTotal:       necessary + reserve,
	}
}

// fuelPrice applies override, then the origin's price for the aircraft's
// fuel type, then the configured default.
func (e *Engine) fuelPrice(override *float64, origin *types.Airport, specs *types.ResolvedSpecs) (float64, types.FuelPriceSource) {
	if override != nil && *override > 0 {
		return *override, types.FuelPriceOverride
	}
	if price, ok := origin.FuelPrice(FuelTypeOf(specs)); ok {
		return price, types.FuelPriceAirport
	}
	return e.cost.DefaultFuelPrice, types.FuelPriceDefault
}

// FuelTypeOf returns the fuel the aircraft burns: the resolved fuel type,
// else jet-a for turbine engines, else avgas.
func FuelTypeOf(specs *types.ResolvedSpecs) string {
	if specs == nil {
		return types.FuelAvgas
	}
	if specs.FuelType != nil && specs.FuelType.Text != "" {
		return strings.ToLower(specs.FuelType.Text)
	}
	if specs.EngineType != nil {
		t := strings.ToLower(specs.EngineType.Text)
		if strings.Contains(t, "turb") || strings.Contains(t, "jet") {
			return types.FuelJetA
		}
	}
	return types.FuelAvgas
}

func (e *Engine) costs(t types.Totals, price float64, origin, dest *types.Airport) types.CostBreakdown {
	c := types.CostBreakdown{
		Fuel:        t.FuelTotal * price,
		Landing:     origin.LandingFee + dest.LandingFee,
		Parking:     origin.ParkingFee + dest.ParkingFee,
		Operational: t.BlockTimeHours * e.cost.FixedHourlyRate,
	}
	c.Total = c.Fuel + c.Landing + c.Parking + c.Operational
	return c
}

// rates derives per-unit values; any zero denominator yields zero.
func rates(distance float64, t types.Totals, c types.CostBreakdown) types.Rates {
	var r types.Rates
	if t.BlockTimeHours > 0 {
		r.CostPerHour = c.Total / t.BlockTimeHours
	}
	if distance > 0 {
		r.CostPerNM = c.Total / distance
		r.CostPerKM = r.CostPerNM * KMPerNM
	}
	if t.FlightTimeHours > 0 {
		r.FuelPerHour = t.FuelTotal / t.FlightTimeHours
	}
	if t.FuelTotal > 0 {
		r.Efficiency = distance / (t.FuelTotal / LitersPerGallon)
	}
	return r
}
