// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package estimate

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trip-estimator/internal/airports"
	"github.com/pdiddy/trip-estimator/internal/cache"
	"github.com/pdiddy/trip-estimator/internal/specs"
	"github.com/pdiddy/trip-estimator/internal/weather"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

// --- test helpers ---

var (
	t0   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c172 = types.AircraftKey{Manufacturer: "Cessna", Model: "172"}
)

func ptr[T any](v T) *T { return &v }

// staticSpecs returns the same specs for every key.
type staticSpecs struct {
	specs *types.ResolvedSpecs
	err   error
}

func (s staticSpecs) Resolve(context.Context, types.AircraftKey) (*types.ResolvedSpecs, error) {
	return s.specs.Clone(), s.err
}

// mapDirectory serves a fixed set of airports by ident.
type mapDirectory map[string]types.Airport

func (m mapDirectory) FindByCode(_ context.Context, code string) (*types.Airport, error) {
	a, ok := m[strings.ToUpper(code)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func knownSpecs() *types.ResolvedSpecs {
	meas := func(v float64) *types.Measurement {
		return &types.Measurement{Value: v, Source: types.SourceManufacturer}
	}
	s := &types.ResolvedSpecs{
		CruiseSpeed:    types.CruiseSpeeds{Normal: meas(124), Economic: meas(110), Max: meas(135)},
		FuelBurn:       types.FuelBurns{Cruise: meas(36), Climb: meas(50), Descent: meas(25)},
		RateOfClimb:    meas(730),
		CruiseAltitude: meas(8000),
		FuelType:       &types.Measurement{Text: types.FuelAvgas, Source: types.SourceManufacturer},
	}
	s.Recompute()
	return s
}

// heuristicResolver resolves through the real pipeline with only the
// heuristic tier.
func heuristicResolver() *specs.Resolver {
	r := specs.NewResolver(cache.NewMemoryStore(), []specs.Tier{&specs.HeuristicTier{Now: func() time.Time { return t0 }}}, types.ResolverConfig{}, nil)
	r.Now = func() time.Time { return t0 }
	return r
}

func newTestEngine(src SpecsSource, dir airports.Directory, wind weather.WindProvider) *Engine {
	e := NewEngine(src, dir, wind, types.CostConfig{}, nil)
	e.Now = func() time.Time { return t0 }
	return e
}

func assertInvariants(t *testing.T, r *types.FlightEstimateResult) {
	t.Helper()
	assert.InDelta(t, r.Phases.FuelSum(), r.Totals.FuelNecessary, 1e-6)
	assert.InDelta(t, r.Totals.FuelNecessary+r.Totals.FuelReserve, r.Totals.FuelTotal, 1e-6)
	assert.True(t, r.Uncertainty.Time.Contains(r.Totals.FlightTimeHours), "time interval %+v", r.Uncertainty.Time)
	assert.True(t, r.Uncertainty.Fuel.Contains(r.Totals.FuelTotal), "fuel interval %+v", r.Uncertainty.Fuel)
	assert.True(t, r.Uncertainty.Cost.Contains(r.Costs.Total), "cost interval %+v", r.Uncertainty.Cost)
	assert.GreaterOrEqual(t, r.Uncertainty.Time.Min, 0.0)
	assert.InDelta(t, r.Costs.Fuel+r.Costs.Landing+r.Costs.Parking+r.Costs.Operational, r.Costs.Total, 1e-6)
	assert.GreaterOrEqual(t, r.Phases.Cruise.TimeMinutes, 0.0)
}

// --- geometry ---

func TestDistance(t *testing.T) {
	sbsp := [2]float64{-23.626111, -46.656389}
	sbrj := [2]float64{-22.910461, -43.163133}

	d := Distance(sbsp[0], sbsp[1], sbrj[0], sbrj[1])
	assert.InDelta(t, 197.4, d, 0.5)
	assert.InDelta(t, d, Distance(sbrj[0], sbrj[1], sbsp[0], sbsp[1]), 1e-9)
	assert.Zero(t, Distance(sbsp[0], sbsp[1], sbsp[0], sbsp[1]))

	// One degree of latitude is 60 NM on a 3440 NM sphere, near enough.
	assert.InDelta(t, 60.04, Distance(0, 0, 1, 0), 0.01)
}

func TestCourse(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"north", 0, 0, 1, 0, 0},
		{"east", 0, 0, 0, 1, 90},
		{"south", 1, 0, 0, 0, 180},
		{"west", 0, 1, 0, 0, 270},
		{"northeast", 0, 0, 1, 1, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Course(tt.lat1, tt.lon1, tt.lat2, tt.lon2), 1e-9)
		})
	}
}

func TestHeadwindComponent(t *testing.T) {
	assert.InDelta(t, 20, HeadwindComponent(20, 90, 90), 1e-9)
	assert.InDelta(t, -20, HeadwindComponent(20, 270, 90), 1e-9)
	assert.InDelta(t, 0, HeadwindComponent(20, 0, 90), 1e-9)
	assert.InDelta(t, 20, HeadwindComponent(20, 350, -10+360), 1e-9)
}

// --- estimates ---

func TestEstimateGoldenSBSPToSBRJ(t *testing.T) {
	e := newTestEngine(heuristicResolver(), airports.NewFileDirectory(""), nil)
	r, err := e.Estimate(context.Background(), types.FlightEstimateRequest{
		Origin:      "SBSP",
		Destination: "SBRJ",
		Aircraft:    c172,
		Profile:     types.ProfileFast,
		Altitude:    ptr(6000.0),
		Passengers:  ptr(2),
		Baggage:     ptr(30.0),
		TaxiTime:    ptr(10.0),
	})
	require.NoError(t, err)
	assertInvariants(t, r)

	assert.InDelta(t, 197.4, r.DistanceNM, 0.5)
	assert.Less(t, r.DistanceNM, 200.0)
	assert.InDelta(t, 78.4, r.Course, 0.1)
	assert.Equal(t, 6000.0, r.Altitude)
	assert.Equal(t, types.ProfileFast, r.Profile)

	assert.Equal(t, 120.0, r.Performance.CruiseSpeed.Value)
	assert.Equal(t, types.MethodHeuristic, r.Performance.CruiseSpeed.Method)
	assert.Equal(t, 40.0, r.Performance.FuelBurn.Cruise)
	assert.Equal(t, 60.0, r.Performance.FuelBurn.Climb)
	assert.InDelta(t, 28.0, r.Performance.FuelBurn.Descent, 1e-9)
	assert.Zero(t, r.WindComponent)
	assert.Nil(t, r.Weather)
	assert.Equal(t, 120.0, r.GroundSpeed)

	assert.InDelta(t, 8.571, r.Phases.Climb.TimeMinutes, 0.01)
	assert.InDelta(t, 12.0, r.Phases.Descent.TimeMinutes, 1e-9)
	assert.InDelta(t, 80.7, r.Phases.Cruise.TimeMinutes, 0.5)
	assert.InDelta(t, 2.0, r.Phases.Taxi.Fuel, 1e-9)
	assert.InDelta(t, 5.6, r.Phases.Descent.Fuel, 1e-9)

	assert.InDelta(t, 1.688, r.Totals.FlightTimeHours, 0.01)
	assert.InDelta(t, 1.855, r.Totals.BlockTimeHours, 0.01)
	assert.InDelta(t, 69.97, r.Totals.FuelNecessary, 0.5)
	assert.InDelta(t, 30.0, r.Totals.FuelReserve, 1e-9)
	assert.InDelta(t, 99.97, r.Totals.FuelTotal, 0.5)

	assert.Equal(t, 8.5, r.FuelPrice)
	assert.Equal(t, types.FuelPriceDefault, r.FuelPriceSource)
	assert.InDelta(t, 849.8, r.Costs.Fuel, 5)
	assert.InDelta(t, 5192.7, r.Costs.Operational, 30)
	assert.InDelta(t, 6042.4, r.Costs.Total, 35)
	assert.Zero(t, r.Costs.Landing)
	assert.Zero(t, r.Costs.Parking)

	assert.Equal(t, 4, r.ConfidenceScore)
	assert.Equal(t, types.ConfidenceLow, r.Confidence)
	assert.InDelta(t, 0.5, r.Uncertainty.Multiplier, 1e-9)
	assert.InDelta(t, r.Totals.FuelTotal*0.5, r.Uncertainty.Fuel.Min, 1e-9)
	assert.InDelta(t, r.Totals.FuelTotal*1.5, r.Uncertainty.Fuel.Max, 1e-9)
	assert.Contains(t, r.ConfidenceReasons, "no wind data, calm air assumed")

	assert.Equal(t, 2, r.Passengers)
	assert.Equal(t, t0, r.Date)
}

func TestEstimateDeterministic(t *testing.T) {
	req := types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBRJ", Aircraft: c172}
	e := newTestEngine(heuristicResolver(), airports.NewFileDirectory(""), nil)

	a, err := e.Estimate(context.Background(), req)
	require.NoError(t, err)
	b, err := e.Estimate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEstimateInvariantsAcrossScenarios(t *testing.T) {
	dir := airports.NewFileDirectory("")
	tests := []struct {
		name string
		src  SpecsSource
		wind weather.WindProvider
		req  types.FlightEstimateRequest
	}{
		{"same airport", heuristicResolver(), nil, types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBSP", Aircraft: c172}},
		{"long leg jet", heuristicResolver(), nil, types.FlightEstimateRequest{Origin: "SBPA", Destination: "SBBR", Aircraft: types.AircraftKey{Manufacturer: "Embraer", Model: "Phenom 300"}}},
		{"strong headwind", staticSpecs{specs: knownSpecs()}, weather.Static{Speed: 60, Direction: 78}, types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBRJ", Aircraft: c172, Profile: types.ProfileEconomic}},
		{"wind faster than aircraft", staticSpecs{specs: knownSpecs()}, weather.Static{Speed: 300, Direction: 78}, types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBRJ", Aircraft: c172}},
		{"no taxi", staticSpecs{specs: knownSpecs()}, nil, types.FlightEstimateRequest{Origin: "SBGR", Destination: "SBKP", Aircraft: c172, TaxiTime: ptr(0.0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(tt.src, dir, tt.wind)
			r, err := e.Estimate(context.Background(), tt.req)
			require.NoError(t, err)
			assertInvariants(t, r)
			assert.GreaterOrEqual(t, r.GroundSpeed, 1.0)
			assert.False(t, math.IsNaN(r.Rates.CostPerNM))
			assert.False(t, math.IsInf(r.Rates.CostPerNM, 0))
		})
	}
}

func TestEstimateZeroDistance(t *testing.T) {
	e := newTestEngine(heuristicResolver(), airports.NewFileDirectory(""), nil)
	r, err := e.Estimate(context.Background(), types.FlightEstimateRequest{Origin: "SBSP", Destination: "sbsp", Aircraft: c172})
	require.NoError(t, err)
	assert.Zero(t, r.DistanceNM)
	assert.Zero(t, r.Phases.Cruise.TimeMinutes)
	assert.Zero(t, r.Rates.CostPerNM)
	assert.Zero(t, r.Rates.CostPerKM)
	assert.Zero(t, r.Rates.Efficiency)
}

func TestEstimateAirportNotFound(t *testing.T) {
	e := newTestEngine(heuristicResolver(), airports.NewFileDirectory(""), nil)
	for _, req := range []types.FlightEstimateRequest{
		{Origin: "XXXX", Destination: "SBRJ", Aircraft: c172},
		{Origin: "SBSP", Destination: "YYYY", Aircraft: c172},
	} {
		_, err := e.Estimate(context.Background(), req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAirportNotFound))
		var nf *AirportNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Contains(t, []string{"XXXX", "YYYY"}, nf.Code)
	}
}

// slowTier answers only after its context ends.
type slowTier struct{}

func (slowTier) Name() string { return "api" }

func (slowTier) Lookup(ctx context.Context, _ types.AircraftKey, _ *types.ResolvedSpecs) (*types.ResolvedSpecs, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestEstimateAirportNotFoundLeavesCacheUntouched(t *testing.T) {
	store := cache.NewMemoryStore()
	clock := func() time.Time { return t0 }
	resolver := specs.NewResolver(store, []specs.Tier{slowTier{}, &specs.HeuristicTier{Now: clock}},
		types.ResolverConfig{TierTimeout: time.Minute}, nil)
	resolver.Now = clock
	e := newTestEngine(resolver, airports.NewFileDirectory(""), nil)

	_, err := e.Estimate(context.Background(), types.FlightEstimateRequest{Origin: "SBSP", Destination: "ZZZZ", Aircraft: c172})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAirportNotFound)

	entry, err := store.Get(context.Background(), c172)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestEstimateSpecsError(t *testing.T) {
	e := newTestEngine(staticSpecs{err: specs.ErrSpecsUnavailable}, airports.NewFileDirectory(""), nil)
	_, err := e.Estimate(context.Background(), types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBRJ", Aircraft: c172})
	assert.ErrorIs(t, err, specs.ErrSpecsUnavailable)
}

func TestEstimateWind(t *testing.T) {
	dir := airports.NewFileDirectory("")
	req := types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBRJ", Aircraft: c172}
	src := staticSpecs{specs: knownSpecs()}

	calm, err := newTestEngine(src, dir, nil).Estimate(context.Background(), req)
	require.NoError(t, err)

	// Course is about 078, so wind from 078 is a pure headwind.
	head, err := newTestEngine(src, dir, weather.Static{Speed: 20, Direction: 78.4}).Estimate(context.Background(), req)
	require.NoError(t, err)
	tail, err := newTestEngine(src, dir, weather.Static{Speed: 20, Direction: 258.4}).Estimate(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 20, head.WindComponent, 0.01)
	assert.InDelta(t, 104, head.GroundSpeed, 0.01)
	assert.InDelta(t, -20, tail.WindComponent, 0.01)
	assert.Greater(t, head.Totals.FlightTimeHours, calm.Totals.FlightTimeHours)
	assert.Less(t, tail.Totals.FlightTimeHours, calm.Totals.FlightTimeHours)
	assert.Greater(t, head.Totals.FuelTotal, calm.Totals.FuelTotal)

	require.NotNil(t, head.Weather)
	assert.Equal(t, 8000.0, head.Weather.Altitude)
	assert.Greater(t, head.ConfidenceScore, calm.ConfidenceScore)
}

func TestEstimateKnownSpecsHighConfidence(t *testing.T) {
	e := newTestEngine(staticSpecs{specs: knownSpecs()}, airports.NewFileDirectory(""), weather.Static{Speed: 5, Direction: 0})
	r, err := e.Estimate(context.Background(), types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBRJ", Aircraft: c172})
	require.NoError(t, err)

	assert.Equal(t, 10, r.ConfidenceScore)
	assert.Equal(t, types.ConfidenceHigh, r.Confidence)
	assert.Empty(t, r.ConfidenceReasons)
	assert.InDelta(t, 0.05, r.Uncertainty.Multiplier, 1e-9)
	assert.Equal(t, 8000.0, r.Altitude, "typical cruise altitude from specs")
	assert.InDelta(t, 8000.0/730, r.Phases.Climb.TimeMinutes, 1e-9)
	assert.Equal(t, 124.0, r.TrueAirspeed)
}

func TestEstimateFuelPriceAndFees(t *testing.T) {
	dir := mapDirectory{
		"AAAA": {Ident: "AAAA", Latitude: 0, Longitude: 0, LandingFee: 100, ParkingFee: 40,
			FuelPrices: map[string]float64{types.FuelAvgas: 10, types.FuelJetA: 7}},
		"BBBB": {Ident: "BBBB", Latitude: 1, Longitude: 1, LandingFee: 60, ParkingFee: 20},
	}
	jet := knownSpecs()
	jet.FuelType = nil
	jet.EngineType = &types.Measurement{Text: "turbofan", Source: types.SourceManufacturer}

	tests := []struct {
		name       string
		specs      *types.ResolvedSpecs
		origin     string
		override   *float64
		wantPrice  float64
		wantSource types.FuelPriceSource
	}{
		{"override wins", knownSpecs(), "AAAA", ptr(12.0), 12, types.FuelPriceOverride},
		{"airport avgas", knownSpecs(), "AAAA", nil, 10, types.FuelPriceAirport},
		{"airport jet-a from engine type", jet, "AAAA", nil, 7, types.FuelPriceAirport},
		{"default", knownSpecs(), "BBBB", nil, 8.5, types.FuelPriceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := "BBBB"
			if tt.origin == "BBBB" {
				dest = "AAAA"
			}
			e := newTestEngine(staticSpecs{specs: tt.specs}, dir, nil)
			r, err := e.Estimate(context.Background(), types.FlightEstimateRequest{
				Origin: tt.origin, Destination: dest, Aircraft: c172, FuelPriceOverride: tt.override,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, r.FuelPrice)
			assert.Equal(t, tt.wantSource, r.FuelPriceSource)
			assert.InDelta(t, r.Totals.FuelTotal*tt.wantPrice, r.Costs.Fuel, 1e-9)
			assert.Equal(t, 160.0, r.Costs.Landing)
			assert.Equal(t, 60.0, r.Costs.Parking)
			assert.InDelta(t, r.Totals.BlockTimeHours*2800, r.Costs.Operational, 1e-9)
			assertInvariants(t, r)
		})
	}
}

func TestEstimateRates(t *testing.T) {
	e := newTestEngine(staticSpecs{specs: knownSpecs()}, airports.NewFileDirectory(""), nil)
	r, err := e.Estimate(context.Background(), types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBRJ", Aircraft: c172})
	require.NoError(t, err)

	assert.InDelta(t, r.Costs.Total/r.Totals.BlockTimeHours, r.Rates.CostPerHour, 1e-9)
	assert.InDelta(t, r.Costs.Total/r.DistanceNM, r.Rates.CostPerNM, 1e-9)
	assert.InDelta(t, r.Rates.CostPerNM*1.852, r.Rates.CostPerKM, 1e-9)
	assert.InDelta(t, r.Totals.FuelTotal/r.Totals.FlightTimeHours, r.Rates.FuelPerHour, 1e-9)
	assert.InDelta(t, r.DistanceNM/(r.Totals.FuelTotal/3.785), r.Rates.Efficiency, 1e-9)
}

func TestEstimateInitialFuel(t *testing.T) {
	e := newTestEngine(heuristicResolver(), airports.NewFileDirectory(""), nil)
	req := types.FlightEstimateRequest{Origin: "SBSP", Destination: "SBRJ", Aircraft: c172, InitialFuel: ptr(50.0)}

	r, err := e.Estimate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 50.0, r.InitialFuel)
	assert.InDelta(t, r.Totals.FuelTotal-50, r.FuelShortfall, 1e-9)

	req.InitialFuel = ptr(500.0)
	r, err = e.Estimate(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, r.FuelShortfall)
}

// --- confidence ---

func TestLevel(t *testing.T) {
	assert.Equal(t, types.ConfidenceLow, Level(4))
	assert.Equal(t, types.ConfidenceMedium, Level(5))
	assert.Equal(t, types.ConfidenceMedium, Level(7))
	assert.Equal(t, types.ConfidenceHigh, Level(8))
	assert.Equal(t, types.ConfidenceHigh, Level(10))
}

func TestConfidenceMonotonic(t *testing.T) {
	methods := []types.Method{types.MethodHeuristic, types.MethodML, types.MethodKnown}
	rank := map[types.Confidence]int{types.ConfidenceLow: 0, types.ConfidenceMedium: 1, types.ConfidenceHigh: 2}
	level := func(in ScoreInputs) int { return rank[Level(Score(in))] }

	for si, speed := range methods {
		for bi, burn := range methods {
			for _, w := range []bool{false, true} {
				for _, c := range []bool{false, true} {
					in := ScoreInputs{SpeedMethod: speed, BurnMethod: burn, HasWeather: w, SpecsComplete: c}
					base := level(in)

					var better []ScoreInputs
					if si+1 < len(methods) {
						b := in
						b.SpeedMethod = methods[si+1]
						better = append(better, b)
					}
					if bi+1 < len(methods) {
						b := in
						b.BurnMethod = methods[bi+1]
						better = append(better, b)
					}
					if !w {
						b := in
						b.HasWeather = true
						better = append(better, b)
					}
					if !c {
						b := in
						b.SpecsComplete = true
						better = append(better, b)
					}
					for _, b := range better {
						assert.GreaterOrEqual(t, level(b), base, "%+v -> %+v", in, b)
					}
				}
			}
		}
	}
}

func TestInterval(t *testing.T) {
	i := interval(10, 0.3)
	assert.InDelta(t, 7, i.Min, 1e-9)
	assert.InDelta(t, 13, i.Max, 1e-9)

	wide := interval(10, 1.5)
	assert.Zero(t, wide.Min)
	assert.True(t, wide.Contains(10))
}
