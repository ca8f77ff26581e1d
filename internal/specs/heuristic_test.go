// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package specs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		power   float64
		family  Family
		speed   float64
		burn    float64
		keyword string
	}{
		{"cessna 172", "Cessna 172", 0, FamilyPistonSingle, 120, 40, "172"},
		{"cessna 182 skylane", "CESSNA 182T Skylane", 0, FamilyPistonSingle, 140, 50, "182"},
		{"cessna 152", "Cessna 152", 0, FamilyPistonSingle, 100, 25, "152"},
		{"generic cessna", "Cessna 206", 0, FamilyPistonSingle, 125, 40, "cessna"},
		{"citation before cessna", "Cessna Citation CJ3", 0, FamilyJet, 420, 600, "citation"},
		{"caravan is turboprop", "Cessna 208 Caravan", 0, FamilyTurboprop, 260, 250, "caravan"},
		{"seneca twin before piper", "Piper Seneca V", 0, FamilyPistonTwin, 170, 90, "seneca"},
		{"piper single", "Piper Archer III", 0, FamilyPistonSingle, 120, 38, "piper"},
		{"cirrus", "Cirrus SR22", 0, FamilyPistonSingle, 170, 60, "cirrus"},
		{"phenom", "Embraer Phenom 300", 0, FamilyJet, 420, 600, "phenom"},
		{"pc-12", "Pilatus PC-12", 0, FamilyTurboprop, 260, 250, "pc-12"},
		{"king air", "Beechcraft King Air 350", 0, FamilyTurboprop, 260, 250, "king air"},
		{"baron", "Beechcraft Baron G58", 0, FamilyPistonTwin, 170, 90, "baron"},
		{"bonanza", "Beechcraft Bonanza A36", 0, FamilyPistonSingle, 165, 60, "bonanza"},
		{"power rule", "Zlin Z-242", 200, FamilyUnknown, 160, 60, ""},
		{"power rule clamps low", "Aeropro Eurofox", 80, FamilyUnknown, 100, 30, ""},
		{"power rule clamps high", "Unknown Racer", 1000, FamilyUnknown, 500, 300, ""},
		{"defaults", "Homebuilt Special", 0, FamilyUnknown, 150, 100, ""},
		{"keyword beats power", "Cessna 172", 300, FamilyPistonSingle, 120, 40, "172"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Heuristic(tt.model, tt.power)
			assert.Equal(t, tt.family, got.Family)
			assert.InDelta(t, tt.speed, got.CruiseSpeed, 1e-9)
			assert.InDelta(t, tt.burn, got.FuelBurn, 1e-9)
			assert.Equal(t, tt.keyword, got.Keyword)
		})
	}
}

func TestHeuristicRuleOrder(t *testing.T) {
	// Families must appear jet, turboprop, twin, single with no interleaving.
	rank := map[Family]int{FamilyJet: 0, FamilyTurboprop: 1, FamilyPistonTwin: 2, FamilyPistonSingle: 3}
	prev := -1
	for _, r := range heuristicRules {
		require.GreaterOrEqual(t, rank[r.family], prev, "rule %v out of order", r.keywords)
		prev = rank[r.family]
	}
}

func TestHeuristicTierLookup(t *testing.T) {
	tier := &HeuristicTier{Now: func() time.Time { return t0 }}
	got, err := tier.Lookup(context.Background(), types.AircraftKey{Manufacturer: "Cessna", Model: "172"}, nil)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NotNil(t, got.CruiseSpeed.Normal)
	assert.Equal(t, 120.0, got.CruiseSpeed.Normal.Value)
	assert.Equal(t, types.SourceHeuristic, got.CruiseSpeed.Normal.Source)
	assert.Equal(t, types.ConfidenceLow, got.CruiseSpeed.Normal.Confidence)
	assert.Contains(t, got.CruiseSpeed.Normal.Notes, "piston-single")
	assert.Nil(t, got.CruiseSpeed.Economic)
	assert.Nil(t, got.CruiseSpeed.Max)

	require.NotNil(t, got.FuelBurn.Cruise)
	assert.Equal(t, 40.0, got.FuelBurn.Cruise.Value)
	assert.Equal(t, 700.0, got.RateOfClimb.Value)
	assert.Equal(t, 8000.0, got.CruiseAltitude.Value)
	assert.Equal(t, types.FuelAvgas, got.FuelType.Text)

	require.Len(t, got.Sources, 1)
	assert.Equal(t, types.SourceHeuristic, got.Sources[0].Type)
	assert.Equal(t, t0, got.Sources[0].CollectedAt)
	assert.Contains(t, got.Sources[0].Fields, "cruiseSpeed.normal")
}

func TestHeuristicTierUsesKnownPower(t *testing.T) {
	tier := &HeuristicTier{Now: func() time.Time { return t0 }}
	current := &types.ResolvedSpecs{EnginePower: &types.Measurement{Value: 250, Unit: "hp"}}

	got, err := tier.Lookup(context.Background(), types.AircraftKey{Manufacturer: "Zlin", Model: "Z-526"}, current)
	require.NoError(t, err)
	assert.InDelta(t, 200, got.CruiseSpeed.Normal.Value, 1e-9)
	assert.InDelta(t, 75, got.FuelBurn.Cruise.Value, 1e-9)
	assert.Contains(t, got.CruiseSpeed.Normal.Notes, "rated power")
	assert.Nil(t, got.CruiseAltitude, "unknown family has no traits")
}
