// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Fuel type identifiers used for specs and airport price tables.
const (
	FuelAvgas = "avgas"
	FuelJetA  = "jet-a"
)

// Airport is the subset of an airport record the estimator consumes.
type Airport struct {
	Ident     string `json:"ident" yaml:"ident"`
	ICAO      string `json:"icao,omitempty" yaml:"icao,omitempty"`
	IATA      string `json:"iata,omitempty" yaml:"iata,omitempty"`
	GPSCode   string `json:"gps_code,omitempty" yaml:"gps_code,omitempty"`
	LocalCode string `json:"local_code,omitempty" yaml:"local_code,omitempty"`
	Name      string `json:"name" yaml:"name"`

	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	// Elevation is in feet.
	Elevation float64 `json:"elevation" yaml:"elevation"`

	Country          string `json:"country,omitempty" yaml:"country,omitempty"`
	Region           string `json:"region,omitempty" yaml:"region,omitempty"`
	Municipality     string `json:"municipality,omitempty" yaml:"municipality,omitempty"`
	ScheduledService bool   `json:"scheduled_service" yaml:"scheduled_service"`

	// FuelPrices maps a fuel type (FuelAvgas, FuelJetA) to a price per liter.
	FuelPrices map[string]float64 `json:"fuel_prices,omitempty" yaml:"fuel_prices,omitempty"`
	LandingFee float64            `json:"landing_fee,omitempty" yaml:"landing_fee,omitempty"`
	ParkingFee float64            `json:"parking_fee,omitempty" yaml:"parking_fee,omitempty"`
}

// Codes returns every non-empty identifier the airport can be found by.
func (a *Airport) Codes() []string {
	var codes []string
	for _, c := range []string{a.Ident, a.ICAO, a.GPSCode, a.IATA, a.LocalCode} {
		if c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// Code returns the preferred display code: ICAO, then ident.
func (a *Airport) Code() string {
	if a.ICAO != "" {
		return a.ICAO
	}
	return a.Ident
}

// FuelPrice returns the published price for fuelType, if any.
func (a *Airport) FuelPrice(fuelType string) (float64, bool) {
	p, ok := a.FuelPrices[fuelType]
	if !ok || p <= 0 {
		return 0, false
	}
	return p, true
}

// Wind is upper-air weather at a point. Speed is in knots, direction is
// the true direction the wind blows from in degrees, altitude in feet and
// temperature in degrees Celsius.
type Wind struct {
	WindSpeed     float64 `json:"wind_speed" yaml:"wind_speed"`
	WindDirection float64 `json:"wind_direction" yaml:"wind_direction"`
	Altitude      float64 `json:"altitude" yaml:"altitude"`
	Temperature   float64 `json:"temperature" yaml:"temperature"`
}
