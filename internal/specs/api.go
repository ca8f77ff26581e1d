// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package specs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/trip-estimator/internal/httputil"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

// APITier queries an authoritative aircraft specs API. With no base URL
// configured it always misses.
type APITier struct {
	Client    *http.Client
	BaseURL   string
	APIKey    string
	UserAgent string
	Logger    *slog.Logger
	Now       func() time.Time
}

func (a *APITier) Name() string { return "api" }

// Lookup requests BaseURL/aircraft?manufacturer=..&model=.. A 404 is a miss.
func (a *APITier) Lookup(ctx context.Context, key types.AircraftKey, _ *types.ResolvedSpecs) (*types.ResolvedSpecs, error) {
	if a.BaseURL == "" {
		return nil, nil
	}

	params := url.Values{
		"manufacturer": {key.Manufacturer},
		"model":        {key.Model},
	}
	if key.Variant != "" {
		params.Set("variant", key.Variant)
	}
	if key.Year > 0 {
		params.Set("year", strconv.Itoa(key.Year))
	}
	reqURL := strings.TrimSuffix(a.BaseURL, "/") + "/aircraft?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.UserAgent != "" {
		req.Header.Set("User-Agent", a.UserAgent)
	}
	if a.APIKey != "" {
		req.Header.Set("X-API-Key", a.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, clientOr(a.Client), req, 0, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("specs API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("specs API returned HTTP %d", resp.StatusCode)
	}

	var body apiSpecs
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing specs API response: %w", err)
	}

	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	out := body.toSpecs(now)
	fields := out.PresentFields()
	if len(fields) == 0 {
		return nil, nil
	}
	out.Sources = []types.SourceEntry{{
		Type: types.SourceAPI, Tier: a.Name(), URL: reqURL,
		CollectedAt: now, Fields: fields,
	}}
	return out, nil
}

func clientOr(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

// apiSpecs is the specs API JSON body. Absent numbers decode as nil.
type apiSpecs struct {
	CruiseSpeedKt   *float64 `json:"cruise_speed_kt"`
	EconomicSpeedKt *float64 `json:"economic_speed_kt"`
	MaxSpeedKt      *float64 `json:"max_speed_kt"`
	ClimbBurnLph    *float64 `json:"climb_burn_lph"`
	CruiseBurnLph   *float64 `json:"cruise_burn_lph"`
	DescentBurnLph  *float64 `json:"descent_burn_lph"`
	IdleBurnLph     *float64 `json:"idle_burn_lph"`
	MTOWKg          *float64 `json:"mtow_kg"`
	Seats           *float64 `json:"seats"`
	RangeNM         *float64 `json:"range_nm"`
	EngineType      string   `json:"engine_type"`
	EnginePowerHP   *float64 `json:"engine_power_hp"`
	FuelType        string   `json:"fuel_type"`
	RateOfClimbFpm  *float64 `json:"rate_of_climb_fpm"`
	CruiseAltFt     *float64 `json:"cruise_altitude_ft"`
}

func (b apiSpecs) toSpecs(now time.Time) *types.ResolvedSpecs {
	num := func(v *float64, unit string) *types.Measurement {
		if v == nil || *v <= 0 {
			return nil
		}
		return &types.Measurement{
			Value: *v, Unit: unit, Source: types.SourceAPI,
			CollectedAt: now, Confidence: types.ConfidenceHigh,
		}
	}
	text := func(v string) *types.Measurement {
		if v == "" {
			return nil
		}
		return &types.Measurement{
			Text: strings.ToLower(v), Source: types.SourceAPI,
			CollectedAt: now, Confidence: types.ConfidenceHigh,
		}
	}
	return &types.ResolvedSpecs{
		CruiseSpeed: types.CruiseSpeeds{
			Normal:   num(b.CruiseSpeedKt, "kt"),
			Economic: num(b.EconomicSpeedKt, "kt"),
			Max:      num(b.MaxSpeedKt, "kt"),
		},
		FuelBurn: types.FuelBurns{
			Climb:   num(b.ClimbBurnLph, "L/h"),
			Cruise:  num(b.CruiseBurnLph, "L/h"),
			Descent: num(b.DescentBurnLph, "L/h"),
			Idle:    num(b.IdleBurnLph, "L/h"),
		},
		MTOW:           num(b.MTOWKg, "kg"),
		Seats:          num(b.Seats, "seats"),
		Range:          num(b.RangeNM, "NM"),
		EngineType:     text(b.EngineType),
		EnginePower:    num(b.EnginePowerHP, "hp"),
		FuelType:       text(b.FuelType),
		RateOfClimb:    num(b.RateOfClimbFpm, "fpm"),
		CruiseAltitude: num(b.CruiseAltFt, "ft"),
	}
}
