// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package weather provides upper-air wind for the estimator.
package weather

import (
	"context"
	"time"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// WindProvider returns wind at a point and altitude. It returns (nil, nil)
// when no data is available; callers treat that as calm air.
type WindProvider interface {
	GetWindAtAltitude(ctx context.Context, lat, lon, altitudeFt float64, date time.Time) (*types.Wind, error)
}

// None never has data.
type None struct{}

func (None) GetWindAtAltitude(context.Context, float64, float64, float64, time.Time) (*types.Wind, error) {
	return nil, nil
}

// Static reports the same wind everywhere, at the requested altitude.
type Static struct {
	Speed       float64 // kt
	Direction   float64 // degrees true, direction the wind blows from
	Temperature float64 // °C
}

func (s Static) GetWindAtAltitude(_ context.Context, _, _, altitudeFt float64, _ time.Time) (*types.Wind, error) {
	return &types.Wind{
		WindSpeed:     s.Speed,
		WindDirection: s.Direction,
		Altitude:      altitudeFt,
		Temperature:   s.Temperature,
	}, nil
}
