// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package estimate

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.0

// KMPerNM converts nautical miles to kilometers.
const KMPerNM = 1.852

// Distance returns the great-circle (haversine) distance in nautical miles
// between two points given in decimal degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1, rlat2 := radians(lat1), radians(lat2)
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusNM * c
}

// Course returns atan2(Δlon, Δlat) in degrees normalized to [0, 360). It
// is a flat-earth approximation of the initial bearing and differs from
// the great-circle bearing on long or high-latitude legs.
func Course(lat1, lon1, lat2, lon2 float64) float64 {
	c := degrees(math.Atan2(lon2-lon1, lat2-lat1))
	if c < 0 {
		c += 360
	}
	return c
}

// HeadwindComponent returns the wind component along course in knots,
// positive for a headwind. direction is where the wind blows from.
func HeadwindComponent(speed, direction, course float64) float64 {
	return speed * math.Cos(radians(direction-course))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
