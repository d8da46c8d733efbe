// Package geo estimates the driving distance between a move's origin and
// destination. A real deployment would call a geocoding/routing provider;
// the core only depends on the Estimator interface.
package geo

import (
	"context"
	"encoding/json"
	"math"
)

// Address is the free-form address payload stored on a lead. Coordinates are
// optional: intake forms usually capture only the street address.
type Address struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Estimator computes the distance in kilometers between two address payloads.
type Estimator interface {
	EstimateKm(ctx context.Context, origin, dest json.RawMessage) (float64, error)
}

// StaticEstimator returns the great-circle distance when both payloads carry
// coordinates and a configured fallback distance otherwise. It stands in for
// a routing provider integration.
type StaticEstimator struct {
	FallbackKm float64
}

// NewStaticEstimator creates an estimator with the given fallback distance.
func NewStaticEstimator(fallbackKm float64) *StaticEstimator {
	return &StaticEstimator{FallbackKm: fallbackKm}
}

// EstimateKm implements Estimator.
func (e *StaticEstimator) EstimateKm(_ context.Context, origin, dest json.RawMessage) (float64, error) {
	from, okFrom := parseAddress(origin)
	to, okTo := parseAddress(dest)
	if okFrom && okTo {
		return HaversineKm(*from.Lat, *from.Lng, *to.Lat, *to.Lng), nil
	}
	return e.FallbackKm, nil
}

func parseAddress(raw json.RawMessage) (Address, bool) {
	var addr Address
	if len(raw) == 0 {
		return addr, false
	}
	if err := json.Unmarshal(raw, &addr); err != nil {
		return addr, false
	}
	return addr, addr.Lat != nil && addr.Lng != nil
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
