// Package geo provides coordinate value types and great-circle distance math.
// This is part of the platform layer and contains no business logic.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusMeters is the mean Earth radius used for all distance math.
const EarthRadiusMeters = 6371000.0

// ErrOutOfRange is returned when a coordinate pair is outside the valid
// latitude/longitude bounds. Out-of-range input is rejected, never clamped.
var ErrOutOfRange = errors.New("geo: coordinates out of range")

// Point is a validated (latitude, longitude) pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// New builds a Point, enforcing lat in [-90,90] and lng in [-180,180].
func New(lat, lng float64) (Point, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return Point{}, ErrOutOfRange
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Point{}, ErrOutOfRange
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// FromOrb converts a GeoJSON-ordered (lng, lat) orb point into a Point.
func FromOrb(p orb.Point) (Point, error) {
	return New(p.Lat(), p.Lon())
}

// Orb returns the point in GeoJSON (lng, lat) ordering.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// Key returns the point rounded to 5 decimal places (a roughly 1.1m grid),
// used as a cache key so nearby repeat lookups share one entry.
func (p Point) Key() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}

// DistanceMeters computes the haversine great-circle distance between two
// points. Pure and deterministic.
func DistanceMeters(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
