// Package transport defines the HTTP DTOs for the geocode module.
package transport

import "encoding/json"

// ReverseQuery binds the lat/lng query parameters for reverse geocoding.
type ReverseQuery struct {
	Lat *float64 `form:"lat" binding:"required"`
	Lng *float64 `form:"lng" binding:"required"`
}

// ReverseResponse carries the resolved address. Address is the geocoder's
// structured address object passed through untouched. Cached reports whether
// the answer came from the cache rather than the upstream geocoder.
type ReverseResponse struct {
	DisplayName string          `json:"displayName"`
	Address     json.RawMessage `json:"address,omitempty"`
	Cached      bool            `json:"cached"`
}
