// Package transport defines the HTTP DTOs for the bins module.
package transport

import (
	"findbin_backend/platform/geo"

	"github.com/google/uuid"
)

// NearestQuery represents the query parameters for a nearest-bin lookup.
// Pointers distinguish "absent" from a legitimate zero coordinate.
type NearestQuery struct {
	Lat *float64 `form:"lat" binding:"required"`
	Lng *float64 `form:"lng" binding:"required"`
}

// CreateDustbinRequest contains data for creating a bin directly (admin).
type CreateDustbinRequest struct {
	Name    string   `json:"name" validate:"required,max=200"`
	Address *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Lat     *float64 `json:"lat" validate:"required"`
	Lng     *float64 `json:"lng" validate:"required"`
}

// UpdateDustbinRequest contains partial fields for updating a bin. Only
// supplied fields change; lat and lng must be supplied together.
type UpdateDustbinRequest struct {
	Name    *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Address *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// DustbinResponse represents a bin in API responses.
type DustbinResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Address   *string    `json:"address,omitempty"`
	Location  geo.Point  `json:"location"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt string     `json:"createdAt"`
}

// NearestResponse is the outcome of a nearest-bin lookup. Dustbin and
// DistanceMeters are nil when no bins exist yet, which is an expected
// condition on a fresh deployment, not an error.
type NearestResponse struct {
	Dustbin        *DustbinResponse
	DistanceMeters *float64
	// Fallback marks that the linear scan served this lookup because the
	// spatial index was unavailable.
	Fallback bool
}
