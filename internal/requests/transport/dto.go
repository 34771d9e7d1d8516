// Package transport defines the HTTP DTOs for the requests module.
package transport

import (
	"findbin_backend/platform/geo"

	"github.com/google/uuid"
)

// SubmitRequest is a public bin-placement proposal.
// Pointers distinguish "absent" from a legitimate zero coordinate.
type SubmitRequest struct {
	Lat     *float64 `json:"lat" validate:"required"`
	Lng     *float64 `json:"lng" validate:"required"`
	Address *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Note    *string  `json:"note,omitempty" validate:"omitempty,max=1000"`
	Email   *string  `json:"email,omitempty" validate:"omitempty,email"`
}

// ApproveRequest carries the optional bin name for an approval.
type ApproveRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=200"`
}

// RequestResponse represents a bin request in API responses.
type RequestResponse struct {
	ID             uuid.UUID  `json:"id"`
	Address        *string    `json:"address,omitempty"`
	Note           *string    `json:"note,omitempty"`
	Location       geo.Point  `json:"location"`
	Status         string     `json:"status"`
	CreatedByEmail *string    `json:"createdByEmail,omitempty"`
	ResolvedBy     *uuid.UUID `json:"resolvedBy,omitempty"`
	DustbinID      *uuid.UUID `json:"dustbinId,omitempty"`
	CreatedAt      string     `json:"createdAt"`
}
