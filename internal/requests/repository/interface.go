// Package repository provides data access for bin placement requests.
package repository

import (
	"context"
	"time"

	binsrepo "findbin_backend/internal/bins/repository"
	"findbin_backend/platform/geo"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a bin request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus maps a query-string value onto a known status. Unknown or
// empty values return nil, which listing treats as "all statuses".
func ParseStatus(s string) *Status {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		status := Status(s)
		return &status
	default:
		return nil
	}
}

// BinRequest is a proposed bin placement awaiting an admin decision.
type BinRequest struct {
	ID             uuid.UUID
	Address        *string
	Note           *string
	CreatedByEmail *string
	Location       geo.Point
	Status         Status
	ResolvedBy     *uuid.UUID
	BinID          *uuid.UUID
	CreatedAt      time.Time
}

// CreateParams carries the fields for a new pending request.
type CreateParams struct {
	Address        *string
	Note           *string
	CreatedByEmail *string
	Location       geo.Point
}

// ApproveParams identifies the request to approve and the bin to create
// from it.
type ApproveParams struct {
	RequestID uuid.UUID
	AdminID   uuid.UUID
	BinName   string
}

// Repository defines data access for bin requests. Approve and Reject are
// atomic: the status transition and any side effects commit together or
// not at all.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (BinRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (BinRequest, error)
	ListByStatus(ctx context.Context, status *Status) ([]BinRequest, error)
	Approve(ctx context.Context, params ApproveParams) (BinRequest, binsrepo.Bin, error)
	Reject(ctx context.Context, requestID, adminID uuid.UUID) (BinRequest, error)
}
