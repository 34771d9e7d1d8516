package repository

import (
	"context"
	"errors"
	"time"

	"findbin_backend/platform/geo"

	"github.com/google/uuid"
)

// ErrIndexUnavailable is the typed signal that the spatial index (the
// earthdistance extension and its GiST index) cannot serve a query. It is a
// recoverable infrastructure condition: callers fall back to a linear scan.
var ErrIndexUnavailable = errors.New("spatial index unavailable")

// ErrNoBins indicates the bin collection is empty. Expected on a fresh
// deployment; never surfaced to callers as a failure.
var ErrNoBins = errors.New("no bins stored")

// Bin is an approved, authoritative bin record.
type Bin struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	Location  geo.Point
	CreatedBy *uuid.UUID
	CreatedAt time.Time
}

// CreateParams contains parameters for creating a bin.
type CreateParams struct {
	Name      string
	Address   *string
	Location  geo.Point
	CreatedBy *uuid.UUID
}

// UpdateParams contains parameters for a partial bin update. Nil fields are
// left unchanged; Location replaces both coordinates at once.
type UpdateParams struct {
	ID       uuid.UUID
	Name     *string
	Address  *string
	Location *geo.Point
}

// Reader provides read operations for bins.
type Reader interface {
	// List returns all bins newest-first (the public listing order).
	List(ctx context.Context) ([]Bin, error)
	// ListForScan returns all bins ordered by id ascending so the linear
	// fallback shares the indexed path's tie-break.
	ListForScan(ctx context.Context) ([]Bin, error)
	// NearestIndexed returns the single closest bin to p using the
	// earthdistance KNN index. Returns ErrIndexUnavailable when the
	// extension or index is missing, ErrNoBins when the table is empty.
	NearestIndexed(ctx context.Context, p geo.Point) (Bin, error)
}

// Writer provides write operations for bins.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (Bin, error)
	Update(ctx context.Context, params UpdateParams) (Bin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all bin repository operations.
type Repository interface {
	Reader
	Writer
}
