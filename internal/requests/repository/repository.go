package repository

import (
	"context"
	"errors"
	"fmt"

	binsrepo "findbin_backend/internal/bins/repository"
	"findbin_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestNotFoundMessage = "dustbin request not found"

const requestColumns = "id, address, note, created_by_email, lat, lng, status, resolved_by, bin_id, created_at"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new bin requests repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new pending request.
func (r *Repo) Create(ctx context.Context, params CreateParams) (BinRequest, error) {
	query := `
		INSERT INTO bin_requests (address, note, created_by_email, lat, lng)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + requestColumns

	row := r.pool.QueryRow(ctx, query,
		params.Address, params.Note, params.CreatedByEmail, params.Location.Lat, params.Location.Lng,
	)

	request, err := scanRequest(row)
	if err != nil {
		return BinRequest{}, fmt.Errorf("create bin request: %w", err)
	}
	return request, nil
}

// GetByID retrieves a single request.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (BinRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM bin_requests WHERE id = $1`

	request, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BinRequest{}, apperr.NotFound(requestNotFoundMessage)
		}
		return BinRequest{}, fmt.Errorf("get bin request: %w", err)
	}
	return request, nil
}

// ListByStatus retrieves requests newest-first. A nil status returns all.
func (r *Repo) ListByStatus(ctx context.Context, status *Status) ([]BinRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM bin_requests
		WHERE $1::text IS NULL OR status = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list bin requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// Approve creates a bin from the request's location and marks the request
// approved, in a single transaction. The request row is locked for the
// duration, so concurrent approve/reject calls on the same request
// serialize and exactly one of them wins.
func (r *Repo) Approve(ctx context.Context, params ApproveParams) (BinRequest, binsrepo.Bin, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return BinRequest{}, binsrepo.Bin{}, fmt.Errorf("approve request: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	request, err := lockPendingRequest(ctx, tx, params.RequestID)
	if err != nil {
		return BinRequest{}, binsrepo.Bin{}, err
	}

	binQuery := `
		INSERT INTO bins (name, address, lat, lng, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, address, lat, lng, created_by, created_at`

	var bin binsrepo.Bin
	err = tx.QueryRow(ctx, binQuery,
		params.BinName, request.Address, request.Location.Lat, request.Location.Lng, params.AdminID,
	).Scan(&bin.ID, &bin.Name, &bin.Address, &bin.Location.Lat, &bin.Location.Lng, &bin.CreatedBy, &bin.CreatedAt)
	if err != nil {
		return BinRequest{}, binsrepo.Bin{}, fmt.Errorf("approve request: create bin: %w", err)
	}

	updateQuery := `
		UPDATE bin_requests
		SET status = $2, resolved_by = $3, bin_id = $4
		WHERE id = $1 AND status = $5
		RETURNING ` + requestColumns

	row := tx.QueryRow(ctx, updateQuery, params.RequestID, StatusApproved, params.AdminID, bin.ID, StatusPending)
	updated, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BinRequest{}, binsrepo.Bin{}, apperr.InvalidTransition(transitionMessage(request.Status))
		}
		return BinRequest{}, binsrepo.Bin{}, fmt.Errorf("approve request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return BinRequest{}, binsrepo.Bin{}, fmt.Errorf("approve request: commit: %w", err)
	}
	return updated, bin, nil
}

// Reject marks a pending request rejected.
func (r *Repo) Reject(ctx context.Context, requestID, adminID uuid.UUID) (BinRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return BinRequest{}, fmt.Errorf("reject request: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	request, err := lockPendingRequest(ctx, tx, requestID)
	if err != nil {
		return BinRequest{}, err
	}

	updateQuery := `
		UPDATE bin_requests
		SET status = $2, resolved_by = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + requestColumns

	row := tx.QueryRow(ctx, updateQuery, requestID, StatusRejected, adminID, StatusPending)
	updated, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BinRequest{}, apperr.InvalidTransition(transitionMessage(request.Status))
		}
		return BinRequest{}, fmt.Errorf("reject request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return BinRequest{}, fmt.Errorf("reject request: commit: %w", err)
	}
	return updated, nil
}

// lockPendingRequest reads and row-locks a request, translating absence
// into NotFound and a non-pending status into InvalidTransition.
func lockPendingRequest(ctx context.Context, tx pgx.Tx, requestID uuid.UUID) (BinRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM bin_requests WHERE id = $1 FOR UPDATE`

	request, err := scanRequest(tx.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BinRequest{}, apperr.NotFound(requestNotFoundMessage)
		}
		return BinRequest{}, fmt.Errorf("lock bin request: %w", err)
	}

	if request.Status != StatusPending {
		return BinRequest{}, apperr.InvalidTransition(transitionMessage(request.Status))
	}
	return request, nil
}

func transitionMessage(current Status) string {
	if current == "" {
		return "request is not pending"
	}
	return fmt.Sprintf("request is already %s", current)
}

func scanRequest(row pgx.Row) (BinRequest, error) {
	var req BinRequest
	err := row.Scan(
		&req.ID, &req.Address, &req.Note, &req.CreatedByEmail,
		&req.Location.Lat, &req.Location.Lng,
		&req.Status, &req.ResolvedBy, &req.BinID, &req.CreatedAt,
	)
	if err != nil {
		return BinRequest{}, err
	}
	return req, nil
}

func scanRequests(rows pgx.Rows) ([]BinRequest, error) {
	var results []BinRequest

	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bin request: %w", err)
		}
		results = append(results, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bin requests: %w", err)
	}
	return results, nil
}
