package repository

import (
	"context"
	"errors"
	"fmt"

	"findbin_backend/platform/apperr"
	"findbin_backend/platform/geo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const binNotFoundMessage = "dustbin not found"

const binColumns = "id, name, address, lat, lng, created_by, created_at"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new bins repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new bin.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Bin, error) {
	query := `
		INSERT INTO bins (name, address, lat, lng, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + binColumns

	row := r.pool.QueryRow(ctx, query,
		params.Name, params.Address, params.Location.Lat, params.Location.Lng, params.CreatedBy,
	)

	bin, err := scanBin(row)
	if err != nil {
		return Bin{}, fmt.Errorf("create bin: %w", err)
	}
	return bin, nil
}

// List retrieves all bins newest-first.
func (r *Repo) List(ctx context.Context) ([]Bin, error) {
	query := `SELECT ` + binColumns + ` FROM bins ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	defer rows.Close()

	return scanBins(rows)
}

// ListForScan retrieves all bins ordered by id ascending.
func (r *Repo) ListForScan(ctx context.Context) ([]Bin, error) {
	query := `SELECT ` + binColumns + ` FROM bins ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bins for scan: %w", err)
	}
	defer rows.Close()

	return scanBins(rows)
}

// NearestIndexed runs the KNN nearest-neighbor query against the
// earthdistance GiST index. Exact-distance ties break on lowest id.
func (r *Repo) NearestIndexed(ctx context.Context, p geo.Point) (Bin, error) {
	query := `
		SELECT ` + binColumns + `
		FROM bins
		ORDER BY ll_to_earth(lat, lng) <-> ll_to_earth($1, $2), id ASC
		LIMIT 1`

	row := r.pool.QueryRow(ctx, query, p.Lat, p.Lng)

	bin, err := scanBin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bin{}, ErrNoBins
		}
		if isIndexUnavailable(err) {
			return Bin{}, ErrIndexUnavailable
		}
		return Bin{}, fmt.Errorf("nearest bin indexed: %w", err)
	}
	return bin, nil
}

// Update applies a partial update; nil fields keep their current value.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Bin, error) {
	var lat, lng *float64
	if params.Location != nil {
		lat, lng = &params.Location.Lat, &params.Location.Lng
	}

	query := `
		UPDATE bins SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			lat = COALESCE($4, lat),
			lng = COALESCE($5, lng)
		WHERE id = $1
		RETURNING ` + binColumns

	row := r.pool.QueryRow(ctx, query, params.ID, params.Name, params.Address, lat, lng)

	bin, err := scanBin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bin{}, apperr.NotFound(binNotFoundMessage)
		}
		return Bin{}, fmt.Errorf("update bin: %w", err)
	}
	return bin, nil
}

// Delete removes a bin by id.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM bins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bin: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(binNotFoundMessage)
	}
	return nil
}

// isIndexUnavailable recognizes the SQL states Postgres raises when the
// earthdistance extension or its operators are missing: undefined_function
// (42883) and undefined_object (42704). This replaces the fragile
// error-message string matching the degraded mode otherwise requires.
func isIndexUnavailable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "42883" || pgErr.Code == "42704"
}

func scanBin(row pgx.Row) (Bin, error) {
	var b Bin
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.Location.Lat, &b.Location.Lng, &b.CreatedBy, &b.CreatedAt)
	if err != nil {
		return Bin{}, err
	}
	return b, nil
}

func scanBins(rows pgx.Rows) ([]Bin, error) {
	var results []Bin

	for rows.Next() {
		bin, err := scanBin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		results = append(results, bin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bins: %w", err)
	}
	return results, nil
}
