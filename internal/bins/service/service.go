// Package service implements bin registry operations and the two-tier
// nearest-bin lookup.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"findbin_backend/internal/bins/repository"
	"findbin_backend/internal/bins/transport"
	"findbin_backend/internal/metrics"
	"findbin_backend/platform/apperr"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgInvalidLocation = "invalid lat/lng"
	msgNameRequired    = "name is required"
)

// Service provides business logic for the bin registry and nearest lookups.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new bins service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// FindNearest returns the single closest bin to p.
//
// The indexed KNN query is the primary path. When the storage layer reports
// the index unavailable, the lookup degrades to a linear scan over all bins;
// the condition is absorbed here and never surfaced to the caller. Distances
// are always computed by the haversine engine so both tiers report the same
// number for the same bin.
func (s *Service) FindNearest(ctx context.Context, p geo.Point) (transport.NearestResponse, error) {
	bin, err := s.repo.NearestIndexed(ctx, p)
	switch {
	case err == nil:
		d := geo.DistanceMeters(p, bin.Location)
		return transport.NearestResponse{Dustbin: toResponsePtr(bin), DistanceMeters: &d}, nil

	case errors.Is(err, repository.ErrNoBins):
		metrics.NearestEmptyTotal.Inc()
		return transport.NearestResponse{}, nil

	case errors.Is(err, repository.ErrIndexUnavailable):
		s.log.DegradedLookup("earthdistance index unavailable")
		metrics.NearestFallbackTotal.Inc()
		return s.scanNearest(ctx, p)

	default:
		s.log.DatabaseError("nearest bin", err)
		return transport.NearestResponse{}, apperr.Wrap(apperr.KindInternal, "nearest lookup failed", err)
	}
}

// scanNearest is the fallback tier: a full linear scan keeping the strict
// minimum. Iteration is id-ascending, so the first bin seen wins exact ties,
// matching the indexed tier's lowest-id tie-break. Rows with out-of-range
// coordinates are skipped, not counted as candidates.
func (s *Service) scanNearest(ctx context.Context, p geo.Point) (transport.NearestResponse, error) {
	bins, err := s.repo.ListForScan(ctx)
	if err != nil {
		s.log.DatabaseError("nearest bin scan", err)
		return transport.NearestResponse{}, apperr.Wrap(apperr.KindInternal, "nearest lookup failed", err)
	}

	var best *repository.Bin
	var bestDist float64
	for i := range bins {
		b := bins[i]
		if _, err := geo.New(b.Location.Lat, b.Location.Lng); err != nil {
			continue
		}
		d := geo.DistanceMeters(p, b.Location)
		if best == nil || d < bestDist {
			best = &bins[i]
			bestDist = d
		}
	}

	if best == nil {
		metrics.NearestEmptyTotal.Inc()
		return transport.NearestResponse{Fallback: true}, nil
	}

	return transport.NearestResponse{
		Dustbin:        toResponsePtr(*best),
		DistanceMeters: &bestDist,
		Fallback:       true,
	}, nil
}

// List retrieves all bins newest-first.
func (s *Service) List(ctx context.Context) ([]transport.DustbinResponse, error) {
	bins, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.DustbinResponse, len(bins))
	for i, bin := range bins {
		responses[i] = toResponse(bin)
	}
	return responses, nil
}

// Create creates a new bin from an admin request.
func (s *Service) Create(ctx context.Context, req transport.CreateDustbinRequest, adminID uuid.UUID) (transport.DustbinResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return transport.DustbinResponse{}, apperr.Validation(msgNameRequired)
	}
	location, err := geo.New(*req.Lat, *req.Lng)
	if err != nil {
		return transport.DustbinResponse{}, apperr.Validation(msgInvalidLocation)
	}

	bin, err := s.repo.Create(ctx, repository.CreateParams{
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		Location:  location,
		CreatedBy: &adminID,
	})
	if err != nil {
		return transport.DustbinResponse{}, err
	}

	s.log.Info("dustbin created", "id", bin.ID, "name", bin.Name)
	return toResponse(bin), nil
}

// Update applies a partial update to a bin. Lat and lng must be supplied
// together; a supplied location is bounds-checked, never clamped.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateDustbinRequest) (transport.DustbinResponse, error) {
	params := repository.UpdateParams{
		ID:      id,
		Name:    req.Name,
		Address: req.Address,
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return transport.DustbinResponse{}, apperr.Validation(msgNameRequired)
	}

	if (req.Lat == nil) != (req.Lng == nil) {
		return transport.DustbinResponse{}, apperr.Validation(msgInvalidLocation)
	}
	if req.Lat != nil {
		location, err := geo.New(*req.Lat, *req.Lng)
		if err != nil {
			return transport.DustbinResponse{}, apperr.Validation(msgInvalidLocation)
		}
		params.Location = &location
	}

	bin, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.DustbinResponse{}, err
	}

	s.log.Info("dustbin updated", "id", bin.ID)
	return toResponse(bin), nil
}

// Delete removes a bin by id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("dustbin deleted", "id", id)
	return nil
}

func toResponse(bin repository.Bin) transport.DustbinResponse {
	return transport.DustbinResponse{
		ID:        bin.ID,
		Name:      bin.Name,
		Address:   bin.Address,
		Location:  bin.Location,
		CreatedBy: bin.CreatedBy,
		CreatedAt: bin.CreatedAt.Format(time.RFC3339),
	}
}

func toResponsePtr(bin repository.Bin) *transport.DustbinResponse {
	resp := toResponse(bin)
	return &resp
}
