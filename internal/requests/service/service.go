// Package service implements the bin-request approval workflow.
package service

import (
	"context"
	"strings"
	"time"

	binsrepo "findbin_backend/internal/bins/repository"
	binstransport "findbin_backend/internal/bins/transport"
	"findbin_backend/internal/requests/repository"
	"findbin_backend/internal/requests/transport"
	"findbin_backend/platform/apperr"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/logger"

	"github.com/google/uuid"
)

const msgInvalidLocation = "invalid lat/lng"

// DefaultBinName is used when an approval supplies no name.
const DefaultBinName = "Dustbin"

// Service provides business logic for the request workflow.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new requests service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Submit records a new pending bin request from the public surface.
func (s *Service) Submit(ctx context.Context, req transport.SubmitRequest) (transport.RequestResponse, error) {
	location, err := geo.New(*req.Lat, *req.Lng)
	if err != nil {
		return transport.RequestResponse{}, apperr.Validation(msgInvalidLocation)
	}

	request, err := s.repo.Create(ctx, repository.CreateParams{
		Address:        trimOptional(req.Address),
		Note:           trimOptional(req.Note),
		CreatedByEmail: trimOptional(req.Email),
		Location:       location,
	})
	if err != nil {
		s.log.DatabaseError("submit bin request", err)
		return transport.RequestResponse{}, apperr.Wrap(apperr.KindInternal, "could not submit request", err)
	}

	s.log.Info("bin request submitted", "id", request.ID)
	return toResponse(request), nil
}

// Get retrieves a single request by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.RequestResponse, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	return toResponse(request), nil
}

// List retrieves requests, optionally filtered by status. Unknown status
// values are treated as no filter.
func (s *Service) List(ctx context.Context, statusParam string) ([]transport.RequestResponse, error) {
	requests, err := s.repo.ListByStatus(ctx, repository.ParseStatus(statusParam))
	if err != nil {
		s.log.DatabaseError("list bin requests", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not list requests", err)
	}

	responses := make([]transport.RequestResponse, len(requests))
	for i, request := range requests {
		responses[i] = toResponse(request)
	}
	return responses, nil
}

// Approve transitions a pending request to approved, creating a bin from
// its location in the same transaction. The bin takes the supplied name,
// falling back to DefaultBinName.
func (s *Service) Approve(ctx context.Context, requestID, adminID uuid.UUID, req transport.ApproveRequest) (transport.RequestResponse, binstransport.DustbinResponse, error) {
	name := DefaultBinName
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		name = strings.TrimSpace(*req.Name)
	}

	request, bin, err := s.repo.Approve(ctx, repository.ApproveParams{
		RequestID: requestID,
		AdminID:   adminID,
		BinName:   name,
	})
	if err != nil {
		return transport.RequestResponse{}, binstransport.DustbinResponse{}, err
	}

	s.log.Info("bin request approved", "id", request.ID, "bin_id", bin.ID, "admin_id", adminID)
	return toResponse(request), toBinResponse(bin), nil
}

// Reject transitions a pending request to rejected.
func (s *Service) Reject(ctx context.Context, requestID, adminID uuid.UUID) (transport.RequestResponse, error) {
	request, err := s.repo.Reject(ctx, requestID, adminID)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	s.log.Info("bin request rejected", "id", request.ID, "admin_id", adminID)
	return toResponse(request), nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toResponse(request repository.BinRequest) transport.RequestResponse {
	return transport.RequestResponse{
		ID:             request.ID,
		Address:        request.Address,
		Note:           request.Note,
		Location:       request.Location,
		Status:         string(request.Status),
		CreatedByEmail: request.CreatedByEmail,
		ResolvedBy:     request.ResolvedBy,
		DustbinID:      request.BinID,
		CreatedAt:      request.CreatedAt.Format(time.RFC3339),
	}
}

func toBinResponse(bin binsrepo.Bin) binstransport.DustbinResponse {
	return binstransport.DustbinResponse{
		ID:        bin.ID,
		Name:      bin.Name,
		Address:   bin.Address,
		Location:  bin.Location,
		CreatedBy: bin.CreatedBy,
		CreatedAt: bin.CreatedAt.Format(time.RFC3339),
	}
}
