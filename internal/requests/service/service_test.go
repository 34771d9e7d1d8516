package service

import (
	"context"
	"testing"
	"time"

	binsrepo "findbin_backend/internal/bins/repository"
	"findbin_backend/internal/requests/repository"
	"findbin_backend/internal/requests/transport"
	"findbin_backend/platform/apperr"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeRepo mirrors the transactional semantics of the real repository: a
// decision only lands when the request is still pending, and the bin insert
// is rolled back when it does not.
type fakeRepo struct {
	requests map[uuid.UUID]repository.BinRequest
	bins     []binsrepo.Bin
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: make(map[uuid.UUID]repository.BinRequest)}
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateParams) (repository.BinRequest, error) {
	request := repository.BinRequest{
		ID:             uuid.New(),
		Address:        params.Address,
		Note:           params.Note,
		CreatedByEmail: params.CreatedByEmail,
		Location:       params.Location,
		Status:         repository.StatusPending,
		CreatedAt:      time.Now(),
	}
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.BinRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return repository.BinRequest{}, apperr.NotFound("dustbin request not found")
	}
	return request, nil
}

func (f *fakeRepo) ListByStatus(ctx context.Context, status *repository.Status) ([]repository.BinRequest, error) {
	var out []repository.BinRequest
	for _, request := range f.requests {
		if status == nil || request.Status == *status {
			out = append(out, request)
		}
	}
	return out, nil
}

func (f *fakeRepo) Approve(ctx context.Context, params repository.ApproveParams) (repository.BinRequest, binsrepo.Bin, error) {
	request, ok := f.requests[params.RequestID]
	if !ok {
		return repository.BinRequest{}, binsrepo.Bin{}, apperr.NotFound("dustbin request not found")
	}
	if request.Status != repository.StatusPending {
		return repository.BinRequest{}, binsrepo.Bin{}, apperr.InvalidTransition("request is already " + string(request.Status))
	}

	bin := binsrepo.Bin{
		ID:        uuid.New(),
		Name:      params.BinName,
		Address:   request.Address,
		Location:  request.Location,
		CreatedBy: &params.AdminID,
		CreatedAt: time.Now(),
	}
	f.bins = append(f.bins, bin)

	request.Status = repository.StatusApproved
	request.ResolvedBy = &params.AdminID
	request.BinID = &bin.ID
	f.requests[request.ID] = request
	return request, bin, nil
}

func (f *fakeRepo) Reject(ctx context.Context, requestID, adminID uuid.UUID) (repository.BinRequest, error) {
	request, ok := f.requests[requestID]
	if !ok {
		return repository.BinRequest{}, apperr.NotFound("dustbin request not found")
	}
	if request.Status != repository.StatusPending {
		return repository.BinRequest{}, apperr.InvalidTransition("request is already " + string(request.Status))
	}

	request.Status = repository.StatusRejected
	request.ResolvedBy = &adminID
	f.requests[requestID] = request
	return request, nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("development"))
}

func submitPending(t *testing.T, svc *Service) transport.RequestResponse {
	t.Helper()
	lat, lng := 52.37, 4.89
	address := "Dam Square"
	request, err := svc.Submit(context.Background(), transport.SubmitRequest{
		Lat:     &lat,
		Lng:     &lng,
		Address: &address,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return request
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	svc := newTestService(newFakeRepo())

	request := submitPending(t, svc)
	if request.Status != string(repository.StatusPending) {
		t.Fatalf("status = %q, want pending", request.Status)
	}
	if request.Location != (geo.Point{Lat: 52.37, Lng: 4.89}) {
		t.Fatalf("location = %+v", request.Location)
	}
}

func TestSubmitRejectsOutOfRangeLocation(t *testing.T) {
	svc := newTestService(newFakeRepo())

	lat, lng := -91.0, 0.0
	_, err := svc.Submit(context.Background(), transport.SubmitRequest{Lat: &lat, Lng: &lng})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApproveCreatesBinWithDefaultName(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	pending := submitPending(t, svc)
	admin := uuid.New()

	request, dustbin, err := svc.Approve(context.Background(), pending.ID, admin, transport.ApproveRequest{})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if request.Status != string(repository.StatusApproved) {
		t.Fatalf("status = %q, want approved", request.Status)
	}
	if dustbin.Name != DefaultBinName {
		t.Fatalf("dustbin name = %q, want %q", dustbin.Name, DefaultBinName)
	}
	if request.DustbinID == nil || *request.DustbinID != dustbin.ID {
		t.Fatalf("request does not link the created dustbin: %+v", request)
	}
	if request.ResolvedBy == nil || *request.ResolvedBy != admin {
		t.Fatalf("resolvedBy = %v, want %v", request.ResolvedBy, admin)
	}
	if len(repo.bins) != 1 {
		t.Fatalf("expected exactly one bin, got %d", len(repo.bins))
	}
}

func TestApproveUsesSuppliedName(t *testing.T) {
	svc := newTestService(newFakeRepo())
	pending := submitPending(t, svc)

	name := "  Harbor East  "
	_, dustbin, err := svc.Approve(context.Background(), pending.ID, uuid.New(), transport.ApproveRequest{Name: &name})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if dustbin.Name != "Harbor East" {
		t.Fatalf("dustbin name = %q, want trimmed supplied name", dustbin.Name)
	}
}

func TestDoubleApproveCreatesOneBin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	pending := submitPending(t, svc)
	admin := uuid.New()

	if _, _, err := svc.Approve(context.Background(), pending.ID, admin, transport.ApproveRequest{}); err != nil {
		t.Fatalf("first Approve: %v", err)
	}

	_, _, err := svc.Approve(context.Background(), pending.ID, admin, transport.ApproveRequest{})
	if apperr.GetKind(err) != apperr.KindInvalidTransition {
		t.Fatalf("second approve: expected invalid transition, got %v", err)
	}
	if len(repo.bins) != 1 {
		t.Fatalf("double approve created %d bins, want 1", len(repo.bins))
	}
}

func TestRejectApprovedRequestFails(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	pending := submitPending(t, svc)
	admin := uuid.New()

	if _, _, err := svc.Approve(context.Background(), pending.ID, admin, transport.ApproveRequest{}); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	_, err := svc.Reject(context.Background(), pending.ID, admin)
	if apperr.GetKind(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	listed, err := svc.List(context.Background(), "approved")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("request status changed by failed reject: %+v", listed)
	}
}

func TestApproveMissingRequest(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, _, err := svc.Approve(context.Background(), uuid.New(), uuid.New(), transport.ApproveRequest{})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetRequest(t *testing.T) {
	svc := newTestService(newFakeRepo())
	pending := submitPending(t, svc)

	got, err := svc.Get(context.Background(), pending.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != pending.ID {
		t.Fatalf("got %v, want %v", got.ID, pending.ID)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListUnknownStatusReturnsAll(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	submitPending(t, svc)
	pending := submitPending(t, svc)
	if _, _, err := svc.Approve(context.Background(), pending.ID, uuid.New(), transport.ApproveRequest{}); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	all, err := svc.List(context.Background(), "everything")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unknown status filter returned %d requests, want 2", len(all))
	}

	onlyPending, err := svc.List(context.Background(), "pending")
	if err != nil {
		t.Fatalf("List pending: %v", err)
	}
	if len(onlyPending) != 1 {
		t.Fatalf("pending filter returned %d requests, want 1", len(onlyPending))
	}
}
