package service

import (
	"context"
	"math"
	"testing"
	"time"

	"findbin_backend/internal/bins/repository"
	"findbin_backend/internal/bins/transport"
	"findbin_backend/platform/apperr"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	bins     []repository.Bin
	indexErr error
	scanErr  error
}

func (f *fakeRepo) List(ctx context.Context) ([]repository.Bin, error) {
	out := make([]repository.Bin, len(f.bins))
	copy(out, f.bins)
	return out, nil
}

func (f *fakeRepo) ListForScan(ctx context.Context) ([]repository.Bin, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.List(ctx)
}

func (f *fakeRepo) NearestIndexed(ctx context.Context, p geo.Point) (repository.Bin, error) {
	if f.indexErr != nil {
		return repository.Bin{}, f.indexErr
	}
	if len(f.bins) == 0 {
		return repository.Bin{}, repository.ErrNoBins
	}

	best := f.bins[0]
	bestDist := geo.DistanceMeters(p, best.Location)
	for _, b := range f.bins[1:] {
		if d := geo.DistanceMeters(p, b.Location); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, nil
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateParams) (repository.Bin, error) {
	bin := repository.Bin{
		ID:        uuid.New(),
		Name:      params.Name,
		Address:   params.Address,
		Location:  params.Location,
		CreatedBy: params.CreatedBy,
		CreatedAt: time.Now(),
	}
	f.bins = append(f.bins, bin)
	return bin, nil
}

func (f *fakeRepo) Update(ctx context.Context, params repository.UpdateParams) (repository.Bin, error) {
	for i, b := range f.bins {
		if b.ID != params.ID {
			continue
		}
		if params.Name != nil {
			b.Name = *params.Name
		}
		if params.Address != nil {
			b.Address = params.Address
		}
		if params.Location != nil {
			b.Location = *params.Location
		}
		f.bins[i] = b
		return b, nil
	}
	return repository.Bin{}, apperr.NotFound("dustbin not found")
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, b := range f.bins {
		if b.ID == id {
			f.bins = append(f.bins[:i], f.bins[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("dustbin not found")
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("development"))
}

func binAt(lat, lng float64) repository.Bin {
	return repository.Bin{
		ID:        uuid.New(),
		Name:      "Dustbin",
		Location:  geo.Point{Lat: lat, Lng: lng},
		CreatedAt: time.Now(),
	}
}

func mustPoint(t *testing.T, lat, lng float64) geo.Point {
	t.Helper()
	p, err := geo.New(lat, lng)
	if err != nil {
		t.Fatalf("geo.New(%v, %v): %v", lat, lng, err)
	}
	return p
}

func TestFindNearestEmpty(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	result, err := svc.FindNearest(context.Background(), mustPoint(t, 0, 0))
	if err != nil {
		t.Fatalf("FindNearest on empty registry: %v", err)
	}
	if result.Dustbin != nil {
		t.Fatalf("expected no dustbin, got %+v", result.Dustbin)
	}
	if result.DistanceMeters != nil {
		t.Fatalf("expected no distance, got %v", *result.DistanceMeters)
	}
}

func TestFindNearestPicksClosest(t *testing.T) {
	near := binAt(0, 0)
	far := binAt(0, 1)
	svc := newTestService(&fakeRepo{bins: []repository.Bin{near, far}})

	result, err := svc.FindNearest(context.Background(), mustPoint(t, 0, 0.4))
	if err != nil {
		t.Fatalf("FindNearest: %v", err)
	}
	if result.Dustbin == nil {
		t.Fatal("expected a dustbin")
	}
	if result.Dustbin.ID != near.ID {
		t.Fatalf("expected bin at (0,0), got %+v", result.Dustbin)
	}

	want := geo.DistanceMeters(geo.Point{Lat: 0, Lng: 0.4}, near.Location)
	if result.DistanceMeters == nil || math.Abs(*result.DistanceMeters-want) > 1e-9 {
		t.Fatalf("distance = %v, want %v", result.DistanceMeters, want)
	}
	if result.Fallback {
		t.Fatal("indexed path must not set fallback")
	}
}

func TestFindNearestFallback(t *testing.T) {
	near := binAt(0, 0)
	far := binAt(0, 1)
	svc := newTestService(&fakeRepo{
		bins:     []repository.Bin{far, near},
		indexErr: repository.ErrIndexUnavailable,
	})

	result, err := svc.FindNearest(context.Background(), mustPoint(t, 0, 0.4))
	if err != nil {
		t.Fatalf("FindNearest with unavailable index: %v", err)
	}
	if !result.Fallback {
		t.Fatal("expected fallback flag")
	}
	if result.Dustbin == nil || result.Dustbin.ID != near.ID {
		t.Fatalf("expected bin at (0,0), got %+v", result.Dustbin)
	}
}

func TestFindNearestTiersAgree(t *testing.T) {
	bins := []repository.Bin{binAt(52.37, 4.89), binAt(52.38, 4.90), binAt(52.35, 4.85)}
	query := mustPoint(t, 52.3702, 4.8952)

	indexed := newTestService(&fakeRepo{bins: bins})
	degraded := newTestService(&fakeRepo{bins: bins, indexErr: repository.ErrIndexUnavailable})

	a, err := indexed.FindNearest(context.Background(), query)
	if err != nil {
		t.Fatalf("indexed tier: %v", err)
	}
	b, err := degraded.FindNearest(context.Background(), query)
	if err != nil {
		t.Fatalf("degraded tier: %v", err)
	}

	if a.Dustbin == nil || b.Dustbin == nil {
		t.Fatal("both tiers must find a dustbin")
	}
	if a.Dustbin.ID != b.Dustbin.ID {
		t.Fatalf("tiers disagree: indexed=%v degraded=%v", a.Dustbin.ID, b.Dustbin.ID)
	}
	if *a.DistanceMeters != *b.DistanceMeters {
		t.Fatalf("tiers report different distances: %v vs %v", *a.DistanceMeters, *b.DistanceMeters)
	}
}

func TestFindNearestTieBreaksOnFirstSeen(t *testing.T) {
	first := binAt(1, 0)
	second := binAt(-1, 0)
	svc := newTestService(&fakeRepo{
		bins:     []repository.Bin{first, second},
		indexErr: repository.ErrIndexUnavailable,
	})

	result, err := svc.FindNearest(context.Background(), mustPoint(t, 0, 0))
	if err != nil {
		t.Fatalf("FindNearest: %v", err)
	}
	if result.Dustbin == nil || result.Dustbin.ID != first.ID {
		t.Fatalf("tie must go to the first bin in scan order, got %+v", result.Dustbin)
	}
}

func TestFindNearestFallbackEmpty(t *testing.T) {
	svc := newTestService(&fakeRepo{indexErr: repository.ErrIndexUnavailable})

	result, err := svc.FindNearest(context.Background(), mustPoint(t, 0, 0))
	if err != nil {
		t.Fatalf("FindNearest: %v", err)
	}
	if result.Dustbin != nil {
		t.Fatalf("expected no dustbin, got %+v", result.Dustbin)
	}
	if !result.Fallback {
		t.Fatal("expected fallback flag")
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	lat, lng := 1.0, 2.0
	_, err := svc.Create(context.Background(), transport.CreateDustbinRequest{
		Name: "   ",
		Lat:  &lat,
		Lng:  &lng,
	}, uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsOutOfRangeLocation(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	lat, lng := 91.0, 0.0
	_, err := svc.Create(context.Background(), transport.CreateDustbinRequest{
		Name: "Central Park",
		Lat:  &lat,
		Lng:  &lng,
	}, uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateThenList(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	lat, lng := 52.37, 4.89
	created, err := svc.Create(context.Background(), transport.CreateDustbinRequest{
		Name: "Station West",
		Lat:  &lat,
		Lng:  &lng,
	}, uuid.New())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	listed, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected the created dustbin, got %+v", listed)
	}
}

func TestUpdateRequiresBothCoordinates(t *testing.T) {
	repo := &fakeRepo{bins: []repository.Bin{binAt(0, 0)}}
	svc := newTestService(repo)

	lat := 10.0
	_, err := svc.Update(context.Background(), repo.bins[0].ID, transport.UpdateDustbinRequest{Lat: &lat})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for lat without lng, got %v", err)
	}
}
