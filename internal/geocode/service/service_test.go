package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"findbin_backend/internal/geocode/client"
	"findbin_backend/internal/geocode/store"
	"findbin_backend/platform/apperr"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type testGeocodeConfig struct {
	baseURL string
	timeout time.Duration
}

func (c testGeocodeConfig) GetGeocodeBaseURL() string        { return c.baseURL }
func (c testGeocodeConfig) GetGeocodeUserAgent() string      { return "findbin-test" }
func (c testGeocodeConfig) GetGeocodeTimeout() time.Duration { return c.timeout }

func newTestService(t *testing.T, handler http.HandlerFunc, timeout time.Duration) (*Service, *httptest.Server) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	nominatim := client.New(testGeocodeConfig{baseURL: upstream.URL, timeout: timeout})
	svc := New(store.NewRedisStore(redisClient), nominatim, logger.New("development"))
	return svc, upstream
}

func mustPoint(t *testing.T, lat, lng float64) geo.Point {
	t.Helper()
	p, err := geo.New(lat, lng)
	if err != nil {
		t.Fatalf("geo.New(%v, %v): %v", lat, lng, err)
	}
	return p
}

func TestResolveCachesSuccessfulLookups(t *testing.T) {
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"display_name": "Dam Square, Amsterdam", "address": {"city":"Amsterdam"}}`)
	}, time.Second)

	point := mustPoint(t, 52.37308, 4.89245)

	first, err := svc.Resolve(context.Background(), point)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if first.Cached {
		t.Fatal("first lookup must miss the cache")
	}
	if first.DisplayName != "Dam Square, Amsterdam" {
		t.Fatalf("displayName = %q", first.DisplayName)
	}
	if string(first.Address) != `{"city":"Amsterdam"}` {
		t.Fatalf("address = %s, want raw passthrough", first.Address)
	}

	second, err := svc.Resolve(context.Background(), point)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if !second.Cached {
		t.Fatal("second lookup must hit the cache")
	}
	if second.DisplayName != first.DisplayName {
		t.Fatalf("cached displayName %q differs from upstream %q", second.DisplayName, first.DisplayName)
	}
	if string(second.Address) != string(first.Address) {
		t.Fatalf("cached address %s differs from upstream %s", second.Address, first.Address)
	}
	if calls != 1 {
		t.Fatalf("upstream called %d times, want 1", calls)
	}
}

func TestResolveSharesEntriesWithinRoundingGrid(t *testing.T) {
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"display_name": "Somewhere"}`)
	}, time.Second)

	if _, err := svc.Resolve(context.Background(), mustPoint(t, 52.373080, 4.892450)); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Differs only past the fifth decimal place, so it maps to the same key.
	nearby, err := svc.Resolve(context.Background(), mustPoint(t, 52.373081, 4.892451))
	if err != nil {
		t.Fatalf("nearby Resolve: %v", err)
	}
	if !nearby.Cached {
		t.Fatal("nearby lookup must share the cache entry")
	}
	if calls != 1 {
		t.Fatalf("upstream called %d times, want 1", calls)
	}
}

func TestResolveUpstreamFailureIsNotCached(t *testing.T) {
	fail := true
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"display_name": "Recovered"}`)
	}, time.Second)

	point := mustPoint(t, 1, 1)

	_, err := svc.Resolve(context.Background(), point)
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}

	fail = false
	result, err := svc.Resolve(context.Background(), point)
	if err != nil {
		t.Fatalf("Resolve after recovery: %v", err)
	}
	if result.Cached {
		t.Fatal("failure must not have been cached")
	}
	if result.DisplayName != "Recovered" {
		t.Fatalf("displayName = %q", result.DisplayName)
	}
	if calls != 2 {
		t.Fatalf("upstream called %d times, want 2", calls)
	}
}

func TestResolveUpstreamTimeout(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"display_name": "Too Late"}`)
	}, 50*time.Millisecond)

	_, err := svc.Resolve(context.Background(), mustPoint(t, 2, 2))
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable on timeout, got %v", err)
	}
}

func TestResolveUpstreamErrorBody(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": "Unable to geocode"}`)
	}, time.Second)

	_, err := svc.Resolve(context.Background(), mustPoint(t, 3, 3))
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable on geocoder error body, got %v", err)
	}
}
