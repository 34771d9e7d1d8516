// Package service implements cached reverse geocoding.
package service

import (
	"context"
	"encoding/json"

	"findbin_backend/internal/geocode/client"
	"findbin_backend/internal/geocode/store"
	"findbin_backend/internal/geocode/transport"
	"findbin_backend/internal/metrics"
	"findbin_backend/platform/apperr"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/logger"
)

const msgUnavailable = "reverse geocoding is unavailable"

// Upstream is the external geocoder the service consults on cache misses.
type Upstream interface {
	Reverse(ctx context.Context, p geo.Point) (client.Result, error)
}

// Service resolves points to addresses through a read-through cache.
type Service struct {
	cache    store.Store
	upstream Upstream
	log      *logger.Logger
}

// New creates a new geocode service.
func New(cache store.Store, upstream Upstream, log *logger.Logger) *Service {
	return &Service{cache: cache, upstream: upstream, log: log}
}

// Resolve returns the address for p. The cache key rounds coordinates to
// five decimal places, so nearby queries share an entry. Failed upstream
// lookups are never cached; the next call retries the upstream.
func (s *Service) Resolve(ctx context.Context, p geo.Point) (transport.ReverseResponse, error) {
	key := p.Key()

	if cached, ok := s.lookupCache(ctx, key); ok {
		metrics.GeocodeCacheHitsTotal.Inc()
		return transport.ReverseResponse{
			DisplayName: cached.DisplayName,
			Address:     cached.Address,
			Cached:      true,
		}, nil
	}
	metrics.GeocodeCacheMissesTotal.Inc()

	result, err := s.upstream.Reverse(ctx, p)
	if err != nil {
		metrics.GeocodeUpstreamFailTotal.Inc()
		s.log.UpstreamError("nominatim", err)
		return transport.ReverseResponse{}, apperr.Unavailable(msgUnavailable)
	}

	s.storeCache(ctx, key, result)

	return transport.ReverseResponse{
		DisplayName: result.DisplayName,
		Address:     result.Address,
		Cached:      false,
	}, nil
}

// lookupCache reads and decodes a cached result. Cache errors and corrupt
// entries degrade to upstream-only; they never fail the request.
func (s *Service) lookupCache(ctx context.Context, key string) (client.Result, bool) {
	raw, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.UpstreamError("geocode cache", err)
		return client.Result{}, false
	}
	if !hit {
		return client.Result{}, false
	}

	var cached client.Result
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		s.log.UpstreamError("geocode cache", err)
		return client.Result{}, false
	}
	return cached, true
}

func (s *Service) storeCache(ctx context.Context, key string, result client.Result) {
	encoded, err := json.Marshal(result)
	if err != nil {
		s.log.UpstreamError("geocode cache", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(encoded)); err != nil {
		s.log.UpstreamError("geocode cache", err)
	}
}
