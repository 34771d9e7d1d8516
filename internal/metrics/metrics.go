// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "findbin_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "findbin_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	NearestFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "findbin_nearest_fallback_total",
		Help: "Nearest lookups served by the linear scan because the spatial index was unavailable",
	})
	NearestEmptyTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "findbin_nearest_empty_total",
		Help: "Nearest lookups against an empty bin collection",
	})
	GeocodeCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "findbin_geocode_cache_hits_total",
		Help: "Reverse geocode cache hits",
	})
	GeocodeCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "findbin_geocode_cache_misses_total",
		Help: "Reverse geocode cache misses",
	})
	GeocodeUpstreamFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "findbin_geocode_upstream_fail_total",
		Help: "Reverse geocode upstream failures or timeouts",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(NearestFallbackTotal)
	prometheus.MustRegister(NearestEmptyTotal)
	prometheus.MustRegister(GeocodeCacheHitsTotal)
	prometheus.MustRegister(GeocodeCacheMissesTotal)
	prometheus.MustRegister(GeocodeUpstreamFailTotal)
}

// RequestObserver records request counts and latency for every route.
func RequestObserver() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	}
}
