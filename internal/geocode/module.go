// Package geocode provides cached reverse geocoding backed by the OSM
// Nominatim API.
package geocode

import (
	"findbin_backend/internal/geocode/client"
	"findbin_backend/internal/geocode/handler"
	"findbin_backend/internal/geocode/service"
	"findbin_backend/internal/geocode/store"
	apphttp "findbin_backend/internal/http"
	"findbin_backend/platform/config"
	"findbin_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module is the geocode module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the geocode module with all its dependencies.
func NewModule(redisClient *redis.Client, cfg config.GeocodeConfig, log *logger.Logger) *Module {
	cache := store.NewRedisStore(redisClient)
	upstream := client.New(cfg)
	svc := service.New(cache, upstream, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "geocode"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts geocode routes on the provided router context. The
// reverse endpoint is throttled per IP since each cache miss costs an
// upstream call against a shared public API.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/geocode/reverse", ctx.SubmitRateLimiter.RateLimit(), m.handler.Reverse)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
