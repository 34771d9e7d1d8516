// Package bins provides the dustbin registry bounded context: the durable set
// of approved bins and the nearest-bin lookup.
package bins

import (
	"findbin_backend/internal/bins/handler"
	"findbin_backend/internal/bins/repository"
	"findbin_backend/internal/bins/service"
	apphttp "findbin_backend/internal/http"
	"findbin_backend/platform/logger"
	"findbin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the bins bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the bins module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "bins"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts dustbin routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/dustbins", m.handler.List)
	ctx.Public.GET("/dustbins/nearest", m.handler.Nearest)

	adminGroup := ctx.Admin.Group("/dustbins")
	adminGroup.GET("", m.handler.List)
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
