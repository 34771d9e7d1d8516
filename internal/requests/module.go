// Package requests provides the bin-request bounded context: public
// placement proposals and the admin approve/reject workflow.
package requests

import (
	apphttp "findbin_backend/internal/http"
	"findbin_backend/internal/requests/handler"
	"findbin_backend/internal/requests/repository"
	"findbin_backend/internal/requests/service"
	"findbin_backend/platform/logger"
	"findbin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the requests module with all its dependencies.
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
	return "requests"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts bin-request routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/dustbin-requests", ctx.SubmitRateLimiter.RateLimit(), m.handler.Submit)

	adminGroup := ctx.Admin.Group("/dustbin-requests")
	adminGroup.GET("", m.handler.List)
	adminGroup.GET("/:id", m.handler.Get)
	adminGroup.POST("/:id/approve", m.handler.Approve)
	adminGroup.POST("/:id/reject", m.handler.Reject)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
