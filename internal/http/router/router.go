// Package router assembles the Gin engine from the application's modules.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "findbin_backend/internal/http"
	"findbin_backend/internal/metrics"
	"findbin_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the HTTP engine: middleware chain, health and metrics endpoints,
// and the public/admin route groups each module mounts onto.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(metrics.RequestObserver())
	engine.Use(corsMiddleware(app))

	engine.GET("/api/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := app.Health.Ping(ctx); err != nil {
			httpkit.Error(c, http.StatusServiceUnavailable, "database unreachable", nil)
			return
		}
		httpkit.OK(c, gin.H{})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := engine.Group("/api")

	admin := engine.Group("/api/admin")
	admin.Use(httpkit.AuthRequired(app.Config))
	admin.Use(httpkit.RequireRole(httpkit.RoleAdmin))

	ctx := &apphttp.RouterContext{
		Engine:            engine,
		Public:            public,
		Admin:             admin,
		Config:            app.Config,
		SubmitRateLimiter: httpkit.NewSubmitRateLimiter(app.Logger),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: app.Config.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	if app.Config.GetCORSAllowAll() {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = app.Config.GetCORSOrigins()
	}

	return cors.New(cfg)
}
