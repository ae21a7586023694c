// Package api wires the HTTP routes onto the shared gin server.
package api

import (
	"github.com/gin-gonic/gin"

	infragin "github.com/yujin9907/cloud-naitive/infrastructure/gin"
	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/internal/config"
	"github.com/yujin9907/cloud-naitive/internal/handlers"
	"github.com/yujin9907/cloud-naitive/internal/metrics"
)

// ServiceName identifies this service in logs, health and profiling.
const ServiceName = "board-api"

// Dependencies are the collaborators NewServer wires into the routes.
// Publisher, Metrics and RedisPing are optional.
type Dependencies struct {
	Store     handlers.PostStore
	Publisher handlers.EventPublisher
	Metrics   *metrics.Metrics
	DBPing    func() error
	RedisPing func() error
}

// NewServer builds the HTTP server: shared middleware, health, metrics and /posts.
func NewServer(cfg *config.Config, deps Dependencies, version string, log infralogger.Logger) *infragin.Server {
	postHandler := handlers.NewPostHandler(deps.Store, deps.Publisher, log)

	builder := infragin.NewServerBuilder(ServiceName, cfg.Server.Port).
		WithLogger(log).
		WithHost(cfg.Server.Host).
		WithDebug(cfg.Debug).
		WithVersion(version).
		WithCORSOrigins(cfg.Server.CORSOrigins).
		WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)

	if deps.DBPing != nil {
		builder = builder.WithDatabaseHealthCheck(deps.DBPing)
	}
	if deps.RedisPing != nil {
		builder = builder.WithRedisHealthCheck(deps.RedisPing)
	}
	if deps.Metrics != nil {
		builder = builder.WithMiddleware(deps.Metrics.Middleware())
	}

	return builder.
		WithRoutes(func(router *gin.Engine) {
			if deps.Metrics != nil {
				router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
			}
			SetupPostRoutes(router, postHandler)
		}).
		Build()
}

// SetupPostRoutes registers the /posts resource.
func SetupPostRoutes(router gin.IRouter, h *handlers.PostHandler) {
	posts := router.Group("/posts")
	posts.GET("", h.List)
	posts.POST("", h.Create)
	posts.GET("/:id", h.GetByID)
	posts.PUT("/:id", h.Update)
	posts.DELETE("/:id", h.Delete)
}
