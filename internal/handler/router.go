package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeboard/offlinegate/internal/bus"
	"homeboard/offlinegate/internal/config"
	"homeboard/offlinegate/internal/handler/middleware"
	"homeboard/offlinegate/internal/worker"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	w *worker.Worker,
	b bus.Bus,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORS))
	}

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"state":   w.State().String(),
			"version": w.Version(),
		})
	})

	// Broadcast stream for open application instances
	r.GET("/events", Events(b))

	// Everything else is intercepted traffic
	proxy := NewProxyHandler(w, logger)
	r.NoRoute(proxy.Handle)

	return r
}
