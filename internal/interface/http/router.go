package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/natal-chart/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger)
	router.POST("/compute", limited, handler.ComputeChart)

	api := router.Group("/api/v1", limited)
	{
		api.POST("/charts", handler.ComputeChart)
		api.GET("/rules", handler.ListRules)

		profiles := api.Group("/profiles", ownerMiddleware(handler.authSvc))
		profiles.POST("", handler.CreateProfile)
		profiles.GET("", handler.ListProfiles)
		profiles.GET("/:id", handler.GetProfile)
		profiles.DELETE("/:id", handler.DeleteProfile)
		profiles.GET("/:id/chart", handler.ProfileChart)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
