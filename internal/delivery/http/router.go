package http

import (
	"github.com/gdugdh24/buddyfit-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/buddyfit-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Router struct {
	buddyHandler   *handler.BuddyHandler
	sportsHandler  *handler.SportsHandler
	authMiddleware *middleware.AuthMiddleware
	httpMetrics    *middleware.HTTPMetrics
	gatherer       prometheus.Gatherer
	logger         zerolog.Logger
}

func NewRouter(
	buddyHandler *handler.BuddyHandler,
	sportsHandler *handler.SportsHandler,
	authMiddleware *middleware.AuthMiddleware,
	httpMetrics *middleware.HTTPMetrics,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) *Router {
	return &Router{
		buddyHandler:   buddyHandler,
		sportsHandler:  sportsHandler,
		authMiddleware: authMiddleware,
		httpMetrics:    httpMetrics,
		gatherer:       gatherer,
		logger:         logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(r.logger),
		r.httpMetrics.Handler(),
	)

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Sports catalogue (public)
		v1.GET("/sports", r.sportsHandler.List)

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			buddies := protected.Group("/buddies")
			{
				buddies.GET("/suggested", r.buddyHandler.GetSuggested)
				buddies.POST("", r.buddyHandler.Create)
				buddies.GET("", r.buddyHandler.List)
				buddies.PUT("/:id", r.buddyHandler.UpdateStatus)
				buddies.DELETE("/:id", r.buddyHandler.Delete)
			}
		}
	}

	return router
}
