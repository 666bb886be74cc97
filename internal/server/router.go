// Package server exposes the solver over HTTP.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/piwi3910/BoardCut/internal/metrics"
)

// NewRouter creates and configures the Gin router.
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	router.Use(
		RequestID(),
		Recovery(),
		metrics.PrometheusMiddleware(),
		RequestLogger(),
	)

	router.GET("/healthz", Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/solve", handler.Solve)
	v1.POST("/solve/stream", handler.SolveStream)

	return router
}
