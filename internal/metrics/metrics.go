// Package metrics provides Prometheus metrics for solves and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boardcut_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardcut_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// SolvesTotal counts solves by strategy and outcome.
	SolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardcut_solves_total",
			Help: "Total number of cut-list solves",
		},
		[]string{"strategy", "status"},
	)

	// SolveDuration tracks solve duration by strategy.
	SolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boardcut_solve_duration_seconds",
			Help:    "Cut-list solve duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"strategy"},
	)

	// SupplyPiecesTotal counts supply pieces planned, per material.
	SupplyPiecesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardcut_supply_pieces_total",
			Help: "Total number of supply pieces consumed by successful solves",
		},
		[]string{"material"},
	)
)

// Solve statuses.
const (
	StatusSuccess    = "success"
	StatusInfeasible = "infeasible"
	StatusGaveUp     = "gave_up"
	StatusInvalid    = "invalid"
	StatusCancelled  = "cancelled"
	StatusError      = "error"
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordSolve records metrics for one solve.
func RecordSolve(strategy, status string, duration time.Duration) {
	SolveDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	SolvesTotal.WithLabelValues(strategy, status).Inc()
}

// RecordPieces adds the supply pieces a material consumed.
func RecordPieces(material string, pieces int) {
	if pieces <= 0 {
		return
	}
	SupplyPiecesTotal.WithLabelValues(material).Add(float64(pieces))
}
