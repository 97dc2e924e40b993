// Package metrics provides Prometheus instrumentation for the pricing API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QuotesTotal counts priced channels by outcome (feasible, capped, infeasible).
	QuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricer_channel_quotes_total",
		Help: "Total number of channel prices computed",
	}, []string{"channel", "outcome"})

	// RecommendationsTotal counts the channel recommended per quote.
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricer_recommendations_total",
		Help: "Total recommendations by winning channel",
	}, []string{"channel"})

	// SessionProducts counts products appended to session lists.
	SessionProducts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricer_session_products_total",
		Help: "Products appended to session lists",
	})

	// ExportsTotal counts list downloads by format.
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricer_exports_total",
		Help: "Product list exports by format",
	}, []string{"format"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricer_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricer_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus exposition endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Route pattern keeps label cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Outcome labels a priced channel for QuotesTotal.
func Outcome(feasible, capped bool) string {
	switch {
	case !feasible:
		return "infeasible"
	case capped:
		return "capped"
	default:
		return "feasible"
	}
}
