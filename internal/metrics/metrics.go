// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cutout_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cutout_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Removals counts background-removal attempts by outcome:
	// ok, rejected, not_configured, upstream_error.
	Removals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cutout_removals_total",
			Help: "Background removal requests by outcome",
		},
		[]string{"outcome"},
	)

	// Mirrors counts mirror attempts by backend and outcome: ok, unavailable, error.
	Mirrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cutout_mirrors_total",
			Help: "Horizontal mirror transformations by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	// OrphanedObjects counts stored objects left behind after a failed cleanup.
	OrphanedObjects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cutout_orphaned_objects_total",
			Help: "Objects that could not be removed from storage",
		},
		[]string{"operation"},
	)
)

// Middleware records request counts and latency keyed by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
