package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serverMetrics holds the per-server Prometheus registry. Each Server
// owns its own registry so multiple instances (tests in particular) do
// not collide on registration.
type serverMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_http_requests_total",
			Help: "HTTP requests served, by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.duration,
	)
	return m
}

func (m *serverMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *serverMetrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)

		route := normalizeRoute(r.URL.Path)
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(lrw.statusCode)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// normalizeRoute collapses entity IDs out of paths so the route label
// stays low-cardinality.
func normalizeRoute(path string) string {
	switch {
	case path == "/api/heroes" || path == "/api/heroes/batch" || path == "/api/teams":
		return path
	case strings.HasPrefix(path, "/api/heroes/"):
		return "/api/heroes/{id}"
	case strings.HasPrefix(path, "/api/teams/"):
		if strings.HasSuffix(path, "/heroes") {
			return "/api/teams/{id}/heroes"
		}
		return "/api/teams/{id}"
	default:
		return path
	}
}
