package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the portal. Route labels carry the
// chi route pattern, never the raw URL path, to keep cardinality bounded.
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	BackendCalls     *prometheus.CounterVec
}

// NewMetrics creates a new metrics instance
func NewMetrics(serviceName string) *Metrics {
	return &Metrics{
		RequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "duocortex",
				Subsystem: serviceName,
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"route", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "duocortex",
				Subsystem: serviceName,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "duocortex",
				Subsystem: serviceName,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		BackendCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "duocortex",
				Subsystem: serviceName,
				Name:      "backend_calls_total",
				Help:      "Total number of calls to the upstream API",
			},
			[]string{"endpoint", "status"},
		),
	}
}

// RecordBackendCall tracks a single upstream API call
func (m *Metrics) RecordBackendCall(endpoint string, statusCode int) {
	m.BackendCalls.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

// statusRecorder captures the response status for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// routePattern returns the matched chi route pattern. The pattern is only
// known after routing, so this must run after next.ServeHTTP.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// Middleware returns an HTTP middleware that records request metrics
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := routePattern(r)
			m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			m.RequestCounter.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		})
	}
}
