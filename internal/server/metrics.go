package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rileyhilliard/campus/internal/dashboard"
)

var (
	// Registry holds the campus Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "campus",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	dbUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "campus",
			Subsystem: "db",
			Name:      "up",
			Help:      "Whether the last status snapshot reached the database.",
		},
	)

	entityRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "campus",
			Subsystem: "db",
			Name:      "entity_records",
			Help:      "Record count per entity from the last status snapshot.",
		},
		[]string{"entity"},
	)

	entityCountFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "db",
			Name:      "entity_count_failures_total",
			Help:      "Total number of failed entity count queries.",
		},
		[]string{"entity"},
	)

	snapshotDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "campus",
			Subsystem: "status",
			Name:      "collect_duration_seconds",
			Help:      "Duration of status snapshot collection.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		dbUp,
		entityRecords,
		entityCountFailures,
		snapshotDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// MetricsHandler exposes the registered Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveSnapshot records the outcome of one status collection.
func ObserveSnapshot(rec dashboard.StatusRecord, duration time.Duration) {
	snapshotDuration.Observe(duration.Seconds())
	if !rec.Connected {
		dbUp.Set(0)
		return
	}
	dbUp.Set(1)
	for _, e := range rec.Entities {
		if e.Failed {
			entityCountFailures.WithLabelValues(e.Name).Inc()
			continue
		}
		entityRecords.WithLabelValues(e.Name).Set(float64(e.Count))
	}
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := routePattern(r)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// routePattern returns the matched chi route, or "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
