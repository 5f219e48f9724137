package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Room store metrics
	RoomOperationsTotal   *prometheus.CounterVec
	RoomOperationDuration *prometheus.HistogramVec

	// Directory metrics
	DirectoryLookupsTotal   *prometheus.CounterVec
	DirectoryLookupDuration *prometheus.HistogramVec

	// View invalidation metrics
	ViewInvalidationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quill_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RoomOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_room_operations_total",
				Help: "Total number of room store operations",
			},
			[]string{"operation", "status"},
		),
		RoomOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quill_room_operation_duration_seconds",
				Help:    "Room store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DirectoryLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_directory_lookups_total",
				Help: "Total number of directory lookups",
			},
			[]string{"kind", "status"},
		),
		DirectoryLookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quill_directory_lookup_duration_seconds",
				Help:    "Directory lookup duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		ViewInvalidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_view_invalidations_total",
				Help: "Total number of view invalidation signals",
			},
			[]string{"view", "status"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RoomOperationsTotal,
		m.RoomOperationDuration,
		m.DirectoryLookupsTotal,
		m.DirectoryLookupDuration,
		m.ViewInvalidationsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRoomOperation records one room store operation
func (m *Metrics) ObserveRoomOperation(operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RoomOperationsTotal.WithLabelValues(operation, status).Inc()
	m.RoomOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveDirectoryLookup records one directory lookup
func (m *Metrics) ObserveDirectoryLookup(kind string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DirectoryLookupsTotal.WithLabelValues(kind, status).Inc()
	m.DirectoryLookupDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveViewInvalidation records one invalidation signal
func (m *Metrics) ObserveViewInvalidation(view string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ViewInvalidationsTotal.WithLabelValues(view, status).Inc()
}

// statusRecorder captures the response status for HTTP metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HTTPMiddleware records request count and duration per route
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(recorder.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
