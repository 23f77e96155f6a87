// Package metrics exposes Prometheus metrics for both services:
//   - http_requests_total: requests by route pattern, method and status
//   - http_request_duration_seconds: latency by route pattern and method
//   - students_seeded_total / courses_stored_total: records written
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the collectors of one service and the registry they are
// registered with.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPLatency    *prometheus.HistogramVec
	StudentsSeeded prometheus.Counter
	CoursesStored  prometheus.Counter
}

// New registers a fresh set of collectors on their own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by path, method and status."},
			[]string{"path", "method", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"path", "method"},
		),
		StudentsSeeded: prometheus.NewCounter(prometheus.CounterOpts{Name: "students_seeded_total", Help: "Student records written by the seed insert."}),
		CoursesStored:  prometheus.NewCounter(prometheus.CounterOpts{Name: "courses_stored_total", Help: "Course records appended to the course store."}),
	}
	m.registry.MustRegister(m.HTTPRequests, m.HTTPLatency, m.StudentsSeeded, m.CoursesStored)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished request. path is the matched route
// pattern, so /students/1 and /students/2 share a series.
func (m *Metrics) ObserveRequest(path, method string, status int, elapsed time.Duration) {
	m.HTTPLatency.WithLabelValues(path, method).Observe(elapsed.Seconds())
	m.HTTPRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}
