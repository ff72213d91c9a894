package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	logins           *prometheus.CounterVec
	batchesGenerated *prometheus.CounterVec
	sessionEdits     *prometheus.CounterVec
	reportsRendered  *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	loginSuccessCount    uint64
	loginFailureCount    uint64
	batchCount           uint64
	editCount            uint64
	reportCount          uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_logins_total",
		Help: "Login attempts by role and result",
	}, []string{"role", "result"})

	batchesGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_session_batches_generated_total",
		Help: "Session batches generated by program variant",
	}, []string{"variant"})

	sessionEdits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_session_edits_total",
		Help: "Administrator edits to stored sessions by field group",
	}, []string{"field"})

	reportsRendered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_reports_rendered_total",
		Help: "Rendered report downloads by format",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, logins, batchesGenerated, sessionEdits, reportsRendered, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		logins:           logins,
		batchesGenerated: batchesGenerated,
		sessionEdits:     sessionEdits,
		reportsRendered:  reportsRendered,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordLogin counts a login attempt.
func (m *MetricsService) RecordLogin(role models.UserRole, success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
		atomic.AddUint64(&m.loginSuccessCount, 1)
	} else {
		atomic.AddUint64(&m.loginFailureCount, 1)
	}
	m.logins.WithLabelValues(string(role), result).Inc()
}

// RecordBatchGenerated counts a generated session batch.
func (m *MetricsService) RecordBatchGenerated(variant models.ProgramVariant) {
	if m == nil {
		return
	}
	m.batchesGenerated.WithLabelValues(string(variant)).Inc()
	atomic.AddUint64(&m.batchCount, 1)
}

// RecordSessionEdit counts a successful session edit.
func (m *MetricsService) RecordSessionEdit(field string) {
	if m == nil {
		return
	}
	m.sessionEdits.WithLabelValues(field).Inc()
	atomic.AddUint64(&m.editCount, 1)
}

// RecordReport counts a rendered download.
func (m *MetricsService) RecordReport(format string) {
	if m == nil {
		return
	}
	m.reportsRendered.WithLabelValues(format).Inc()
	atomic.AddUint64(&m.reportCount, 1)
}

// Snapshot returns aggregated metrics suitable for the dashboard endpoint.
func (m *MetricsService) Snapshot() models.ActivityMetrics {
	if m == nil {
		return models.ActivityMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.ActivityMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		LoginsSucceeded:          atomic.LoadUint64(&m.loginSuccessCount),
		LoginsFailed:             atomic.LoadUint64(&m.loginFailureCount),
		BatchesGenerated:         atomic.LoadUint64(&m.batchCount),
		SessionEdits:             atomic.LoadUint64(&m.editCount),
		ReportsRendered:          atomic.LoadUint64(&m.reportCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
