// Package metrics provides Prometheus metrics for the resumatch client.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeSucceeded      = "succeeded"
	OutcomeServerError    = "server_error"
	OutcomeTransportError = "transport_error"
)

// Default latency buckets in milliseconds. Analysis calls are slow.
var defaultBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000}

// Manager owns all Prometheus collectors for the client.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Submission lifecycle
	submissions       *prometheus.CounterVec
	validationRejects *prometheus.CounterVec
	busyRejects       prometheus.Counter
	inFlight          prometheus.Gauge
	analyzeLatency    prometheus.Histogram
	analyzeStatus     *prometheus.CounterVec
	lastMatchScore    prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "resumatch",
		subsystem:        "client",
		histogramBuckets: defaultBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_total",
		Help:        "Completed analysis submissions by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.validationRejects = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "validation_rejections_total",
		Help:        "Form submissions blocked before any network call, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.busyRejects = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "busy_rejections_total",
		Help:        "Form submissions refused because a request was already in flight",
		ConstLabels: m.constLabels,
	})

	m.inFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_in_flight",
		Help:        "Analysis requests currently outstanding (0 or 1)",
		ConstLabels: m.constLabels,
	})

	m.analyzeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "analyze_latency_milliseconds",
		Help:        "Round trip time of the analysis call in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.analyzeStatus = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "analyze_responses_total",
		Help:        "HTTP responses received from the analysis service by status code",
		ConstLabels: m.constLabels,
	}, []string{"status_code"})

	m.lastMatchScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_match_score",
		Help:        "Match score of the most recent successful analysis",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordSubmission counts a finished submission. outcome must be one of the
// Outcome constants.
func (m *Manager) RecordSubmission(outcome string) error {
	switch outcome {
	case OutcomeSucceeded, OutcomeServerError, OutcomeTransportError:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
	m.submissions.WithLabelValues(outcome).Inc()
	return nil
}

// RecordValidationReject counts a submission blocked by validation.
func (m *Manager) RecordValidationReject(reason string) {
	m.validationRejects.WithLabelValues(reason).Inc()
}

// RecordBusyReject counts a submission refused while busy.
func (m *Manager) RecordBusyReject() { m.busyRejects.Inc() }

// SetInFlight sets the in-flight gauge.
func (m *Manager) SetInFlight(n int) { m.inFlight.Set(float64(n)) }

// ObserveAnalyzeLatency records the analysis round trip in milliseconds.
func (m *Manager) ObserveAnalyzeLatency(ms float64) { m.analyzeLatency.Observe(ms) }

// RecordAnalyzeStatus counts a response status from the analysis service.
func (m *Manager) RecordAnalyzeStatus(statusCode string) {
	m.analyzeStatus.WithLabelValues(statusCode).Inc()
}

// SetLastMatchScore records the score of the latest successful analysis.
func (m *Manager) SetLastMatchScore(score float64) { m.lastMatchScore.Set(score) }

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Package-level helpers on the global manager.

// RecordSubmission counts a finished submission on the global manager.
func RecordSubmission(outcome string) error { return globalManager.RecordSubmission(outcome) }

// RecordValidationReject counts a validation rejection on the global manager.
func RecordValidationReject(reason string) { globalManager.RecordValidationReject(reason) }

// RecordBusyReject counts a busy rejection on the global manager.
func RecordBusyReject() { globalManager.RecordBusyReject() }

// SetInFlight sets the global in-flight gauge.
func SetInFlight(n int) { globalManager.SetInFlight(n) }

// ObserveAnalyzeLatency records analysis latency on the global manager.
func ObserveAnalyzeLatency(ms float64) { globalManager.ObserveAnalyzeLatency(ms) }

// RecordAnalyzeStatus counts an analysis response status on the global manager.
func RecordAnalyzeStatus(statusCode string) { globalManager.RecordAnalyzeStatus(statusCode) }

// SetLastMatchScore records the latest score on the global manager.
func SetLastMatchScore(score float64) { globalManager.SetLastMatchScore(score) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
