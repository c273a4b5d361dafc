package shelterapi

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the client's request
// lifecycle and envelope outcomes. It is safe for concurrent use; a nil
// collector records nothing.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	envelopeFailures *prometheus.CounterVec
	csrfLoads        *prometheus.CounterVec
	rateLimitWait    *prometheus.HistogramVec

	errorsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultCollectorOnce sync.Once
	defaultCollector     *MetricsCollector
)

// NewMetricsCollector returns the collector registered on the default
// registerer. It is created on first use and shared by every caller, since
// the default registerer accepts each metric name only once.
func NewMetricsCollector() *MetricsCollector {
	defaultCollectorOnce.Do(func() {
		defaultCollector = NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// NewMetricsCollectorWithRegistry creates a collector using supplied
// registerer. It panics if the registerer already holds these metrics.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(registry)
	mc := &MetricsCollector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelterapi_requests_total",
				Help: "Total number of HTTP requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelterapi_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shelterapi_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		envelopeFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelterapi_envelope_failures_total",
				Help: "Total number of failed envelopes by failure type",
			},
			[]string{"type", "endpoint"},
		),
		csrfLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelterapi_csrf_loads_total",
				Help: "Total number of CSRF token loads by result",
			},
			[]string{"result"},
		),
		rateLimitWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelterapi_rate_limit_wait_seconds",
				Help:    "Time spent waiting for the client-side rate limiter",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelterapi_errors_total",
				Help: "Total number of transport errors encountered",
			},
			[]string{"type", "method", "endpoint"},
		),
	}
	if reg, ok := registry.(*prometheus.Registry); ok {
		mc.registry = reg
	}

	return mc
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, statusCodeStr, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, statusCodeStr, endpoint).Observe(duration.Seconds())
}

// RecordRequestStart increments in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordEnvelopeFailure counts a failed envelope.
func (mc *MetricsCollector) RecordEnvelopeFailure(errorType, endpoint string) {
	if mc == nil {
		return
	}

	mc.envelopeFailures.WithLabelValues(errorType, endpoint).Inc()
}

// RecordCSRFLoad counts a CSRF token load attempt ("ok" or "error").
func (mc *MetricsCollector) RecordCSRFLoad(result string) {
	if mc == nil {
		return
	}

	mc.csrfLoads.WithLabelValues(result).Inc()
}

// RecordRateLimitWait observes time spent waiting for the limiter.
func (mc *MetricsCollector) RecordRateLimitWait(endpoint string, waited time.Duration) {
	if mc == nil {
		return
	}

	mc.rateLimitWait.WithLabelValues(endpoint).Observe(waited.Seconds())
}

// RecordError increments error counter by type.
func (mc *MetricsCollector) RecordError(errorType, method, endpoint string) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(errorType, method, endpoint).Inc()
}

// GetRegistry exposes the underlying prometheus registry, if the collector
// was created on one.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	if mc == nil {
		return nil
	}
	return mc.registry
}
