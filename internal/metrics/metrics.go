// Package metrics instruments the crawl, cache, and HTTP layers with
// Prometheus collectors, grounded on the client_golang usage pulled
// into the retrieval pack's service examples. It is ambient
// observability, carried regardless of spec.md's Non-goals on
// higher-level reporting (SPEC_FULL.md §1).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors exercised by a single run. All
// methods are nil-receiver safe so callers may pass a nil *Metrics to
// disable instrumentation entirely.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration prometheus.Histogram
	cacheHitsTotal      prometheus.Counter
	cacheMissesTotal    prometheus.Counter
	robotsDeniedTotal   prometheus.Counter
	documentsTotal      *prometheus.CounterVec
	elementsTotal       *prometheus.CounterVec
}

// New registers and returns a fresh Metrics bundle on its own
// registry, suitable for exposing via promhttp.HandlerFor.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webvalidator_http_requests_total",
			Help: "Bare HTTP requests issued, by outcome.",
		}, []string{"result"}),
		httpRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "webvalidator_http_request_duration_seconds",
			Help:    "Latency of bare HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webvalidator_cache_hits_total",
			Help: "get_or_compute calls served from an existing entry.",
		}),
		cacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webvalidator_cache_misses_total",
			Help: "get_or_compute calls that ran their producer.",
		}),
		robotsDeniedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webvalidator_robots_denied_total",
			Help: "Fetches skipped due to robots.txt disallow rules.",
		}),
		documentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webvalidator_documents_total",
			Help: "Documents visited, by result.",
		}, []string{"result"}),
		elementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webvalidator_elements_total",
			Help: "Elements validated, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.cacheHitsTotal,
		m.cacheMissesTotal,
		m.robotsDeniedTotal,
		m.documentsTotal,
		m.elementsTotal,
	)

	return m
}

// Registry exposes the underlying registry, e.g. for promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(elapsed time.Duration, ok bool) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	m.httpRequestsTotal.WithLabelValues(result).Inc()
	m.httpRequestDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHitsTotal.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMissesTotal.Inc()
}

func (m *Metrics) RobotsDenied() {
	if m == nil {
		return
	}
	m.robotsDeniedTotal.Inc()
}

func (m *Metrics) Document(result string) {
	if m == nil {
		return
	}
	m.documentsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Element(result string) {
	if m == nil {
		return
	}
	m.elementsTotal.WithLabelValues(result).Inc()
}
