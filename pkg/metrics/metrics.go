// Package metrics provides Prometheus metrics for the CP coach service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every Prometheus collector for the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	// Platform adapter metrics
	fetches      *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec

	// Analysis metrics
	roasts          prometheus.Counter
	recommendations *prometheus.CounterVec
	contestFeedSize prometheus.Gauge

	// Session metrics
	registeredHandles prometheus.Gauge
	conversations     prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager instance, registered against a custom registry so the
// default Go collectors do not leak into the exposition.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton metrics manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "cpcoach",
		subsystem: "core",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}

	m.fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts(factory("platform_fetches_total", "Platform API fetches by platform and outcome.")),
		[]string{"platform", "outcome"},
	)
	m.fetchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "platform_fetch_latency_ms", Help: "Platform API fetch latency in milliseconds.",
		Buckets: m.buckets,
	}, []string{"platform"})
	m.roasts = prometheus.NewCounter(
		prometheus.CounterOpts(factory("roasts_total", "Roast analyses produced.")),
	)
	m.recommendations = prometheus.NewCounterVec(
		prometheus.CounterOpts(factory("recommendations_total", "Recommendation analyses produced, by goal.")),
		[]string{"goal"},
	)
	m.contestFeedSize = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("contest_feed_size", "Entries in the most recent merged contest feed.")),
	)
	m.registeredHandles = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("registered_handles", "Handles currently held in session memory.")),
	)
	m.conversations = prometheus.NewGauge(
		prometheus.GaugeOpts(factory("conversations", "Conversations with at least one registered handle.")),
	)
	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts(factory("http_requests_total", "HTTP requests by endpoint, method and status.")),
		[]string{"endpoint", "method", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_ms", Help: "HTTP request duration in milliseconds.",
		Buckets: m.buckets,
	}, []string{"endpoint", "method", "status"})

	m.registry.MustRegister(
		m.fetches, m.fetchLatency,
		m.roasts, m.recommendations, m.contestFeedSize,
		m.registeredHandles, m.conversations,
		m.httpRequests, m.httpRequestDuration,
	)
}

// Handler exposes the manager's registry for a /metrics endpoint.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package-level helpers against the global manager.

// RecordFetch counts one platform API call with its outcome.
func RecordFetch(platform, outcome string) {
	globalManager.fetches.WithLabelValues(platform, outcome).Inc()
}

// RecordFetchLatency observes one platform API call latency.
func RecordFetchLatency(platform string, ms float64) {
	globalManager.fetchLatency.WithLabelValues(platform).Observe(ms)
}

// RecordRoast counts one produced roast.
func RecordRoast() {
	globalManager.roasts.Inc()
}

// RecordRecommendation counts one recommendation set by goal.
func RecordRecommendation(goal string) {
	globalManager.recommendations.WithLabelValues(goal).Inc()
}

// UpdateContestFeedSize records the size of the latest merged feed.
func UpdateContestFeedSize(n int) {
	globalManager.contestFeedSize.Set(float64(n))
}

// UpdateRegisteredHandles tracks the session-memory handle count.
func UpdateRegisteredHandles(n int) {
	globalManager.registeredHandles.Set(float64(n))
}

// UpdateConversations tracks how many conversations hold handles.
func UpdateConversations(n int) {
	globalManager.conversations.Set(float64(n))
}

// RecordHTTPRequest counts one served HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// Handler exposes the global registry.
func Handler() http.Handler {
	return globalManager.Handler()
}
