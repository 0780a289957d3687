// Package metrics exposes Prometheus instruments for the query pipeline,
// external API calls, the weather cache and plant scans.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agrinathi"

// Metrics owns a private registry so tests can build independent instances.
type Metrics struct {
	registry *prometheus.Registry

	queries          *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	externalCalls    *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	cache            *prometheus.CounterVec
	scans            *prometheus.CounterVec
}

// New registers all instruments, plus Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Farmer queries processed, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		pipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end query processing time.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"channel"}),
		externalCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_calls_total",
			Help:      "Calls to external APIs, by service and outcome.",
		}, []string{"service", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Degraded responses served in place of an external API result.",
		}, []string{"service"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_cache_requests_total",
			Help:      "Weather cache lookups, by result.",
		}, []string{"result"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plant_scans_total",
			Help:      "Plant scans finished, by status.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.queries, m.pipelineDuration, m.externalCalls, m.fallbacks, m.cache, m.scans,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveQuery records one processed query.
func (m *Metrics) ObserveQuery(channel string, success bool, d time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.queries.WithLabelValues(channel, outcome).Inc()
	m.pipelineDuration.WithLabelValues(channel).Observe(d.Seconds())
}

// ObserveCall records an external API call outcome.
func (m *Metrics) ObserveCall(service, outcome string) {
	m.externalCalls.WithLabelValues(service, outcome).Inc()
}

// ObserveFallback records a degraded response.
func (m *Metrics) ObserveFallback(service string) {
	m.fallbacks.WithLabelValues(service).Inc()
}

// CacheHit records a weather cache hit.
func (m *Metrics) CacheHit() { m.cache.WithLabelValues("hit").Inc() }

// CacheMiss records a weather cache miss.
func (m *Metrics) CacheMiss() { m.cache.WithLabelValues("miss").Inc() }

// ObserveScan records a finished plant scan.
func (m *Metrics) ObserveScan(status string) {
	m.scans.WithLabelValues(status).Inc()
}
