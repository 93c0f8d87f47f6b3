// Package metrics exposes Prometheus metrics for the weather provider,
// the response cache and history persistence.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the weather client and services
type Recorder interface {
	RecordProviderRequest(operation, outcome string)
	RecordProviderLatency(operation string, duration time.Duration)
	RecordProviderRetry(operation string)
	RecordCacheHit(operation string)
	RecordCacheMiss(operation string)
	RecordHistoryWriteFailure()
}

// Provider request outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
	OutcomeTransport   = "transport_error"
	OutcomeParseError  = "parse_error"
	OutcomeBreakerOpen = "breaker_open"
)

// Collector records metrics into a Prometheus registry
type Collector struct {
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	providerRetries  *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	historyFailures  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_provider_requests_total",
			Help: "Weather provider calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_provider_latency_seconds",
			Help:    "Latency of single weather provider attempts",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		providerRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_provider_retries_total",
			Help: "Weather provider attempts beyond the first",
		}, []string{"operation"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_hits_total",
			Help: "Provider responses served from cache",
		}, []string{"operation"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_misses_total",
			Help: "Provider lookups not found in cache",
		}, []string{"operation"}),
		historyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weather_history_write_failures_total",
			Help: "History records that could not be persisted",
		}),
	}

	reg.MustRegister(
		c.providerRequests,
		c.providerLatency,
		c.providerRetries,
		c.cacheHits,
		c.cacheMisses,
		c.historyFailures,
	)

	return c
}

func (c *Collector) RecordProviderRequest(operation, outcome string) {
	c.providerRequests.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordProviderLatency(operation string, duration time.Duration) {
	c.providerLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordProviderRetry(operation string) {
	c.providerRetries.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordCacheHit(operation string) {
	c.cacheHits.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordCacheMiss(operation string) {
	c.cacheMisses.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordHistoryWriteFailure() {
	c.historyFailures.Inc()
}

// Nop discards all metrics
type Nop struct{}

func (Nop) RecordProviderRequest(string, string)        {}
func (Nop) RecordProviderLatency(string, time.Duration) {}
func (Nop) RecordProviderRetry(string)                  {}
func (Nop) RecordCacheHit(string)                       {}
func (Nop) RecordCacheMiss(string)                      {}
func (Nop) RecordHistoryWriteFailure()                  {}

// Handler returns the HTTP handler for Prometheus scraping
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
