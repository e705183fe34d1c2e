// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records identity outcomes and HTTP latency. A nil *Collector
// discards everything, so callers never need to check for one.
type Collector struct {
	authOutcomes    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogger_auth_outcomes_total",
			Help: "Identity operations by operation and result kind.",
		}, []string{"operation", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogger_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogger_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(c.authOutcomes, c.requestDuration, c.rateLimited)
	return c
}

// RecordAuthOutcome counts one register, login or refresh call. An empty
// outcome is recorded as "success".
func (c *Collector) RecordAuthOutcome(operation, outcome string) {
	if c == nil {
		return
	}
	if outcome == "" {
		outcome = "success"
	}
	c.authOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordRequest observes the latency of one HTTP request. route is the mux
// pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordRequest(method, route string, statusCode int, d time.Duration) {
	if c == nil {
		return
	}
	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(statusCode)).Observe(d.Seconds())
}

func (c *Collector) RecordRateLimited() {
	if c == nil {
		return
	}
	c.rateLimited.Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
