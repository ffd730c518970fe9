// Package metrics provides the Prometheus collectors of the proxy: HTTP
// request accounting, token store effectiveness, upstream call outcomes, and
// cache warming runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fsproxy"

// Collector owns the Prometheus registry and every metric the proxy records.
// Constructed once at process start and shared by reference.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	tokenLookups        *prometheus.CounterVec
	loginsTotal         *prometheus.CounterVec
	unauthorizedRetries prometheus.Counter

	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec

	warmRuns        *prometheus.CounterVec
	warmRecords     prometheus.Gauge
	warmRunDuration prometheus.Histogram
}

// NewCollector creates a collector with its own registry. If registry is
// nil, a fresh one is used.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of proxied requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of proxied requests in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint"},
		),
		tokenLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_lookups_total",
				Help:      "Token store lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		loginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Upstream login attempts by outcome",
			},
			[]string{"outcome"},
		),
		unauthorizedRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unauthorized_retries_total",
				Help:      "Searches retried after the upstream rejected a token",
			},
		),
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_calls_total",
				Help:      "Upstream API calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_call_duration_seconds",
				Help:      "Duration of upstream API calls in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"op"},
		),
		warmRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "warm_runs_total",
				Help:      "Cache warming runs by outcome",
			},
			[]string{"outcome"},
		),
		warmRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "warm_records",
				Help:      "Records stored by the last cache warming run",
			},
		),
		warmRunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "warm_run_duration_seconds",
				Help:      "Duration of cache warming runs in seconds",
				Buckets:   []float64{1, 10, 60, 300, 900, 1800, 3600},
			},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.tokenLookups,
		c.loginsTotal,
		c.unauthorizedRetries,
		c.upstreamCalls,
		c.upstreamDuration,
		c.warmRuns,
		c.warmRecords,
		c.warmRunDuration,
	)

	return c
}

// RecordRequest records one proxied request.
func (c *Collector) RecordRequest(endpoint string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(endpoint, statusLabel(status)).Inc()
	c.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordTokenLookup records a token store lookup.
func (c *Collector) RecordTokenLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.tokenLookups.WithLabelValues(result).Inc()
}

// RecordLogin records an upstream login attempt.
func (c *Collector) RecordLogin(outcome string) {
	c.loginsTotal.WithLabelValues(outcome).Inc()
}

// RecordUnauthorizedRetry records a search retried after token rejection.
func (c *Collector) RecordUnauthorizedRetry() {
	c.unauthorizedRetries.Inc()
}

// RecordUpstreamCall records one upstream API call.
func (c *Collector) RecordUpstreamCall(op, outcome string, duration time.Duration) {
	c.upstreamCalls.WithLabelValues(op, outcome).Inc()
	c.upstreamDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordWarmRun records a completed cache warming run.
func (c *Collector) RecordWarmRun(success bool, recordCount int, duration time.Duration) {
	outcome := "failure"
	if success {
		outcome = "success"
		c.warmRecords.Set(float64(recordCount))
	}
	c.warmRuns.WithLabelValues(outcome).Inc()
	c.warmRunDuration.Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
