package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled toggles metric collection
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix (default "lifelayer")
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name infix (default "relay")
	Subsystem string `yaml:"subsystem"`
}

// Collector registers and records all relay metrics.
//
// Metrics:
//   - lifelayer_relay_active_connections: live WebSocket session count
//   - lifelayer_relay_requests_total: requests by provider/action/status
//   - lifelayer_relay_stream_tokens_total: relayed fragments by provider
//   - lifelayer_relay_provider_latency_seconds: upstream round-trip latency
//
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	activeConnections prometheus.Gauge
	requests          *prometheus.CounterVec
	streamTokens      *prometheus.CounterVec
	providerLatency   *prometheus.HistogramVec
}

// NewCollector creates and registers the relay metrics. If registry is
// nil a fresh one is used. Returns nil when cfg.Enabled is false, which
// disables all recording.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if !cfg.Enabled {
		return nil
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "lifelayer"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "relay"
	}

	c := &Collector{
		registry: registry,

		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "active_connections",
			Help:      "Number of live WebSocket sessions",
		}),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total requests by provider, action, and status",
			},
			[]string{"provider", "action", "status"},
		),

		streamTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stream_tokens_total",
				Help:      "Total stream fragments relayed by provider",
			},
			[]string{"provider"},
		),

		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_latency_seconds",
				Help:      "Upstream round-trip latency in seconds",
				// LLM round trips run well past typical HTTP buckets
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"provider", "model"},
		),
	}

	registry.MustRegister(
		c.activeConnections,
		c.requests,
		c.streamTokens,
		c.providerLatency,
	)

	return c
}

// ConnectionOpened increments the active connection gauge.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.activeConnections.Inc()
}

// ConnectionClosed decrements the active connection gauge.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.activeConnections.Dec()
}

// RecordRequest counts one finished request.
func (c *Collector) RecordRequest(provider, action, status string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(provider, action, status).Inc()
}

// RecordStreamToken counts one relayed stream fragment.
func (c *Collector) RecordStreamToken(provider string) {
	if c == nil {
		return
	}
	c.streamTokens.WithLabelValues(provider).Inc()
}

// ObserveProviderLatency records one upstream round-trip duration.
func (c *Collector) ObserveProviderLatency(provider, model string, seconds float64) {
	if c == nil {
		return
	}
	c.providerLatency.WithLabelValues(provider, model).Observe(seconds)
}

// Registry returns the Prometheus registry backing this collector, or nil
// for a disabled collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
