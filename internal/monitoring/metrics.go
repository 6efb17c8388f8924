// Package monitoring exposes Prometheus metrics for a session.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instrumentation of one session. Each session carries
// its own registry so that multiple sessions in one process do not
// collide on metric registration.
type Metrics struct {
	registry *prometheus.Registry

	EventsTotal     *prometheus.CounterVec
	IntentsTotal    *prometheus.CounterVec
	ReconnectsTotal prometheus.Counter
	ChunksTotal     prometheus.Counter
	ConnectionState prometheus.Gauge
}

// New creates the metric set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gummy",
			Name:      "events_total",
			Help:      "Inbound events processed, by kind",
		}, []string{"kind"}),
		IntentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gummy",
			Name:      "intents_total",
			Help:      "Outbound intents sent, by kind",
		}, []string{"kind"}),
		ReconnectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gummy",
			Name:      "reconnects_total",
			Help:      "Connection losses that triggered a reconnect cycle",
		}),
		ChunksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gummy",
			Name:      "chunks_total",
			Help:      "Streamed generation fragments received",
		}),
		ConnectionState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "gummy",
			Name:      "connection_state",
			Help:      "Connection lifecycle state (0 idle, 1 connecting, 2 open, 3 closed)",
		}),
	}
}

// Handler serves this metric set's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
