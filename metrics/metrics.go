package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	NAMESPACE = "farmer_admin"
	SUBSYSTEM = "ws"
)

// PromMetrics implements websocket.Metrics using Prometheus.
type PromMetrics struct {
	connections       prometheus.Counter
	disconnects       prometheus.Counter
	reconnectAttempts prometheus.Counter
	decodeErrors      prometheus.Counter
	connStatus        prometheus.Gauge
}

// NewMetrics creates and registers the progress channel metrics.
// If registry is nil, it uses the global default registry.
func NewMetrics(registry prometheus.Registerer, labels map[string]string) *PromMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	m := &PromMetrics{
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   NAMESPACE,
			Subsystem:   SUBSYSTEM,
			Name:        "connections_total",
			Help:        "Total number of service progress channels opened.",
			ConstLabels: labels,
		}),
		disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   NAMESPACE,
			Subsystem:   SUBSYSTEM,
			Name:        "disconnects_total",
			Help:        "Total number of service progress channel closes, including failed dials.",
			ConstLabels: labels,
		}),
		reconnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   NAMESPACE,
			Subsystem:   SUBSYSTEM,
			Name:        "reconnect_attempts_total",
			Help:        "Total number of reconnects scheduled.",
			ConstLabels: labels,
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   NAMESPACE,
			Subsystem:   SUBSYSTEM,
			Name:        "decode_errors_total",
			Help:        "Total number of inbound frames that were not valid JSON records.",
			ConstLabels: labels,
		}),
		connStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   NAMESPACE,
			Subsystem:   SUBSYSTEM,
			Name:        "connection_status",
			Help:        "Current status of the channel (1 = connected, 0 = disconnected).",
			ConstLabels: labels,
		}),
	}

	registry.MustRegister(m.connections)
	registry.MustRegister(m.disconnects)
	registry.MustRegister(m.reconnectAttempts)
	registry.MustRegister(m.decodeErrors)
	registry.MustRegister(m.connStatus)

	return m
}

func (m *PromMetrics) IncConnections() {
	m.connections.Inc()
}

func (m *PromMetrics) IncDisconnects() {
	m.disconnects.Inc()
}

func (m *PromMetrics) IncReconnectAttempts() {
	m.reconnectAttempts.Inc()
}

func (m *PromMetrics) IncDecodeErrors() {
	m.decodeErrors.Inc()
}

func (m *PromMetrics) SetConnectionStatus(status float64) {
	m.connStatus.Set(status)
}
