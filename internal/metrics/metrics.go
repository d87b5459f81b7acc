// Package metrics exposes Prometheus instrumentation for session lifecycle,
// codec activity, and transport I/O, grounded on the promauto-registered
// CounterVec/Gauge/Histogram pattern used elsewhere in this stack.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every counter/gauge this module records. Pass the same
// instance to every session, transport, and codec call site that needs it.
type Metrics struct {
	SessionsCreated   prometheus.Counter
	SessionsActive    prometheus.Gauge
	SessionsExpired   prometheus.Counter
	PacketsDecoded    *prometheus.CounterVec
	PacketsEncoded    *prometheus.CounterVec
	DecodeErrors      prometheus.Counter
	TransportRequests *prometheus.CounterVec
	QueueDepth        *prometheus.GaugeVec
}

// New creates and registers every metric with reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SessionsCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "socketio",
			Name:      "sessions_created_total",
			Help:      "Total sessions created.",
		}),
		SessionsActive: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "socketio",
			Name:      "sessions_active",
			Help:      "Sessions currently tracked by the registry.",
		}),
		SessionsExpired: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "socketio",
			Name:      "sessions_expired_total",
			Help:      "Sessions killed by idle expiry.",
		}),
		PacketsDecoded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "socketio",
			Name:      "packets_decoded_total",
			Help:      "Packets decoded from the wire, by packet type.",
		}, []string{"type"}),
		PacketsEncoded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "socketio",
			Name:      "packets_encoded_total",
			Help:      "Packets encoded onto the wire, by packet type.",
		}, []string{"type"}),
		DecodeErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "socketio",
			Name:      "decode_errors_total",
			Help:      "Frames that failed to decode.",
		}),
		TransportRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "socketio",
			Name:      "transport_requests_total",
			Help:      "HTTP/WS requests served, by transport and method.",
		}, []string{"transport", "method"}),
		QueueDepth: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "socketio",
			Name:      "queue_depth",
			Help:      "Observed queue depth at sample time, by direction.",
		}, []string{"direction"}),
	}
}

// ObservePacket records a decoded or encoded packet of the given type name.
func (m *Metrics) ObservePacket(vec *prometheus.CounterVec, typeName string) {
	if m == nil || vec == nil {
		return
	}
	vec.WithLabelValues(typeName).Inc()
}
