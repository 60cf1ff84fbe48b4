package orgb

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the optional Prometheus collectors for a Client. A Client
// constructed without WithMetrics has a nil *metrics and every method on
// it is a no-op, so instrumentation is opt-in and there is no
// package-level registration.
type metrics struct {
	framesSent     prometheus.Counter
	framesReceived prometheus.Counter
	connState      prometheus.Gauge
	requestSeconds *prometheus.HistogramVec
}

// newMetrics builds and registers the collector set against reg.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgb_frames_sent_total",
			Help: "Frames written to the daemon after the handshake.",
		}),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgb_frames_received_total",
			Help: "Frames read from the daemon after the handshake.",
		}),
		connState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgb_connection_state",
			Help: "Current client connection state (0=Disconnected, 1=Connecting, 2=Connected, 3=Closing).",
		}),
		requestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "orgb_request_duration_seconds",
			Help: "Round-trip latency of request/reply operations, by message type.",
		}, []string{"message_type"}),
	}
	reg.MustRegister(m.framesSent, m.framesReceived, m.connState, m.requestSeconds)
	return m
}

func (m *metrics) recordSent() {
	if m == nil {
		return
	}
	m.framesSent.Inc()
}

func (m *metrics) recordReceived() {
	if m == nil {
		return
	}
	m.framesReceived.Inc()
}

func (m *metrics) setState(s connState) {
	if m == nil {
		return
	}
	m.connState.Set(float64(s))
}

func (m *metrics) observeRequest(msgType MessageType, seconds float64) {
	if m == nil {
		return
	}
	m.requestSeconds.WithLabelValues(msgType.String()).Observe(seconds)
}
