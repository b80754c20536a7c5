package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the conversation client. All
// record helpers tolerate a nil receiver so the hot path never branches on
// whether the debug listener is enabled.
type Metrics struct {
	registry       *prometheus.Registry
	FramesReceived *prometheus.CounterVec
	FramesDropped  prometheus.Counter
	Turns          *prometheus.CounterVec
	TurnDuration   *prometheus.HistogramVec
	TransportErrs  *prometheus.CounterVec
	Approvals      *prometheus.CounterVec
}

// NewMetrics constructs a metrics registry with conversation collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	frames := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palmlink_frames_received_total",
		Help: "Inbound frames decoded, by event kind",
	}, []string{"kind"})

	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "palmlink_frames_dropped_total",
		Help: "Inbound frames dropped as malformed",
	})

	turns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palmlink_turns_total",
		Help: "Conversation turns by outcome",
	}, []string{"outcome"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "palmlink_turn_duration_seconds",
		Help:    "Turn duration from chat submission to completion",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	trErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palmlink_transport_errors_total",
		Help: "Transport-level connection errors by reason",
	}, []string{"reason"})

	approvals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palmlink_approvals_total",
		Help: "Approval prompts answered, by decision",
	}, []string{"decision"})

	reg.MustRegister(frames, dropped, turns, durs, trErrors, approvals)

	return &Metrics{
		registry:       reg,
		FramesReceived: frames,
		FramesDropped:  dropped,
		Turns:          turns,
		TurnDuration:   durs,
		TransportErrs:  trErrors,
		Approvals:      approvals,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFrame counts a decoded inbound frame.
func (m *Metrics) RecordFrame(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.FramesReceived.WithLabelValues(kind).Inc()
}

// RecordDroppedFrame counts a malformed frame that was ignored.
func (m *Metrics) RecordDroppedFrame() {
	if m == nil {
		return
	}
	m.FramesDropped.Inc()
}

// RecordTurn records one finished turn and its duration.
func (m *Metrics) RecordTurn(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.Turns.WithLabelValues(outcome).Inc()
	m.TurnDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordTransportError records a transport-level error.
func (m *Metrics) RecordTransportError(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.TransportErrs.WithLabelValues(reason).Inc()
}

// RecordApproval records an answered approval prompt.
func (m *Metrics) RecordApproval(approved bool) {
	if m == nil {
		return
	}
	decision := "denied"
	if approved {
		decision = "approved"
	}
	m.Approvals.WithLabelValues(decision).Inc()
}
