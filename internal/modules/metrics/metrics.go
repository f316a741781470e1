// Package metrics exposes bridge internals as prometheus collectors
// and serves them on an optional debug listener.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "redstone_dispatch_total", Help: "boundary dispatches by event kind and outcome"},
		[]string{"kind", "outcome"},
	)

	handlerPanics = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "redstone_handler_panics_total", Help: "panics recovered at the dispatch boundary"},
		[]string{"kind"},
	)

	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "redstone_registrations_total", Help: "content registrations queued by kind"},
		[]string{"kind"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "redstone_registration_queue_depth", Help: "registrations waiting for the drain"},
	)

	pumpDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "redstone_pump_duration_seconds",
			Help:    "script scheduler pump duration.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	packetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "redstone_packets_total", Help: "custom payload packets by direction"},
		[]string{"direction"},
	)
)

func init() {
	prometheus.MustRegister(
		dispatchTotal,
		handlerPanics,
		registrationsTotal,
		queueDepth,
		pumpDuration,
		packetsTotal,
	)
}

// Dispatch outcomes.
const (
	OutcomeHandled   = "handled"
	OutcomeDefaulted = "defaulted"
	OutcomeError     = "error"
)

// ObserveDispatch counts one boundary dispatch.
func ObserveDispatch(kind, outcome string) {
	dispatchTotal.WithLabelValues(kind, outcome).Inc()
}

// ObservePanic counts one recovered handler panic.
func ObservePanic(kind string) {
	handlerPanics.WithLabelValues(kind).Inc()
}

// ObserveRegistration counts one queued registration.
func ObserveRegistration(kind string) {
	registrationsTotal.WithLabelValues(kind).Inc()
}

// SetQueueDepth records the pending registration count.
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}

// ObservePump records a scheduler pump duration.
func ObservePump(seconds float64) {
	pumpDuration.Observe(seconds)
}

// ObservePacket counts one packet, direction "in" or "out".
func ObservePacket(direction string) {
	packetsTotal.WithLabelValues(direction).Inc()
}
