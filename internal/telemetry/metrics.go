package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DriverEventsTotal counts MLME indications consumed by the bridge loop.
	DriverEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sme",
			Name:      "driver_events_total",
			Help:      "Total number of driver events fed into the SME core",
		},
		[]string{"type"},
	)

	// DriverCommandsTotal counts MLME requests forwarded to the driver.
	DriverCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sme",
			Name:      "driver_commands_total",
			Help:      "Total number of driver commands sent to the MLME",
		},
		[]string{"type"},
	)

	// ClientCommandsTotal counts decoded client commands dispatched to the core.
	ClientCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sme",
			Name:      "client_commands_total",
			Help:      "Total number of client commands dispatched",
		},
		[]string{"op"},
	)

	// SessionsActive tracks currently served client sessions.
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sme",
			Name:      "sessions_active",
			Help:      "Number of client control sessions currently served",
		},
	)

	// UserEventsDropped counts user events that matched no pending command.
	UserEventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sme",
			Name:      "user_events_dropped_total",
			Help:      "User events resolved against no pending command",
		},
	)

	// CompletionsAbandoned counts waiters that observed an abandoned handle.
	CompletionsAbandoned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sme",
			Name:      "completions_abandoned_total",
			Help:      "Command completions abandoned before resolution",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent; registration errors from re-registration are ignored.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(DriverEventsTotal)
		prometheus.DefaultRegisterer.Register(DriverCommandsTotal)
		prometheus.DefaultRegisterer.Register(ClientCommandsTotal)
		prometheus.DefaultRegisterer.Register(SessionsActive)
		prometheus.DefaultRegisterer.Register(UserEventsDropped)
		prometheus.DefaultRegisterer.Register(CompletionsAbandoned)
	})
}
