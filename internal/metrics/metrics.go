package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arcade_sessions_active",
			Help: "Sessions currently held by the registry",
		},
	)
	Commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcade_commands_total",
			Help: "Inbound commands by type and outcome",
		},
		[]string{"type", "outcome"},
	)
	RoundsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcade_rounds_finished_total",
			Help: "Finished rounds by game type and result",
		},
		[]string{"game_type", "result"},
	)
	Connections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arcade_connections_active",
			Help: "Open websocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(Commands)
	prometheus.MustRegister(RoundsFinished)
	prometheus.MustRegister(Connections)
}
