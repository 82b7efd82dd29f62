package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tictactoe"

const (
	ConnectionAdmitted = "admitted"
	ConnectionRejected = "rejected"

	MoveAccepted    = "accepted"
	MoveNotYourTurn = "not_your_turn"
	MoveInvalid     = "invalid"
	MoveFinished    = "finished"
)

// Metrics holds the Prometheus collectors of the session server.
type Metrics struct {
	connectionsTotal *prometheus.CounterVec
	activePlayers    prometheus.Gauge
	movesTotal       *prometheus.CounterVec
	gamesFinished    *prometheus.CounterVec
	protocolErrors   prometheus.Counter
}

// New - registers the collectors in the given registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		connectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Accepted TCP connections by admission result",
		}, []string{"result"}),

		activePlayers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_players",
			Help:      "Occupied player slots",
		}),

		movesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Move requests by outcome",
		}, []string{"outcome"}),

		gamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by result",
		}, []string{"result"}),

		protocolErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Dropped malformed messages",
		}),
	}
}

func (that *Metrics) Connection(result string) {
	that.connectionsTotal.WithLabelValues(result).Inc()
}

func (that *Metrics) ActivePlayers(n int) {
	that.activePlayers.Set(float64(n))
}

func (that *Metrics) Move(outcome string) {
	that.movesTotal.WithLabelValues(outcome).Inc()
}

func (that *Metrics) GameFinished(result string) {
	that.gamesFinished.WithLabelValues(result).Inc()
}

func (that *Metrics) ProtocolError() {
	that.protocolErrors.Inc()
}
