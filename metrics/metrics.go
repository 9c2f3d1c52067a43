// Package metrics exposes the server's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transport
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gridclash_connections_active",
		Help: "The current number of active WebSocket connections.",
	})
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridclash_auth_failures_total",
		Help: "The total number of rejected connection attempts.",
	}, []string{"reason"})

	// Matchmaking
	PlayersQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gridclash_players_queued",
		Help: "The current number of players waiting in the matchmaking queue.",
	})
	MatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridclash_matches_total",
		Help: "The total number of matches created.",
	})

	// Sessions
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gridclash_sessions_active",
		Help: "The current number of live game sessions.",
	})
	MovesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridclash_moves_total",
		Help: "The total number of accepted moves.",
	})
	MoveRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridclash_move_rejections_total",
		Help: "The total number of rejected moves.",
	}, []string{"reason"})
	SessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridclash_sessions_ended_total",
		Help: "The total number of concluded sessions.",
	}, []string{"outcome"})
)
