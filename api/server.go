// Package api provides the HTTP shell around the game server: the
// WebSocket endpoint, health and metrics endpoints, and a read-only stats
// view of the queue and session registry.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridclash/gridclash/game/queue"
	"github.com/gridclash/gridclash/game/session"
	"github.com/gridclash/gridclash/transport/websocket"
)

// Server routes HTTP traffic to the hub and the observability endpoints.
type Server struct {
	hub      *websocket.Hub
	queue    *queue.Queue
	sessions *session.Manager
	router   *mux.Router
	started  time.Time
}

// NewServer creates the HTTP shell.
func NewServer(hub *websocket.Hub, q *queue.Queue, sessions *session.Manager) *Server {
	s := &Server{
		hub:      hub,
		queue:    q,
		sessions: sessions,
		router:   mux.NewRouter(),
		started:  time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/ws", s.hub.ServeWS)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/api/stats", s.handleStats).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStats serves the read-only observability snapshot. It touches no
// core state beyond counters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players_queued":  s.queue.Len(),
		"active_sessions": s.sessions.Count(),
		"connections":     s.hub.ConnectionCount(),
		"uptime_seconds":  int(time.Since(s.started).Seconds()),
	})
}
