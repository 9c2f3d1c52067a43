package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridclash/gridclash/game/queue"
	"github.com/gridclash/gridclash/game/session"
	"github.com/gridclash/gridclash/transport/websocket"
)

func newTestServer() *Server {
	sessions := session.NewManager()
	q := queue.New(200, sessions)
	hub := websocket.NewHub(websocket.NewAuthenticator("test"))
	return NewServer(hub, q, sessions)
}

func TestHealth(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	sessions := session.NewManager()
	q := queue.New(200, sessions)
	hub := websocket.NewHub(websocket.NewAuthenticator("test"))
	s := NewServer(hub, q, sessions)

	if _, err := q.Enqueue(1, 1000, "c1"); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var stats map[string]int
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats["players_queued"] != 1 {
		t.Errorf("Expected 1 queued player, got %d", stats["players_queued"])
	}
	if stats["active_sessions"] != 0 {
		t.Errorf("Expected 0 sessions, got %d", stats["active_sessions"])
	}
}

func TestUnauthorizedWebSocket(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}
