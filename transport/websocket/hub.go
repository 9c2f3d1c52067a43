package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gridclash/gridclash/game/service"
	"github.com/gridclash/gridclash/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// inboundMessage is one client request.
type inboundMessage struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Client represents one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// ID is the connection handle the core addresses this client by.
	ID       string
	playerID int64
}

// Hub maintains the set of active clients keyed by connection handle.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	orch service.Orchestrator
	auth *Authenticator
}

// NewHub creates a new WebSocket hub. The authenticator validates upgrade
// requests; the orchestrator is attached with SetOrchestrator before Run,
// since it is constructed around this hub's notifier.
func NewHub(auth *Authenticator) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		auth:       auth,
	}
}

// SetOrchestrator attaches the inbound event sink. Must be called before
// the hub serves its first connection.
func (h *Hub) SetOrchestrator(orch service.Orchestrator) {
	h.orch = orch
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// ServeWS authenticates and upgrades a client request, assigns the
// connection handle, and starts the per-connection goroutines.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID, err := h.auth.Authenticate(r)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("token").Inc()
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		ID:       uuid.NewString(),
		playerID: playerID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Send queues a message for one connection. Messages for unknown or
// saturated connections are dropped; a slow consumer is disconnected
// rather than allowed to block the rest of the server.
func (h *Hub) Send(connID string, data []byte) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		h.unregisterClient(client)
	}
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// registerClient adds a client and announces the binding to the core.
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()

	metrics.ActiveConnections.Set(float64(total))
	h.orch.Connect(context.Background(), client.ID, client.playerID)

	log.Printf("Client %s registered for player %d (total clients: %d)", client.ID, client.playerID, total)
}

// unregisterClient removes a client and delivers the disconnect to the
// core exactly once.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client.ID]
	if known {
		delete(h.clients, client.ID)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !known {
		return
	}

	metrics.ActiveConnections.Set(float64(total))
	h.orch.Disconnect(context.Background(), client.ID)

	log.Printf("Client %s unregistered (remaining clients: %d)", client.ID, total)
}

// readPump pumps messages from the WebSocket connection to the orchestrator.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		c.dispatch(data)
	}
}

// dispatch routes one inbound message to the orchestrator.
func (c *Client) dispatch(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.Send(c.ID, mustMarshal(outboundEvent{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "malformed message"}}))
		return
	}

	ctx := context.Background()
	switch msg.Type {
	case "join_queue":
		c.hub.orch.JoinQueue(ctx, c.ID)
	case "leave_queue":
		c.hub.orch.LeaveQueue(ctx, c.ID)
	case "move":
		c.hub.orch.Move(ctx, c.ID, msg.X, msg.Y)
	default:
		c.hub.Send(c.ID, mustMarshal(outboundEvent{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "unknown message type"}}))
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
