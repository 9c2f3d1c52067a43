package websocket

import (
	"encoding/json"
	"log"

	"github.com/gridclash/gridclash/game/service"
)

// outboundEvent is the envelope for every server-to-client message.
type outboundEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type queueAckPayload struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mustMarshal encodes an outbound event. The envelope and payloads contain
// only marshal-safe types; a failure here is a programmer error.
func mustMarshal(event outboundEvent) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal outbound event %q: %v", event.Type, err)
		return []byte(`{"type":"error","payload":{"code":"internal","message":"encoding failure"}}`)
	}
	return data
}

// Notifier adapts the hub to the orchestrator's notification port.
type Notifier struct {
	hub *Hub
}

// NewNotifier creates the outbound adapter for a hub.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

var _ service.Notifier = (*Notifier)(nil)

func (n *Notifier) QueueAck(conn string, ok bool, reason string) {
	n.hub.Send(conn, mustMarshal(outboundEvent{Type: "queue_ack", Payload: queueAckPayload{OK: ok, Reason: reason}}))
}

func (n *Notifier) MatchFound(conn string, info service.MatchInfo) {
	n.hub.Send(conn, mustMarshal(outboundEvent{Type: "match_found", Payload: info}))
}

func (n *Notifier) Board(conn string, update service.BoardUpdate) {
	n.hub.Send(conn, mustMarshal(outboundEvent{Type: "board", Payload: update}))
}

func (n *Notifier) SessionEnd(conn string, info service.EndInfo) {
	n.hub.Send(conn, mustMarshal(outboundEvent{Type: "session_end", Payload: info}))
}

func (n *Notifier) Error(conn string, code, message string) {
	n.hub.Send(conn, mustMarshal(outboundEvent{Type: "error", Payload: errorPayload{Code: code, Message: message}}))
}
