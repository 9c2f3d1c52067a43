// Package broker publishes best-effort observability events: concluded
// session results and queue/session snapshots. Publishing is never part of
// a core state transition; a failed publish is logged by the caller and
// must not roll anything back.
package broker

import (
	"context"
	"time"
)

// Event types emitted by the orchestrator.
const (
	EventSessionResult = "session_result"
	EventSnapshot      = "snapshot"
)

// Event is one outbound observability record.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher sends events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}

// Nop discards all events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, topic string, event Event) error { return nil }

func (Nop) Close() error { return nil }

