package service

import "context"

// Orchestrator receives connection-level events from the transport layer.
// Every method is a discrete unit of work; implementations must be safe
// under concurrent invocation for different connections.
type Orchestrator interface {
	// Connect binds an authenticated player to a live connection.
	Connect(ctx context.Context, conn string, playerID int64)

	// Disconnect handles a dropped connection: it cancels any queue entry
	// and abandons any active session the connection participated in.
	// Safe to call for unknown connections and safe to call twice.
	Disconnect(ctx context.Context, conn string)

	// JoinQueue places the connection's player into the matchmaking queue
	// and, when a compatible candidate is waiting, starts a session.
	JoinQueue(ctx context.Context, conn string)

	// LeaveQueue removes the connection's queue entry, if any.
	LeaveQueue(ctx context.Context, conn string)

	// Move applies one move to the session the connection belongs to.
	Move(ctx context.Context, conn string, x, y int)
}

// Notifier delivers outbound events addressed by connection. Implemented by
// the websocket transport; delivery is fire-and-forget from the
// orchestrator's point of view.
type Notifier interface {
	QueueAck(conn string, ok bool, reason string)
	MatchFound(conn string, info MatchInfo)
	Board(conn string, update BoardUpdate)
	SessionEnd(conn string, info EndInfo)
	Error(conn string, code, message string)
}
