// Package websocket provides the WebSocket transport for GridClash.
//
// The package uses a hub-and-spoke model: a central Hub tracks every live
// connection by its connection handle, and each connection is served by a
// dedicated reader and writer goroutine.
//
// Message Protocol:
//
// Messages are JSON-encoded. Inbound:
//   - {"type": "join_queue"}
//   - {"type": "leave_queue"}
//   - {"type": "move", "x": 1, "y": 2}
//
// Outbound events wrap the orchestrator's payloads:
//   - {"type": "queue_ack", ...}
//   - {"type": "match_found", ...}
//   - {"type": "board", ...}
//   - {"type": "session_end", ...}
//   - {"type": "error", ...}
//
// Authentication:
//
// Clients authenticate at upgrade time with a signed JWT passed as the
// token query parameter (?token=...). The player_id claim identifies the
// principal; the core never sees unauthenticated connections.
//
// Connection Lifecycle:
//
// 1. Client connects and is assigned a connection handle
// 2. The orchestrator is told about the (connection, player) binding
// 3. Inbound messages are dispatched to the orchestrator one at a time
// 4. Outbound events are queued per connection and written asynchronously
// 5. Disconnection reaches the orchestrator exactly once
package websocket
