// Package session manages the set of live game sessions.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Move application against the owning session's board
//   - Terminal detection and single-claim conclusion
//   - Abandonment on participant disconnect
//   - Lookup indexes by connection and by player
//
// Concurrency:
//
// The registry maps are guarded by one RWMutex; each session additionally
// carries its own lock that serializes move application, conclusion, and
// abandonment for that session only. Unrelated sessions never contend.
// Nothing in this package performs I/O while holding either lock.
//
// Lifecycle:
//
// Sessions are created by the orchestrator when the matchmaking queue pairs
// two players and removed by the orchestrator once the terminal outcome has
// been fully propagated. The manager itself never destroys a session.
package session
