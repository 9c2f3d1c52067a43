// Package engine implements the rules of a single grid game.
//
// The engine package implements:
//   - Board representation and snapshots for broadcast
//   - Move validation (turn ownership, bounds, occupancy)
//   - Terminal detection: three-in-a-row wins and full-board draws
//
// Core Types:
//
// Game holds one board together with its turn state. Symbol identifies the
// two per-game markers. Outcome classifies a finished game (win, draw, or
// abandonment) and names the winning symbol where one exists.
//
// Concurrency:
//
// A Game is not safe for concurrent use. Callers that share a Game across
// goroutines must serialize access; the session package does this with a
// per-session lock.
//
// Usage:
//
//	g := engine.NewGame(engine.SymbolX)
//	if err := g.Apply(engine.SymbolX, 0, 0); err != nil {
//		log.Fatal(err)
//	}
//	if out, done := g.Terminal(); done {
//		fmt.Println(out)
//	}
package engine
