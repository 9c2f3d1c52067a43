// Package store defines the persistence collaborators the orchestrator
// talks to: the rating store for current skill ratings and the result store
// for the durable record of concluded sessions. The core never owns durable
// state; implementations here back the contracts with memory (tests,
// single-node runs) or Redis.
package store

import "context"

// Result is the durable record of one concluded session.
type Result struct {
	SessionID     string  `json:"session_id"`
	PlayerA       int64   `json:"player_a"`
	RatingABefore float64 `json:"rating_a_before"`
	RatingAAfter  float64 `json:"rating_a_after"`
	PlayerB       int64   `json:"player_b"`
	RatingBBefore float64 `json:"rating_b_before"`
	RatingBAfter  float64 `json:"rating_b_after"`
	Outcome       string  `json:"outcome"`
}

// RatingStore holds current ratings keyed by player. GetRating returns the
// default rating, not an error, for players with no history.
type RatingStore interface {
	GetRating(ctx context.Context, playerID int64) (float64, error)
	SetRating(ctx context.Context, playerID int64, value float64) error
}

// ResultStore appends concluded-session records.
type ResultStore interface {
	RecordResult(ctx context.Context, r Result) error
}

// Store combines both collaborator roles; the provided backends implement
// it in full.
type Store interface {
	RatingStore
	ResultStore
}
