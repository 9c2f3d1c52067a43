package service

import "github.com/gridclash/gridclash/game/engine"

// OpponentInfo describes the matched opponent for display purposes.
type OpponentInfo struct {
	PlayerID int64   `json:"player_id"`
	Rating   float64 `json:"rating"`
}

// MatchInfo tells one player that a session has started.
type MatchInfo struct {
	SessionID string        `json:"session_id"`
	Symbol    engine.Symbol `json:"symbol"`
	Opponent  OpponentInfo  `json:"opponent"`
	Starting  engine.Symbol `json:"starting"`
}

// BoardUpdate carries the board after an accepted move.
type BoardUpdate struct {
	SessionID string          `json:"session_id"`
	Board     engine.Snapshot `json:"board"`
}

// PlayerRating is one participant's revised rating at session end.
type PlayerRating struct {
	PlayerID int64   `json:"player_id"`
	Rating   float64 `json:"rating"`
}

// EndInfo announces a session's terminal outcome to both participants.
// WinnerID is zero for draws.
type EndInfo struct {
	SessionID string          `json:"session_id"`
	Outcome   string          `json:"outcome"`
	WinnerID  int64           `json:"winner_id,omitempty"`
	Ratings   [2]PlayerRating `json:"ratings"`
}

// Error codes reported back to the originating connection. These cover the
// user-recoverable error class only; everything else is logged server-side.
const (
	CodeAlreadyQueued   = "already_queued"
	CodeNoSuchSession   = "no_such_session"
	CodeNotYourTurn     = "not_your_turn"
	CodeOutOfBounds     = "out_of_bounds"
	CodeCellOccupied    = "cell_occupied"
	CodeSessionFinished = "session_finished"
	CodeInternal        = "internal"
)
