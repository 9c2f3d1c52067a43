package engine

import "encoding/json"

// BoardSize is the side length of the square board.
const BoardSize = 3

// Symbol identifies one of the two per-game markers. The zero value means
// an empty cell.
type Symbol uint8

const (
	SymbolNone Symbol = iota
	SymbolX
	SymbolO
)

// Other returns the opposing symbol. Calling it on SymbolNone returns
// SymbolNone.
func (s Symbol) Other() Symbol {
	switch s {
	case SymbolX:
		return SymbolO
	case SymbolO:
		return SymbolX
	}
	return SymbolNone
}

func (s Symbol) String() string {
	switch s {
	case SymbolX:
		return "X"
	case SymbolO:
		return "O"
	}
	return ""
}

// MarshalJSON encodes symbols as "X", "O", or "" so board snapshots are
// readable on the wire.
func (s Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Symbol) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v {
	case "X":
		*s = SymbolX
	case "O":
		*s = SymbolO
	default:
		*s = SymbolNone
	}
	return nil
}

// Board is the playing grid. Empty cells hold SymbolNone.
type Board [BoardSize][BoardSize]Symbol

// OutcomeKind classifies a finished game.
type OutcomeKind uint8

const (
	OutcomeWin OutcomeKind = iota + 1
	OutcomeDraw
	OutcomeAbandoned
)

// Outcome is the terminal classification of a game. Winner is set for wins
// and for abandonments (the remaining player is credited the win); it is
// SymbolNone for draws.
type Outcome struct {
	Kind   OutcomeKind
	Winner Symbol
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeWin:
		return "win_" + o.Winner.String()
	case OutcomeDraw:
		return "draw"
	case OutcomeAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Snapshot is a copy of the visible game state, safe to hand to transports
// after the originating lock has been released.
type Snapshot struct {
	Cells Board  `json:"cells"`
	Turn  Symbol `json:"turn"`
}
