package engine

import "errors"

var (
	ErrNotYourTurn  = errors.New("not your turn")
	ErrOutOfBounds  = errors.New("move out of bounds")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrGameOver     = errors.New("game already over")
)

// Game holds the board and turn state for one match. It is mutated only
// through Apply; all other methods are reads.
type Game struct {
	board    Board
	turn     Symbol
	starting Symbol
}

// NewGame creates an empty board with the given symbol to move first.
func NewGame(starting Symbol) *Game {
	return &Game{
		turn:     starting,
		starting: starting,
	}
}

// Turn returns the symbol whose move is expected next.
func (g *Game) Turn() Symbol {
	return g.turn
}

// Starting returns the symbol that moved first.
func (g *Game) Starting() Symbol {
	return g.starting
}

// Apply validates and applies one move. On success the cell is claimed and
// the turn flips to the other symbol. The board is left untouched on any
// error.
func (g *Game) Apply(sym Symbol, x, y int) error {
	if _, done := g.Terminal(); done {
		return ErrGameOver
	}
	if sym != g.turn {
		return ErrNotYourTurn
	}
	if x < 0 || x >= BoardSize || y < 0 || y >= BoardSize {
		return ErrOutOfBounds
	}
	if g.board[y][x] != SymbolNone {
		return ErrCellOccupied
	}

	g.board[y][x] = sym
	g.turn = sym.Other()
	return nil
}

// Terminal reports whether the game has concluded on the board alone.
// Abandonment is not the board's concern and is classified by the caller.
func (g *Game) Terminal() (Outcome, bool) {
	if winner := g.winner(); winner != SymbolNone {
		return Outcome{Kind: OutcomeWin, Winner: winner}, true
	}
	if g.full() {
		return Outcome{Kind: OutcomeDraw}, true
	}
	return Outcome{}, false
}

// Snapshot returns a copy of the visible state for broadcast.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Cells: g.board,
		Turn:  g.turn,
	}
}

// winner scans the three rows, three columns, and two diagonals for three
// identical non-empty symbols.
func (g *Game) winner() Symbol {
	b := &g.board
	for i := 0; i < BoardSize; i++ {
		if b[i][0] != SymbolNone && b[i][0] == b[i][1] && b[i][1] == b[i][2] {
			return b[i][0]
		}
		if b[0][i] != SymbolNone && b[0][i] == b[1][i] && b[1][i] == b[2][i] {
			return b[0][i]
		}
	}
	if b[0][0] != SymbolNone && b[0][0] == b[1][1] && b[1][1] == b[2][2] {
		return b[0][0]
	}
	if b[0][2] != SymbolNone && b[0][2] == b[1][1] && b[1][1] == b[2][0] {
		return b[0][2]
	}
	return SymbolNone
}

func (g *Game) full() bool {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if g.board[y][x] == SymbolNone {
				return false
			}
		}
	}
	return true
}
