package engine

import (
	"errors"
	"testing"
)

// playMoves applies a scripted sequence of (symbol, x, y) moves, failing the
// test on any rejection.
func playMoves(t *testing.T, g *Game, moves [][3]int) {
	t.Helper()
	for i, m := range moves {
		if err := g.Apply(Symbol(m[0]), m[1], m[2]); err != nil {
			t.Fatalf("move %d (%v) rejected: %v", i, m, err)
		}
	}
}

func TestGame_Apply(t *testing.T) {
	t.Run("valid move flips turn", func(t *testing.T) {
		g := NewGame(SymbolX)
		if err := g.Apply(SymbolX, 1, 1); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if g.Turn() != SymbolO {
			t.Errorf("Expected turn O after X moves, got %s", g.Turn())
		}
	})

	t.Run("same cell retried fails with occupied", func(t *testing.T) {
		g := NewGame(SymbolX)
		if err := g.Apply(SymbolX, 1, 1); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if err := g.Apply(SymbolO, 1, 1); !errors.Is(err, ErrCellOccupied) {
			t.Errorf("Expected ErrCellOccupied, got %v", err)
		}
	})

	t.Run("out of turn rejected", func(t *testing.T) {
		g := NewGame(SymbolX)
		if err := g.Apply(SymbolO, 0, 0); !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("Expected ErrNotYourTurn, got %v", err)
		}
	})

	t.Run("bounds checked", func(t *testing.T) {
		g := NewGame(SymbolX)
		cases := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}}
		for _, c := range cases {
			if err := g.Apply(SymbolX, c[0], c[1]); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("Expected ErrOutOfBounds for (%d,%d), got %v", c[0], c[1], err)
			}
		}
	})

	t.Run("no moves after terminal", func(t *testing.T) {
		g := NewGame(SymbolX)
		// X takes the top row, O plays filler.
		playMoves(t, g, [][3]int{
			{int(SymbolX), 0, 0}, {int(SymbolO), 0, 1},
			{int(SymbolX), 1, 0}, {int(SymbolO), 1, 1},
			{int(SymbolX), 2, 0},
		})
		if err := g.Apply(SymbolO, 2, 1); !errors.Is(err, ErrGameOver) {
			t.Errorf("Expected ErrGameOver, got %v", err)
		}
	})
}

func TestGame_Terminal(t *testing.T) {
	t.Run("detects all eight lines", func(t *testing.T) {
		lines := [][3][2]int{
			{{0, 0}, {1, 0}, {2, 0}}, // rows
			{{0, 1}, {1, 1}, {2, 1}},
			{{0, 2}, {1, 2}, {2, 2}},
			{{0, 0}, {0, 1}, {0, 2}}, // columns
			{{1, 0}, {1, 1}, {1, 2}},
			{{2, 0}, {2, 1}, {2, 2}},
			{{0, 0}, {1, 1}, {2, 2}}, // diagonals
			{{2, 0}, {1, 1}, {0, 2}},
		}
		for i, line := range lines {
			g := NewGame(SymbolX)
			for _, cell := range line {
				g.board[cell[1]][cell[0]] = SymbolX
			}
			out, done := g.Terminal()
			if !done {
				t.Errorf("line %d: expected terminal", i)
				continue
			}
			if out.Kind != OutcomeWin || out.Winner != SymbolX {
				t.Errorf("line %d: expected WinFor(X), got %v", i, out)
			}
		}
	})

	t.Run("full board without line is a draw", func(t *testing.T) {
		g := NewGame(SymbolX)
		// X O X / X O O / O X X — no three-in-a-row anywhere.
		g.board = Board{
			{SymbolX, SymbolO, SymbolX},
			{SymbolX, SymbolO, SymbolO},
			{SymbolO, SymbolX, SymbolX},
		}
		out, done := g.Terminal()
		if !done {
			t.Fatal("Expected terminal on a full board")
		}
		if out.Kind != OutcomeDraw {
			t.Errorf("Expected draw, got %v", out)
		}
	})

	t.Run("in-progress board is not terminal", func(t *testing.T) {
		g := NewGame(SymbolX)
		playMoves(t, g, [][3]int{
			{int(SymbolX), 0, 0}, {int(SymbolO), 1, 1},
		})
		if _, done := g.Terminal(); done {
			t.Error("Expected game still in progress")
		}
	})
}

func TestGame_Snapshot(t *testing.T) {
	g := NewGame(SymbolO)
	if err := g.Apply(SymbolO, 2, 2); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	snap := g.Snapshot()
	if snap.Cells[2][2] != SymbolO {
		t.Errorf("Snapshot missing applied move")
	}
	if snap.Turn != SymbolX {
		t.Errorf("Snapshot turn expected X, got %s", snap.Turn)
	}
	// Snapshots must be copies: mutating the game afterwards must not
	// change an already-taken snapshot.
	if err := g.Apply(SymbolX, 0, 0); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if snap.Cells[0][0] != SymbolNone {
		t.Error("Snapshot aliased live board state")
	}
}
