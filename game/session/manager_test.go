package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/gridclash/gridclash/game/engine"
)

func newTestSession(m *Manager) *Session {
	a := Participant{PlayerID: 1, Conn: "conn-a", Symbol: engine.SymbolX}
	b := Participant{PlayerID: 2, Conn: "conn-b", Symbol: engine.SymbolO}
	return m.Create(a, b, engine.SymbolX)
}

func TestManager_Create(t *testing.T) {
	m := NewManager()
	s := newTestSession(m)

	if s.ID == "" {
		t.Fatal("Expected generated session ID")
	}
	if got, err := m.Get(s.ID); err != nil || got != s {
		t.Fatalf("Get returned (%v, %v)", got, err)
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Count())
	}
	if !m.HasPlayer(1) || !m.HasPlayer(2) {
		t.Error("Expected both players indexed")
	}
	if id, ok := m.FindByConnection("conn-b"); !ok || id != s.ID {
		t.Errorf("FindByConnection returned (%s, %v)", id, ok)
	}
}

func TestManager_Apply(t *testing.T) {
	t.Run("valid move returns snapshot", func(t *testing.T) {
		m := NewManager()
		s := newTestSession(m)

		snap, err := m.Apply(s.ID, 1, 0, 0)
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if snap.Cells[0][0] != engine.SymbolX {
			t.Error("Expected X at (0,0)")
		}
		if snap.Turn != engine.SymbolO {
			t.Errorf("Expected turn O, got %s", snap.Turn)
		}
	})

	t.Run("move by non-participant", func(t *testing.T) {
		m := NewManager()
		s := newTestSession(m)

		if _, err := m.Apply(s.ID, 99, 0, 0); !errors.Is(err, ErrNotParticipant) {
			t.Errorf("Expected ErrNotParticipant, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		m := NewManager()
		if _, err := m.Apply("nope", 1, 0, 0); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("engine errors pass through", func(t *testing.T) {
		m := NewManager()
		s := newTestSession(m)

		if _, err := m.Apply(s.ID, 2, 0, 0); !errors.Is(err, engine.ErrNotYourTurn) {
			t.Errorf("Expected ErrNotYourTurn, got %v", err)
		}
	})
}

func TestManager_Conclude(t *testing.T) {
	m := NewManager()
	s := newTestSession(m)

	// X wins the left column.
	moves := []struct {
		player int64
		x, y   int
	}{
		{1, 0, 0}, {2, 1, 0},
		{1, 0, 1}, {2, 1, 1},
		{1, 0, 2},
	}
	for _, mv := range moves {
		if _, err := m.Apply(s.ID, mv.player, mv.x, mv.y); err != nil {
			t.Fatalf("move by %d failed: %v", mv.player, err)
		}
	}

	out, done, err := m.Terminal(s.ID)
	if err != nil || !done {
		t.Fatalf("Terminal returned (%v, %v, %v)", out, done, err)
	}
	if out.Kind != engine.OutcomeWin || out.Winner != engine.SymbolX {
		t.Fatalf("Expected win for X, got %v", out)
	}

	out, ok, err := m.Conclude(s.ID)
	if err != nil || !ok {
		t.Fatalf("Conclude returned (%v, %v, %v)", out, ok, err)
	}
	if out.Winner != engine.SymbolX {
		t.Errorf("Expected X credited, got %v", out)
	}

	// Only one caller may claim the conclusion.
	if _, ok, _ := m.Conclude(s.ID); ok {
		t.Error("Expected second Conclude to return ok=false")
	}
	if _, err := m.Apply(s.ID, 2, 2, 2); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("Expected ErrSessionFinished after conclusion, got %v", err)
	}
}

func TestManager_Abandon(t *testing.T) {
	t.Run("remaining participant credited", func(t *testing.T) {
		m := NewManager()
		s := newTestSession(m)

		out, err := m.Abandon(s.ID, "conn-a")
		if err != nil {
			t.Fatalf("Abandon failed: %v", err)
		}
		if out.Kind != engine.OutcomeAbandoned || out.Winner != engine.SymbolO {
			t.Errorf("Expected abandonment won by O, got %v", out)
		}
	})

	t.Run("abandon happens at most once", func(t *testing.T) {
		m := NewManager()
		s := newTestSession(m)

		if _, err := m.Abandon(s.ID, "conn-a"); err != nil {
			t.Fatalf("Abandon failed: %v", err)
		}
		if _, err := m.Abandon(s.ID, "conn-b"); !errors.Is(err, ErrSessionFinished) {
			t.Errorf("Expected ErrSessionFinished, got %v", err)
		}
	})

	t.Run("foreign connection rejected", func(t *testing.T) {
		m := NewManager()
		s := newTestSession(m)

		if _, err := m.Abandon(s.ID, "conn-z"); !errors.Is(err, ErrNotParticipant) {
			t.Errorf("Expected ErrNotParticipant, got %v", err)
		}
	})
}

func TestManager_Remove(t *testing.T) {
	m := NewManager()
	s := newTestSession(m)

	m.Remove(s.ID)

	if _, err := m.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if m.HasPlayer(1) || m.HasPlayer(2) {
		t.Error("Expected player indexes cleared")
	}
	if _, ok := m.FindByConnection("conn-a"); ok {
		t.Error("Expected connection index cleared")
	}

	// Removing twice is a no-op.
	m.Remove(s.ID)
}

func TestManager_ConcurrentMoves(t *testing.T) {
	m := NewManager()
	s := newTestSession(m)

	// Fire both players' opening claims for the same cell concurrently.
	// Exactly one must land; the other fails with turn or occupancy errors.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, player := range []int64{1, 2} {
		wg.Add(1)
		go func(i int, player int64) {
			defer wg.Done()
			_, errs[i] = m.Apply(s.ID, player, 1, 1)
		}(i, player)
	}
	wg.Wait()

	var accepted int
	for _, err := range errs {
		if err == nil {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("Expected exactly one accepted move, got %d (errs: %v)", accepted, errs)
	}
}
