package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/gridclash/gridclash/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFinished = errors.New("session already finished")
	ErrNotParticipant  = errors.New("player is not a participant of this session")
)

// Participant binds a player and their live connection to the symbol they
// play for the lifetime of one session.
type Participant struct {
	PlayerID int64
	Conn     string
	Symbol   engine.Symbol
}

// Session is one live two-player game. The registry hands out pointers, but
// all mutation goes through Manager methods, which take the session lock.
type Session struct {
	ID string
	A  Participant
	B  Participant

	mu       sync.Mutex
	game     *engine.Game
	finished bool
}

// Participants returns both participants, A first.
func (s *Session) Participants() [2]Participant {
	return [2]Participant{s.A, s.B}
}

// ParticipantBySymbol resolves a symbol to its participant.
func (s *Session) ParticipantBySymbol(sym engine.Symbol) (Participant, bool) {
	switch sym {
	case s.A.Symbol:
		return s.A, true
	case s.B.Symbol:
		return s.B, true
	}
	return Participant{}, false
}

// Starting returns the symbol that moves first.
func (s *Session) Starting() engine.Symbol {
	return s.game.Starting()
}

// symbolOf resolves a player to the symbol they own in this session.
func (s *Session) symbolOf(playerID int64) (engine.Symbol, bool) {
	switch playerID {
	case s.A.PlayerID:
		return s.A.Symbol, true
	case s.B.PlayerID:
		return s.B.Symbol, true
	}
	return engine.SymbolNone, false
}

// Manager owns the live session registry.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byConn   map[string]string
	byPlayer map[int64]string
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		byConn:   make(map[string]string),
		byPlayer: make(map[int64]string),
	}
}

// Create registers a new session between two symbol-assigned participants
// with the given starting symbol. The session ID is a fresh UUID.
func (m *Manager) Create(a, b Participant, starting engine.Symbol) *Session {
	s := &Session{
		ID:   uuid.NewString(),
		A:    a,
		B:    b,
		game: engine.NewGame(starting),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s
	m.byConn[a.Conn] = s.ID
	m.byConn[b.Conn] = s.ID
	m.byPlayer[a.PlayerID] = s.ID
	m.byPlayer[b.PlayerID] = s.ID

	return s
}

// Get retrieves a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Apply validates and applies one move for the given player, returning the
// resulting board snapshot for broadcast. The session lock serializes moves
// for this session; a concurrent move by the other participant either lands
// before this one or is rejected as out of turn.
func (m *Manager) Apply(id string, playerID int64, x, y int) (engine.Snapshot, error) {
	s, err := m.Get(id)
	if err != nil {
		return engine.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return engine.Snapshot{}, ErrSessionFinished
	}
	sym, ok := s.symbolOf(playerID)
	if !ok {
		return engine.Snapshot{}, ErrNotParticipant
	}
	if err := s.game.Apply(sym, x, y); err != nil {
		return engine.Snapshot{}, err
	}
	return s.game.Snapshot(), nil
}

// Terminal reports the session's board outcome without claiming it. It is a
// pure read; callers propagating a conclusion should use Conclude, which
// guarantees single delivery.
func (m *Manager) Terminal(id string) (engine.Outcome, bool, error) {
	s, err := m.Get(id)
	if err != nil {
		return engine.Outcome{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, done := s.game.Terminal()
	return out, done, nil
}

// Conclude claims the session's terminal outcome if the board has reached
// one. It returns ok=true for exactly one caller; once claimed, the session
// accepts no further moves and later Conclude calls return ok=false. This
// keeps rating updates single-shot even when both participants' final moves
// race their terminal checks.
func (m *Manager) Conclude(id string) (engine.Outcome, bool, error) {
	s, err := m.Get(id)
	if err != nil {
		return engine.Outcome{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return engine.Outcome{}, false, nil
	}
	out, done := s.game.Terminal()
	if !done {
		return engine.Outcome{}, false, nil
	}
	s.finished = true
	return out, true, nil
}

// Abandon concludes an active session because the given connection dropped,
// crediting the remaining participant with the win. A second abandonment or
// an abandonment after a normal conclusion returns ErrSessionFinished.
func (m *Manager) Abandon(id string, conn string) (engine.Outcome, error) {
	s, err := m.Get(id)
	if err != nil {
		return engine.Outcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return engine.Outcome{}, ErrSessionFinished
	}

	var winner engine.Symbol
	switch conn {
	case s.A.Conn:
		winner = s.B.Symbol
	case s.B.Conn:
		winner = s.A.Symbol
	default:
		return engine.Outcome{}, ErrNotParticipant
	}

	s.finished = true
	return engine.Outcome{Kind: engine.OutcomeAbandoned, Winner: winner}, nil
}

// FindByConnection returns the ID of the session the connection belongs to.
func (m *Manager) FindByConnection(conn string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byConn[conn]
	return id, ok
}

// HasPlayer reports whether the player participates in any live session.
// The matchmaking queue consults this before accepting an enqueue.
func (m *Manager) HasPlayer(playerID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byPlayer[playerID]
	return ok
}

// Remove tears down a session and its indexes. Invoked by the orchestrator
// only after the terminal outcome has been fully propagated.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return
	}
	delete(m.sessions, id)
	delete(m.byConn, s.A.Conn)
	delete(m.byConn, s.B.Conn)
	delete(m.byPlayer, s.A.PlayerID)
	delete(m.byPlayer, s.B.PlayerID)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
