package service

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gridclash/gridclash/broker"
	"github.com/gridclash/gridclash/game/engine"
	"github.com/gridclash/gridclash/game/queue"
	"github.com/gridclash/gridclash/game/rating"
	"github.com/gridclash/gridclash/game/session"
	"github.com/gridclash/gridclash/metrics"
	"github.com/gridclash/gridclash/store"
)

// orchestrator implements the Orchestrator interface.
type orchestrator struct {
	queue    *queue.Queue
	sessions *session.Manager
	ratings  store.RatingStore
	results  store.ResultStore
	events   broker.Publisher
	topic    string
	notify   Notifier

	mu      sync.RWMutex
	players map[string]int64
}

// NewOrchestrator wires the core components to their collaborators.
func NewOrchestrator(q *queue.Queue, sm *session.Manager, st store.Store, events broker.Publisher, topic string, notify Notifier) Orchestrator {
	return &orchestrator{
		queue:    q,
		sessions: sm,
		ratings:  st,
		results:  st,
		events:   events,
		topic:    topic,
		notify:   notify,
		players:  make(map[string]int64),
	}
}

// Connect binds the authenticated player to the connection. The transport
// has already verified the principal; nothing else happens on connect.
func (o *orchestrator) Connect(ctx context.Context, conn string, playerID int64) {
	o.mu.Lock()
	o.players[conn] = playerID
	o.mu.Unlock()
}

// JoinQueue fetches the player's current rating and enqueues them. When the
// enqueue finds a compatible candidate, a session is created and both
// connections are notified; otherwise the requester gets an acknowledgment.
func (o *orchestrator) JoinQueue(ctx context.Context, conn string) {
	playerID, ok := o.playerFor(conn)
	if !ok {
		o.notify.QueueAck(conn, false, CodeInternal)
		return
	}

	current, err := o.ratings.GetRating(ctx, playerID)
	if err != nil {
		// Display-grade lookup failure: fall back to the default rather
		// than refusing the enqueue.
		log.Printf("rating lookup for player %d failed: %v", playerID, err)
		current = rating.Default
	}

	match, err := o.queue.Enqueue(playerID, current, conn)
	if err != nil {
		o.notify.QueueAck(conn, false, CodeAlreadyQueued)
		return
	}

	metrics.PlayersQueued.Set(float64(o.queue.Len()))

	if match == nil {
		o.notify.QueueAck(conn, true, "")
		o.publishSnapshot(ctx)
		return
	}
	o.startSession(ctx, match)
}

// LeaveQueue removes the connection's queue entry. Leaving when not queued
// is acknowledged as well: the end state is the same.
func (o *orchestrator) LeaveQueue(ctx context.Context, conn string) {
	o.queue.Dequeue(conn)
	metrics.PlayersQueued.Set(float64(o.queue.Len()))
	o.notify.QueueAck(conn, true, "")
	o.publishSnapshot(ctx)
}

// Move applies one move for the connection's session. Failures go back to
// the requester only; accepted moves are broadcast to both participants,
// followed by the end-of-session sequence when the move concluded the game.
func (o *orchestrator) Move(ctx context.Context, conn string, x, y int) {
	id, ok := o.sessions.FindByConnection(conn)
	if !ok {
		metrics.MoveRejections.WithLabelValues(CodeNoSuchSession).Inc()
		o.notify.Error(conn, CodeNoSuchSession, "no active session for this connection")
		return
	}
	playerID, ok := o.playerFor(conn)
	if !ok {
		o.notify.Error(conn, CodeInternal, "connection has no bound player")
		return
	}

	snap, err := o.sessions.Apply(id, playerID, x, y)
	if err != nil {
		code := moveErrorCode(err)
		metrics.MoveRejections.WithLabelValues(code).Inc()
		o.notify.Error(conn, code, err.Error())
		if errors.Is(err, session.ErrNotParticipant) {
			// The connection index says this player belongs to the session
			// but the session disagrees. Tear the session down rather than
			// leave it inconsistent.
			log.Printf("invariant violation: player %d indexed to session %s but not a participant; removing session", playerID, id)
			o.sessions.Remove(id)
		}
		return
	}

	metrics.MovesTotal.Inc()

	s, err := o.sessions.Get(id)
	if err != nil {
		// Session concluded and was removed by a racing event after our
		// move landed; the final broadcast already covered it.
		return
	}
	update := BoardUpdate{SessionID: id, Board: snap}
	for _, p := range s.Participants() {
		o.notify.Board(p.Conn, update)
	}

	out, claimed, err := o.sessions.Conclude(id)
	if err != nil || !claimed {
		return
	}
	o.finishSession(ctx, s, out)
}

// Disconnect cancels any queue entry for the connection and abandons any
// active session it participated in, crediting the remaining player.
func (o *orchestrator) Disconnect(ctx context.Context, conn string) {
	o.mu.Lock()
	delete(o.players, conn)
	o.mu.Unlock()

	if o.queue.Dequeue(conn) {
		metrics.PlayersQueued.Set(float64(o.queue.Len()))
	}

	id, ok := o.sessions.FindByConnection(conn)
	if !ok {
		o.publishSnapshot(ctx)
		return
	}

	out, err := o.sessions.Abandon(id, conn)
	if err != nil {
		// Already finished or already torn down: the first event won.
		o.publishSnapshot(ctx)
		return
	}

	s, err := o.sessions.Get(id)
	if err != nil {
		return
	}
	o.finishSession(ctx, s, out)
}

// startSession creates a session for a matched pair and notifies both
// players. The most recently enqueued player takes X; the starting symbol
// is chosen uniformly at random.
func (o *orchestrator) startSession(ctx context.Context, match *queue.Match) {
	a := session.Participant{PlayerID: match.A.PlayerID, Conn: match.A.Conn, Symbol: engine.SymbolX}
	b := session.Participant{PlayerID: match.B.PlayerID, Conn: match.B.Conn, Symbol: engine.SymbolO}

	starting := engine.SymbolX
	if rand.IntN(2) == 1 {
		starting = engine.SymbolO
	}

	s := o.sessions.Create(a, b, starting)

	metrics.MatchesTotal.Inc()
	metrics.ActiveSessions.Set(float64(o.sessions.Count()))

	o.notify.MatchFound(a.Conn, MatchInfo{
		SessionID: s.ID,
		Symbol:    a.Symbol,
		Opponent:  OpponentInfo{PlayerID: b.PlayerID, Rating: match.B.Rating},
		Starting:  starting,
	})
	o.notify.MatchFound(b.Conn, MatchInfo{
		SessionID: s.ID,
		Symbol:    b.Symbol,
		Opponent:  OpponentInfo{PlayerID: a.PlayerID, Rating: match.A.Rating},
		Starting:  starting,
	})

	o.publishSnapshot(ctx)
}

// finishSession propagates a claimed terminal outcome: rating updates,
// durable result record, end notifications, teardown, observability. The
// caller holds no locks; every step here may do I/O.
func (o *orchestrator) finishSession(ctx context.Context, s *session.Session, out engine.Outcome) {
	beforeA, err := o.ratings.GetRating(ctx, s.A.PlayerID)
	if err != nil {
		log.Printf("rating lookup for player %d failed: %v", s.A.PlayerID, err)
		beforeA = rating.Default
	}
	beforeB, err := o.ratings.GetRating(ctx, s.B.PlayerID)
	if err != nil {
		log.Printf("rating lookup for player %d failed: %v", s.B.PlayerID, err)
		beforeB = rating.Default
	}

	scoreA := rating.ScoreDraw
	var winnerID int64
	if out.Kind != engine.OutcomeDraw {
		if out.Winner == s.A.Symbol {
			scoreA = rating.ScoreWin
			winnerID = s.A.PlayerID
		} else {
			scoreA = rating.ScoreLoss
			winnerID = s.B.PlayerID
		}
	}
	afterA, afterB := rating.Pair(beforeA, beforeB, scoreA)

	if err := o.ratings.SetRating(ctx, s.A.PlayerID, afterA); err != nil {
		log.Printf("failed to persist rating for player %d: %v", s.A.PlayerID, err)
	}
	if err := o.ratings.SetRating(ctx, s.B.PlayerID, afterB); err != nil {
		log.Printf("failed to persist rating for player %d: %v", s.B.PlayerID, err)
	}

	result := store.Result{
		SessionID:     s.ID,
		PlayerA:       s.A.PlayerID,
		RatingABefore: beforeA,
		RatingAAfter:  afterA,
		PlayerB:       s.B.PlayerID,
		RatingBBefore: beforeB,
		RatingBAfter:  afterB,
		Outcome:       out.String(),
	}
	if err := o.results.RecordResult(ctx, result); err != nil {
		log.Printf("failed to record result for session %s: %v", s.ID, err)
	}

	end := EndInfo{
		SessionID: s.ID,
		Outcome:   out.String(),
		WinnerID:  winnerID,
		Ratings: [2]PlayerRating{
			{PlayerID: s.A.PlayerID, Rating: afterA},
			{PlayerID: s.B.PlayerID, Rating: afterB},
		},
	}
	for _, p := range s.Participants() {
		o.notify.SessionEnd(p.Conn, end)
	}

	o.sessions.Remove(s.ID)
	metrics.ActiveSessions.Set(float64(o.sessions.Count()))
	metrics.SessionsEnded.WithLabelValues(outcomeLabel(out)).Inc()

	if err := o.events.Publish(ctx, o.topic, broker.Event{
		Type:      broker.EventSessionResult,
		SessionID: s.ID,
		Payload:   result,
		Timestamp: time.Now(),
	}); err != nil {
		log.Printf("failed to publish result event for session %s: %v", s.ID, err)
	}
	o.publishSnapshot(ctx)
}

// publishSnapshot emits a read-only queue/session snapshot for
// observability. Best-effort: failure is logged and never affects the
// mutation that triggered it.
func (o *orchestrator) publishSnapshot(ctx context.Context) {
	err := o.events.Publish(ctx, o.topic, broker.Event{
		Type: broker.EventSnapshot,
		Payload: map[string]int{
			"players_queued":  o.queue.Len(),
			"active_sessions": o.sessions.Count(),
		},
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("failed to publish snapshot event: %v", err)
	}
}

func (o *orchestrator) playerFor(conn string) (int64, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	playerID, ok := o.players[conn]
	return playerID, ok
}

// moveErrorCode maps core errors to the codes reported to clients.
func moveErrorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return CodeNoSuchSession
	case errors.Is(err, session.ErrSessionFinished), errors.Is(err, engine.ErrGameOver):
		return CodeSessionFinished
	case errors.Is(err, engine.ErrNotYourTurn):
		return CodeNotYourTurn
	case errors.Is(err, engine.ErrOutOfBounds):
		return CodeOutOfBounds
	case errors.Is(err, engine.ErrCellOccupied):
		return CodeCellOccupied
	}
	return CodeInternal
}

func outcomeLabel(out engine.Outcome) string {
	switch out.Kind {
	case engine.OutcomeWin:
		return "win"
	case engine.OutcomeDraw:
		return "draw"
	case engine.OutcomeAbandoned:
		return "abandoned"
	}
	return "unknown"
}
