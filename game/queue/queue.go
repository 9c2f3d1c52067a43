package queue

import (
	"errors"
	"math"
	"sync"
)

// ErrAlreadyActive rejects an enqueue for a player who is already waiting
// in the queue or playing in a live session. Recoverable: the orchestrator
// reports it to the requesting connection.
var ErrAlreadyActive = errors.New("player already queued or in a live session")

// DefaultBucketWidth is the rating span of one bucket and the maximum
// rating distance between matched players.
const DefaultBucketWidth = 200

// SessionLookup answers whether a player is occupied by a live session.
// Satisfied by *session.Manager.
type SessionLookup interface {
	HasPlayer(playerID int64) bool
}

// Entry is one waiting player.
type Entry struct {
	PlayerID int64
	Rating   float64
	Conn     string
}

// Match is a compatible pair found during enqueue. A is the player whose
// enqueue triggered the match, B the candidate that was already waiting.
type Match struct {
	A Entry
	B Entry
}

// Queue holds waiting players bucketed by rating. The entry map is
// authoritative; buckets are only a search index and are maintained in
// insertion order.
type Queue struct {
	mu       sync.Mutex
	width    float64
	entries  map[int64]*Entry
	byConn   map[string]int64
	buckets  map[int][]*Entry
	sessions SessionLookup
}

// New creates an empty queue. A non-positive width falls back to
// DefaultBucketWidth.
func New(width float64, sessions SessionLookup) *Queue {
	if width <= 0 {
		width = DefaultBucketWidth
	}
	return &Queue{
		width:    width,
		entries:  make(map[int64]*Entry),
		byConn:   make(map[string]int64),
		buckets:  make(map[int][]*Entry),
		sessions: sessions,
	}
}

// Enqueue adds a waiting player and immediately attempts a match. It
// returns a non-nil Match when a compatible candidate was found, in which
// case both players have already been removed from the queue. Insert,
// search, and pair removal form one critical section.
func (q *Queue) Enqueue(playerID int64, ratingValue float64, conn string) (*Match, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, queued := q.entries[playerID]; queued {
		return nil, ErrAlreadyActive
	}
	if q.sessions != nil && q.sessions.HasPlayer(playerID) {
		return nil, ErrAlreadyActive
	}

	e := &Entry{PlayerID: playerID, Rating: ratingValue, Conn: conn}
	key := q.bucketKey(ratingValue)
	q.entries[playerID] = e
	q.byConn[conn] = playerID
	q.buckets[key] = append(q.buckets[key], e)

	cand := q.findCandidate(e, key)
	if cand == nil {
		return nil, nil
	}

	q.removeLocked(e)
	q.removeLocked(cand)
	return &Match{A: *e, B: *cand}, nil
}

// Dequeue removes the entry owned by the given connection. It returns false
// when no entry exists, which is a no-op rather than an error: disconnects
// and explicit leaves are delivered regardless of queue membership.
func (q *Queue) Dequeue(conn string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	playerID, ok := q.byConn[conn]
	if !ok {
		return false
	}
	q.removeLocked(q.entries[playerID])
	return true
}

// Len returns the number of waiting players.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// findCandidate scans the neighbor-below, own, and neighbor-above buckets
// in that order, oldest entry first, and returns the first entry other than
// e within one bucket width of e's rating.
func (q *Queue) findCandidate(e *Entry, key int) *Entry {
	w := int(q.width)
	for _, k := range [3]int{key - w, key, key + w} {
		for _, cand := range q.buckets[k] {
			if cand.PlayerID == e.PlayerID {
				continue
			}
			if math.Abs(cand.Rating-e.Rating) <= q.width {
				return cand
			}
		}
	}
	return nil
}

// removeLocked drops an entry from the map and its bucket together, so
// bucket membership is never orphaned. Caller holds q.mu.
func (q *Queue) removeLocked(e *Entry) {
	delete(q.entries, e.PlayerID)
	delete(q.byConn, e.Conn)

	key := q.bucketKey(e.Rating)
	bucket := q.buckets[key]
	for i, cand := range bucket {
		if cand.PlayerID == e.PlayerID {
			q.buckets[key] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(q.buckets[key]) == 0 {
		delete(q.buckets, key)
	}
}

func (q *Queue) bucketKey(ratingValue float64) int {
	return int(math.Floor(ratingValue/q.width) * q.width)
}
