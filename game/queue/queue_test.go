package queue

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// fakeSessions reports a fixed set of players as busy in live sessions.
type fakeSessions struct {
	busy map[int64]bool
}

func (f *fakeSessions) HasPlayer(playerID int64) bool {
	return f.busy[playerID]
}

func TestQueue_Enqueue(t *testing.T) {
	t.Run("first player waits", func(t *testing.T) {
		q := New(200, nil)
		match, err := q.Enqueue(1, 1000, "c1")
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if match != nil {
			t.Fatalf("Expected no match, got %+v", match)
		}
		if q.Len() != 1 {
			t.Errorf("Expected 1 waiting player, got %d", q.Len())
		}
	})

	t.Run("double enqueue rejected", func(t *testing.T) {
		q := New(200, nil)
		if _, err := q.Enqueue(1, 1000, "c1"); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if _, err := q.Enqueue(1, 1000, "c1b"); !errors.Is(err, ErrAlreadyActive) {
			t.Errorf("Expected ErrAlreadyActive, got %v", err)
		}
		if q.Len() != 1 {
			t.Errorf("Rejected enqueue must not add an entry, len=%d", q.Len())
		}
	})

	t.Run("player in live session rejected", func(t *testing.T) {
		q := New(200, &fakeSessions{busy: map[int64]bool{7: true}})
		if _, err := q.Enqueue(7, 1000, "c7"); !errors.Is(err, ErrAlreadyActive) {
			t.Errorf("Expected ErrAlreadyActive, got %v", err)
		}
	})
}

func TestQueue_Match(t *testing.T) {
	t.Run("fifo proximity wins over recency", func(t *testing.T) {
		q := New(200, nil)
		// C queued before D; both compatible with P. P must take C.
		if _, err := q.Enqueue(2, 1050, "c2"); err != nil {
			t.Fatalf("Enqueue C failed: %v", err)
		}
		if _, err := q.Enqueue(3, 1190, "c3"); err != nil {
			t.Fatalf("Enqueue D failed: %v", err)
		}
		match, err := q.Enqueue(1, 1000, "c1")
		if err != nil {
			t.Fatalf("Enqueue P failed: %v", err)
		}
		if match == nil {
			t.Fatal("Expected a match")
		}
		if match.A.PlayerID != 1 || match.B.PlayerID != 2 {
			t.Errorf("Expected P(1) matched with C(2), got %d/%d", match.A.PlayerID, match.B.PlayerID)
		}
		// D stays queued; the matched pair is fully removed.
		if q.Len() != 1 {
			t.Errorf("Expected 1 remaining player, got %d", q.Len())
		}
	})

	t.Run("matches across adjacent buckets", func(t *testing.T) {
		q := New(200, nil)
		// 990 lives in bucket 800, 1010 in bucket 1000; 20 points apart.
		if _, err := q.Enqueue(1, 990, "c1"); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		match, err := q.Enqueue(2, 1010, "c2")
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if match == nil {
			t.Fatal("Expected cross-bucket match")
		}
	})

	t.Run("no match beyond one bucket width", func(t *testing.T) {
		q := New(200, nil)
		if _, err := q.Enqueue(1, 1000, "c1"); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		match, err := q.Enqueue(2, 1201, "c2")
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if match != nil {
			t.Fatalf("Expected no match at distance 201, got %+v", match)
		}
		if q.Len() != 2 {
			t.Errorf("Expected both players waiting, got %d", q.Len())
		}
	})

	t.Run("same bucket but out of range", func(t *testing.T) {
		// Width 200: ratings 1000 and 1210 sit in buckets 1000 and 1200,
		// adjacent, but 210 apart and therefore incompatible.
		q := New(200, nil)
		if _, err := q.Enqueue(1, 1000, "c1"); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		if match, _ := q.Enqueue(2, 1210, "c2"); match != nil {
			t.Fatalf("Expected no match, got %+v", match)
		}
	})
}

func TestQueue_Dequeue(t *testing.T) {
	q := New(200, nil)
	if _, err := q.Enqueue(1, 1000, "c1"); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if !q.Dequeue("c1") {
		t.Error("Expected Dequeue to find the entry")
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}

	// Idempotent: a second dequeue for the same connection is a no-op.
	if q.Dequeue("c1") {
		t.Error("Expected second Dequeue to return false")
	}

	// A dequeued player must no longer be matchable.
	if match, _ := q.Enqueue(2, 1000, "c2"); match != nil {
		t.Fatalf("Expected no match against dequeued player, got %+v", match)
	}
}

func TestQueue_ConcurrentChurn(t *testing.T) {
	q := New(200, nil)

	// Concurrent enqueues around one rating; every match must pair two
	// distinct players and leave no entry behind twice.
	const n = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	matched := make(map[int64]int)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := int64(i + 1)
			match, err := q.Enqueue(id, 1000+float64(i%50), fmt.Sprintf("c%d", id))
			if err != nil {
				t.Errorf("Enqueue %d failed: %v", id, err)
				return
			}
			if match != nil {
				mu.Lock()
				matched[match.A.PlayerID]++
				matched[match.B.PlayerID]++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	for id, count := range matched {
		if count != 1 {
			t.Errorf("Player %d matched %d times", id, count)
		}
	}
	if got := len(matched) + q.Len(); got != n {
		t.Errorf("Matched (%d) plus waiting (%d) players should equal %d", len(matched), q.Len(), n)
	}
}
