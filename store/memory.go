package store

import (
	"context"
	"sync"

	"github.com/gridclash/gridclash/game/rating"
)

// Memory is an in-process Store used for tests and single-node runs without
// external infrastructure.
type Memory struct {
	mu      sync.RWMutex
	ratings map[int64]float64
	results []Result
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		ratings: make(map[int64]float64),
	}
}

// GetRating returns the stored rating, or the default for unknown players.
func (m *Memory) GetRating(ctx context.Context, playerID int64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if r, ok := m.ratings[playerID]; ok {
		return r, nil
	}
	return rating.Default, nil
}

// SetRating stores the player's revised rating.
func (m *Memory) SetRating(ctx context.Context, playerID int64, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ratings[playerID] = value
	return nil
}

// RecordResult appends one concluded-session record.
func (m *Memory) RecordResult(ctx context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, r)
	return nil
}

// Results returns a copy of all recorded results, oldest first.
func (m *Memory) Results() []Result {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Result, len(m.results))
	copy(out, m.results)
	return out
}
