package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gridclash/gridclash/game/rating"
)

const (
	ratingKeyPrefix = "gridclash:rating:"
	resultsKey      = "gridclash:results"

	redisPingTimeout = 5 * time.Second
)

// Redis backs the Store contracts with a Redis instance. Ratings live as
// plain string values under one key per player; results are appended to a
// list as JSON.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the given Redis URL and verifies the connection with
// a ping before returning.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{client: client}, nil
}

// GetRating returns the stored rating, or the default when the player has
// no key yet.
func (s *Redis) GetRating(ctx context.Context, playerID int64) (float64, error) {
	val, err := s.client.Get(ctx, ratingKey(playerID)).Float64()
	if err == redis.Nil {
		return rating.Default, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get rating for %d: %w", playerID, err)
	}
	return val, nil
}

// SetRating stores the player's revised rating.
func (s *Redis) SetRating(ctx context.Context, playerID int64, value float64) error {
	if err := s.client.Set(ctx, ratingKey(playerID), value, 0).Err(); err != nil {
		return fmt.Errorf("set rating for %d: %w", playerID, err)
	}
	return nil
}

// RecordResult appends one concluded-session record to the results list.
func (s *Redis) RecordResult(ctx context.Context, r Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.client.RPush(ctx, resultsKey, data).Err(); err != nil {
		return fmt.Errorf("record result for session %s: %w", r.SessionID, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Redis) Close() error {
	return s.client.Close()
}

func ratingKey(playerID int64) string {
	return fmt.Sprintf("%s%d", ratingKeyPrefix, playerID)
}
