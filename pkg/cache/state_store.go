package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const statePrefix = "oauth_state:"

// StateStore keeps short-lived OAuth state nonces in Redis.
type StateStore struct {
	client *redis.Client
}

// NewStateStore wraps a Redis client for state-nonce bookkeeping.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Put stores the nonce for the given TTL.
func (s *StateStore) Put(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, statePrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

// Consume removes the nonce and reports whether it existed. A nonce is valid
// exactly once.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	deleted, err := s.client.Del(ctx, statePrefix+state).Result()
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return deleted > 0, nil
}
