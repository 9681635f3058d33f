package redis

import (
	"context"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for the shared response cache
type Store struct {
	client *redis.Client
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks that Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
