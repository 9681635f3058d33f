package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

var _ wapi.Cache = (*Store)(nil)

// Lookup retrieves a cached response. A missing key is a miss, not an error.
func (s *Store) Lookup(ctx context.Context, key string) (json.RawMessage, bool, error) {
	data, err := s.client.Get(ctx, CacheKey(key)).Bytes()
	if err != nil {
		s.misses.Add(1)
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached response: %w", err)
	}
	s.hits.Add(1)
	return json.RawMessage(data), true, nil
}

// Store caches a response. Redis expires it after ttl; ttl <= 0 keeps it.
func (s *Store) Store(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, CacheKey(key), []byte(value), ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// InvalidateAll removes all cached responses
func (s *Store) InvalidateAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, CachePattern(), 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}

// Stats reports counters seen by this process. Entry counts are not
// tracked for Redis since the keyspace is shared.
func (s *Store) Stats() wapi.CacheStats {
	return wapi.CacheStats{
		Backend: "redis",
		Entries: -1,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
}
