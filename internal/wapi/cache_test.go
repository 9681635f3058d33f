package wapi

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCacheStoreAndExpire(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache(WithCacheClock(clock.Now))

	require.NoError(t, c.Store(ctx, "/contact/get-all", json.RawMessage(`[1,2]`), time.Minute))

	got, ok, err := c.Lookup(ctx, "/contact/get-all")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[1,2]`, string(got))

	// still fresh exactly at expiresAt
	clock.Advance(time.Minute)
	_, ok, _ = c.Lookup(ctx, "/contact/get-all")
	require.True(t, ok)

	clock.Advance(time.Millisecond)
	_, ok, _ = c.Lookup(ctx, "/contact/get-all")
	require.False(t, ok)
	require.Equal(t, 0, c.Len(), "expired entry is removed on lookup")

	stats := c.Stats()
	require.Equal(t, uint64(2), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)
	require.Equal(t, "memory", stats.Backend)
}

func TestMemoryCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Store(ctx, fmt.Sprintf("k%d", i), json.RawMessage(`{}`), time.Hour))
	}
	require.Equal(t, 10, c.Len())

	require.NoError(t, c.InvalidateAll(ctx))
	require.Equal(t, 0, c.Len())
	_, ok, _ := c.Lookup(ctx, "k1")
	require.False(t, ok)
}

func TestMemoryCacheUnboundedByDefault(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	for i := 0; i < 5000; i++ {
		require.NoError(t, c.Store(ctx, fmt.Sprintf("k%d", i), json.RawMessage(`1`), time.Hour))
	}
	require.Equal(t, 5000, c.Len())
	require.Equal(t, uint64(0), c.Stats().Evictions)
}

func TestMemoryCacheMaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(WithMaxEntries(2))

	require.NoError(t, c.Store(ctx, "a", json.RawMessage(`"a"`), time.Hour))
	require.NoError(t, c.Store(ctx, "b", json.RawMessage(`"b"`), time.Hour))
	_, ok, _ := c.Lookup(ctx, "a")
	require.True(t, ok)

	require.NoError(t, c.Store(ctx, "c", json.RawMessage(`"c"`), time.Hour))

	_, ok, _ = c.Lookup(ctx, "b")
	require.False(t, ok, "b was least recently used")
	_, ok, _ = c.Lookup(ctx, "a")
	require.True(t, ok)
	require.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestMemoryCacheDeleteExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache(WithCacheClock(clock.Now))

	require.NoError(t, c.Store(ctx, "short", json.RawMessage(`1`), time.Second))
	require.NoError(t, c.Store(ctx, "long", json.RawMessage(`2`), time.Hour))
	require.NoError(t, c.Store(ctx, "forever", json.RawMessage(`3`), 0))

	clock.Advance(time.Minute)
	require.Equal(t, 1, c.DeleteExpired())
	require.Equal(t, 2, c.Len())
}

func TestCacheKeyIsOrderIndependent(t *testing.T) {
	a := CacheKey("/chat/get", map[string]any{"phone": "1@c.us", "limit": 10})
	b := CacheKey("/chat/get", map[string]any{"limit": 10, "phone": "1@c.us"})
	require.Equal(t, a, b)

	require.NotEqual(t, a, CacheKey("/chat/get", map[string]any{"phone": "2@c.us", "limit": 10}))
	require.NotEqual(t, a, CacheKey("/contact/get", map[string]any{"phone": "1@c.us", "limit": 10}))
	require.Equal(t, "/contact/get-all", CacheKey("/contact/get-all", nil))
	require.Equal(t, "/contact/get-all", CacheKey("/contact/get-all", map[string]any{}))
}

func TestMemoryCacheValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	stored := json.RawMessage(`{"a":1}`)
	require.NoError(t, c.Store(ctx, "k", stored, time.Minute))
	stored[2] = 'b'

	got, ok, err := c.Lookup(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	got[2] = 'z'

	again, _, _ := c.Lookup(ctx, "k")
	require.Equal(t, `{"a":1}`, string(again))
}
