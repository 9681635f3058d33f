package wapi

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Cache memoizes successful read responses. Implementations are
// best-effort: an error is treated as a miss by the executor.
type Cache interface {
	Lookup(ctx context.Context, key string) (json.RawMessage, bool, error)
	Store(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
	Stats() CacheStats
}

// CacheStats is a point-in-time snapshot of cache activity.
type CacheStats struct {
	Backend   string `json:"backend"`
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// CacheKey derives a deterministic key from an endpoint and its params.
// Map keys are serialized in sorted order, so two maps with the same
// content always produce the same key.
func CacheKey(endpoint string, params any) string {
	if params == nil {
		return endpoint
	}
	b, err := json.Marshal(params)
	if err != nil {
		return endpoint + "?" + fmt.Sprintf("%v", params)
	}
	if string(b) == "null" || string(b) == "{}" {
		return endpoint
	}
	return endpoint + "?" + string(b)
}

type cacheEntry struct {
	key       string
	value     json.RawMessage
	storedAt  time.Time
	expiresAt time.Time // zero means no expiry
}

func (e *cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is an in-process Cache with lazy expiry. It is unbounded
// unless WithMaxEntries is set, in which case the least recently used
// entry is evicted first.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	lru        *list.List
	maxEntries int
	sweepEvery time.Duration
	clock      func() time.Time
	stats      CacheStats
	stopCh     chan struct{}
	stopOnce   sync.Once
}

type CacheOption func(*MemoryCache)

// WithMaxEntries bounds the cache. n <= 0 leaves it unbounded.
func WithMaxEntries(n int) CacheOption {
	return func(c *MemoryCache) { c.maxEntries = n }
}

// WithSweepInterval starts a background sweep of expired entries.
// d <= 0 keeps expiry purely lazy.
func WithSweepInterval(d time.Duration) CacheOption {
	return func(c *MemoryCache) { c.sweepEvery = d }
}

func WithCacheClock(clock func() time.Time) CacheOption {
	return func(c *MemoryCache) { c.clock = clock }
}

func NewMemoryCache(opts ...CacheOption) *MemoryCache {
	c := &MemoryCache{
		items:  make(map[string]*list.Element),
		lru:    list.New(),
		clock:  time.Now,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stats.Backend = "memory"

	if c.sweepEvery > 0 {
		go c.sweepLoop()
	}
	return c
}

// Lookup returns a copy of the cached bytes, so callers may modify it.
func (c *MemoryCache) Lookup(_ context.Context, key string) (json.RawMessage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false, nil
	}

	entry := elem.Value.(*cacheEntry)
	if entry.expired(c.clock()) {
		c.removeLocked(elem)
		c.stats.Misses++
		return nil, false, nil
	}

	c.lru.MoveToFront(elem)
	c.stats.Hits++
	return append(json.RawMessage(nil), entry.value...), true, nil
}

// Store inserts or replaces key. A ttl <= 0 stores without expiry.
func (c *MemoryCache) Store(_ context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	value = append(json.RawMessage(nil), value...)
	now := c.clock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.storedAt = now
		entry.expiresAt = expiresAt
		c.lru.MoveToFront(elem)
		return nil
	}

	if c.maxEntries > 0 && c.lru.Len() >= c.maxEntries {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeLocked(oldest)
			c.stats.Evictions++
		}
	}

	c.items[key] = c.lru.PushFront(&cacheEntry{
		key:       key,
		value:     value,
		storedAt:  now,
		expiresAt: expiresAt,
	})
	return nil
}

func (c *MemoryCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.items)
	return s
}

// Len counts stored entries, expired ones included until they are touched.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the background sweep, if any.
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// DeleteExpired drops every expired entry and returns how many went.
func (c *MemoryCache) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	removed := 0
	for elem := c.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*cacheEntry).expired(now) {
			c.removeLocked(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

func (c *MemoryCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.items, entry.key)
	c.lru.Remove(elem)
}
