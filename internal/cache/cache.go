package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache stores encoded response payloads by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// Clock supplies the current time to freshness checks.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Entry represents a cached payload
type Entry struct {
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats represents cache statistics
type Stats struct {
	Name         string  `json:"name"`
	TotalEntries int     `json:"total_entries"`
	Capacity     uint64  `json:"capacity"`
	TTLSeconds   float64 `json:"ttl_seconds"`
	HitCount     int64   `json:"hit_count"`
	MissCount    int64   `json:"miss_count"`
	HitRate      float64 `json:"hit_rate"`
	Evictions    int64   `json:"evictions"`
	MemoryUsage  int64   `json:"memory_usage_bytes"`
}

// Options configures a MemoryCache
type Options struct {
	Name     string
	TTL      time.Duration
	Capacity uint64
	Clock    Clock
}

// MemoryCache is a bounded in-memory cache. Freshness is judged against the
// injected clock; the underlying store enforces capacity and sweeps expired
// entries in the background.
type MemoryCache struct {
	name     string
	ttl      time.Duration
	capacity uint64
	clock    Clock
	store    *ttlcache.Cache[string, *Entry]

	// mu serializes writes with stale-entry removal
	mu sync.Mutex

	hitCount  atomic.Int64
	missCount atomic.Int64
	evictions atomic.Int64
}

// NewMemoryCache creates a new in-memory cache and starts its cleanup loop
func NewMemoryCache(opts Options) *MemoryCache {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}

	storeOpts := []ttlcache.Option[string, *Entry]{
		ttlcache.WithTTL[string, *Entry](opts.TTL),
		ttlcache.WithDisableTouchOnHit[string, *Entry](),
	}
	if opts.Capacity > 0 {
		storeOpts = append(storeOpts, ttlcache.WithCapacity[string, *Entry](opts.Capacity))
	}

	c := &MemoryCache{
		name:     opts.Name,
		ttl:      opts.TTL,
		capacity: opts.Capacity,
		clock:    opts.Clock,
		store:    ttlcache.New[string, *Entry](storeOpts...),
	}

	c.store.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, _ *ttlcache.Item[string, *Entry]) {
		if reason == ttlcache.EvictionReasonCapacityReached {
			c.evictions.Add(1)
		}
	})

	go c.store.Start()

	return c
}

// Get returns the payload stored under key, or ErrCacheMiss when the key is
// absent or no longer fresh
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	item := c.store.Get(key)
	if item == nil {
		c.missCount.Add(1)
		return nil, ErrCacheMiss
	}

	entry := item.Value()
	if c.clock.Now().Sub(entry.CreatedAt) >= c.ttl {
		c.deleteIfUnchanged(key, entry)
		c.missCount.Add(1)
		return nil, ErrCacheMiss
	}

	c.hitCount.Add(1)
	return entry.Payload, nil
}

// Set stores payload under key, replacing any previous entry
func (c *MemoryCache) Set(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Set(key, &Entry{
		Payload:   payload,
		CreatedAt: c.clock.Now(),
	}, ttlcache.DefaultTTL)
	return nil
}

// deleteIfUnchanged removes key only while it still holds the stale entry,
// so a concurrent Set of a fresh entry survives
func (c *MemoryCache) deleteIfUnchanged(key string, stale *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item := c.store.Get(key); item != nil && item.Value() == stale {
		c.store.Delete(key)
	}
}

// GetStats returns cache statistics
func (c *MemoryCache) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Name:         c.name,
		TotalEntries: c.store.Len(),
		Capacity:     c.capacity,
		TTLSeconds:   c.ttl.Seconds(),
		HitCount:     c.hitCount.Load(),
		MissCount:    c.missCount.Load(),
		Evictions:    c.evictions.Load(),
	}

	if total := stats.HitCount + stats.MissCount; total > 0 {
		stats.HitRate = float64(stats.HitCount) / float64(total)
	}

	for key, item := range c.store.Items() {
		stats.MemoryUsage += int64(len(key) + len(item.Value().Payload))
	}

	return stats, nil
}

// Close stops the cleanup loop
func (c *MemoryCache) Close() error {
	c.store.Stop()
	return nil
}

// Common cache errors
var (
	ErrCacheMiss = errors.New("cache miss")
	ErrEmptyKey  = errors.New("cache key is empty")
)
