package quotes

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Kind identifies one of the independently-expiring cache families. Each kind
// carries its own TTL: current prices go stale within minutes, historical
// closes are immutable facts about the past, and dividend totals change
// rarely.
type Kind string

const (
	KindPrice      Kind = "price"
	KindHistorical Kind = "hist"
	KindDividend   Kind = "div"
)

// PriceKey builds the cache key for a symbol's current price.
func PriceKey(symbol string) string {
	return fmt.Sprintf("%s:%s", KindPrice, symbol)
}

// HistoricalKey builds the cache key for a symbol's close on a specific date.
func HistoricalKey(symbol string, date time.Time) string {
	return fmt.Sprintf("%s:%s:%s", KindHistorical, symbol, date.UTC().Format("2006-01-02"))
}

// DividendKey builds the cache key for a symbol's trailing dividend total.
func DividendKey(symbol string) string {
	return fmt.Sprintf("%s:%s", KindDividend, symbol)
}

// entry is a single cached value. An entry is valid iff now < storedAt + ttl.
type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a keyed TTL cache shared by the resolver and the ranking engine.
// Expiry is checked at read time in addition to the periodic sweep, so a read
// never returns an expired entry regardless of sweep cadence. The clock is
// injected so tests can drive expiry deterministically.
//
// The cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttls    map[Kind]time.Duration
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces the cache's time source. Used by tests to control expiry.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithTTL overrides the default TTL for one cache kind.
func WithTTL(kind Kind, ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttls[kind] = ttl
	}
}

// NewCache creates a cache with per-kind default TTLs.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttls: map[Kind]time.Duration{
			KindPrice:      15 * time.Minute,
			KindHistorical: 14 * 24 * time.Hour,
			KindDividend:   24 * time.Hour,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the cached value for key if present and not expired. An expired
// entry is treated identically to a miss and is removed on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !c.now().Before(e.storedAt.Add(e.ttl)) {
		// Lazy removal; the sweep would catch it eventually, but no read may
		// ever observe an expired entry.
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.storedAt.Equal(e.storedAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		c.mu.Unlock()

		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return e.value, true
}

// Put stores value under key using the default TTL for kind.
func (c *Cache) Put(kind Kind, key string, value any) {
	c.PutTTL(key, value, c.ttls[kind])
}

// PutTTL stores value under key with an explicit TTL. A newer value for the
// same key supersedes the cached one.
func (c *Cache) PutTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// EvictExpired removes every expired entry and returns the number removed.
// Called by the periodic sweep job; safe to call at any time.
func (c *Cache) EvictExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.storedAt.Add(e.ttl)) {
			delete(c.entries, key)
			removed++
		}
	}

	c.evictions.Add(int64(removed))
	return removed
}

// Len returns the number of entries currently stored, including any that
// have expired but not yet been swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the configured TTL for a kind.
func (c *Cache) TTL(kind Kind) time.Duration {
	return c.ttls[kind]
}

// Hits returns the cumulative number of cache hits.
func (c *Cache) Hits() int64 { return c.hits.Load() }

// Misses returns the cumulative number of cache misses.
func (c *Cache) Misses() int64 { return c.misses.Load() }

// Evictions returns the cumulative number of evicted entries.
func (c *Cache) Evictions() int64 { return c.evictions.Load() }
