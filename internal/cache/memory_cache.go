package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// sweepThreshold is the entry count past which a write triggers an
// inline sweep of entries older than twice their TTL. Keeps memory
// bounded without a background goroutine.
const sweepThreshold = 100

type memoryEntry struct {
	data       []byte
	insertedAt time.Time
	ttl        time.Duration
}

// MemoryCache is the in-process Cache used when Redis is not configured.
// Expiry is checked lazily on read; an expired entry is evicted and
// reported as a miss.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	now func() time.Time // overridable in tests
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.now().Sub(e.insertedAt) > e.ttl {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		// data corrupt: treat as miss by deleting
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: b, insertedAt: c.now(), ttl: ttl}
	if len(c.entries) > sweepThreshold {
		c.sweepLocked()
	}
	return nil
}

func (c *MemoryCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// sweepLocked drops entries older than 2x their TTL. Caller holds mu.
func (c *MemoryCache) sweepLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.insertedAt) > 2*e.ttl {
			delete(c.entries, k)
		}
	}
}

// Len reports the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
