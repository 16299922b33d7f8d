package memcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/observability"
)

// Cache is the in-process default when no Redis is configured. Values are
// JSON round-tripped exactly like the Redis adapter so the two behave
// identically, including returning copies rather than shared references.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	max     int
}

type entry struct {
	b       []byte
	expires time.Time // zero means no expiry
}

const defaultMax = 4096

func New() *Cache {
	return &Cache{entries: make(map[string]entry), max: defaultMax}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !e.expires.IsZero() && time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		ok = false
	}
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(e.b, dst)
}

func (c *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var exp time.Time
	if ttlSec > 0 {
		exp = time.Now().Add(time.Duration(ttlSec) * time.Second)
	}
	c.mu.Lock()
	if len(c.entries) >= c.max {
		c.sweepLocked()
	}
	c.entries[key] = entry{b: b, expires: exp}
	c.mu.Unlock()
	observability.ObserveCache("memory", "set")
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	observability.ObserveCache("memory", "del")
	return nil
}

// sweepLocked drops expired entries; if nothing expired it evicts arbitrary
// ones until a quarter of the capacity is free. Callers hold mu.
func (c *Cache) sweepLocked() {
	now := time.Now()
	for k, e := range c.entries {
		if !e.expires.IsZero() && now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	for k := range c.entries {
		if len(c.entries) <= c.max-c.max/4 {
			break
		}
		delete(c.entries, k)
	}
}
