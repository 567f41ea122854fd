package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// MemoryCache is an in-process cache.Cacher that stores JSON like the Redis
// implementation and counts calls.
type MemoryCache struct {
	mu       sync.Mutex
	data     map[string]cacheEntry
	getCalls int
	setCalls int
}

type cacheEntry struct {
	value  []byte
	expiry time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]cacheEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++

	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiry) {
		return redis.Nil
	}
	return json.Unmarshal(entry.value, dest)
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, exp time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	c.data[key] = cacheEntry{value: raw, expiry: time.Now().Add(exp)}
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

// Calls returns the number of Get and Set calls so far.
func (c *MemoryCache) Calls() (gets, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls, c.setCalls
}
