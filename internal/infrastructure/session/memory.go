// Package session provides an in-memory session cache with an explicit owner
// and lifetime, for development and tests. Production deployments use the
// Redis-backed cache instead.
package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	userID    int64
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is a mutex-guarded token → user id map.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry)}
}

func (c *MemoryCache) Put(_ context.Context, token string, userID int64, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = entry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, token string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[token]
	if !ok {
		return 0, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, token)
		return 0, false, nil
	}
	return e.userID, true, nil
}

func (c *MemoryCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}
