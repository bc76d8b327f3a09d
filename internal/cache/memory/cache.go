// Package memory implements the resolution cache in process memory, for
// development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shortify/shortify/internal/cache"
	"github.com/shortify/shortify/internal/domain"
)

type entry struct {
	link      domain.ShortLink
	expiresAt time.Time
}

// Cache implements cache.LinkCache using an in-memory map with TTL expiry.
type Cache struct {
	data  map[string]entry
	mutex sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// New creates an in-memory cache. A ttl of 0 defaults to one hour.
func New(ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Cache{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get retrieves the cached snapshot for an alias. Expired entries are
// dropped on access.
func (c *Cache) Get(ctx context.Context, alias string) (*domain.ShortLink, bool) {
	c.mutex.RLock()
	e, exists := c.data[alias]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mutex.Lock()
		delete(c.data, alias)
		c.mutex.Unlock()
		return nil, false
	}

	// Return a copy to prevent external modification
	link := e.link
	return &link, true
}

// Set stores a snapshot under the alias.
func (c *Cache) Set(ctx context.Context, alias string, link *domain.ShortLink) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[alias] = entry{
		link:      *link,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Close is a no-op for the in-memory cache.
func (c *Cache) Close() error {
	return nil
}

// Ensure Cache implements the interface
var _ cache.LinkCache = (*Cache)(nil)
