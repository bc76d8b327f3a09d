// Package redis implements the resolution cache on a shared Redis instance.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shortify/shortify/internal/cache"
	"github.com/shortify/shortify/internal/domain"
)

// keyPrefix namespaces alias keys away from other key spaces sharing the
// same Redis instance.
const keyPrefix = "url:"

// Cache implements cache.LinkCache backed by Redis. Snapshots are stored as
// JSON under "url:<alias>" with a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// New creates a Redis-backed link cache. A ttl of 0 defaults to one hour.
func New(client *redis.Client, ttl time.Duration, log *logrus.Logger) *Cache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get retrieves the cached snapshot for an alias. Backend or decode failures
// are logged and reported as a miss so the caller falls back to the registry.
func (c *Cache) Get(ctx context.Context, alias string) (*domain.ShortLink, bool) {
	payload, err := c.client.Get(ctx, keyPrefix+alias).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).WithField("alias", alias).Warn("cache read failed")
		}
		return nil, false
	}

	var link domain.ShortLink
	if err := json.Unmarshal([]byte(payload), &link); err != nil {
		c.log.WithError(err).WithField("alias", alias).Warn("cache entry corrupt")
		return nil, false
	}
	return &link, true
}

// Set stores a snapshot under the alias with the configured TTL. Overwrites
// unconditionally: ShortLinks are immutable, so concurrent populations for
// the same alias always write identical values.
func (c *Cache) Set(ctx context.Context, alias string, link *domain.ShortLink) error {
	payload, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+alias, payload, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ensure Cache implements the interface
var _ cache.LinkCache = (*Cache)(nil)
