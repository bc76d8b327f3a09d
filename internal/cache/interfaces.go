package cache

import (
	"context"

	"github.com/shortify/shortify/internal/domain"
)

// LinkCache is the expiring alias → ShortLink snapshot layer in front of the
// registry. Misses are never cached; a backend failure is reported as a miss
// by implementations, never as an error to the resolution path.
type LinkCache interface {
	// Get retrieves the cached snapshot for an alias. The second return value
	// reports whether the entry was present and unexpired.
	Get(ctx context.Context, alias string) (*domain.ShortLink, bool)

	// Set stores a snapshot under the alias, unconditionally overwriting any
	// previous value. Entries expire after the cache's configured TTL.
	Set(ctx context.Context, alias string, link *domain.ShortLink) error

	// Close closes the cache connection (if applicable)
	Close() error
}
