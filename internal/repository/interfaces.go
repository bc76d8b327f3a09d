package repository

import (
	"context"
	"time"

	"github.com/shortify/shortify/internal/domain"
)

// LinkRepository defines the durable alias registry.
type LinkRepository interface {
	// CreateLink inserts a new link. Returns ErrDuplicateAlias when the alias
	// is already taken.
	CreateLink(ctx context.Context, link *domain.ShortLink) (*domain.ShortLink, error)

	// GetLinkByAlias retrieves a link by alias. Returns ErrNotFound when absent.
	GetLinkByAlias(ctx context.Context, alias string) (*domain.ShortLink, error)

	// GetLinkByLongURLAndOwner finds an existing link for the same long URL and
	// owner, used to dedupe creation. Returns ErrNotFound when absent.
	GetLinkByLongURLAndOwner(ctx context.Context, longURL, owner string) (*domain.ShortLink, error)

	// GetLinksByTopicAndOwner lists links grouped under a topic for one owner.
	GetLinksByTopicAndOwner(ctx context.Context, topic, owner string) ([]*domain.ShortLink, error)

	// GetLinksByOwner lists every link created by one owner.
	GetLinksByOwner(ctx context.Context, owner string) ([]*domain.ShortLink, error)
}

// ClickRepository defines the append-only click ledger and its read-side
// aggregations.
type ClickRepository interface {
	// AppendClick records one visit. Never updates existing rows.
	AppendClick(ctx context.Context, click *domain.ClickEvent) error

	// CountClicks returns the total click count for a link.
	CountClicks(ctx context.Context, linkID int64) (int64, error)

	// CountUniqueVisitors returns the number of distinct user IPs for a link.
	CountUniqueVisitors(ctx context.Context, linkID int64) (int64, error)

	// ClicksByDate buckets clicks per day, ascending, restricted to events at
	// or after since.
	ClicksByDate(ctx context.Context, linkID int64, since time.Time) ([]domain.ClickDateCount, error)

	// ClicksByField groups clicks by the given field ("os" or "device"),
	// returning click and distinct-IP counts per value.
	ClicksByField(ctx context.Context, linkID int64, field string) ([]domain.FieldBreakdown, error)

	// ListClicksForLinks returns every click referencing any of the given
	// links, for in-memory aggregation across a link set.
	ListClicksForLinks(ctx context.Context, linkIDs []int64) ([]*domain.ClickEvent, error)
}

// Repository is the combined store handle with an explicit close lifecycle.
type Repository interface {
	LinkRepository
	ClickRepository

	// Close closes the underlying store connection.
	Close() error
}
