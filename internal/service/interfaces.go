package service

import (
	"context"

	"github.com/shortify/shortify/internal/domain"
)

// CreateLinkParams carries the inputs for creating a short link.
type CreateLinkParams struct {
	LongURL     string
	CustomAlias string
	Topic       string
	Owner       string // empty for anonymous creation
}

// Shortener defines the write-and-resolve surface of the service.
type Shortener interface {
	// CreateShortLink creates a new short link. When the same owner already
	// shortened the same long URL, the existing link is returned together
	// with ErrLinkExists and no write is performed.
	CreateShortLink(ctx context.Context, params CreateLinkParams) (*domain.ShortLink, error)

	// Resolve maps an alias to its ShortLink, serving from the cache when
	// possible and falling back to the registry on a miss. On success a
	// ClickEvent derived from meta is appended to the ledger without
	// blocking the caller.
	Resolve(ctx context.Context, alias string, meta domain.ClickMeta) (*domain.ShortLink, error)

	// Close waits for in-flight click appends and releases the cache.
	Close() error
}

// Analytics defines the read-only aggregation surface.
type Analytics interface {
	// ByAlias aggregates clicks for one alias: totals, unique visitors, a
	// seven-day date histogram and OS/device breakdowns.
	ByAlias(ctx context.Context, alias, requester string) (*domain.AliasAnalytics, error)

	// ByTopic aggregates every link the owner grouped under topic. A topic
	// with no links yields an explicit zero-valued result, not an error.
	ByTopic(ctx context.Context, topic, owner string) (*domain.TopicAnalytics, error)

	// ByOwner aggregates every link the owner created.
	ByOwner(ctx context.Context, owner string) (*domain.OverallAnalytics, error)
}
