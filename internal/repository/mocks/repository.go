package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shortify/shortify/internal/domain"
)

// Repository is a mock implementation of repository.Repository
type Repository struct {
	mock.Mock
}

// CreateLink inserts a new link
func (m *Repository) CreateLink(ctx context.Context, link *domain.ShortLink) (*domain.ShortLink, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLink), args.Error(1)
}

// GetLinkByAlias retrieves a link by alias
func (m *Repository) GetLinkByAlias(ctx context.Context, alias string) (*domain.ShortLink, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLink), args.Error(1)
}

// GetLinkByLongURLAndOwner finds an existing link for the same URL and owner
func (m *Repository) GetLinkByLongURLAndOwner(ctx context.Context, longURL, owner string) (*domain.ShortLink, error) {
	args := m.Called(ctx, longURL, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLink), args.Error(1)
}

// GetLinksByTopicAndOwner lists links grouped under a topic for one owner
func (m *Repository) GetLinksByTopicAndOwner(ctx context.Context, topic, owner string) ([]*domain.ShortLink, error) {
	args := m.Called(ctx, topic, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShortLink), args.Error(1)
}

// GetLinksByOwner lists every link created by one owner
func (m *Repository) GetLinksByOwner(ctx context.Context, owner string) ([]*domain.ShortLink, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShortLink), args.Error(1)
}

// AppendClick records one visit
func (m *Repository) AppendClick(ctx context.Context, click *domain.ClickEvent) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

// CountClicks returns the total click count for a link
func (m *Repository) CountClicks(ctx context.Context, linkID int64) (int64, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Error(1)
}

// CountUniqueVisitors returns the number of distinct user IPs for a link
func (m *Repository) CountUniqueVisitors(ctx context.Context, linkID int64) (int64, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Error(1)
}

// ClicksByDate buckets clicks per day
func (m *Repository) ClicksByDate(ctx context.Context, linkID int64, since time.Time) ([]domain.ClickDateCount, error) {
	args := m.Called(ctx, linkID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClickDateCount), args.Error(1)
}

// ClicksByField groups clicks by os or device
func (m *Repository) ClicksByField(ctx context.Context, linkID int64, field string) ([]domain.FieldBreakdown, error) {
	args := m.Called(ctx, linkID, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FieldBreakdown), args.Error(1)
}

// ListClicksForLinks returns every click referencing any of the given links
func (m *Repository) ListClicksForLinks(ctx context.Context, linkIDs []int64) ([]*domain.ClickEvent, error) {
	args := m.Called(ctx, linkIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ClickEvent), args.Error(1)
}

// Close closes the repository connection
func (m *Repository) Close() error {
	args := m.Called()
	return args.Error(0)
}
