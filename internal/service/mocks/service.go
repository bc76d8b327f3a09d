package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shortify/shortify/internal/domain"
	"github.com/shortify/shortify/internal/service"
)

// Shortener is a mock implementation of service.Shortener
type Shortener struct {
	mock.Mock
}

// CreateShortLink creates a new short link
func (m *Shortener) CreateShortLink(ctx context.Context, params service.CreateLinkParams) (*domain.ShortLink, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLink), args.Error(1)
}

// Resolve maps an alias to its ShortLink
func (m *Shortener) Resolve(ctx context.Context, alias string, meta domain.ClickMeta) (*domain.ShortLink, error) {
	args := m.Called(ctx, alias, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLink), args.Error(1)
}

// Close waits for in-flight click appends and releases the cache
func (m *Shortener) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Analytics is a mock implementation of service.Analytics
type Analytics struct {
	mock.Mock
}

// ByAlias aggregates clicks for one alias
func (m *Analytics) ByAlias(ctx context.Context, alias, requester string) (*domain.AliasAnalytics, error) {
	args := m.Called(ctx, alias, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AliasAnalytics), args.Error(1)
}

// ByTopic aggregates every link the owner grouped under topic
func (m *Analytics) ByTopic(ctx context.Context, topic, owner string) (*domain.TopicAnalytics, error) {
	args := m.Called(ctx, topic, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopicAnalytics), args.Error(1)
}

// ByOwner aggregates every link the owner created
func (m *Analytics) ByOwner(ctx context.Context, owner string) (*domain.OverallAnalytics, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OverallAnalytics), args.Error(1)
}
