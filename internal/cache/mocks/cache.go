package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shortify/shortify/internal/domain"
)

// LinkCache is a mock implementation of cache.LinkCache
type LinkCache struct {
	mock.Mock
}

// Get retrieves the cached snapshot for an alias
func (m *LinkCache) Get(ctx context.Context, alias string) (*domain.ShortLink, bool) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.ShortLink), args.Bool(1)
}

// Set stores a snapshot under the alias
func (m *LinkCache) Set(ctx context.Context, alias string, link *domain.ShortLink) error {
	args := m.Called(ctx, alias, link)
	return args.Error(0)
}

// Close closes the cache connection
func (m *LinkCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
