package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortify/shortify/internal/domain"
)

func testLink(alias string) *domain.ShortLink {
	return &domain.ShortLink{
		ID:        1,
		Alias:     alias,
		LongURL:   "https://example.com",
		CreatedAt: time.Now().UTC(),
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := New(time.Minute)

	link, ok := c.Get(context.Background(), "missing")
	assert.False(t, ok)
	assert.Nil(t, link)
}

func TestCache_SetAndGet(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "abc1234", testLink("abc1234")))

	got, ok := c.Get(ctx, "abc1234")
	require.True(t, ok)
	assert.Equal(t, "https://example.com", got.LongURL)

	// The returned snapshot is a copy; mutating it must not affect the cache.
	got.LongURL = "https://tampered.example.com"
	again, ok := c.Get(ctx, "abc1234")
	require.True(t, ok)
	assert.Equal(t, "https://example.com", again.LongURL)
}

func TestCache_Expiry(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	current := time.Now()
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "abc1234", testLink("abc1234")))

	_, ok := c.Get(ctx, "abc1234")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "abc1234")
	assert.False(t, ok, "entry must expire after the TTL")

	// A fresh Set repopulates after expiry.
	require.NoError(t, c.Set(ctx, "abc1234", testLink("abc1234")))
	_, ok = c.Get(ctx, "abc1234")
	assert.True(t, ok)
}

func TestCache_OverwriteIsUnconditional(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "abc1234", testLink("abc1234")))
	require.NoError(t, c.Set(ctx, "abc1234", testLink("abc1234")))

	got, ok := c.Get(ctx, "abc1234")
	require.True(t, ok)
	assert.Equal(t, "abc1234", got.Alias)
}

func TestCache_Close(t *testing.T) {
	c := New(0)
	assert.NoError(t, c.Close())
}
