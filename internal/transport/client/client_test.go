package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/domain"
)

func TestClient_Shorten(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shorten", r.URL.Path)

		cookie, err := r.Cookie(auth.CookieName)
		require.NoError(t, err)
		assert.Equal(t, "session-token", cookie.Value)

		var req domain.CreateLinkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com", req.LongURL)
		assert.Equal(t, "launch", req.Topic)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.CreateLinkResponse{
			ShortURL:  "http://sho.rt/shorten/abc1234",
			CreatedAt: createdAt,
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "session-token")
	result, err := c.Shorten(context.Background(), "https://example.com", "", "launch")
	require.NoError(t, err)
	assert.Equal(t, "http://sho.rt/shorten/abc1234", result.ShortURL)
	assert.True(t, result.CreatedAt.Equal(createdAt))
}

func TestClient_Shorten_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Error: "alias already exists"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	_, err := c.Shorten(context.Background(), "https://example.com", "mine", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alias already exists")
}

func TestClient_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shorten/abc1234", r.URL.Path)
		http.Redirect(w, r, "https://example.com/page", http.StatusFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	target, err := c.Resolve(context.Background(), "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", target)
}

func TestClient_Resolve_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Error: "URL not found"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	_, err := c.Resolve(context.Background(), "missing1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL not found")
}

func TestClient_AliasAnalytics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analytics/abc1234", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.AliasAnalytics{TotalClicks: 7, UniqueUsers: 3})
	}))
	defer server.Close()

	c := NewClient(server.URL, "session-token")
	result, err := c.AliasAnalytics(context.Background(), "abc1234")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.TotalClicks)
	assert.Equal(t, int64(3), result.UniqueUsers)
}

func TestClient_OverallAnalytics_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Error: "unauthorized, please log in"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	_, err := c.OverallAnalytics(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}
