package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/domain"
	"github.com/shortify/shortify/internal/geo"
	"github.com/shortify/shortify/internal/requestmeta"
	"github.com/shortify/shortify/internal/service"
	"github.com/shortify/shortify/internal/service/mocks"
)

const testBaseURL = "http://localhost:8080"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type testServer struct {
	router    *gin.Engine
	shortener *mocks.Shortener
	analytics *mocks.Analytics
	tokens    *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	shortener := new(mocks.Shortener)
	analytics := new(mocks.Analytics)
	tokens := auth.NewTokenManager("test-secret")

	router := NewRouter(RouterConfig{
		Shortener: shortener,
		Analytics: analytics,
		Extractor: requestmeta.NewExtractor(geo.NoopResolver{}),
		Tokens:    tokens,
		BaseURL:   testBaseURL,
		Log:       newTestLogger(),
	})

	return &testServer{
		router:    router,
		shortener: shortener,
		analytics: analytics,
		tokens:    tokens,
	}
}

func (ts *testServer) loginCookie(t *testing.T, subject string) *http.Cookie {
	t.Helper()

	token, err := ts.tokens.Issue(subject)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func TestCreateShortLink(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	link := &domain.ShortLink{ID: 1, Alias: "abc1234", LongURL: "https://example.com", CreatedAt: createdAt}

	tests := []struct {
		name       string
		body       string
		cookie     bool
		setupMock  func(m *mocks.Shortener)
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name: "anonymous create",
			body: `{"longUrl":"https://example.com"}`,
			setupMock: func(m *mocks.Shortener) {
				m.On("CreateShortLink", mock.Anything, service.CreateLinkParams{
					LongURL: "https://example.com",
				}).Return(link, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody: map[string]any{
				"shortUrl":  testBaseURL + "/shorten/abc1234",
				"createdAt": "2026-08-30T12:00:00Z",
			},
		},
		{
			name:   "authenticated create carries the owner",
			body:   `{"longUrl":"https://example.com","topic":"launch"}`,
			cookie: true,
			setupMock: func(m *mocks.Shortener) {
				m.On("CreateShortLink", mock.Anything, service.CreateLinkParams{
					LongURL: "https://example.com",
					Topic:   "launch",
					Owner:   "user@example.com",
				}).Return(link, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate long URL returns the existing alias",
			body: `{"longUrl":"https://example.com"}`,
			setupMock: func(m *mocks.Shortener) {
				m.On("CreateShortLink", mock.Anything, mock.Anything).
					Return(link, service.ErrLinkExists)
			},
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":    "you already have a short link for this URL",
				"shortUrl": testBaseURL + "/shorten/abc1234",
			},
		},
		{
			name: "missing long URL",
			body: `{}`,
			setupMock: func(m *mocks.Shortener) {
				m.On("CreateShortLink", mock.Anything, mock.Anything).
					Return(nil, service.ErrValidation)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "long URL is required"},
		},
		{
			name: "custom alias already taken",
			body: `{"longUrl":"https://example.com","customAlias":"mine"}`,
			setupMock: func(m *mocks.Shortener) {
				m.On("CreateShortLink", mock.Anything, mock.Anything).
					Return(nil, service.ErrAliasTaken)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "alias already exists"},
		},
		{
			name:       "malformed body",
			body:       `{"longUrl":`,
			setupMock:  func(m *mocks.Shortener) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "invalid request body"},
		},
		{
			name: "registry failure",
			body: `{"longUrl":"https://example.com"}`,
			setupMock: func(m *mocks.Shortener) {
				m.On("CreateShortLink", mock.Anything, mock.Anything).
					Return(nil, assert.AnError)
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			tt.setupMock(ts.shortener)

			req := httptest.NewRequest(http.MethodPost, "/shorten", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.cookie {
				req.AddCookie(ts.loginCookie(t, "user@example.com"))
			}

			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantBody, body)
			}
			ts.shortener.AssertExpectations(t)
		})
	}
}

func TestRedirect(t *testing.T) {
	t.Run("known alias redirects", func(t *testing.T) {
		ts := newTestServer(t)
		ts.shortener.On("Resolve", mock.Anything, "abc1234", mock.Anything).
			Return(&domain.ShortLink{Alias: "abc1234", LongURL: "https://example.com/page"}, nil)

		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shorten/abc1234", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/page", w.Header().Get("Location"))
	})

	t.Run("click metadata is extracted from the request", func(t *testing.T) {
		ts := newTestServer(t)
		ts.shortener.On("Resolve", mock.Anything, "abc1234",
			mock.MatchedBy(func(meta domain.ClickMeta) bool {
				return meta.UserIP == "203.0.113.9" && meta.OS == "Linux"
			})).
			Return(&domain.ShortLink{Alias: "abc1234", LongURL: "https://example.com"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/shorten/abc1234", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/126.0 Safari/537.36")

		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		ts.shortener.AssertExpectations(t)
	})

	t.Run("unknown alias", func(t *testing.T) {
		ts := newTestServer(t)
		ts.shortener.On("Resolve", mock.Anything, "missing1", mock.Anything).
			Return(nil, service.ErrNotFound)

		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shorten/missing1", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"URL not found"}`, w.Body.String())
	})

	t.Run("registry failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.shortener.On("Resolve", mock.Anything, "abc1234", mock.Anything).
			Return(nil, assert.AnError)

		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shorten/abc1234", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAnalyticsByAlias(t *testing.T) {
	result := &domain.AliasAnalytics{
		TotalClicks: 5,
		UniqueUsers: 3,
		ClicksByDate: []domain.ClickDateCount{
			{Date: "2026-08-30", ClickCount: 5},
		},
		OSType:     []domain.FieldBreakdown{{Name: "Linux", UniqueClicks: 5, UniqueUsers: 3}},
		DeviceType: []domain.FieldBreakdown{{Name: "desktop", UniqueClicks: 5, UniqueUsers: 3}},
	}

	tests := []struct {
		name       string
		authorized bool
		setupMock  func(m *mocks.Analytics)
		wantStatus int
	}{
		{
			name:       "owner reads analytics",
			authorized: true,
			setupMock: func(m *mocks.Analytics) {
				m.On("ByAlias", mock.Anything, "abc1234", "user@example.com").Return(result, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unauthenticated",
			setupMock:  func(m *mocks.Analytics) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown alias",
			authorized: true,
			setupMock: func(m *mocks.Analytics) {
				m.On("ByAlias", mock.Anything, "abc1234", "user@example.com").
					Return(nil, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "someone else's link",
			authorized: true,
			setupMock: func(m *mocks.Analytics) {
				m.On("ByAlias", mock.Anything, "abc1234", "user@example.com").
					Return(nil, service.ErrForbidden)
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			tt.setupMock(ts.analytics)

			req := httptest.NewRequest(http.MethodGet, "/analytics/abc1234", nil)
			if tt.authorized {
				req.AddCookie(ts.loginCookie(t, "user@example.com"))
			}

			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var got domain.AliasAnalytics
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, *result, got)
			}
			ts.analytics.AssertExpectations(t)
		})
	}
}

func TestAnalyticsByTopic(t *testing.T) {
	ts := newTestServer(t)
	result := &domain.TopicAnalytics{
		TotalURLs:   1,
		TotalClicks: 2,
		UniqueUsers: 2,
		ClicksByDate: []domain.ClickDateCount{
			{Date: "2026-08-30", ClickCount: 2},
		},
		URLs: []domain.URLClickSummary{
			{ShortURL: testBaseURL + "/shorten/abc1234", TotalClicks: 2, UniqueUsers: 2},
		},
	}
	ts.analytics.On("ByTopic", mock.Anything, "launch", "user@example.com").Return(result, nil)

	req := httptest.NewRequest(http.MethodGet, "/analytics/topic/launch", nil)
	req.AddCookie(ts.loginCookie(t, "user@example.com"))

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got domain.TopicAnalytics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *result, got)
}

func TestAnalyticsOverall(t *testing.T) {
	t.Run("aggregates the owner's links", func(t *testing.T) {
		ts := newTestServer(t)
		result := &domain.OverallAnalytics{
			TotalURLs:    2,
			TotalClicks:  7,
			UniqueUsers:  4,
			ClicksByDate: []domain.ClickDateCount{{Date: "2026-08-31", ClickCount: 7}},
			OSType:       []domain.FieldBreakdown{{Name: "iOS", UniqueClicks: 7, UniqueUsers: 4}},
			DeviceType:   []domain.FieldBreakdown{{Name: "mobile", UniqueClicks: 7, UniqueUsers: 4}},
		}
		ts.analytics.On("ByOwner", mock.Anything, "user@example.com").Return(result, nil)

		req := httptest.NewRequest(http.MethodGet, "/analytics/overall", nil)
		req.AddCookie(ts.loginCookie(t, "user@example.com"))

		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("requires a session", func(t *testing.T) {
		ts := newTestServer(t)

		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/overall", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"unauthorized, please log in"}`, w.Body.String())
		ts.analytics.AssertNotCalled(t, "ByOwner", mock.Anything, mock.Anything)
	})
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
