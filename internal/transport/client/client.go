// Package client is a small HTTP client for the shortener API, used by the
// CLI subcommands.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/domain"
)

// Client talks to a running shortener instance.
type Client struct {
	serverURL  string
	token      string // session token, empty for anonymous calls
	httpClient *http.Client
}

// NewClient creates a client for the given server. token may be empty; the
// analytics calls then fail with an authorization error.
func NewClient(serverURL, token string) *Client {
	return &Client{
		serverURL: serverURL,
		token:     token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Resolving an alias must report the target, not fetch it.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Shorten creates a short link for longURL.
func (c *Client) Shorten(ctx context.Context, longURL, customAlias, topic string) (*domain.CreateLinkResponse, error) {
	body, err := json.Marshal(domain.CreateLinkRequest{
		LongURL:     longURL,
		CustomAlias: customAlias,
		Topic:       topic,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/shorten", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result domain.CreateLinkResponse
	if err := c.do(req, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Resolve returns the redirect target of an alias without following it.
func (c *Client) Resolve(ctx context.Context, alias string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/shorten/"+alias, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		return "", c.serverError(resp)
	}
	return resp.Header.Get("Location"), nil
}

// AliasAnalytics fetches the analytics for one alias.
func (c *Client) AliasAnalytics(ctx context.Context, alias string) (*domain.AliasAnalytics, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/analytics/"+alias, nil)
	if err != nil {
		return nil, err
	}

	var result domain.AliasAnalytics
	if err := c.do(req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TopicAnalytics fetches the aggregated analytics for a topic.
func (c *Client) TopicAnalytics(ctx context.Context, topic string) (*domain.TopicAnalytics, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/analytics/topic/"+topic, nil)
	if err != nil {
		return nil, err
	}

	var result domain.TopicAnalytics
	if err := c.do(req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OverallAnalytics fetches the aggregated analytics for the caller.
func (c *Client) OverallAnalytics(ctx context.Context) (*domain.OverallAnalytics, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/analytics/overall", nil)
	if err != nil {
		return nil, err
	}

	var result domain.OverallAnalytics
	if err := c.do(req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: c.token})
	}
	return req, nil
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return c.serverError(resp)
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

// serverError surfaces the server's error payload when one is present.
func (c *Client) serverError(resp *http.Response) error {
	var payload domain.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return errors.Errorf("server returned status %d: %s", resp.StatusCode, payload.Error)
	}
	return errors.Errorf("server returned status %d", resp.StatusCode)
}
