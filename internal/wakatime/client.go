// Package wakatime talks to a WakaTime-compatible API and normalizes its two
// response shapes (status-bar and summaries) into one daily record.
package wakatime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the hosted WakaTime API. Self-hosted compatible servers
// (Wakapi, Hakatime) override it via the configuration.
const DefaultBaseURL = "https://api.wakatime.com/api/v1"

// Client fetches daily summaries from a WakaTime-compatible API.
type Client struct {
	baseURL string
	httpc   *http.Client
	auth    string // precomputed Authorization header value; empty with OAuth2
	limiter *rate.Limiter
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller owns the
// timeout. Apply before WithAccessToken so the OAuth2 transport wraps it.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithAPIKey authenticates with the WakaTime API key scheme: HTTP Basic with
// the base64-encoded key as the whole credential.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.auth = "Basic " + base64.StdEncoding.EncodeToString([]byte(key))
	}
}

// WithAccessToken authenticates with an OAuth2 bearer token.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		c.httpc = &http.Client{
			Transport: &oauth2.Transport{Source: src, Base: c.httpc.Transport},
			Timeout:   c.httpc.Timeout,
		}
		c.auth = ""
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// New creates a Client for the given base URL; an empty URL selects
// [DefaultBaseURL].
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		// Two endpoints at most per run; stay well under API limits.
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusBar fetches today's aggregate from the status-bar endpoint.
func (c *Client) StatusBar(ctx context.Context) (*StatusBarResponse, error) {
	var out StatusBarResponse
	if err := c.get(ctx, "/users/current/status_bar/today", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summaries fetches the per-day aggregate for a single date (start == end).
func (c *Client) Summaries(ctx context.Context, date string) (*SummariesResponse, error) {
	q := url.Values{"start": {date}, "end": {date}}
	var out SummariesResponse
	if err := c.get(ctx, "/users/current/summaries", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	if c.auth != "" {
		req.Header.Set("Authorization", c.auth)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}
