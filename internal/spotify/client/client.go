package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/tessro/spotconnect/internal/metrics"
)

const (
	// BaseURL is the Spotify Web API base URL.
	BaseURL = "https://api.spotify.com/v1"

	// DefaultTimeout bounds a single request when no HTTP client is supplied.
	DefaultTimeout = 30 * time.Second
)

// Client is a Spotify Web API client for one connected account.
//
// Requests are never retried here; callers that poll (the watcher, the
// bridge) own their retry policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     oauth2.TokenSource
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time

	playlists *PlaylistCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API origin.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the structured logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables request and cache instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClock overrides the clock used for playlist cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a client that authorizes every request with a token from tokens.
func New(tokens oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
		tokens:     tokens,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.playlists = NewPlaylistCache(PlaylistCacheTTL,
		withCacheClock(c.now),
		withCacheLogger(c.logger),
		withCacheMetrics(c.metrics),
	)
	return c
}

// token returns a usable access token or fails before any network I/O.
func (c *Client) token() (*oauth2.Token, error) {
	if c.tokens == nil {
		return nil, ErrNotAuthenticated
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	if !tok.Valid() {
		return nil, ErrNotAuthenticated
	}
	return tok, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.request(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, body any) error {
	return c.request(ctx, http.MethodPut, path, query, body, nil)
}

func (c *Client) post(ctx context.Context, path string, query url.Values) error {
	return c.request(ctx, http.MethodPost, path, query, nil, nil)
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, result any) error {
	tok, err := c.token()
	if err != nil {
		return err
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	tok.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, path, 0, time.Since(start))
		c.logger.Debug("spotify request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.ObserveRequest(method, path, resp.StatusCode, elapsed)
	c.logger.Debug("spotify request",
		"method", method,
		"path", path,
		"query", query.Encode(),
		"status", resp.StatusCode,
		"duration", elapsed,
	)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := newRemoteError(resp, respBody)
		c.logger.Debug("spotify error response", "status", resp.StatusCode, "message", remoteErr.Message)
		return remoteErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
