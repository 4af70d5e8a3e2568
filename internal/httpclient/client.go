// Package httpclient provides the HTTP plumbing shared by all providers:
// a single http.Client with a bounded timeout, a default User-Agent, and
// a per-host rate limiter so no upstream sees more than one request per
// configured interval.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPError carries the status of a failed request.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// IsRetryable reports whether retrying could help. Client errors (4xx)
// will not improve on retry; server errors (5xx) might.
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode < 400 || e.StatusCode >= 500
}

// Client wraps http.Client with per-host rate limiting.
type Client struct {
	httpClient *http.Client
	userAgent  string
	interval   time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHostInterval sets the minimum spacing between requests to one host.
func WithHostInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

// New creates a Client with a 30 second timeout and a one request per
// second per-host limit unless overridden.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "ChanDesk/0.1.0",
		interval:   time.Second,
		limiters:   make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// limiterFor returns the rate limiter for a host, creating it on first use.
func (c *Client) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(c.interval), 1)
	c.limiters[host] = l
	return l
}

// Get fetches a URL and returns the response body. Non-2xx statuses are
// returned as *HTTPError.
func (c *Client) Get(ctx context.Context, reqURL string) ([]byte, error) {
	parsed, err := url.Parse(reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request URL %q: %w", reqURL, err)
	}

	if err := c.limiterFor(parsed.Hostname()).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// GetJSON fetches a URL and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, reqURL string, v interface{}) error {
	body, err := c.Get(ctx, reqURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", reqURL, err)
	}
	return nil
}

// Do performs an arbitrary request through the underlying client,
// applying the per-host limiter. Used for posting.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiterFor(req.URL.Hostname()).Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}
