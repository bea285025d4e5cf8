// Package api is the HTTP client for the hackathon listings API.
//
// Three endpoints are consumed:
//   - GET {base}/hackathons?page&page_size&sort_by returns one page of records
//   - GET {base}/sources returns the names of the source platforms
//   - GET {base}/search/ai?q returns AI-ranked results for a free-text query
//
// FetchAll pages through the listing sequentially and either returns every
// record or an error; partial result sets are never returned.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pfrederiksen/hackfind/internal/logger"
)

const (
	// DefaultBaseURL is the API base used when none is configured.
	DefaultBaseURL = "http://localhost:8000/api"
	// DefaultPageSize is the largest page the backend serves.
	DefaultPageSize = 200
	// DefaultMaxPages bounds FetchAll against a server that never reports the end.
	DefaultMaxPages = 500
	// DefaultSortBy is the server-side order requested while paging.
	DefaultSortBy = "prize"

	defaultTimeout  = 30 * time.Second
	defaultInterval = 100 * time.Millisecond
	maxErrorBody    = 512
)

var (
	// ErrStatus is returned (wrapped in *StatusError) for non-success responses.
	ErrStatus = errors.New("unexpected status")
	// ErrMalformed is returned when a response body does not have the expected shape.
	ErrMalformed = errors.New("malformed response")
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrStatus) true.
func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Client talks to the hackathon listings API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryConfig
	pageSize   int
	maxPages   int
	sortBy     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithPageSize sets the page_size requested from /hackathons.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxPages caps the number of pages FetchAll requests.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithSortBy sets the sort_by parameter sent while paging.
func WithSortBy(s string) Option {
	return func(c *Client) { c.sortBy = s }
}

// WithRateLimit paces requests to one per interval. Zero disables pacing.
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithRetry sets the retry policy for individual requests.
func WithRetry(rc RetryConfig) Option {
	return func(c *Client) { c.retry = rc }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:  rate.NewLimiter(rate.Every(defaultInterval), 1),
		retry:    DefaultRetryConfig,
		pageSize: DefaultPageSize,
		maxPages: DefaultMaxPages,
		sortBy:   DefaultSortBy,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the API base the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// log resolves the default logger on every call, so a client created
// before the browser redirects logging follows the redirect.
func (c *Client) log() *logger.Logger {
	return logger.With("api", logger.Fields{"base_url": c.baseURL})
}

// getJSON performs a paced, retried GET of path with params and decodes the
// JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := retryGet(ctx, c.retry, func() ([]byte, error) {
		return c.get(ctx, path, endpoint)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hackfind")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}
	return body, nil
}
