// Package client implements an NCBI E-utilities API client with rate
// limiting, retry with exponential backoff and an optional durable response
// cache.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/austinxramos/ncbi-api-client/pkg/cache/sqlite"
	"github.com/austinxramos/ncbi-api-client/pkg/config"
	"github.com/austinxramos/ncbi-api-client/pkg/ratelimit"
)

// Client talks to the NCBI E-utilities API. All operations are synchronous
// and serialize through one shared rate gate, so a single Client instance is
// safe to share across goroutines.
type Client struct {
	email       string
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	gate        *ratelimit.Gate
	cache       *sqlite.Store
	cacheMaxAge time.Duration
	maxRetries  int
	logger      *zap.Logger

	// Backoff window for retryable failures: starts at retryInitial,
	// doubles each attempt, capped at retryMax.
	retryInitial time.Duration
	retryMax     time.Duration

	// interval is kept only so option order doesn't matter when both
	// WithAPIKey and WithRateInterval are given.
	interval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the NCBI API key, which also selects the elevated-rate
// preset unless an explicit interval is configured.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL overrides the E-utilities base URL. Intended for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateInterval overrides the minimum interval between requests.
func WithRateInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

// WithCache attaches a durable response cache. Without one every call goes
// to the network.
func WithCache(store *sqlite.Store) Option {
	return func(c *Client) { c.cache = store }
}

// WithCacheMaxAge sets the freshness window for cached responses.
func WithCacheMaxAge(d time.Duration) Option {
	return func(c *Client) { c.cacheMaxAge = d }
}

// WithMaxRetries sets the total attempt cap for retryable failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client. NCBI guidelines require a contact email on every
// request, so an empty email is an error.
func New(email string, opts ...Option) (*Client, error) {
	if email == "" {
		return nil, errors.New("ncbi client: email is required")
	}

	c := &Client{
		email:        email,
		baseURL:      config.BaseURL,
		httpClient:   &http.Client{Timeout: config.DefaultTimeout},
		cacheMaxAge:  config.DefaultCacheAge,
		maxRetries:   config.DefaultMaxRetries,
		logger:       zap.NewNop(),
		retryInitial: time.Second,
		retryMax:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.interval == 0 {
		if c.apiKey != "" {
			c.interval = config.APIKeyInterval
		} else {
			c.interval = config.DefaultInterval
		}
	}
	c.gate = ratelimit.New(c.interval)

	c.logger.Info("initialized ncbi client",
		zap.Duration("rate_interval", c.interval),
		zap.Bool("has_api_key", c.apiKey != ""),
		zap.Bool("has_cache", c.cache != nil))

	return c, nil
}

// Close releases the cache store and any idle network connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}

// execute performs one logical request: identity parameters are attached,
// the rate gate is acquired per attempt, 429s and transport failures are
// retried with exponential backoff (1s doubling, capped at 10s) up to the
// attempt cap, and any other non-success status fails permanently. The last
// error propagates to the caller unchanged in kind. No caching happens here.
func (c *Client) execute(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	query.Set("email", c.email)
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}

	requestURL := c.baseURL + endpoint + "?" + query.Encode()

	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		c.gate.Acquire()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, backoff.Permanent(&APIError{Message: fmt.Sprintf("build request: %v", err)})
		}
		req.Header.Set("User-Agent", config.UserAgent)

		c.logger.Debug("request", zap.String("endpoint", endpoint), zap.Int("attempt", attempt))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("request failed", zap.String("endpoint", endpoint), zap.Error(err))
			return nil, &TransientError{Err: err}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransientError{Err: err}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			c.logger.Warn("rate limit exceeded, will retry", zap.String("endpoint", endpoint))
			return nil, &RateLimitError{Message: "ncbi rate limit exceeded"}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, backoff.Permanent(&APIError{
				StatusCode: resp.StatusCode,
				Message:    http.StatusText(resp.StatusCode),
			})
		}

		return body, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial
	bo.Multiplier = 2
	bo.MaxInterval = c.retryMax
	bo.MaxElapsedTime = 0

	retries := uint64(0)
	if c.maxRetries > 1 {
		retries = uint64(c.maxRetries - 1)
	}

	return backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(bo, retries), ctx))
}

// cacheGet looks up a cached payload, downgrading any store failure to a
// miss so the operation can proceed with a live request.
func (c *Client) cacheGet(endpoint string, params map[string]string) []byte {
	if c.cache == nil {
		return nil
	}
	payload, err := c.cache.Get(endpoint, params, c.cacheMaxAge)
	if err != nil {
		c.logger.Warn("cache read failed, treating as miss", zap.String("endpoint", endpoint), zap.Error(err))
		return nil
	}
	if payload == nil {
		c.logger.Debug("cache miss", zap.String("endpoint", endpoint))
		return nil
	}
	c.logger.Debug("cache hit", zap.String("endpoint", endpoint))
	return payload
}

// cacheSet writes a payload back, ignoring store failures beyond a warning.
func (c *Client) cacheSet(endpoint string, params map[string]string, payload []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(endpoint, params, payload); err != nil {
		c.logger.Warn("cache write failed", zap.String("endpoint", endpoint), zap.Error(err))
	}
}
