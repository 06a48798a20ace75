package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/setlist/pkg/buildinfo"
	"github.com/matzehuels/setlist/pkg/cache"
	serrors "github.com/matzehuels/setlist/pkg/errors"
	"github.com/matzehuels/setlist/pkg/httputil"
	"github.com/matzehuels/setlist/pkg/observability"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the backend has no such record.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client talks to the concert collection backend over HTTP.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http    *http.Client
	base    *url.URL
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	retry   httputil.Policy
	refresh bool
	headers map[string]string
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache stores responses in cc for ttl. Keys are scoped to the base URL.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.ttl = ttl
	}
}

// WithRefresh makes every read bypass the cache (results are still stored).
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// WithHeaders sets headers applied to every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// WithRetry overrides the retry policy for transient failures.
func WithRetry(p httputil.Policy) Option {
	return func(c *Client) { c.retry = p }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for the backend at baseURL.
// Without [WithCache] responses are not cached.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := serrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidURL, err, "parse base URL")
	}
	c := &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		base:   u,
		cache:  cache.NewNullCache(),
		retry:  httputil.DefaultPolicy,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"+cache.Hash([]byte(u.String()))[:12]+":")
	return c, nil
}

// BaseURL returns the backend URL the client was created with.
func (c *Client) BaseURL() string { return c.base.String() }

// Collection fetches one page of a user's collection.
// GET /collections/user/{id}?page=&size=
func (c *Client) Collection(ctx context.Context, userID string, page, size int) (*Page, error) {
	userID = strings.TrimSpace(userID)
	if err := serrors.ValidateID("user", userID); err != nil {
		return nil, err
	}
	page, size = normalizePaging(page, size)

	var p Page
	key := c.keyer.CollectionKey(userID, page, size)
	err := c.Cached(ctx, key, cache.KeyTypeCollection, &p, func() error {
		q := url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}}
		return c.do(ctx, http.MethodGet, "/collections/user/"+userID, q, nil, "", &p)
	})
	if err != nil {
		return nil, fmt.Errorf("collection of user %s: %w", userID, err)
	}
	if p.Content == nil {
		p.Content = []Item{}
	}
	return &p, nil
}

// User fetches a user's public profile.
// GET /users/{id}
func (c *Client) User(ctx context.Context, userID string) (*User, error) {
	userID = strings.TrimSpace(userID)
	if err := serrors.ValidateID("user", userID); err != nil {
		return nil, err
	}
	var u User
	err := c.Cached(ctx, c.keyer.UserKey(userID), cache.KeyTypeUser, &u, func() error {
		return c.do(ctx, http.MethodGet, "/users/"+userID, nil, nil, "", &u)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, serrors.Wrap(serrors.ErrCodeUserNotFound, err, "user %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	return &u, nil
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// The fetch function should populate v; on success, v is stored in the cache.
// Cache failures never fail the call.
func (c *Client) Cached(ctx context.Context, key, keyType string, v any, fetch func() error) error {
	if !c.refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok && json.Unmarshal(data, v) == nil {
			observability.Cache().OnCacheHit(ctx, keyType)
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	if err := httputil.Retry(ctx, c.retry, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Debug("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return nil
}

// do sends one request and JSON-decodes the response into v when v is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, v any) error {
	data, err := c.send(ctx, method, path, query, body, contentType)
	if err != nil || v == nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs one request and returns the response body of a 2xx reply.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) ([]byte, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return serrors.New(serrors.ErrCodeUnauthorized, "backend rejected the request: status %d", code)
	case code == http.StatusForbidden:
		return serrors.New(serrors.ErrCodeForbidden, "backend refused the request: status %d", code)
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &serrors.RateLimitedError{RetryAfter: retryAfter}
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func normalizePaging(page, size int) (int, int) {
	if page < 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, size
}
