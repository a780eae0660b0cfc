package catalog

import (
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

	"github.com/dashtune/dashtune/cache"
	"github.com/dashtune/dashtune/dedup"
	"github.com/dashtune/dashtune/observe"
	"github.com/dashtune/dashtune/resilience"
)

// apiPrefix is the catalog server's API mount point.
const apiPrefix = "/api/v1"

// maxBodySize bounds response decoding. Cover art is the largest payload
// the client ever pulls.
const maxBodySize = 16 << 20

// Config configures a catalog Client.
type Config struct {
	// BaseURL is the catalog server URL (e.g. "https://music.example.com").
	BaseURL string

	// HTTPClient performs the requests, typically backed by auth.Transport.
	// If nil, a default client with a 30s timeout is used.
	HTTPClient *http.Client

	// PageSize is the default listing page size when a Page carries no limit.
	// Default: 50
	PageSize int

	// Dedup coalesces identical concurrent requests. One instance is
	// normally shared across the whole client. If nil, a private instance
	// is created.
	Dedup *dedup.Deduplicator

	// Cache stores cover-art bytes. If nil, an in-memory cache is created.
	Cache cache.Cache

	// Policy bounds cache TTLs. Zero value means cache.DefaultPolicy.
	Policy cache.Policy

	// Executor wraps each request with retry/timeout/circuit breaking.
	// If nil, a default executor with a per-request timeout, retries on
	// retryable categories, and a circuit breaker is created.
	Executor *resilience.Executor

	// Middleware instruments each request. If nil, a no-op is used.
	Middleware *observe.Middleware

	// Offline refuses all network requests with ErrOffline. Cached data,
	// such as previously fetched cover art, is still served.
	Offline bool
}

// Client is the catalog REST client.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: all operations honor cancellation/deadlines.
// - Errors: failures surface as *Error with a Category.
type Client struct {
	baseURL  string
	http     *http.Client
	pageSize int
	dedup    *dedup.Deduplicator
	cache    cache.Cache
	policy   cache.Policy
	keyer    cache.Keyer
	exec     *resilience.Executor
	mw       *observe.Middleware
	offline  bool
}

// transientFailure widens IsRetryable to cover deadline failures raised by
// the executor itself rather than by the HTTP layer. Permanent failures
// (auth, not-found, offline) neither retry nor trip the circuit breaker.
func transientFailure(err error) bool {
	return IsRetryable(err) || errors.Is(err, resilience.ErrTimeout)
}

// New creates a catalog client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}

	// Apply defaults
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.Dedup == nil {
		cfg.Dedup = dedup.New()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemoryCache()
	}
	if cfg.Policy == (cache.Policy{}) {
		cfg.Policy = cache.DefaultPolicy()
	}
	if cfg.Executor == nil {
		cfg.Executor = resilience.NewExecutor(
			resilience.WithTimeout(15*time.Second),
			resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
				RetryIf: transientFailure,
			})),
			resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
				IsFailure: transientFailure,
			})),
		)
	}
	if cfg.Middleware == nil {
		cfg.Middleware = observe.NewNoopMiddleware()
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     cfg.HTTPClient,
		pageSize: cfg.PageSize,
		dedup:    cfg.Dedup,
		cache:    cfg.Cache,
		policy:   cfg.Policy,
		keyer:    cache.NewDefaultKeyer(),
		exec:     cfg.Executor,
		mw:       cfg.Middleware,
		offline:  cfg.Offline,
	}, nil
}

// Deduplicator returns the client's request deduplicator.
func (c *Client) Deduplicator() *dedup.Deduplicator {
	return c.dedup
}

// Offline reports whether the client refuses network requests.
func (c *Client) Offline() bool {
	return c.offline
}

// page normalizes a Page against the configured default limit.
func (c *Client) page(p Page) Page {
	if p.Limit <= 0 {
		p.Limit = c.pageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// getJSON performs one instrumented, resilience-wrapped GET and decodes the
// response into out. It is the leaf every fetch bottoms out in; callers
// route through the deduplicator first.
func (c *Client) getJSON(ctx context.Context, meta observe.OpMeta, path string, query url.Values, out any) error {
	return c.mw.Do(ctx, meta, func(ctx context.Context) error {
		return c.exec.Execute(ctx, func(ctx context.Context) error {
			body, err := c.getRaw(ctx, meta.Op, path, query)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(body, out); err != nil {
				return &Error{Op: meta.Op, Category: CategoryClient, Err: fmt.Errorf("decode response: %w", err)}
			}
			return nil
		})
	})
}

// getBytes performs one instrumented, resilience-wrapped GET returning the
// raw body.
func (c *Client) getBytes(ctx context.Context, meta observe.OpMeta, path string, query url.Values) ([]byte, error) {
	var body []byte
	err := c.mw.Do(ctx, meta, func(ctx context.Context) error {
		return c.exec.Execute(ctx, func(ctx context.Context) error {
			var err error
			body, err = c.getRaw(ctx, meta.Op, path, query)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// getRaw performs the HTTP GET and classifies failures.
func (c *Client) getRaw(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	if c.offline {
		return nil, &Error{Op: op, Category: CategoryOffline, Err: ErrOffline}
	}

	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Op: op, Category: CategoryClient, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, httpError(op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportError(op, err)
	}
	return body, nil
}

// fetchJSON routes a JSON GET through the deduplicator so identical
// concurrent calls share one round trip.
func fetchJSON[T any](ctx context.Context, c *Client, key string, meta observe.OpMeta, path string, query url.Values) (T, error) {
	return dedup.Value(ctx, c.dedup, key, func(ctx context.Context) (T, error) {
		var out T
		err := c.getJSON(ctx, meta, path, query, &out)
		return out, err
	})
}

// Ping checks server reachability. It bypasses the deduplicator: a health
// probe must always hit the wire.
func (c *Client) Ping(ctx context.Context) error {
	meta := observe.OpMeta{Component: "catalog", Op: "ping"}
	return c.mw.Do(ctx, meta, func(ctx context.Context) error {
		_, err := c.getRaw(ctx, "ping", "/ping", nil)
		return err
	})
}

// StreamURL returns the URL that streams the given track. No request is
// made; the playback layer hands this to its media engine.
func (c *Client) StreamURL(trackID string, maxBitRate int) (string, error) {
	if trackID == "" {
		return "", ErrEmptyID
	}
	u := c.baseURL + apiPrefix + "/stream/" + url.PathEscape(trackID)
	if maxBitRate > 0 {
		u += "?maxBitRate=" + strconv.Itoa(maxBitRate)
	}
	return u, nil
}

// CoverArt returns the cover-art bytes for an art ID, scaled to size pixels
// when size > 0. Bytes are cached under the artwork TTL; concurrent misses
// for the same art collapse into one fetch.
func (c *Client) CoverArt(ctx context.Context, artID string, size int) ([]byte, error) {
	if artID == "" {
		return nil, ErrEmptyID
	}

	cacheKey, err := c.keyer.Key("coverart", map[string]any{"id": artID, "size": size})
	if err != nil {
		return nil, &Error{Op: "coverArt", Category: CategoryClient, Err: err}
	}

	if data, ok := c.cache.Get(ctx, cacheKey); ok {
		c.mw.Metrics().RecordCacheLookup(ctx, "coverart", true)
		return data, nil
	}
	c.mw.Metrics().RecordCacheLookup(ctx, "coverart", false)

	ttl := c.policy.EffectiveTTL(c.policy.ArtworkTTL)
	dedupKey := dedup.Key("coverArt", artID, size)

	return dedup.Value(ctx, c.dedup, dedupKey, func(ctx context.Context) ([]byte, error) {
		return cache.GetOrFetch(ctx, c.cache, cacheKey, ttl, func(ctx context.Context) ([]byte, error) {
			query := url.Values{}
			if size > 0 {
				query.Set("size", strconv.Itoa(size))
			}
			meta := observe.OpMeta{Component: "catalog", Op: "coverArt", Entity: "coverart", ID: artID}
			return c.getBytes(ctx, meta, "/coverart/"+url.PathEscape(artID), query)
		})
	})
}
