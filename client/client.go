package client

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dashtune/dashtune/auth"
	"github.com/dashtune/dashtune/cache"
	"github.com/dashtune/dashtune/catalog"
	"github.com/dashtune/dashtune/dedup"
	"github.com/dashtune/dashtune/health"
	"github.com/dashtune/dashtune/observe"
	"github.com/dashtune/dashtune/player"
	"github.com/dashtune/dashtune/secret"
	"github.com/dashtune/dashtune/settings"
)

// Option overrides a constructed component, mainly for tests.
type Option func(*options)

type options struct {
	resolver  *secret.Resolver
	observer  observe.Observer
	transport http.RoundTripper
	cache     cache.Cache
}

// WithResolver overrides the secret resolver. The default resolves
// secretref:env: references against the process environment.
func WithResolver(r *secret.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithObserver supplies an externally owned Observer. The client will not
// shut it down on Close.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithTransport overrides the base HTTP transport under the auth layer.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithCache overrides the cover-art cache.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// Client is the assembled streaming client.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: all network operations honor cancellation/deadlines.
// - Errors: catalog failures surface as *catalog.Error.
type Client struct {
	id       string
	deviceID string
	settings settings.Settings

	session  *auth.Session
	dedup    *dedup.Deduplicator
	cache    cache.Cache
	catalog  *catalog.Client
	prefetch *catalog.Prefetcher
	player   *player.Session
	checks   *health.Aggregator
	mw       *observe.Middleware
	observer observe.Observer
	ownsObs  bool
}

// New builds a client from validated settings. The password reference is
// resolved here; no network traffic happens until the first request.
func New(ctx context.Context, s settings.Settings, opts ...Option) (*Client, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.resolver == nil {
		o.resolver = secret.NewResolver(true, secret.NewEnvProvider())
	}
	password, err := o.resolver.ResolveValue(ctx, s.Server.PasswordRef)
	if err != nil {
		return nil, fmt.Errorf("client: resolve password: %w", err)
	}

	session, err := auth.NewSession(auth.Config{
		BaseURL: s.Server.URL,
		Credentials: auth.Credentials{
			Username: s.Server.Username,
			Password: password,
		},
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		id:       uuid.NewString(),
		deviceID: uuid.NewString(),
		settings: s,
		session:  session,
		observer: o.observer,
	}

	if c.observer == nil && (s.Telemetry.TracesEnabled || s.Telemetry.MetricsEnabled) {
		// The OTLP exporters read their endpoint from the environment.
		if s.Telemetry.Endpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", s.Telemetry.Endpoint)
		}
		obs, err := observe.NewObserver(ctx, observe.Config{
			ServiceName: "dashtune",
			Tracing: observe.TracingConfig{
				Enabled:   s.Telemetry.TracesEnabled,
				Exporter:  "otlp",
				SamplePct: 1.0,
			},
			Metrics: observe.MetricsConfig{
				Enabled:  s.Telemetry.MetricsEnabled,
				Exporter: "otlp",
			},
			Logging: observe.LoggingConfig{
				Enabled: true,
				Level:   "info",
			},
		})
		if err != nil {
			return nil, fmt.Errorf("client: telemetry: %w", err)
		}
		c.observer = obs
		c.ownsObs = true
	}

	if c.observer != nil {
		mw, err := observe.MiddlewareFromObserver(c.observer)
		if err != nil {
			return nil, err
		}
		c.mw = mw
	} else {
		c.mw = observe.NewNoopMiddleware()
	}

	metrics := c.mw.Metrics()
	c.dedup = dedup.New(dedup.WithOnCoalesce(func(key string) {
		metrics.RecordCoalesce(context.Background(), opFromKey(key))
	}))

	c.cache = o.cache
	if c.cache == nil {
		c.cache = cache.NewMemoryCache()
	}

	httpClient := &http.Client{
		Transport: auth.NewTransport(session, o.transport),
		Timeout:   30 * time.Second,
	}

	cat, err := catalog.New(catalog.Config{
		BaseURL:    s.Server.URL,
		HTTPClient: httpClient,
		PageSize:   s.Browse.PageSize,
		Dedup:      c.dedup,
		Cache:      c.cache,
		Middleware: c.mw,
		Offline:    s.Browse.OfflineMode,
	})
	if err != nil {
		return nil, err
	}
	c.catalog = cat
	c.prefetch = catalog.NewPrefetcher(cat, catalog.PrefetcherConfig{})

	c.player = player.NewSession(player.NewQueue(), player.WithListener(func(tr player.Transition) {
		metrics.RecordStateChange(context.Background(), tr.From.String(), tr.To.String())
	}))

	c.checks = health.NewAggregator()
	c.checks.Register("server", health.NewServerChecker(cat.Ping))
	c.checks.Register("session", sessionChecker(session))

	return c, nil
}

// ID is the unique identifier of this client instance.
func (c *Client) ID() string {
	return c.id
}

// DeviceID identifies the device to the server, e.g. in stream requests.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// Settings returns the settings the client was built with.
func (c *Client) Settings() settings.Settings {
	return c.settings
}

// Catalog returns the catalog client.
func (c *Client) Catalog() *catalog.Client {
	return c.catalog
}

// Prefetcher returns the background cache warmer. Screens hand it the
// albums they render so scrolling hits warm art.
func (c *Client) Prefetcher() *catalog.Prefetcher {
	return c.prefetch
}

// Player returns the playback session.
func (c *Client) Player() *player.Session {
	return c.player
}

// StreamURL returns the stream URL for a track, capped at the configured
// bitrate.
func (c *Client) StreamURL(trackID string) (string, error) {
	return c.catalog.StreamURL(trackID, c.settings.EffectiveMaxBitrate())
}

// Health runs all component checks and returns the overall status with
// the per-component results.
func (c *Client) Health(ctx context.Context) (health.Status, map[string]health.Result) {
	results := c.checks.CheckAll(ctx)
	return c.checks.OverallStatus(results), results
}

// Logout stops playback, invalidates the session, drops all in-flight
// coalesced requests, and purges cached data.
func (c *Client) Logout(ctx context.Context) error {
	c.player.Stop()
	c.player.Queue().Clear()
	c.dedup.Clear()
	c.session.Logout()
	if err := c.cache.Purge(ctx); err != nil {
		return fmt.Errorf("client: purge cache: %w", err)
	}
	return nil
}

// Close logs out and shuts down client-owned telemetry.
func (c *Client) Close(ctx context.Context) error {
	err := c.Logout(ctx)
	if c.ownsObs && c.observer != nil {
		if sErr := c.observer.Shutdown(ctx); sErr != nil && err == nil {
			err = sErr
		}
	}
	return err
}

// sessionChecker reports the auth token state: degraded before first login
// and close to expiry, healthy while the token has time left.
func sessionChecker(s *auth.Session) health.Checker {
	return health.NewCheckerFunc("session", func(ctx context.Context) health.Result {
		expiry := s.Expiry()
		switch {
		case expiry.IsZero():
			return health.Degraded("no active session")
		case time.Until(expiry) < time.Minute:
			return health.Degraded("token expiring soon")
		default:
			return health.Healthy("token valid")
		}
	})
}

// opFromKey extracts the operation name from a dedup key ("op:params...").
func opFromKey(key string) string {
	if op, _, ok := strings.Cut(key, ":"); ok {
		return op
	}
	return key
}
