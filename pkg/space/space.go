// Package space is the entry point to every endpoint category.
//
// A [Client] owns one response cache and the pipelines that feed it, and
// exposes one accessor client per category:
//
//	cfg, _ := config.LoadDefault()
//	sc := space.New(cfg, logger)
//	defer sc.Close()
//
//	pic, err := sc.APOD.Today(ctx)
//	photos, err := sc.Mars.Latest(ctx, mars.Curiosity)
//
// NASA endpoints and the open-data catalogs share one transport. The
// Solar System OpenData API gets its own transport carrying the bearer token.
// All of them write into the same cache, so [Client.CacheStats] and
// [Client.ClearCache] cover every category.
package space

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/config"
	"github.com/matzehuels/orbit/pkg/httputil"
	"github.com/matzehuels/orbit/pkg/integrations"
	"github.com/matzehuels/orbit/pkg/integrations/apod"
	"github.com/matzehuels/orbit/pkg/integrations/catalog"
	"github.com/matzehuels/orbit/pkg/integrations/donki"
	"github.com/matzehuels/orbit/pkg/integrations/epic"
	"github.com/matzehuels/orbit/pkg/integrations/mars"
	"github.com/matzehuels/orbit/pkg/integrations/neo"
	"github.com/matzehuels/orbit/pkg/pipeline"
)

// Client bundles the category clients around one shared cache.
type Client struct {
	APOD    *apod.Client
	Mars    *mars.Client
	NEO     *neo.Client
	DONKI   *donki.Client
	EPIC    *epic.Client
	Catalog *catalog.Client

	cfg        *config.Config
	cache      *cache.Cache
	clock      httputil.Clock
	defaultTTL time.Duration
	logger     *log.Logger
}

// Stats summarizes the cache.
type Stats struct {
	Entries    int           `json:"entries"`
	Fresh      int           `json:"fresh"`
	Stale      int           `json:"stale"`
	DefaultTTL time.Duration `json:"default_ttl"`
	Keys       []string      `json:"keys,omitempty"`
}

type options struct {
	transport   httputil.Transport
	solarSystem httputil.Transport
	sleeper     httputil.Sleeper
	clock       httputil.Clock
}

// Option configures New.
type Option func(*options)

// WithTransport replaces the HTTP transport of every pipeline.
func WithTransport(t httputil.Transport) Option {
	return func(o *options) {
		o.transport = t
		o.solarSystem = t
	}
}

// WithSleeper replaces how pipelines wait between attempts.
func WithSleeper(s httputil.Sleeper) Option {
	return func(o *options) { o.sleeper = s }
}

// WithClock replaces the clock used for cache timestamps and DONKI's
// default window.
func WithClock(c httputil.Clock) Option {
	return func(o *options) { o.clock = c }
}

// New builds a Client from cfg. A nil logger uses log.Default().
// cfg is expected to have passed Validate.
func New(cfg *config.Config, logger *log.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = log.Default()
	}
	o := options{clock: httputil.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := httputil.NewHTTPClient(cfg.HTTP.Timeout.Std())
	headers := map[string]string{}
	if cfg.HTTP.UserAgent != "" {
		headers["User-Agent"] = cfg.HTTP.UserAgent
	}
	if o.transport == nil {
		o.transport = httputil.NewHTTPTransport(httpClient, headers)
	}
	if o.solarSystem == nil {
		ssHeaders := map[string]string{}
		for k, v := range headers {
			ssHeaders[k] = v
		}
		if tok := cfg.Endpoints.SolarSystemToken; tok != "" {
			ssHeaders["Authorization"] = "Bearer " + tok
		}
		o.solarSystem = httputil.NewHTTPTransport(httpClient, ssHeaders)
	}

	c := cache.New()
	pipeOpts := []pipeline.Option{
		pipeline.WithClock(o.clock),
		pipeline.WithSleeper(o.sleeper),
		pipeline.WithBaseDelay(cfg.Retry.BaseDelay.Std()),
		pipeline.WithDefaultTTL(cfg.Cache.DefaultTTL.Std()),
		pipeline.WithLogger(logger),
	}
	nasaPipe := pipeline.New(o.transport, c, pipeOpts...)
	ssPipe := pipeline.New(o.solarSystem, c, pipeOpts...)

	ttl := cfg.TTLOverrides()
	client := func(p *pipeline.Pipeline, base, key string) *integrations.Client {
		return integrations.NewClient(p, integrations.Options{
			BaseURL:  base,
			APIKey:   key,
			Attempts: cfg.Retry.MaxAttempts,
			TTL:      ttl,
		})
	}
	nasa := client(nasaPipe, cfg.Endpoints.NASA, cfg.APIKey)

	return &Client{
		APOD:  apod.NewClient(nasa),
		Mars:  mars.NewClient(nasa),
		NEO:   neo.NewClient(nasa),
		DONKI: donki.NewClient(nasa, o.clock),
		EPIC:  epic.NewClient(nasa),
		Catalog: catalog.NewClient(
			client(nasaPipe, cfg.Endpoints.OpenData, ""),
			client(ssPipe, cfg.Endpoints.SolarSystem, ""),
		),
		cfg:        cfg,
		cache:      c,
		clock:      o.clock,
		defaultTTL: nasaPipe.DefaultTTL(),
		logger:     logger,
	}
}

// Config returns the configuration the client was built from.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// Cache returns the shared response cache.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// CacheStats counts entries and how many are fresh under the default TTL.
// Categories with their own TTL may see an entry differently.
func (c *Client) CacheStats() Stats {
	total := c.cache.Size()
	fresh := c.cache.CountFresh(c.clock.Now(), c.defaultTTL)
	return Stats{
		Entries:    total,
		Fresh:      fresh,
		Stale:      max(total-fresh, 0),
		DefaultTTL: c.defaultTTL,
		Keys:       c.cache.Keys(),
	}
}

// ClearCache empties the cache and returns how many entries were removed.
func (c *Client) ClearCache() int {
	n := c.cache.Size()
	c.cache.Clear()
	c.logger.Debug("cache cleared", "entries", n)
	return n
}

// Close releases the cache.
func (c *Client) Close() error {
	c.ClearCache()
	return nil
}

// Ping checks that the NASA API answers with the configured key by fetching
// today's picture, which is usually already cached.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.APOD.Today(ctx)
	return err
}
