// Package pipeline implements the request pipeline every endpoint accessor
// goes through: cache lookup, network fetch, retry with backoff, cache store.
//
// # Algorithm
//
// For a [Request] with a cache key:
//
//  1. If the cache holds an entry for the key that is fresh under the
//     request's TTL, return it without touching the network.
//  2. Otherwise send up to MaxAttempts requests through the [httputil.Transport].
//     A transport error, a non-2xx status or a body that is not valid JSON
//     fails the attempt. An empty or all-whitespace 2xx body is valid and
//     yields the JSON document null. Every failure is retried, and the delay
//     before attempt i+1 is base * 2^i.
//  3. On the first success, store the body with the clock's current time and
//     return it.
//  4. If every attempt fails, return an [errors.RetriesExhaustedError]
//     wrapping the last attempt's error.
//
// A request with an empty cache key skips steps 1 and 3: it always reaches
// the network and never writes to the cache.
//
// # Concurrency
//
// A Pipeline is safe for concurrent use. Each Fetch runs its attempts
// sequentially and its backoff only blocks the calling goroutine. Concurrent
// fetches of the same key are not coalesced; the last one to succeed wins.
//
// [errors.RetriesExhaustedError]: github.com/matzehuels/orbit/pkg/errors.RetriesExhaustedError
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/httputil"
	"github.com/matzehuels/orbit/pkg/observability"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultTTL is the freshness window used when a request does not set one.
	DefaultTTL = time.Hour

	// DefaultMaxAttempts is the attempt budget used when a request does not set one.
	DefaultMaxAttempts = httputil.DefaultAttempts

	// DefaultBaseDelay is the first backoff delay.
	DefaultBaseDelay = httputil.DefaultBaseDelay
)

// uncachedLabel labels hook events for requests without a cache key.
const uncachedLabel = "uncached"

// =============================================================================
// Types
// =============================================================================

// Request describes one fetch.
type Request struct {
	URL         string        // Absolute URL, may carry an api_key query parameter
	CacheKey    string        // Empty disables caching for this call
	TTL         time.Duration // Freshness window; 0 means the pipeline's default TTL
	MaxAttempts int           // Attempt budget; <= 0 means DefaultMaxAttempts

	// Label names the request in logs and metrics. It defaults to the
	// cache key's namespace.
	Label string
}

func (r Request) ttl(def time.Duration) time.Duration {
	if r.TTL <= 0 {
		return def
	}
	return r.TTL
}

func (r Request) attempts() int {
	if r.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return r.MaxAttempts
}

func (r Request) label() string {
	switch {
	case r.Label != "":
		return r.Label
	case r.CacheKey != "":
		return cache.Namespace(r.CacheKey)
	default:
		return uncachedLabel
	}
}

// Result is a fetched payload together with how it was obtained.
type Result struct {
	Data     json.RawMessage
	CacheHit bool      // Served from a fresh cache entry
	Attempts int       // Network attempts made; 0 on a cache hit
	StoredAt time.Time // When the returned payload entered the cache; zero if uncached
}

// Pipeline fetches JSON documents through a transport and a shared cache.
type Pipeline struct {
	transport  httputil.Transport
	cache      *cache.Cache
	clock      httputil.Clock
	sleeper    httputil.Sleeper
	baseDelay  time.Duration
	defaultTTL time.Duration
	logger     *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used for cache timestamps and freshness checks.
func WithClock(c httputil.Clock) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithSleeper sets how the pipeline waits between attempts.
func WithSleeper(s httputil.Sleeper) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sleeper = s
		}
	}
}

// WithBaseDelay sets the first backoff delay. Values <= 0 are ignored.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.baseDelay = d
		}
	}
}

// WithDefaultTTL sets the freshness window for requests without a TTL.
// Values <= 0 are ignored.
func WithDefaultTTL(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.defaultTTL = d
		}
	}
}

// DefaultTTL returns the freshness window used for requests without a TTL.
func (p *Pipeline) DefaultTTL() time.Duration {
	return p.defaultTTL
}

// WithLogger sets the logger. Attempts and cache decisions are logged at
// debug level, failures at warn.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a pipeline sending through t and caching in c.
// If c is nil a private cache is created.
func New(t httputil.Transport, c *cache.Cache, opts ...Option) *Pipeline {
	if c == nil {
		c = cache.New()
	}
	p := &Pipeline{
		transport:  t,
		cache:      c,
		clock:      httputil.SystemClock{},
		sleeper:    httputil.TimerSleeper{},
		baseDelay:  DefaultBaseDelay,
		defaultTTL: DefaultTTL,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Cache returns the cache the pipeline reads and writes.
func (p *Pipeline) Cache() *cache.Cache {
	return p.cache
}

// Fetch returns the JSON document for req, from cache when fresh.
func (p *Pipeline) Fetch(ctx context.Context, req Request) (json.RawMessage, error) {
	res, err := p.FetchResult(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// FetchResult is like Fetch but also reports whether the cache was used and
// how many attempts were made.
func (p *Pipeline) FetchResult(ctx context.Context, req Request) (*Result, error) {
	label := req.label()
	redacted := httputil.RedactURL(req.URL)

	if req.CacheKey != "" {
		if res, ok := p.lookup(req); ok {
			observability.Cache().OnCacheHit(ctx, label)
			p.logger.Debug("cache hit", "key", req.CacheKey, "age", p.clock.Now().Sub(res.StoredAt))
			return res, nil
		}
		observability.Cache().OnCacheMiss(ctx, label)
		p.logger.Debug("cache miss", "key", req.CacheKey)
	}

	var data json.RawMessage
	retrier := httputil.Retrier{
		Attempts:  req.attempts(),
		BaseDelay: p.baseDelay,
		Sleeper:   p.sleeper,
		OnFailure: func(attempt int, err error, delay time.Duration) {
			observability.Fetch().OnAttemptFailed(ctx, label, attempt, err)
			if delay > 0 {
				observability.Fetch().OnBackoff(ctx, label, delay)
				p.logger.Warn("attempt failed, backing off", "url", redacted, "attempt", attempt+1, "delay", delay, "err", err)
				return
			}
			p.logger.Warn("attempt failed", "url", redacted, "attempt", attempt+1, "err", err)
		},
	}

	start := time.Now()
	attempts, err := retrier.Do(ctx, func(attempt int) error {
		p.logger.Debug("fetching", "url", redacted, "attempt", attempt+1)
		var aerr error
		data, aerr = p.attempt(ctx, req.URL)
		return aerr
	})
	observability.Fetch().OnFetchComplete(ctx, label, attempts, time.Since(start), err)
	if err != nil {
		if errors.Is(err, errors.ErrCodeRetriesExhausted) {
			p.logger.Error("giving up", "url", redacted, "attempts", attempts, "err", err)
		}
		return nil, err
	}

	res := &Result{Data: data, Attempts: attempts}
	if req.CacheKey != "" {
		now := p.clock.Now()
		p.cache.Put(req.CacheKey, data, now)
		res.StoredAt = now
		observability.Cache().OnCacheSet(ctx, label, len(data))
		p.logger.Debug("stored", "key", req.CacheKey, "bytes", len(data))
	}
	return res, nil
}

// lookup returns the cached result for req if it is fresh.
func (p *Pipeline) lookup(req Request) (*Result, bool) {
	e, ok := p.cache.Get(req.CacheKey)
	if !ok || !cache.IsFresh(e, p.clock.Now(), req.ttl(p.defaultTTL)) {
		return nil, false
	}
	data, ok := e.Value.(json.RawMessage)
	if !ok {
		// Entries written outside the pipeline are re-encoded.
		b, err := json.Marshal(e.Value)
		if err != nil {
			return nil, false
		}
		data = b
	}
	return &Result{Data: data, CacheHit: true, StoredAt: e.StoredAt}, true
}

// attempt performs one network round trip and validates the body.
func (p *Pipeline) attempt(ctx context.Context, url string) (json.RawMessage, error) {
	resp, err := p.transport.Send(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := httputil.StatusError(resp, url); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		// Some endpoints answer an empty window with no body at all.
		return json.RawMessage("null"), nil
	}
	var data json.RawMessage
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode response from %s", httputil.RedactURL(url))
	}
	return data, nil
}
