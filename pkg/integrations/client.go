package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/pipeline"
)

// Endpoint describes one accessor: how its responses are cached and how
// hard the pipeline tries to fetch them.
type Endpoint struct {
	Name     string        // Category and cache namespace (e.g. "apod")
	Op       string        // Operation within the category (e.g. "date")
	TTL      time.Duration // Freshness window; 0 uses the pipeline default
	Attempts int           // Attempt budget; 0 uses the client default
	Uncached bool          // Always fetch; for time-varying responses
}

// String returns "name.op", or just the name when Op is empty.
func (e Endpoint) String() string {
	if e.Op == "" {
		return e.Name
	}
	return e.Name + "." + e.Op
}

// Params are query parameters. Empty values are dropped when encoding.
type Params map[string]string

// Encode returns the parameters in sorted, URL-encoded form.
func (p Params) Encode() string {
	return p.values().Encode()
}

func (p Params) values() url.Values {
	v := make(url.Values, len(p))
	for k, val := range p {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Validator is implemented by response types that can tell whether a
// decoded document carries the fields they need.
type Validator interface {
	Validate() error
}

// Options configures a Client.
type Options struct {
	BaseURL  string                   // Scheme and host, optionally with a path prefix
	APIKey   string                   // Sent as the api_key query parameter; empty omits it
	Attempts int                      // Default attempt budget; 0 keeps the pipeline default
	TTL      map[string]time.Duration // TTL overrides keyed by Endpoint.Name
}

// Client binds a base URL and API key to a request pipeline.
// It is safe for concurrent use.
type Client struct {
	pipeline *pipeline.Pipeline
	baseURL  string
	apiKey   string
	attempts int
	ttl      map[string]time.Duration
}

// NewClient creates a Client fetching through p.
func NewClient(p *pipeline.Pipeline, opts Options) *Client {
	return &Client{
		pipeline: p,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		attempts: opts.Attempts,
		ttl:      opts.TTL,
	}
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Pipeline returns the pipeline requests go through.
func (c *Client) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// URL builds the absolute request URL for path and params, including the
// API key if one is configured.
func (c *Client) URL(path string, params Params) string {
	v := params.values()
	if c.apiKey != "" {
		v.Set("api_key", c.apiKey)
	}
	u := c.baseURL + path
	if q := v.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// CacheKey derives the cache key for e, path and params.
// The API key is never part of it.
func CacheKey(e Endpoint, path string, params Params) string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	parts = append(parts, path)
	if q := params.Encode(); q != "" {
		parts = append(parts, q)
	}
	return cache.Key(e.Name, parts...)
}

// Request builds the pipeline request for e.
func (c *Client) Request(e Endpoint, path string, params Params) pipeline.Request {
	req := pipeline.Request{
		URL:         c.URL(path, params),
		TTL:         e.TTL,
		MaxAttempts: e.Attempts,
		Label:       e.Name,
	}
	if d, ok := c.ttl[e.Name]; ok && d > 0 {
		req.TTL = d
	}
	if req.MaxAttempts <= 0 {
		req.MaxAttempts = c.attempts
	}
	if !e.Uncached {
		req.CacheKey = CacheKey(e, path, params)
	}
	return req
}

// FetchRaw runs e through the pipeline and returns the undecoded document.
func (c *Client) FetchRaw(ctx context.Context, e Endpoint, path string, params Params) (json.RawMessage, error) {
	return c.pipeline.Fetch(ctx, c.Request(e, path, params))
}

// Fetch runs e through the pipeline and decodes the document into T.
//
// Pipeline failures are returned unchanged. A document that does not decode
// into T, or that fails T's [Validator] check, is reported with code
// UNEXPECTED_PAYLOAD.
func Fetch[T any](ctx context.Context, c *Client, e Endpoint, path string, params Params) (T, error) {
	var v T
	raw, err := c.FetchRaw(ctx, e, path, params)
	if err != nil {
		return v, err
	}
	if err := Decode(raw, &v); err != nil {
		return v, errors.Wrap(errors.ErrCodeUnexpectedPayload, err, "%s response", e)
	}
	return v, nil
}

// Decode unmarshals raw into v and runs v's Validate method, if any.
// An empty body decodes as JSON null; DONKI answers an empty window that way.
func Decode(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("null")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return err
	}
	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	return nil
}

// PathSegment validates an identifier taken from user input and escapes it
// for use as a single URL path segment.
func PathSegment(kind, value string) (string, error) {
	if err := errors.ValidateIdentifier(kind, value); err != nil {
		return "", err
	}
	return url.PathEscape(value), nil
}
