package httputil

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/observability"
)

const (
	// DefaultTimeout bounds a single round trip, including reading the body.
	DefaultTimeout = 10 * time.Second

	// MaxBodySize is the largest response body a transport will read.
	MaxBodySize = 32 << 20
)

// Response is the result of a completed round trip, whatever its status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport performs a single GET request.
//
// Implementations return an error only when no response was received
// (connection failure, timeout, oversized body). A non-2xx status is not an
// error at this layer; see [StatusError].
type Transport interface {
	Send(ctx context.Context, url string) (*Response, error)
}

// TransportFunc adapts a function to the [Transport] interface.
type TransportFunc func(ctx context.Context, url string) (*Response, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, url string) (*Response, error) { return f(ctx, url) }

// NewHTTPClient creates an HTTP client with the given timeout.
// A timeout <= 0 uses [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// HTTPTransport implements [Transport] over net/http.
type HTTPTransport struct {
	client  *http.Client
	headers map[string]string
}

// NewHTTPTransport creates a transport that sends headers with every request.
// A nil client uses [NewHTTPClient] with the default timeout.
func NewHTTPTransport(client *http.Client, headers map[string]string) *HTTPTransport {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &HTTPTransport{client: client, headers: headers}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, rawURL string) (*Response, error) {
	redacted := RedactURL(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, redactError(err), "build request for %s", redacted)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := t.client.Do(req)
	if err != nil {
		err = redactError(err)
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "GET %s", redacted)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		err = redactError(err)
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "read body of %s", redacted)
	}
	if len(body) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeTransport, "response from %s exceeds %d bytes", redacted, MaxBodySize)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// StatusError converts a non-2xx response into an error.
// It returns nil for 2xx responses. A 429 becomes an
// *errors.RateLimitedError carrying the Retry-After seconds, if any.
func StatusError(resp *Response, rawURL string) error {
	if resp.OK() {
		return nil
	}
	se := errors.HTTPStatusError{Status: resp.StatusCode, URL: RedactURL(rawURL)}
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &errors.RateLimitedError{HTTPStatusError: se, RetryAfter: retryAfter}
	}
	return &se
}

// secretParams are query parameters whose values never appear in logs.
var secretParams = []string{"api_key", "token", "access_token"}

// RedactURL returns rawURL with secret query parameter values replaced by
// "REDACTED". Unparseable input is returned unchanged.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// redactError strips secrets from the URL net/http embeds in its errors.
func redactError(err error) error {
	var ue *url.Error
	if stderrors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: RedactURL(ue.URL), Err: ue.Err}
	}
	return err
}
