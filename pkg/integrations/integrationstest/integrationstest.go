// Package integrationstest provides helpers for testing endpoint accessors
// against an httptest server.
package integrationstest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/httputil"
	"github.com/matzehuels/orbit/pkg/integrations"
	"github.com/matzehuels/orbit/pkg/pipeline"
)

// Server is an httptest server whose requests are counted.
type Server struct {
	*httptest.Server
	Cache *cache.Cache
	hits  atomic.Int64
}

// Hits returns how many requests the server received.
func (s *Server) Hits() int {
	return int(s.hits.Load())
}

// NewClient starts a server running handler and returns a client whose
// pipeline talks to it without sleeping between attempts. The server is
// closed when the test ends. opts.BaseURL is overwritten.
func NewClient(t testing.TB, handler http.HandlerFunc, opts integrations.Options) (*integrations.Client, *Server) {
	t.Helper()
	s := &Server{Cache: cache.New()}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(s.Close)

	p := pipeline.New(httputil.NewHTTPTransport(s.Client(), nil), s.Cache,
		pipeline.WithSleeper(httputil.SleeperFunc(func(ctx context.Context, _ time.Duration) error {
			return ctx.Err()
		})),
		pipeline.WithLogger(log.NewWithOptions(io.Discard, log.Options{})))
	opts.BaseURL = s.URL
	return integrations.NewClient(p, opts), s
}

// JSON returns a handler that writes body with a JSON content type.
func JSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

// Status returns a handler that answers every request with code.
func Status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}
