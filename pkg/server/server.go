// Package server exposes a [space.Client] over HTTP as a small JSON API.
//
// Every GET route maps onto one accessor. Identical requests arriving while
// one is in flight share its result, so a burst of clients asking for the
// same uncached document costs one upstream fetch. Errors are written as
//
//	{"code": "INVALID_DATE", "message": "..."}
//
// with the status from [errors.HTTPStatus].
//
// The cache lives in the server process, which makes this the only way for
// separate CLI invocations to observe or clear it (see `orbit cache`).
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/space"
)

// Server timeouts. WriteTimeout leaves room for a full retry sequence.
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 60 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// Server is the orbit HTTP front-end.
type Server struct {
	space    *space.Client
	logger   *log.Logger
	gatherer prometheus.Gatherer
	flight   singleflight.Group
	now      func() time.Time
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets the registry /metrics serves. The default is
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithNow sets the clock used for default dates.
func WithNow(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a server for sc. A nil logger uses log.Default().
func New(sc *space.Client, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		space:    sc,
		logger:   logger,
		gatherer: prometheus.DefaultGatherer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/overview", s.get(s.overview))
		r.Get("/apod", s.get(s.apod))

		r.Route("/mars/{rover}", func(r chi.Router) {
			r.Get("/photos", s.get(s.marsPhotos))
			r.Get("/latest", s.get(s.marsLatest))
			r.Get("/manifest", s.get(s.marsManifest))
		})

		r.Get("/neo/feed", s.get(s.neoFeed))
		r.Get("/neo/browse", s.get(s.neoBrowse))
		r.Get("/neo/{id}", s.get(s.neoLookup))

		r.Get("/donki/notifications", s.get(s.donkiNotifications))
		r.Get("/donki/{kind}", s.get(s.donkiEvents))

		r.Get("/epic/{collection}", s.get(s.epicImages))
		r.Get("/epic/{collection}/available", s.get(s.epicAvailable))

		r.Get("/catalog/bodies/{id}", s.get(s.catalogBody))
		r.Get("/catalog/{name}", s.get(s.catalogByName))

		r.Get("/cache", s.handleCacheStats)
		r.Delete("/cache", s.handleCacheClear)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// endpointFunc produces the response document for a GET request.
type endpointFunc func(ctx context.Context, r *http.Request) (any, error)

// get adapts fn to a handler. Concurrent requests for the same URI share
// one call. The shared call runs detached from any single client so one
// disconnect does not fail the others.
func (s *Server) get(fn endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err, shared := s.flight.Do(r.URL.RequestURI(), func() (any, error) {
			return fn(context.WithoutCancel(r.Context()), r)
		})
		if shared {
			s.logger.Debug("request coalesced", "uri", r.URL.RequestURI(), "request_id", GetRequestID(r.Context()))
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.now().UTC(),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.space.CacheStats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	n := s.space.ClearCache()
	s.writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err, "request_id", GetRequestID(r.Context()))
	}
	s.writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: GetRequestID(r.Context()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}
