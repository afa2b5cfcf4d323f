package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations/apod"
	"github.com/matzehuels/orbit/pkg/integrations/donki"
	"github.com/matzehuels/orbit/pkg/integrations/epic"
	"github.com/matzehuels/orbit/pkg/integrations/mars"
)

func (s *Server) overview(ctx context.Context, _ *http.Request) (any, error) {
	return s.space.Overview(ctx)
}

// apod serves one of: ?date=, ?start=&end=, ?count=, or today's picture.
// With ?fallback=true a placeholder replaces a picture that could not be
// fetched.
func (s *Server) apod(ctx context.Context, r *http.Request) (any, error) {
	q := r.URL.Query()
	switch {
	case q.Get("count") != "":
		n, err := intParam(q.Get("count"), "count")
		if err != nil {
			return nil, err
		}
		return s.space.APOD.Random(ctx, n)
	case q.Get("start") != "" || q.Get("end") != "":
		end := q.Get("end")
		if end == "" {
			end = s.today()
		}
		return s.space.APOD.Range(ctx, q.Get("start"), end)
	}

	var (
		pic *apod.Picture
		err error
	)
	if date := q.Get("date"); date != "" {
		pic, err = s.space.APOD.ForDate(ctx, date)
	} else {
		pic, err = s.space.APOD.Today(ctx)
	}
	if q.Get("fallback") == "true" {
		return apod.OrFallback(pic, err)
	}
	return pic, err
}

func (s *Server) marsPhotos(ctx context.Context, r *http.Request) (any, error) {
	q := r.URL.Query()
	query := mars.Query{
		EarthDate: q.Get("earth_date"),
		Camera:    q.Get("camera"),
	}
	if v := q.Get("sol"); v != "" {
		sol, err := intParam(v, "sol")
		if err != nil {
			return nil, err
		}
		query.Sol = &sol
	}
	if v := q.Get("page"); v != "" {
		page, err := intParam(v, "page")
		if err != nil {
			return nil, err
		}
		query.Page = page
	}
	return s.space.Mars.Photos(ctx, mars.Rover(chi.URLParam(r, "rover")), query)
}

func (s *Server) marsLatest(ctx context.Context, r *http.Request) (any, error) {
	return s.space.Mars.Latest(ctx, mars.Rover(chi.URLParam(r, "rover")))
}

func (s *Server) marsManifest(ctx context.Context, r *http.Request) (any, error) {
	return s.space.Mars.Manifest(ctx, mars.Rover(chi.URLParam(r, "rover")))
}

// neoFeed defaults to today when start is omitted and to start when end is.
func (s *Server) neoFeed(ctx context.Context, r *http.Request) (any, error) {
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if start == "" {
		start = s.today()
	}
	if end == "" {
		end = start
	}
	return s.space.NEO.Feed(ctx, start, end)
}

func (s *Server) neoBrowse(ctx context.Context, r *http.Request) (any, error) {
	q := r.URL.Query()
	page, size := 0, 20
	var err error
	if v := q.Get("page"); v != "" {
		if page, err = intParam(v, "page"); err != nil {
			return nil, err
		}
	}
	if v := q.Get("size"); v != "" {
		if size, err = intParam(v, "size"); err != nil {
			return nil, err
		}
	}
	return s.space.NEO.Browse(ctx, page, size)
}

func (s *Server) neoLookup(ctx context.Context, r *http.Request) (any, error) {
	return s.space.NEO.Lookup(ctx, chi.URLParam(r, "id"))
}

func (s *Server) donkiEvents(ctx context.Context, r *http.Request) (any, error) {
	kind, err := donki.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	return s.space.DONKI.Events(ctx, kind, q.Get("start"), q.Get("end"))
}

func (s *Server) donkiNotifications(ctx context.Context, r *http.Request) (any, error) {
	q := r.URL.Query()
	return s.space.DONKI.Notifications(ctx, q.Get("start"), q.Get("end"), q.Get("type"))
}

func (s *Server) epicImages(ctx context.Context, r *http.Request) (any, error) {
	col, err := epic.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		return nil, err
	}
	if date := r.URL.Query().Get("date"); date != "" {
		return s.space.EPIC.ForDate(ctx, col, date)
	}
	return s.space.EPIC.Latest(ctx, col)
}

func (s *Server) epicAvailable(ctx context.Context, r *http.Request) (any, error) {
	col, err := epic.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		return nil, err
	}
	return s.space.EPIC.AvailableDates(ctx, col)
}

func (s *Server) catalogByName(ctx context.Context, r *http.Request) (any, error) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := intParam(v, "limit")
		if err != nil {
			return nil, err
		}
		limit = n
	}
	return s.space.Catalog.ByName(ctx, chi.URLParam(r, "name"), limit)
}

func (s *Server) catalogBody(ctx context.Context, r *http.Request) (any, error) {
	return s.space.Catalog.Body(ctx, chi.URLParam(r, "id"))
}

func (s *Server) today() string {
	return s.now().UTC().Format(errors.DateLayout)
}

func intParam(v, name string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}
