package integrations

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/httputil"
	"github.com/matzehuels/orbit/pkg/pipeline"
)

type noSleep struct{}

func (noSleep) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func testClient(t *testing.T, handler http.HandlerFunc, opts Options) (*Client, *cache.Cache) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := cache.New()
	p := pipeline.New(httputil.NewHTTPTransport(server.Client(), nil), c,
		pipeline.WithSleeper(noSleep{}),
		pipeline.WithLogger(log.NewWithOptions(io.Discard, log.Options{})))
	opts.BaseURL = server.URL
	return NewClient(p, opts), c
}

type picture struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (p *picture) Validate() error {
	if p.URL == "" {
		return stderrors.New("missing url")
	}
	return nil
}

func TestParams_Encode(t *testing.T) {
	p := Params{"start_date": "2024-01-01", "end_date": "2024-01-07", "empty": ""}
	if got, want := p.Encode(), "end_date=2024-01-07&start_date=2024-01-01"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	if got := Params(nil).Encode(); got != "" {
		t.Errorf("nil Encode() = %q, want empty", got)
	}
}

func TestClient_URL(t *testing.T) {
	c := NewClient(nil, Options{BaseURL: "https://api.nasa.gov/", APIKey: "KEY"})
	got := c.URL("/planetary/apod", Params{"date": "2024-01-01"})
	if want := "https://api.nasa.gov/planetary/apod?api_key=KEY&date=2024-01-01"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}

	c = NewClient(nil, Options{BaseURL: "https://epic.gsfc.nasa.gov"})
	if got := c.URL("/api/natural", nil); got != "https://epic.gsfc.nasa.gov/api/natural" {
		t.Errorf("URL() without key = %q", got)
	}
}

func TestCacheKey(t *testing.T) {
	e := Endpoint{Name: "apod", Op: "date"}
	got := CacheKey(e, "/planetary/apod", Params{"date": "2024-01-01"})
	if want := "apod:date:/planetary/apod:date=2024-01-01"; got != want {
		t.Errorf("CacheKey() = %q, want %q", got, want)
	}

	// Parameter order does not matter.
	a := CacheKey(e, "/p", Params{"a": "1", "b": "2"})
	b := CacheKey(e, "/p", Params{"b": "2", "a": "1"})
	if a != b {
		t.Errorf("CacheKey() not canonical: %q vs %q", a, b)
	}
}

func TestClient_RequestExcludesAPIKeyFromCacheKey(t *testing.T) {
	c1 := NewClient(nil, Options{BaseURL: "https://api.nasa.gov", APIKey: "ONE"})
	c2 := NewClient(nil, Options{BaseURL: "https://api.nasa.gov", APIKey: "TWO"})
	e := Endpoint{Name: "neo", Op: "lookup"}

	r1 := c1.Request(e, "/neo/rest/v1/neo/3542519", nil)
	r2 := c2.Request(e, "/neo/rest/v1/neo/3542519", nil)
	if r1.CacheKey != r2.CacheKey {
		t.Errorf("cache keys differ by API key: %q vs %q", r1.CacheKey, r2.CacheKey)
	}
	if strings.Contains(r1.CacheKey, "ONE") {
		t.Errorf("cache key leaks API key: %q", r1.CacheKey)
	}
	if r1.URL == r2.URL {
		t.Error("URLs should carry different API keys")
	}
}

func TestClient_Request(t *testing.T) {
	c := NewClient(nil, Options{
		BaseURL:  "https://x",
		Attempts: 5,
		TTL:      map[string]time.Duration{"apod": 2 * time.Hour},
	})

	tests := []struct {
		name         string
		endpoint     Endpoint
		wantTTL      time.Duration
		wantAttempts int
		wantCached   bool
	}{
		{"override ttl", Endpoint{Name: "apod", TTL: time.Hour}, 2 * time.Hour, 5, true},
		{"endpoint ttl", Endpoint{Name: "neo", TTL: time.Hour}, time.Hour, 5, true},
		{"endpoint attempts", Endpoint{Name: "neo", Attempts: 2}, 0, 2, true},
		{"uncached", Endpoint{Name: "apod", Op: "random", Uncached: true}, 2 * time.Hour, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := c.Request(tt.endpoint, "/p", nil)
			if req.TTL != tt.wantTTL {
				t.Errorf("TTL = %v, want %v", req.TTL, tt.wantTTL)
			}
			if req.MaxAttempts != tt.wantAttempts {
				t.Errorf("MaxAttempts = %d, want %d", req.MaxAttempts, tt.wantAttempts)
			}
			if (req.CacheKey != "") != tt.wantCached {
				t.Errorf("CacheKey = %q, want cached=%v", req.CacheKey, tt.wantCached)
			}
			if req.Label != tt.endpoint.Name {
				t.Errorf("Label = %q, want %q", req.Label, tt.endpoint.Name)
			}
		})
	}
}

func TestFetch_DecodesAndCaches(t *testing.T) {
	hits := 0
	c, store := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Query().Get("api_key") != "KEY" {
			t.Errorf("api_key = %q", r.URL.Query().Get("api_key"))
		}
		w.Write([]byte(`{"title":"M31","url":"https://apod.nasa.gov/m31.jpg"}`))
	}, Options{APIKey: "KEY"})
	e := Endpoint{Name: "apod", Op: "today", TTL: time.Hour}

	for range 2 {
		pic, err := Fetch[picture](context.Background(), c, e, "/planetary/apod", nil)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if pic.Title != "M31" {
			t.Errorf("Title = %q, want M31", pic.Title)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
	if store.Size() != 1 {
		t.Errorf("cache size = %d, want 1", store.Size())
	}
}

func TestFetch_UnexpectedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{"title":"no url"}`},
		{"wrong shape", `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}, Options{})

			_, err := Fetch[picture](context.Background(), c, Endpoint{Name: "apod"}, "/planetary/apod", nil)
			if !errors.Is(err, errors.ErrCodeUnexpectedPayload) {
				t.Errorf("code = %q, want UNEXPECTED_PAYLOAD", errors.GetCode(err))
			}
			if errors.Is(err, errors.ErrCodeRetriesExhausted) {
				t.Error("unexpected payload must not be reported as retries exhausted")
			}
		})
	}
}

func TestFetch_RetriesExhausted(t *testing.T) {
	hits := 0
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}, Options{Attempts: 2})

	_, err := Fetch[picture](context.Background(), c, Endpoint{Name: "apod"}, "/planetary/apod", nil)
	if !errors.Is(err, errors.ErrCodeRetriesExhausted) {
		t.Errorf("code = %q, want RETRIES_EXHAUSTED", errors.GetCode(err))
	}
	if hits != 2 {
		t.Errorf("server hits = %d, want 2", hits)
	}
}

func TestEndpoint_String(t *testing.T) {
	if got := (Endpoint{Name: "mars", Op: "photos"}).String(); got != "mars.photos" {
		t.Errorf("String() = %q", got)
	}
	if got := (Endpoint{Name: "mars"}).String(); got != "mars" {
		t.Errorf("String() = %q", got)
	}
}

func TestPathSegment(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"curiosity", "curiosity", false},
		{"Ceres 1", "Ceres%201", false},
		{"", "", true},
		{"../etc", "", true},
		{"a/b", "", true},
	}
	for _, tt := range tests {
		got, err := PathSegment("body", tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("PathSegment(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("PathSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
