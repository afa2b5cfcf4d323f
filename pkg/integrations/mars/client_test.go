package mars

import (
	"context"
	"net/http"
	"testing"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations"
	"github.com/matzehuels/orbit/pkg/integrations/integrationstest"
)

const samplePhotos = `{"photos":[{
	"id": 102693,
	"sol": 1000,
	"camera": {"id": 20, "name": "FHAZ", "full_name": "Front Hazard Avoidance Camera"},
	"img_src": "https://mars.nasa.gov/msl-raw-images/fhaz.jpg",
	"earth_date": "2015-05-30",
	"rover": {"id": 5, "name": "Curiosity", "landing_date": "2012-08-06", "launch_date": "2011-11-26", "status": "active"}
}]}`

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *integrationstest.Server) {
	t.Helper()
	c, s := integrationstest.NewClient(t, handler, integrations.Options{Attempts: 1})
	return NewClient(c), s
}

func TestParseRover(t *testing.T) {
	tests := []struct {
		in      string
		want    Rover
		wantErr bool
	}{
		{"curiosity", Curiosity, false},
		{"Perseverance", Perseverance, false},
		{" SPIRIT ", Spirit, false},
		{"sojourner", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRover(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRover(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseRover(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClient_Photos(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		integrationstest.JSON(samplePhotos)(w, r)
	})

	photos, err := c.Photos(context.Background(), "Curiosity", Query{Camera: "FHAZ", Page: 2})
	if err != nil {
		t.Fatalf("Photos() error: %v", err)
	}
	if len(photos) != 1 || photos[0].Camera.Name != "FHAZ" || photos[0].Rover.Name != "Curiosity" {
		t.Errorf("photos = %+v", photos)
	}
	if gotPath != "/mars-photos/api/v1/rovers/curiosity/photos" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "camera=fhaz&page=2&sol=1000" {
		t.Errorf("query = %q, want default sol", gotQuery)
	}
}

func TestQuery_Params(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		want    string
		wantErr bool
	}{
		{"default", Query{}, "sol=1000", false},
		{"sol zero", SolQuery(0), "sol=0", false},
		{"earth date", Query{EarthDate: "2024-01-01"}, "earth_date=2024-01-01", false},
		{"both", Query{Sol: new(int), EarthDate: "2024-01-01"}, "", true},
		{"bad date", Query{EarthDate: "01/01/2024"}, "", true},
		{"negative sol", SolQuery(-1), "", true},
		{"negative page", Query{Page: -1}, "", true},
		{"bad camera", Query{Camera: "../x"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.q.params()
			if (err != nil) != tt.wantErr {
				t.Fatalf("params() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p.Encode() != tt.want {
				t.Errorf("params() = %q, want %q", p.Encode(), tt.want)
			}
		})
	}
}

func TestClient_UnknownRoverIsRejected(t *testing.T) {
	c, s := testClient(t, integrationstest.JSON(samplePhotos))

	if _, err := c.Photos(context.Background(), "zhurong", Query{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Photos() code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
	if _, err := c.Latest(context.Background(), "zhurong"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Latest() code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
	if s.Hits() != 0 {
		t.Errorf("server hits = %d, want 0", s.Hits())
	}
}

func TestClient_Latest(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mars-photos/api/v1/rovers/perseverance/latest_photos" {
			t.Errorf("path = %q", r.URL.Path)
		}
		integrationstest.JSON(`{"latest_photos":[{"id":1,"sol":1200,"img_src":"https://x/1.png"}]}`)(w, r)
	})

	photos, err := c.Latest(context.Background(), Perseverance)
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if len(photos) != 1 || photos[0].Sol != 1200 {
		t.Errorf("photos = %+v", photos)
	}
}

func TestClient_Manifest(t *testing.T) {
	c, _ := testClient(t, integrationstest.JSON(`{"photo_manifest":{
		"name": "Spirit", "status": "complete", "max_sol": 2208, "total_photos": 124550,
		"photos": [{"sol": 1, "earth_date": "2004-01-05", "total_photos": 77, "cameras": ["ENTRY", "FHAZ"]}]
	}}`))

	m, err := c.Manifest(context.Background(), Spirit)
	if err != nil {
		t.Fatalf("Manifest() error: %v", err)
	}
	if m.Name != "Spirit" || m.MaxSol != 2208 || len(m.Photos) != 1 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestClient_MalformedPhotos(t *testing.T) {
	c, _ := testClient(t, integrationstest.JSON(`{"photos":[{"id":7}]}`))

	_, err := c.Photos(context.Background(), Curiosity, Query{})
	if !errors.Is(err, errors.ErrCodeUnexpectedPayload) {
		t.Errorf("code = %q, want UNEXPECTED_PAYLOAD", errors.GetCode(err))
	}
}

func TestClient_EmptyManifestIsUnexpected(t *testing.T) {
	c, _ := testClient(t, integrationstest.JSON(`{}`))

	_, err := c.Manifest(context.Background(), Curiosity)
	if !errors.Is(err, errors.ErrCodeUnexpectedPayload) {
		t.Errorf("code = %q, want UNEXPECTED_PAYLOAD", errors.GetCode(err))
	}
}
