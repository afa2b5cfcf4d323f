package neo

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations"
	"github.com/matzehuels/orbit/pkg/integrations/integrationstest"
)

const sampleFeed = `{
	"element_count": 3,
	"near_earth_objects": {
		"2024-01-02": [
			{"id": "3", "name": "(2024 C)", "is_potentially_hazardous_asteroid": false,
			 "close_approach_data": [{"close_approach_date": "2024-01-02", "epoch_date_close_approach": 1704200000000,
			   "miss_distance": {"kilometers": "7000000.5"}, "orbiting_body": "Earth"}]}
		],
		"2024-01-01": [
			{"id": "2", "name": "(2024 B)", "is_potentially_hazardous_asteroid": true,
			 "close_approach_data": [{"close_approach_date": "2024-01-01", "epoch_date_close_approach": 1704100000000}]},
			{"id": "1", "name": "(2024 A)", "is_potentially_hazardous_asteroid": false,
			 "close_approach_data": [{"close_approach_date": "2024-01-01", "epoch_date_close_approach": 1704090000000}]}
		]
	}
}`

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *integrationstest.Server) {
	t.Helper()
	c, s := integrationstest.NewClient(t, handler, integrations.Options{Attempts: 1})
	return NewClient(c), s
}

func TestClient_FeedIsOrdered(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/neo/rest/v1/feed" {
			t.Errorf("path = %q", r.URL.Path)
		}
		integrationstest.JSON(sampleFeed)(w, r)
	})

	objs, err := c.Feed(context.Background(), "2024-01-01", "2024-01-02")
	if err != nil {
		t.Fatalf("Feed() error: %v", err)
	}
	var ids []string
	for _, o := range objs {
		ids = append(ids, o.ID)
	}
	if len(ids) != 3 || ids[0] != "1" || ids[1] != "2" || ids[2] != "3" {
		t.Errorf("order = %v, want [1 2 3]", ids)
	}
	if got := Hazardous(objs); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Hazardous() = %v", got)
	}
}

func TestClient_FeedRange(t *testing.T) {
	c, s := testClient(t, integrationstest.JSON(sampleFeed))

	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"one day", "2024-01-01", "2024-01-01", false},
		{"seven days", "2024-01-01", "2024-01-07", false},
		{"eight days", "2024-01-01", "2024-01-08", true},
		{"reversed", "2024-01-02", "2024-01-01", true},
		{"bad date", "2024-1-1", "2024-01-02", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Feed(context.Background(), tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("Feed() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if s.Hits() != 2 {
		t.Errorf("server hits = %d, want 2", s.Hits())
	}
}

func TestClient_Lookup(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/neo/rest/v1/neo/3542519" {
			t.Errorf("path = %q", r.URL.Path)
		}
		integrationstest.JSON(`{"id":"3542519","name":"(2010 PK9)","is_sentry_object":false}`)(w, r)
	})

	obj, err := c.Lookup(context.Background(), "3542519")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if obj.Name != "(2010 PK9)" {
		t.Errorf("Name = %q", obj.Name)
	}

	if _, err := c.Lookup(context.Background(), "../browse"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Lookup() with bad id code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestClient_LookupMissingID(t *testing.T) {
	c, _ := testClient(t, integrationstest.JSON(`{"name":"anonymous"}`))

	_, err := c.Lookup(context.Background(), "1")
	if !errors.Is(err, errors.ErrCodeUnexpectedPayload) {
		t.Errorf("code = %q, want UNEXPECTED_PAYLOAD", errors.GetCode(err))
	}
}

func TestClient_LookupNotFound(t *testing.T) {
	c, _ := testClient(t, integrationstest.Status(http.StatusNotFound))

	_, err := c.Lookup(context.Background(), "1")
	if !errors.Is(err, errors.ErrCodeRetriesExhausted) {
		t.Errorf("code = %q, want RETRIES_EXHAUSTED", errors.GetCode(err))
	}
	if got := errors.HTTPStatus(err); got != http.StatusNotFound {
		t.Errorf("HTTPStatus() = %d, want 404", got)
	}
}

func TestClient_Browse(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("size") != "5" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		integrationstest.JSON(`{"near_earth_objects":[{"id":"1"}],"page":{"size":5,"total_elements":100,"total_pages":20,"number":2}}`)(w, r)
	})

	bp, err := c.Browse(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("Browse() error: %v", err)
	}
	if bp.Page.TotalPages != 20 || len(bp.Objects) != 1 {
		t.Errorf("page = %+v", bp)
	}

	for _, size := range []int{0, 21} {
		if _, err := c.Browse(context.Background(), 0, size); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Browse(size=%d) code = %q, want INVALID_INPUT", size, errors.GetCode(err))
		}
	}
}

func TestObject_NextApproach(t *testing.T) {
	o := Object{CloseApproaches: []CloseApproach{
		{Epoch: 3000, MissDistance: Distance{Kilometers: "12.5"}},
		{Epoch: 1000},
		{Epoch: 2000},
	}}
	a := o.NextApproach()
	if a == nil || a.Epoch != 1000 {
		t.Fatalf("NextApproach() = %+v, want epoch 1000", a)
	}
	if got := a.Time(); !got.Equal(time.UnixMilli(1000).UTC()) {
		t.Errorf("Time() = %v", got)
	}
	if got := o.CloseApproaches[0].MissKilometers(); got != 12.5 {
		t.Errorf("MissKilometers() = %v, want 12.5", got)
	}
	if (&Object{}).NextApproach() != nil {
		t.Error("NextApproach() on no approaches should be nil")
	}
}
