package neo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations"
)

const basePath = "/neo/rest/v1"

const (
	// MaxFeedDays is the widest inclusive range the feed accepts.
	MaxFeedDays = 7

	// MaxPageSize is the largest browse page the API serves.
	MaxPageSize = 20
)

var (
	feedEndpoint   = integrations.Endpoint{Name: "neo", Op: "feed", TTL: time.Hour}
	lookupEndpoint = integrations.Endpoint{Name: "neo", Op: "lookup", TTL: 24 * time.Hour}
	browseEndpoint = integrations.Endpoint{Name: "neo", Op: "browse", TTL: 24 * time.Hour}
)

// Diameter is an estimated size range.
type Diameter struct {
	Min float64 `json:"estimated_diameter_min"`
	Max float64 `json:"estimated_diameter_max"`
}

// EstimatedDiameter holds the size range in several units.
type EstimatedDiameter struct {
	Kilometers Diameter `json:"kilometers"`
	Meters     Diameter `json:"meters"`
}

// Velocity is a relative velocity. Values are decimal strings as served.
type Velocity struct {
	KilometersPerSecond string `json:"kilometers_per_second"`
	KilometersPerHour   string `json:"kilometers_per_hour"`
}

// Distance is a miss distance. Values are decimal strings as served.
type Distance struct {
	Astronomical string `json:"astronomical"`
	Lunar        string `json:"lunar"`
	Kilometers   string `json:"kilometers"`
}

// CloseApproach is one pass near a planet.
type CloseApproach struct {
	Date             string   `json:"close_approach_date"`
	DateFull         string   `json:"close_approach_date_full"`
	Epoch            int64    `json:"epoch_date_close_approach"` // Unix milliseconds
	RelativeVelocity Velocity `json:"relative_velocity"`
	MissDistance     Distance `json:"miss_distance"`
	OrbitingBody     string   `json:"orbiting_body"`
}

// Time returns the approach time in UTC.
func (a CloseApproach) Time() time.Time {
	return time.UnixMilli(a.Epoch).UTC()
}

// MissKilometers parses the miss distance in kilometers; 0 if unparseable.
func (a CloseApproach) MissKilometers() float64 {
	f, _ := strconv.ParseFloat(a.MissDistance.Kilometers, 64)
	return f
}

// Object is a near-Earth object.
type Object struct {
	ID                string            `json:"id"`
	ReferenceID       string            `json:"neo_reference_id"`
	Name              string            `json:"name"`
	JPLURL            string            `json:"nasa_jpl_url"`
	AbsoluteMagnitude float64           `json:"absolute_magnitude_h"`
	EstimatedDiameter EstimatedDiameter `json:"estimated_diameter"`
	Hazardous         bool              `json:"is_potentially_hazardous_asteroid"`
	Sentry            bool              `json:"is_sentry_object"`
	CloseApproaches   []CloseApproach   `json:"close_approach_data"`
}

// Validate implements integrations.Validator.
func (o *Object) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("object %q has no id", o.Name)
	}
	return nil
}

// NextApproach returns the earliest close approach, or nil if none is listed.
func (o *Object) NextApproach() *CloseApproach {
	if len(o.CloseApproaches) == 0 {
		return nil
	}
	first := &o.CloseApproaches[0]
	for i := range o.CloseApproaches[1:] {
		if a := &o.CloseApproaches[i+1]; a.Epoch < first.Epoch {
			first = a
		}
	}
	return first
}

type feedResponse struct {
	ElementCount int                 `json:"element_count"`
	Objects      map[string][]Object `json:"near_earth_objects"`
}

func (r *feedResponse) Validate() error {
	if r.Objects == nil {
		return fmt.Errorf("feed has no near_earth_objects")
	}
	for _, objs := range r.Objects {
		for i := range objs {
			if err := objs[i].Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Page describes a browse page.
type Page struct {
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
	Number        int `json:"number"`
}

// BrowsePage is one page of the full object catalog.
type BrowsePage struct {
	Objects []Object `json:"near_earth_objects"`
	Page    Page     `json:"page"`
}

// Validate implements integrations.Validator.
func (b *BrowsePage) Validate() error {
	for i := range b.Objects {
		if err := b.Objects[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Client fetches near-Earth object data.
type Client struct {
	*integrations.Client
}

// NewClient creates a NeoWs client over c.
func NewClient(c *integrations.Client) *Client {
	return &Client{Client: c}
}

// Feed returns the objects approaching Earth between start and end
// (inclusive, at most [MaxFeedDays] days), ordered by approach time.
func (c *Client) Feed(ctx context.Context, start, end string) ([]Object, error) {
	if err := errors.ValidateDateRange(start, end, MaxFeedDays); err != nil {
		return nil, err
	}
	resp, err := integrations.Fetch[feedResponse](ctx, c.Client, feedEndpoint, basePath+"/feed", integrations.Params{
		"start_date": start,
		"end_date":   end,
	})
	if err != nil {
		return nil, err
	}
	return flatten(resp.Objects), nil
}

// Lookup returns one object by its JPL small-body ID.
func (c *Client) Lookup(ctx context.Context, id string) (*Object, error) {
	if err := errors.ValidateNeoID(id); err != nil {
		return nil, err
	}
	obj, err := integrations.Fetch[Object](ctx, c.Client, lookupEndpoint, basePath+"/neo/"+id, nil)
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// Browse returns a page of the full catalog. page is 0-based.
func (c *Client) Browse(ctx context.Context, page, size int) (*BrowsePage, error) {
	if page < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "page must not be negative, got %d", page)
	}
	if err := errors.ValidateRange("page size", size, 1, MaxPageSize); err != nil {
		return nil, err
	}
	bp, err := integrations.Fetch[BrowsePage](ctx, c.Client, browseEndpoint, basePath+"/neo/browse", integrations.Params{
		"page": strconv.Itoa(page),
		"size": strconv.Itoa(size),
	})
	if err != nil {
		return nil, err
	}
	return &bp, nil
}

// Hazardous returns the potentially hazardous objects in objs.
func Hazardous(objs []Object) []Object {
	var out []Object
	for _, o := range objs {
		if o.Hazardous {
			out = append(out, o)
		}
	}
	return out
}

// flatten merges the per-day feed into one list ordered by next approach,
// then by name.
func flatten(byDay map[string][]Object) []Object {
	var out []Object
	for _, objs := range byDay {
		out = append(out, objs...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := approachEpoch(&out[i]), approachEpoch(&out[j])
		if ei != ej {
			return ei < ej
		}
		return strings.Compare(out[i].Name, out[j].Name) < 0
	})
	return out
}

func approachEpoch(o *Object) int64 {
	if a := o.NextApproach(); a != nil {
		return a.Epoch
	}
	return 0
}
