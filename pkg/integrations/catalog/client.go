package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations"
)

// Catalog dataset paths.
const (
	meteoritesPath = "/gh4g-9sfh.json"
	cometsPath     = "/b67r-rgxc.json"
	bodiesPath     = "/bodies"
)

const (
	// DefaultLimit is used when a caller passes a limit of 0.
	DefaultLimit = 100

	// MaxLimit is the largest limit the open-data catalogs accept.
	MaxLimit = 1000
)

var (
	meteoritesEndpoint = integrations.Endpoint{Name: "catalog", Op: "meteorites", TTL: 24 * time.Hour}
	cometsEndpoint     = integrations.Endpoint{Name: "catalog", Op: "comets", TTL: 24 * time.Hour}
	bodiesEndpoint     = integrations.Endpoint{Name: "catalog", Op: "bodies", TTL: 24 * time.Hour}
	bodyEndpoint       = integrations.Endpoint{Name: "catalog", Op: "body", TTL: 24 * time.Hour}
)

// Names lists the catalogs [Client.ByName] understands.
var Names = []string{"meteorites", "comets", "bodies", "planets", "stars", "asteroids"}

// Meteorite is a recorded meteorite landing. Numeric fields are decimal
// strings as served by the open-data portal.
type Meteorite struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameType string `json:"nametype"`
	Class    string `json:"recclass"`
	MassG    string `json:"mass,omitempty"`
	Fall     string `json:"fall"` // "Fell" or "Found"
	Year     string `json:"year,omitempty"`
	Lat      string `json:"reclat,omitempty"`
	Long     string `json:"reclong,omitempty"`
}

type meteorites []Meteorite

func (ms meteorites) Validate() error {
	for _, m := range ms {
		if m.Name == "" {
			return fmt.Errorf("meteorite %q has no name", m.ID)
		}
	}
	return nil
}

// Comet holds the orbital elements of a near-Earth comet.
type Comet struct {
	Object     string `json:"object"`
	ObjectName string `json:"object_name"`
	Epoch      string `json:"epoch_tdb"`
	Perihelion string `json:"tp_tdb"`
	E          string `json:"e"`
	I          string `json:"i_deg"`
	W          string `json:"w_deg"`
	Node       string `json:"node_deg"`
	Q          string `json:"q_au_1"`
	AphelionQ  string `json:"q_au_2"`
	PeriodYr   string `json:"p_yr"`
	MOID       string `json:"moid_au"`
	Ref        string `json:"ref"`
}

type comets []Comet

func (cs comets) Validate() error {
	for _, c := range cs {
		if c.Object == "" {
			return fmt.Errorf("comet %q has no object designation", c.ObjectName)
		}
	}
	return nil
}

// Mass is a mass in scientific notation: Value × 10^Exponent kg.
type Mass struct {
	Value    float64 `json:"massValue"`
	Exponent int     `json:"massExponent"`
}

// Body is a solar-system body.
type Body struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	EnglishName   string  `json:"englishName"`
	IsPlanet      bool    `json:"isPlanet"`
	BodyType      string  `json:"bodyType"`
	Gravity       float64 `json:"gravity"`
	MeanRadius    float64 `json:"meanRadius"`
	Density       float64 `json:"density"`
	SemimajorAxis float64 `json:"semimajorAxis"`
	SideralOrbit  float64 `json:"sideralOrbit"`
	DiscoveredBy  string  `json:"discoveredBy,omitempty"`
	DiscoveryDate string  `json:"discoveryDate,omitempty"`
	Mass          *Mass   `json:"mass,omitempty"`
	AroundPlanet  *struct {
		Planet string `json:"planet"`
	} `json:"aroundPlanet,omitempty"`
	Moons []struct {
		Moon string `json:"moon"`
	} `json:"moons,omitempty"`
}

// Validate implements integrations.Validator.
func (b *Body) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("body %q has no id", b.Name)
	}
	return nil
}

type bodiesResponse struct {
	Bodies []Body `json:"bodies"`
}

func (r *bodiesResponse) Validate() error {
	if r.Bodies == nil {
		return fmt.Errorf("response has no bodies")
	}
	for i := range r.Bodies {
		if err := r.Bodies[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Filter narrows a solar-system body listing. The zero value matches every body.
type Filter struct {
	BodyType    string // "Planet", "Dwarf Planet", "Asteroid", "Comet", "Moon", "Star"
	PlanetsOnly bool
}

func (f Filter) params() integrations.Params {
	switch {
	case f.PlanetsOnly:
		return integrations.Params{"filter[]": "isPlanet,eq,true"}
	case f.BodyType != "":
		return integrations.Params{"filter[]": "bodyType,eq," + f.BodyType}
	default:
		return nil
	}
}

// Client reads the open-data catalogs and the solar-system body catalog.
// The two live behind different hosts, so each has its own integrations client.
type Client struct {
	openData    *integrations.Client
	solarSystem *integrations.Client
}

// NewClient creates a catalog client.
func NewClient(openData, solarSystem *integrations.Client) *Client {
	return &Client{openData: openData, solarSystem: solarSystem}
}

// Meteorites returns up to limit meteorite landings ordered by name.
func (c *Client) Meteorites(ctx context.Context, limit int) ([]Meteorite, error) {
	params, err := limitParams(limit)
	if err != nil {
		return nil, err
	}
	params["$order"] = "name"
	return integrations.Fetch[meteorites](ctx, c.openData, meteoritesEndpoint, meteoritesPath, params)
}

// Comets returns up to limit near-Earth comets ordered by designation.
func (c *Client) Comets(ctx context.Context, limit int) ([]Comet, error) {
	params, err := limitParams(limit)
	if err != nil {
		return nil, err
	}
	params["$order"] = "object"
	return integrations.Fetch[comets](ctx, c.openData, cometsEndpoint, cometsPath, params)
}

// Bodies returns the solar-system bodies matching f.
func (c *Client) Bodies(ctx context.Context, f Filter) ([]Body, error) {
	resp, err := integrations.Fetch[bodiesResponse](ctx, c.solarSystem, bodiesEndpoint, bodiesPath, f.params())
	if err != nil {
		return nil, err
	}
	return resp.Bodies, nil
}

// Body returns one solar-system body by ID (e.g. "terre", "ceres").
func (c *Client) Body(ctx context.Context, id string) (*Body, error) {
	seg, err := integrations.PathSegment("body id", id)
	if err != nil {
		return nil, err
	}
	b, err := integrations.Fetch[Body](ctx, c.solarSystem, bodyEndpoint, bodiesPath+"/"+seg, nil)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Planets returns the eight planets.
func (c *Client) Planets(ctx context.Context) ([]Body, error) {
	return c.Bodies(ctx, Filter{PlanetsOnly: true})
}

// Stars returns the bodies of type Star.
func (c *Client) Stars(ctx context.Context) ([]Body, error) {
	return c.Bodies(ctx, Filter{BodyType: "Star"})
}

// Asteroids returns the bodies of type Asteroid.
func (c *Client) Asteroids(ctx context.Context) ([]Body, error) {
	return c.Bodies(ctx, Filter{BodyType: "Asteroid"})
}

// ByName fetches one of the catalogs in [Names]. For solar-system listings
// limit truncates the result; 0 keeps everything.
func (c *Client) ByName(ctx context.Context, name string, limit int) (any, error) {
	switch strings.ToLower(name) {
	case "meteorites":
		return c.Meteorites(ctx, limit)
	case "comets":
		return c.Comets(ctx, limit)
	}

	if limit < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "limit must not be negative, got %d", limit)
	}
	var (
		bodies []Body
		err    error
	)
	switch strings.ToLower(name) {
	case "bodies":
		bodies, err = c.Bodies(ctx, Filter{})
	case "planets":
		bodies, err = c.Planets(ctx)
	case "stars":
		bodies, err = c.Stars(ctx)
	case "asteroids":
		bodies, err = c.Asteroids(ctx)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown catalog %q (want one of %s)", name, strings.Join(Names, ", "))
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(bodies) > limit {
		bodies = bodies[:limit]
	}
	return bodies, nil
}

func limitParams(limit int) (integrations.Params, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if err := errors.ValidateRange("limit", limit, 1, MaxLimit); err != nil {
		return nil, err
	}
	return integrations.Params{"$limit": strconv.Itoa(limit)}, nil
}
