package mars

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations"
)

const basePath = "/mars-photos/api/v1"

// DefaultSol is queried when neither a sol nor an Earth date is given.
const DefaultSol = 1000

var (
	photosEndpoint   = integrations.Endpoint{Name: "mars", Op: "photos", TTL: 6 * time.Hour}
	latestEndpoint   = integrations.Endpoint{Name: "mars", Op: "latest", TTL: time.Hour}
	manifestEndpoint = integrations.Endpoint{Name: "mars", Op: "manifest", TTL: 12 * time.Hour}
)

// Rover names a Mars rover.
type Rover string

// Rovers with photos in the archive.
const (
	Curiosity    Rover = "curiosity"
	Opportunity  Rover = "opportunity"
	Spirit       Rover = "spirit"
	Perseverance Rover = "perseverance"
)

// Rovers lists every known rover.
var Rovers = []Rover{Curiosity, Opportunity, Spirit, Perseverance}

// ParseRover returns the rover named s, ignoring case.
func ParseRover(s string) (Rover, error) {
	r := Rover(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Rovers {
		if r == known {
			return r, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown rover %q (want one of %s)", s, joinRovers())
}

func joinRovers() string {
	names := make([]string, len(Rovers))
	for i, r := range Rovers {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// Camera is a rover camera.
type Camera struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// RoverInfo describes the rover that took a photo.
type RoverInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	LandingDate string `json:"landing_date"`
	LaunchDate  string `json:"launch_date"`
	Status      string `json:"status"`
}

// Photo is one image taken by a rover.
type Photo struct {
	ID        int       `json:"id"`
	Sol       int       `json:"sol"`
	Camera    Camera    `json:"camera"`
	ImgSrc    string    `json:"img_src"`
	EarthDate string    `json:"earth_date"`
	Rover     RoverInfo `json:"rover"`
}

type photosResponse struct {
	Photos []Photo `json:"photos"`
}

func (r *photosResponse) Validate() error {
	for _, p := range r.Photos {
		if p.ImgSrc == "" {
			return fmt.Errorf("photo %d has no img_src", p.ID)
		}
	}
	return nil
}

type latestResponse struct {
	LatestPhotos []Photo `json:"latest_photos"`
}

func (r *latestResponse) Validate() error {
	return (&photosResponse{Photos: r.LatestPhotos}).Validate()
}

// ManifestSol summarizes one sol of a rover's mission.
type ManifestSol struct {
	Sol         int      `json:"sol"`
	EarthDate   string   `json:"earth_date"`
	TotalPhotos int      `json:"total_photos"`
	Cameras     []string `json:"cameras"`
}

// Manifest summarizes a rover's mission and photo archive.
type Manifest struct {
	Name        string        `json:"name"`
	LandingDate string        `json:"landing_date"`
	LaunchDate  string        `json:"launch_date"`
	Status      string        `json:"status"`
	MaxSol      int           `json:"max_sol"`
	MaxDate     string        `json:"max_date"`
	TotalPhotos int           `json:"total_photos"`
	Photos      []ManifestSol `json:"photos"`
}

type manifestResponse struct {
	PhotoManifest Manifest `json:"photo_manifest"`
}

func (r *manifestResponse) Validate() error {
	if r.PhotoManifest.Name == "" {
		return fmt.Errorf("manifest has no rover name")
	}
	return nil
}

// Query selects photos. Sol and EarthDate are mutually exclusive; when
// neither is set, [DefaultSol] is used.
type Query struct {
	Sol       *int   // Martian day since landing
	EarthDate string // YYYY-MM-DD
	Camera    string // Camera abbreviation (e.g. "FHAZ", "NAVCAM"); empty for all
	Page      int    // 1-based page of 25 photos; 0 for all
}

// SolQuery returns a query for the given sol.
func SolQuery(sol int) Query {
	return Query{Sol: &sol}
}

// params validates q and returns its query parameters.
func (q Query) params() (integrations.Params, error) {
	p := integrations.Params{}
	switch {
	case q.Sol != nil && q.EarthDate != "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "sol and earth date are mutually exclusive")
	case q.EarthDate != "":
		if err := errors.ValidateDate(q.EarthDate); err != nil {
			return nil, err
		}
		p["earth_date"] = q.EarthDate
	case q.Sol != nil:
		if *q.Sol < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sol must not be negative, got %d", *q.Sol)
		}
		p["sol"] = strconv.Itoa(*q.Sol)
	default:
		p["sol"] = strconv.Itoa(DefaultSol)
	}
	if q.Camera != "" {
		if err := errors.ValidateIdentifier("camera", q.Camera); err != nil {
			return nil, err
		}
		p["camera"] = strings.ToLower(q.Camera)
	}
	if q.Page < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "page must not be negative, got %d", q.Page)
	}
	if q.Page > 0 {
		p["page"] = strconv.Itoa(q.Page)
	}
	return p, nil
}

// Client fetches rover photos and manifests.
type Client struct {
	*integrations.Client
}

// NewClient creates a Mars rover photos client over c.
func NewClient(c *integrations.Client) *Client {
	return &Client{Client: c}
}

// Photos returns the photos matching q.
func (c *Client) Photos(ctx context.Context, rover Rover, q Query) ([]Photo, error) {
	rover, err := ParseRover(string(rover))
	if err != nil {
		return nil, err
	}
	params, err := q.params()
	if err != nil {
		return nil, err
	}
	resp, err := integrations.Fetch[photosResponse](ctx, c.Client, photosEndpoint,
		fmt.Sprintf("%s/rovers/%s/photos", basePath, rover), params)
	if err != nil {
		return nil, err
	}
	return resp.Photos, nil
}

// Latest returns the photos from the rover's most recent sol.
func (c *Client) Latest(ctx context.Context, rover Rover) ([]Photo, error) {
	rover, err := ParseRover(string(rover))
	if err != nil {
		return nil, err
	}
	resp, err := integrations.Fetch[latestResponse](ctx, c.Client, latestEndpoint,
		fmt.Sprintf("%s/rovers/%s/latest_photos", basePath, rover), nil)
	if err != nil {
		return nil, err
	}
	return resp.LatestPhotos, nil
}

// Manifest returns the rover's mission manifest.
func (c *Client) Manifest(ctx context.Context, rover Rover) (*Manifest, error) {
	rover, err := ParseRover(string(rover))
	if err != nil {
		return nil, err
	}
	resp, err := integrations.Fetch[manifestResponse](ctx, c.Client, manifestEndpoint,
		fmt.Sprintf("%s/manifests/%s", basePath, rover), nil)
	if err != nil {
		return nil, err
	}
	return &resp.PhotoManifest, nil
}
