package epic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations"
)

const basePath = "/EPIC/api"

// DefaultArchive is where EPIC image files are served from.
const DefaultArchive = "https://epic.gsfc.nasa.gov/archive"

// imageTimeLayout is the format of Image.Date.
const imageTimeLayout = "2006-01-02 15:04:05"

var (
	imagesEndpoint    = integrations.Endpoint{Name: "epic", Op: "images", TTL: 6 * time.Hour}
	availableEndpoint = integrations.Endpoint{Name: "epic", Op: "available", TTL: 12 * time.Hour}
)

// Collection is an EPIC image collection.
type Collection string

// Collections.
const (
	Natural  Collection = "natural"
	Enhanced Collection = "enhanced"
)

// ParseCollection returns the collection named s. An empty s is Natural.
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return Natural, nil
	case Natural, Enhanced:
		return c, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown collection %q (want natural or enhanced)", s)
	}
}

// Format is an archive image format.
type Format string

// Archive formats.
const (
	PNG    Format = "png"
	JPG    Format = "jpg"
	Thumbs Format = "thumbs"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Image is the metadata for one full-disc Earth image.
type Image struct {
	Identifier string      `json:"identifier"`
	Caption    string      `json:"caption"`
	Image      string      `json:"image"` // File name without extension
	Version    string      `json:"version"`
	Date       string      `json:"date"` // "2006-01-02 15:04:05" UTC
	Centroid   Coordinates `json:"centroid_coordinates"`
}

// Time parses the capture time.
func (img *Image) Time() (time.Time, error) {
	return time.Parse(imageTimeLayout, img.Date)
}

type images []Image

func (is images) Validate() error {
	for _, img := range is {
		if img.Image == "" {
			return fmt.Errorf("image %q has no file name", img.Identifier)
		}
		if _, err := img.Time(); err != nil {
			return fmt.Errorf("image %q: %w", img.Identifier, err)
		}
	}
	return nil
}

// Client fetches EPIC image metadata.
type Client struct {
	*integrations.Client
}

// NewClient creates an EPIC client over c.
func NewClient(c *integrations.Client) *Client {
	return &Client{Client: c}
}

// Latest returns the most recent day of images in the collection.
func (c *Client) Latest(ctx context.Context, collection Collection) ([]Image, error) {
	col, err := ParseCollection(string(collection))
	if err != nil {
		return nil, err
	}
	return integrations.Fetch[images](ctx, c.Client, imagesEndpoint, basePath+"/"+string(col), nil)
}

// ForDate returns the images taken on a YYYY-MM-DD date.
func (c *Client) ForDate(ctx context.Context, collection Collection, date string) ([]Image, error) {
	col, err := ParseCollection(string(collection))
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateDate(date); err != nil {
		return nil, err
	}
	return integrations.Fetch[images](ctx, c.Client, imagesEndpoint, basePath+"/"+string(col)+"/date/"+date, nil)
}

// AvailableDates returns every date with images in the collection.
func (c *Client) AvailableDates(ctx context.Context, collection Collection) ([]string, error) {
	col, err := ParseCollection(string(collection))
	if err != nil {
		return nil, err
	}
	return integrations.Fetch[[]string](ctx, c.Client, availableEndpoint, basePath+"/"+string(col)+"/available", nil)
}

// ImageURL returns the archive URL of img in the given format.
// An empty archive uses [DefaultArchive].
func ImageURL(archive string, collection Collection, img Image, format Format) (string, error) {
	t, err := img.Time()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "image %q has an invalid date", img.Identifier)
	}
	ext := "png"
	switch format {
	case PNG:
	case JPG, Thumbs:
		ext = "jpg"
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown image format %q", format)
	}
	if archive == "" {
		archive = DefaultArchive
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s.%s",
		strings.TrimRight(archive, "/"), collection, t.Format("2006/01/02"), format, img.Image, ext), nil
}
