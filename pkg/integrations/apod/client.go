package apod

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations"
)

// Path is the APOD endpoint path on api.nasa.gov.
const Path = "/planetary/apod"

const (
	// MaxRangeDays is the widest inclusive date range Range accepts.
	MaxRangeDays = 100

	// MaxCount is the largest count Random accepts.
	MaxCount = 100
)

// FirstDate is the first day with a picture.
var FirstDate = time.Date(1995, 6, 16, 0, 0, 0, 0, time.UTC)

var (
	todayEndpoint  = integrations.Endpoint{Name: "apod", Op: "today", TTL: time.Hour}
	dateEndpoint   = integrations.Endpoint{Name: "apod", Op: "date", TTL: 24 * time.Hour}
	rangeEndpoint  = integrations.Endpoint{Name: "apod", Op: "range", TTL: 24 * time.Hour}
	randomEndpoint = integrations.Endpoint{Name: "apod", Op: "random", Uncached: true}
)

// Picture is one day's entry.
type Picture struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	Explanation    string `json:"explanation"`
	URL            string `json:"url"`
	HDURL          string `json:"hdurl,omitempty"`
	MediaType      string `json:"media_type"` // "image", "video" or "other"
	Copyright      string `json:"copyright,omitempty"`
	ThumbnailURL   string `json:"thumbnail_url,omitempty"` // Set for videos
	ServiceVersion string `json:"service_version,omitempty"`
}

// Validate implements integrations.Validator.
func (p *Picture) Validate() error {
	if p.URL == "" {
		return fmt.Errorf("picture for %q has no url", p.Date)
	}
	return nil
}

// IsVideo reports whether the entry is a video rather than an image.
func (p *Picture) IsVideo() bool {
	return p.MediaType == "video"
}

// Pictures is a list of entries as returned by Range and Random.
type Pictures []Picture

// Validate implements integrations.Validator.
func (ps Pictures) Validate() error {
	for i := range ps {
		if err := ps[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Client fetches APOD entries.
type Client struct {
	*integrations.Client
}

// NewClient creates an APOD client over c.
func NewClient(c *integrations.Client) *Client {
	return &Client{Client: c}
}

// Today returns today's picture.
func (c *Client) Today(ctx context.Context) (*Picture, error) {
	pic, err := integrations.Fetch[Picture](ctx, c.Client, todayEndpoint, Path, integrations.Params{"thumbs": "true"})
	if err != nil {
		return nil, err
	}
	return &pic, nil
}

// ForDate returns the picture for a YYYY-MM-DD date.
func (c *Client) ForDate(ctx context.Context, date string) (*Picture, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	pic, err := integrations.Fetch[Picture](ctx, c.Client, dateEndpoint, Path, integrations.Params{
		"date":   date,
		"thumbs": "true",
	})
	if err != nil {
		return nil, err
	}
	return &pic, nil
}

// Range returns the pictures from start to end inclusive, at most
// [MaxRangeDays] days.
func (c *Client) Range(ctx context.Context, start, end string) (Pictures, error) {
	if err := validateDate(start); err != nil {
		return nil, err
	}
	if err := errors.ValidateDateRange(start, end, MaxRangeDays); err != nil {
		return nil, err
	}
	return integrations.Fetch[Pictures](ctx, c.Client, rangeEndpoint, Path, integrations.Params{
		"start_date": start,
		"end_date":   end,
		"thumbs":     "true",
	})
}

// Random returns count randomly chosen pictures. Results are never cached.
func (c *Client) Random(ctx context.Context, count int) (Pictures, error) {
	if err := errors.ValidateRange("count", count, 1, MaxCount); err != nil {
		return nil, err
	}
	return integrations.Fetch[Pictures](ctx, c.Client, randomEndpoint, Path, integrations.Params{
		"count":  strconv.Itoa(count),
		"thumbs": "true",
	})
}

func validateDate(date string) error {
	d, err := errors.ParseDate(date)
	if err != nil {
		return err
	}
	if d.Before(FirstDate) {
		return errors.New(errors.ErrCodeInvalidDate, "no picture before %s", FirstDate.Format(errors.DateLayout))
	}
	return nil
}

// Fallback is shown in place of a picture that could not be fetched.
var Fallback = Picture{
	Title:       "Picture unavailable",
	Explanation: "The Astronomy Picture of the Day could not be retrieved. Browse the archive instead.",
	URL:         "https://apod.nasa.gov/apod/archivepix.html",
	MediaType:   "other",
}

// OrFallback returns a copy of [Fallback] when err reports a malformed
// payload or an exhausted fetch. Any other outcome is returned unchanged.
func OrFallback(p *Picture, err error) (*Picture, error) {
	if errors.Is(err, errors.ErrCodeUnexpectedPayload) || errors.Is(err, errors.ErrCodeRetriesExhausted) {
		fb := Fallback
		return &fb, nil
	}
	return p, err
}
