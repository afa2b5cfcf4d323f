// Package mars provides a client for the Mars Rover Photos API.
//
// Photos are selected by rover and either a sol (Martian day since landing)
// or an Earth date, optionally narrowed to one camera:
//
//	photos, err := client.Photos(ctx, mars.Curiosity, mars.SolQuery(1000))
//	photos, err := client.Photos(ctx, mars.Perseverance, mars.Query{EarthDate: "2024-01-01", Camera: "NAVCAM_LEFT"})
//
// Historical photo queries are cached for six hours, the latest photos for
// an hour and mission manifests for twelve hours.
package mars
