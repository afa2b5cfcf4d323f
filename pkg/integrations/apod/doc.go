// Package apod provides a client for NASA's Astronomy Picture of the Day API.
//
// # Overview
//
// The API serves one picture (or video) per day since 16 June 1995:
//
//	client := apod.NewClient(integrations.NewClient(p, integrations.Options{
//	    BaseURL: "https://api.nasa.gov",
//	    APIKey:  "DEMO_KEY",
//	}))
//
//	pic, err := client.Today(ctx)
//	pic, err := client.ForDate(ctx, "2024-01-01")
//	pics, err := client.Range(ctx, "2024-01-01", "2024-01-07")
//	pics, err := client.Random(ctx, 5)
//
// # Caching
//
// Today's picture is cached for an hour since it changes at midnight US
// Eastern time. Pictures for a fixed date never change and are cached for
// a day. Random selections are never cached.
//
// # Fallback
//
// A response without an image URL is reported as UNEXPECTED_PAYLOAD. Callers
// that would rather show something than fail can pass the result through
// [OrFallback].
package apod
