// Package integrations provides the shared client behind every space-data
// endpoint accessor.
//
// # Overview
//
// Each data category has its own subpackage:
//
//   - [apod]: NASA Astronomy Picture of the Day
//   - [mars]: Mars rover photos
//   - [neo]: Near-Earth object feed, lookup and browse (NeoWs)
//   - [donki]: Space weather events and notifications (DONKI)
//   - [epic]: Earth Polychromatic Imaging Camera metadata
//   - [catalog]: Meteorite, comet and solar-system body catalogs
//
// # Endpoints as records
//
// Accessors are thin. Each one is described by an [Endpoint] record giving
// the cache namespace, the TTL and the attempt budget, and calls the generic
// [Fetch] with a path and query [Params]. Fetch builds the URL, derives the
// cache key, runs the request through the shared [pipeline.Pipeline] and
// decodes the JSON document into the caller's type.
//
//	var pictureOfDay = integrations.Endpoint{Name: "apod", Op: "today", TTL: time.Hour}
//
//	pic, err := integrations.Fetch[Picture](ctx, c.Client, pictureOfDay, "/planetary/apod", nil)
//
// # Cache keys
//
// Keys are built from the endpoint name, operation, path and the sorted
// query parameters. The API key is appended to the URL only; it never
// becomes part of a cache key, so rotating it does not invalidate cached
// responses.
//
// # Payload validation
//
// A document that decodes but lacks fields the caller needs is reported as
// UNEXPECTED_PAYLOAD, distinct from RETRIES_EXHAUSTED. Types opt in by
// implementing [Validator].
//
// [apod]: github.com/matzehuels/orbit/pkg/integrations/apod
// [mars]: github.com/matzehuels/orbit/pkg/integrations/mars
// [neo]: github.com/matzehuels/orbit/pkg/integrations/neo
// [donki]: github.com/matzehuels/orbit/pkg/integrations/donki
// [epic]: github.com/matzehuels/orbit/pkg/integrations/epic
// [catalog]: github.com/matzehuels/orbit/pkg/integrations/catalog
// [pipeline.Pipeline]: github.com/matzehuels/orbit/pkg/pipeline.Pipeline
package integrations
