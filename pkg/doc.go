// Package pkg provides the core libraries for Orbit, a client for NASA's
// open APIs and a few public astronomical catalogs.
//
// # Overview
//
// Every upstream document travels the same path: a category client builds a
// request, the [pipeline] looks it up in the shared [cache], and on a miss
// fetches it through an [httputil] transport, retrying every failure with
// doubling backoff until the attempt budget is spent. Successful bodies are
// stored under their request key with the category's TTL.
//
//	category client ([integrations/apod], [integrations/mars], ...)
//	         ↓
//	    [integrations] (endpoint records, typed decoding, validation)
//	         ↓
//	    [pipeline] (cache lookup → retry → cache store)
//	         ↓
//	    [httputil] (transport, clock, sleeper)
//
// # Quick Start
//
//	cfg, _ := config.LoadDefault()
//	sc := space.New(cfg, log.Default())
//	defer sc.Close()
//
//	pic, err := sc.APOD.Today(ctx)
//	photos, err := sc.Mars.Photos(ctx, mars.Curiosity, mars.SolQuery(1000))
//
// # Main Packages
//
// [space] - Facade that wires configuration, the cache, both pipelines and
// every category client. Also computes the daily [space.Overview].
//
// [integrations] - Shared client plus one subpackage per category: APOD,
// Mars rover photos, NeoWs, DONKI, EPIC and the reference catalogs.
//
// [pipeline] - Request pipeline: cache check, bounded retry, cache store,
// with observability hooks around each step.
//
// [cache] - In-memory response cache with per-entry TTL and request keys.
//
// [httputil] - GET transport, retry helpers, injectable clock and sleeper.
//
// [errors] - Error codes shared by every layer and their HTTP statuses.
//
// [config] - TOML configuration with environment overrides and validation.
//
// [server] - HTTP API over [space] with request coalescing and metrics.
//
// [observability] - Hook registry; [observability/promhooks] exports the
// hooks as Prometheus metrics.
//
// [buildinfo] - Version information set at build time.
//
// [space]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/space
// [space.Overview]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/space#Overview
// [integrations]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/integrations
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/observability
// [observability/promhooks]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/observability/promhooks
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/buildinfo
//
// [integrations/apod]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/integrations/apod
// [integrations/mars]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/integrations/mars
package pkg
