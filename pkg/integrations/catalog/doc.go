// Package catalog provides clients for third-party astronomical catalogs.
//
// Two sources are covered:
//
//   - NASA's open-data portal (data.nasa.gov): the Meteorite Landings and
//     Near-Earth Comets datasets, queried with $limit and $order.
//   - The Solar System OpenData API (api.le-systeme-solaire.net): planets,
//     moons, stars, asteroids and other bodies. This API expects a bearer
//     token, which the transport passed in via the integrations client sends
//     on every request.
//
// All catalogs change rarely and are cached for a day.
package catalog
