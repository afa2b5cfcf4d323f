// Package httputil provides the boundaries the request pipeline talks to.
//
// # Overview
//
// The pipeline never touches net/http, the wall clock or time.Sleep
// directly. It goes through three small interfaces so tests can replace
// each of them:
//
//   - [Transport]: performs one GET and returns the status and body
//   - [Clock]: supplies the current time for cache timestamps
//   - [Sleeper]: suspends between retry attempts
//
// [HTTPTransport], [SystemClock] and [TimerSleeper] are the production
// implementations.
//
// # Retry
//
// [Retrier] runs an operation up to a fixed number of attempts with
// exponential backoff. Every error is retried; the delay before attempt
// i+1 is base * 2^i (1s, 2s, 4s with the default base). There is no
// suspension after the final attempt. When every attempt fails the result
// is an [errors.RetriesExhaustedError] wrapping the last error.
//
//	r := httputil.Retrier{Attempts: 3, BaseDelay: time.Second}
//	attempts, err := r.Do(ctx, func(attempt int) error {
//	    return fetch(ctx)
//	})
//
// # Secrets
//
// Request URLs for api.nasa.gov carry the API key as a query parameter.
// [RedactURL] masks it; use it for anything that ends up in logs or error
// messages.
//
// [errors.RetriesExhaustedError]: github.com/matzehuels/orbit/pkg/errors.RetriesExhaustedError
package httputil
