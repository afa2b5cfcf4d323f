// Package promhooks implements the observability hooks with Prometheus
// collectors.
//
// Collectors are registered on the [prometheus.Registerer] passed to [New]
// rather than through promauto's global registry, so tests and multiple
// servers in one process can each use their own registry.
package promhooks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/orbit/pkg/observability"
)

const metricsNamespace = "orbit"

// Hooks records fetch, cache and HTTP events as Prometheus metrics.
type Hooks struct {
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheSets   *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec

	AttemptFailures *prometheus.CounterVec
	Backoffs        *prometheus.CounterVec
	BackoffSeconds  *prometheus.CounterVec
	Fetches         *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec

	HTTPRequests *prometheus.CounterVec
	HTTPErrors   *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

var (
	_ observability.FetchHooks = (*Hooks)(nil)
	_ observability.CacheHooks = (*Hooks)(nil)
	_ observability.HTTPHooks  = (*Hooks)(nil)
)

// New creates the collectors and registers them on reg.
// It panics if any collector is already registered on reg, like
// [prometheus.MustRegister].
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Total number of fresh response cache hits",
		}, []string{"endpoint"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "Total number of response cache misses, including stale entries",
		}, []string{"endpoint"}),
		CacheSets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_sets_total",
			Help:      "Total number of response cache writes",
		}, []string{"endpoint"}),
		CacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_stored_bytes_total",
			Help:      "Total bytes written to the response cache",
		}, []string{"endpoint"}),
		AttemptFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_attempt_failures_total",
			Help:      "Total number of failed fetch attempts",
		}, []string{"endpoint"}),
		Backoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_backoffs_total",
			Help:      "Total number of backoff suspensions between attempts",
		}, []string{"endpoint"}),
		BackoffSeconds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_backoff_seconds_total",
			Help:      "Total time spent suspended between attempts",
		}, []string{"endpoint"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetches_total",
			Help:      "Total number of fetches that reached the network, by outcome",
		}, []string{"endpoint", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of network fetches including retries and backoff",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream HTTP responses by host and status",
		}, []string{"host", "status"}),
		HTTPErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_errors_total",
			Help:      "Total number of upstream HTTP transport errors by host",
		}, []string{"host"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream HTTP round trips",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
	}

	reg.MustRegister(
		h.CacheHits, h.CacheMisses, h.CacheSets, h.CacheBytes,
		h.AttemptFailures, h.Backoffs, h.BackoffSeconds, h.Fetches, h.FetchDuration,
		h.HTTPRequests, h.HTTPErrors, h.HTTPDuration,
	)
	return h
}

// Install registers h as the global fetch, cache and HTTP hooks.
func (h *Hooks) Install() {
	observability.SetFetchHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// OnAttemptFailed implements observability.FetchHooks.
func (h *Hooks) OnAttemptFailed(_ context.Context, namespace string, _ int, _ error) {
	h.AttemptFailures.WithLabelValues(namespace).Inc()
}

// OnBackoff implements observability.FetchHooks.
func (h *Hooks) OnBackoff(_ context.Context, namespace string, delay time.Duration) {
	h.Backoffs.WithLabelValues(namespace).Inc()
	h.BackoffSeconds.WithLabelValues(namespace).Add(delay.Seconds())
}

// OnFetchComplete implements observability.FetchHooks.
func (h *Hooks) OnFetchComplete(_ context.Context, namespace string, _ int, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	h.Fetches.WithLabelValues(namespace, outcome).Inc()
	h.FetchDuration.WithLabelValues(namespace).Observe(duration.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(_ context.Context, namespace string) {
	h.CacheHits.WithLabelValues(namespace).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(_ context.Context, namespace string) {
	h.CacheMisses.WithLabelValues(namespace).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(_ context.Context, namespace string, size int) {
	h.CacheSets.WithLabelValues(namespace).Inc()
	h.CacheBytes.WithLabelValues(namespace).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks. Requests are counted on
// completion, so this is a no-op.
func (h *Hooks) OnRequest(context.Context, string, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (h *Hooks) OnResponse(_ context.Context, _ string, host, _ string, statusCode int, duration time.Duration) {
	h.HTTPRequests.WithLabelValues(host, statusClass(statusCode)).Inc()
	h.HTTPDuration.WithLabelValues(host).Observe(duration.Seconds())
}

// OnError implements observability.HTTPHooks.
func (h *Hooks) OnError(_ context.Context, _ string, host, _ string, _ error) {
	h.HTTPErrors.WithLabelValues(host).Inc()
}

// statusClass collapses status codes into 2xx/3xx/4xx/5xx to bound label cardinality.
func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "other"
	}
}
