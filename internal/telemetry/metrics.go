package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/mentorhub"
)

// Metrics holds the instruments recorded by the client library.
type Metrics struct {
	// Query cache
	CacheHitsTotal          metric.Int64Counter
	CacheMissesTotal        metric.Int64Counter
	CacheInvalidationsTotal metric.Int64Counter
	CacheRefetchesTotal     metric.Int64Counter
	CacheEvictionsTotal     metric.Int64Counter
	CacheEntries            metric.Int64UpDownCounter

	// HTTP base query
	RequestDuration metric.Float64Histogram
	RequestErrors   metric.Int64Counter
	RequestRetries  metric.Int64Counter

	// Mutations
	MutationsTotal    metric.Int64Counter
	BulkFailuresTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.CacheHitsTotal, _ = meter.Int64Counter(
		"mentorhub.cache.hits.total",
		metric.WithDescription("Queries served from a fresh cache entry"),
		metric.WithUnit("{query}"),
	)

	m.CacheMissesTotal, _ = meter.Int64Counter(
		"mentorhub.cache.misses.total",
		metric.WithDescription("Queries that required a fetch (missing, stale or failed entry)"),
		metric.WithUnit("{query}"),
	)

	m.CacheInvalidationsTotal, _ = meter.Int64Counter(
		"mentorhub.cache.invalidations.total",
		metric.WithDescription("Cache entries marked stale by tag invalidation"),
		metric.WithUnit("{entry}"),
	)

	m.CacheRefetchesTotal, _ = meter.Int64Counter(
		"mentorhub.cache.refetches.total",
		metric.WithDescription("Explicit refetches requested by a refresh action"),
		metric.WithUnit("{query}"),
	)

	m.CacheEvictionsTotal, _ = meter.Int64Counter(
		"mentorhub.cache.evictions.total",
		metric.WithDescription("Unused cache entries evicted"),
		metric.WithUnit("{entry}"),
	)

	m.CacheEntries, _ = meter.Int64UpDownCounter(
		"mentorhub.cache.entries",
		metric.WithDescription("Entries currently held by the query cache"),
		metric.WithUnit("{entry}"),
	)

	m.RequestDuration, _ = meter.Float64Histogram(
		"mentorhub.http.request.duration",
		metric.WithDescription("Duration of API requests including retries"),
		metric.WithUnit("ms"),
	)

	m.RequestErrors, _ = meter.Int64Counter(
		"mentorhub.http.request.errors.total",
		metric.WithDescription("API requests that ended in an error"),
		metric.WithUnit("{error}"),
	)

	m.RequestRetries, _ = meter.Int64Counter(
		"mentorhub.http.request.retries.total",
		metric.WithDescription("Retried API request attempts"),
		metric.WithUnit("{retry}"),
	)

	m.MutationsTotal, _ = meter.Int64Counter(
		"mentorhub.mutations.total",
		metric.WithDescription("Mutations executed"),
		metric.WithUnit("{mutation}"),
	)

	m.BulkFailuresTotal, _ = meter.Int64Counter(
		"mentorhub.bulk.failures.total",
		metric.WithDescription("Ids reported as failed by bulk operations"),
		metric.WithUnit("{id}"),
	)

	return m
}
