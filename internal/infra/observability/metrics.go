package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Business events counted by the services.
const (
	EventUserSignedUp     = "user_signed_up"
	EventRentalCreated    = "rental_created"
	EventRentalUpdated    = "rental_updated"
	EventPropertyCreated  = "property_created"
	EventPropertySaved    = "property_saved"
	EventPropertyUnsaved  = "property_unsaved"
	EventContactSubmitted = "contact_submitted"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	httpDuration *prometheus.HistogramVec
	opDuration   *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	events       *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rentease_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		opDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rentease_operation_duration_seconds",
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentease_store_errors_total",
				Help: "Total unexpected persistence errors by backend.",
			},
			[]string{"backend"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentease_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentease_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentease_events_total",
				Help: "Marketplace events (rentals created, properties saved, ...).",
			},
			[]string{"event"},
		),
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordOperation records the duration of a service operation.
func (m *Metrics) RecordOperation(operation string, d time.Duration) {
	m.opDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the persistence error counter.
func (m *Metrics) IncrStoreError(backend string) {
	m.storeErrors.WithLabelValues(backend).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrEvent increments a business event counter.
func (m *Metrics) IncrEvent(event string) {
	m.events.WithLabelValues(event).Inc()
}

// EventCount returns the current value of a business event counter.
func (m *Metrics) EventCount(event string) float64 {
	return getCounterValue(m.events, event)
}

// CacheHits returns the current hit count for a cache.
func (m *Metrics) CacheHits(cache string) float64 {
	return getCounterValue(m.cacheHits, cache)
}

// StoreErrors returns the failed statement count for a backend.
func (m *Metrics) StoreErrors(backend string) float64 {
	return getCounterValue(m.storeErrors, backend)
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
