package observability

import (
	"time"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	vcardsGenerated prometheus.Counter
	cardViews       *prometheus.CounterVec
	trackingDropped prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "namecard_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "namecard_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "namecard_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "namecard_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		vcardsGenerated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "namecard_vcards_generated_total",
				Help: "Total vCard documents composed.",
			},
		),
		cardViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "namecard_card_views_total",
				Help: "Total card views recorded, by source.",
			},
			[]string{"source"},
		),
		trackingDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "namecard_tracking_dropped_total",
				Help: "View-tracking writes that failed and were dropped.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrVCardGenerated counts one composed vCard document.
func (m *Metrics) IncrVCardGenerated() {
	m.vcardsGenerated.Inc()
}

// IncrCardView counts one recorded card view by source (vcard, web).
func (m *Metrics) IncrCardView(source string) {
	m.cardViews.WithLabelValues(source).Inc()
}

// IncrTrackingDropped counts a failed fire-and-forget tracking write.
func (m *Metrics) IncrTrackingDropped() {
	m.trackingDropped.Inc()
}

// GetUsageSnapshot returns the cumulative counters backing the
// GET /v1/stats/usage endpoint.
func (m *Metrics) GetUsageSnapshot() *domain.UsageStats {
	vcards := getCounterValue(m.vcardsGenerated)
	vcardViews := getVecValue(m.cardViews, "vcard")
	webViews := getVecValue(m.cardViews, "web")
	hits := getVecValue(m.cacheHits, "card")
	misses := getVecValue(m.cacheMisses, "card")

	cacheHitRate := float64(0)
	if hits+misses > 0 {
		cacheHitRate = hits / (hits + misses)
	}

	return &domain.UsageStats{
		VCardsGenerated: int64(vcards),
		VCardViews:      int64(vcardViews),
		WebViews:        int64(webViews),
		TrackingDropped: int64(getCounterValue(m.trackingDropped)),
		CacheHitRate:    cacheHitRate,
	}
}

// getCounterValue extracts the current float64 value from a Counter.
func getCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// getVecValue extracts the current float64 value from a CounterVec label.
func getVecValue(cv *prometheus.CounterVec, label string) float64 {
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
