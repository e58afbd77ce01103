package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the journey service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Journey index pipeline
	EventsPublishedTotal   *prometheus.CounterVec
	EventsDroppedTotal     prometheus.Counter
	EventsProcessedTotal   *prometheus.CounterVec
	EventQueueDepth        prometheus.Gauge
	EventHandleDuration    *prometheus.HistogramVec
	JourneysChangedTotal   *prometheus.CounterVec
	JourneyRefreshDuration prometheus.Histogram
}

// NewMetricsRegistry registers every metric with reg. Production passes
// prometheus.DefaultRegisterer; tests pass a fresh prometheus.NewRegistry().
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journeys_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "journeys_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "journeys_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journeys_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journeys_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Journey index pipeline
		EventsPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journeys_index_events_published_total",
				Help: "Flight change events accepted by the index queue",
			},
			[]string{"event_type"},
		),
		EventsDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "journeys_index_events_dropped_total",
				Help: "Flight change events dropped because the queue was full or shut down",
			},
		),
		EventsProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journeys_index_events_processed_total",
				Help: "Flight change events handled by the index manager, by outcome",
			},
			[]string{"event_type", "outcome"},
		),
		EventQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "journeys_index_queue_depth",
				Help: "Events waiting in the journey index queue",
			},
		),
		EventHandleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "journeys_index_event_duration_seconds",
				Help:    "Time spent applying one change event to the journey index",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"event_type"},
		),
		JourneysChangedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journeys_index_rows_changed_total",
				Help: "Journey index rows inserted, deleted or updated",
			},
			[]string{"operation"},
		),
		JourneyRefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "journeys_index_refresh_duration_seconds",
				Help:    "Full journey index rebuild time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
	}
}
