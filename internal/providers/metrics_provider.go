package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"questlog/internal/structures"
	"time"
)

const (
	TierLocal = "local"
	TierCloud = "cloud"

	ResultOK    = "ok"
	ResultError = "error"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(tier string, duration time.Duration)
	IncSyncWrites(tier, result string)
	IncCoalescedWrites()
	IncRateLimited()
	SetLibrarySize(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration *prometheus.HistogramVec
	syncWrites          *prometheus.CounterVec
	coalescedWrites     prometheus.Counter
	rateLimited         prometheus.Counter
	librarySize         prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(tier string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(tier).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSyncWrites(tier, result string) {
	m.syncWrites.WithLabelValues(tier, result).Inc()
}

func (m *MetricsProvider) IncCoalescedWrites() {
	m.coalescedWrites.Inc()
}

func (m *MetricsProvider) IncRateLimited() {
	m.rateLimited.Inc()
}

func (m *MetricsProvider) SetLibrarySize(count int) {
	m.librarySize.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "questlog_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "questlog_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "questlog_cache_hits_total",
			Help: "Total number of document cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "questlog_cache_misses_total",
			Help: "Total number of document cache misses",
		}),

		persistenceDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "questlog_persistence_duration_seconds",
			Help:    "Duration of document writes in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"tier"}),

		syncWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "questlog_sync_writes_total",
			Help: "Document writes by tier and result",
		}, []string{"tier", "result"}),

		coalescedWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "questlog_sync_coalesced_total",
			Help: "Cloud writes replaced by a newer mutation before they were sent",
		}),

		rateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "questlog_rate_limited_total",
			Help: "Cloud writes rejected by the per-device rate limit",
		}),

		librarySize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "questlog_library_games",
			Help: "Number of games in the library",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits()                                        {}
func (n *noopMetrics) IncCacheMisses()                                      {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncSyncWrites(_, _ string)                            {}
func (n *noopMetrics) IncCoalescedWrites()                                  {}
func (n *noopMetrics) IncRateLimited()                                      {}
func (n *noopMetrics) SetLibrarySize(_ int)                                 {}
