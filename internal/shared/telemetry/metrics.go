package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the dashboard's own Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet",
			Name:      "sheet_fetches_total",
			Help:      "Worksheet reads from the Google Sheets API.",
		}, []string{"worksheet", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wallet",
			Name:      "sheet_fetch_duration_seconds",
			Help:      "Latency of worksheet reads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"worksheet"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet",
			Name:      "sheet_cache_requests_total",
			Help:      "Worksheet cache lookups by result.",
		}, []string{"worksheet", "result"}),
	}
	reg.MustRegister(m.fetches, m.duration, m.cache)
	return m
}

// ObserveFetch records one worksheet read.
func (m *Metrics) ObserveFetch(worksheet string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.fetches.WithLabelValues(worksheet, status).Inc()
	m.duration.WithLabelValues(worksheet).Observe(elapsed.Seconds())
}

// ObserveCache records one cache lookup.
func (m *Metrics) ObserveCache(worksheet, result string) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues(worksheet, result).Inc()
}
