package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveFetch(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveFetch("stocks", 120*time.Millisecond, nil)
	m.ObserveFetch("stocks", 80*time.Millisecond, nil)
	m.ObserveFetch("stocks", time.Second, errors.New("quota exceeded"))

	if got := testutil.ToFloat64(m.fetches.WithLabelValues("stocks", "ok")); got != 2 {
		t.Errorf("ok fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.fetches.WithLabelValues("stocks", "error")); got != 1 {
		t.Errorf("failed fetches = %v, want 1", got)
	}
}

func TestMetrics_ObserveCache(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveCache("general", CacheHit)
	m.ObserveCache("general", CacheMiss)
	m.ObserveCache("general", CacheHit)

	if got := testutil.ToFloat64(m.cache.WithLabelValues("general", CacheHit)); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cache.WithLabelValues("general", CacheMiss)); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("stocks", time.Second, nil)
	m.ObserveCache("stocks", CacheHit)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	defer func() {
		if recover() == nil {
			t.Error("NewMetrics() on the same registry should panic")
		}
	}()
	NewMetrics(reg)
}
