package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindPool = "pool"
	kindKey  = "key"
)

// CacheMetrics counts cache traffic per entry kind.
type CacheMetrics struct {
	Hits      *prometheus.CounterVec
	Misses    *prometheus.CounterVec
	Evictions *prometheus.CounterVec
	Entries   *prometheus.GaugeVec
}

// NewCacheMetrics registers the cache collectors with reg.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	factory := promauto.With(reg)
	return &CacheMetrics{
		Hits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rangescope",
			Subsystem: "pool_cache",
			Name:      "hits_total",
			Help:      "Cache lookups answered by an existing entry",
		}, []string{"kind"}),
		Misses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rangescope",
			Subsystem: "pool_cache",
			Name:      "misses_total",
			Help:      "Cache lookups that constructed a new entry",
		}, []string{"kind"}),
		Evictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rangescope",
			Subsystem: "pool_cache",
			Name:      "evictions_total",
			Help:      "Entries dropped on overflow",
		}, []string{"kind"}),
		Entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rangescope",
			Subsystem: "pool_cache",
			Name:      "entries",
			Help:      "Live cache entries",
		}, []string{"kind"}),
	}
}

func (m *CacheMetrics) hit(kind string) {
	if m != nil {
		m.Hits.WithLabelValues(kind).Inc()
	}
}

func (m *CacheMetrics) miss(kind string) {
	if m != nil {
		m.Misses.WithLabelValues(kind).Inc()
	}
}

func (m *CacheMetrics) evicted(kind string, n int) {
	if m != nil && n > 0 {
		m.Evictions.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *CacheMetrics) size(kind string, n int) {
	if m != nil {
		m.Entries.WithLabelValues(kind).Set(float64(n))
	}
}
