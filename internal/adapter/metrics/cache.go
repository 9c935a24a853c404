package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for the score insight cache.
type CacheMetrics struct {
	Hits          *prometheus.CounterVec
	Misses        *prometheus.CounterVec
	Invalidations prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight_cache",
			Name:      "hits_total",
			Help:      "Total number of insight cache hits, by layer.",
		}, []string{"layer"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight_cache",
			Name:      "misses_total",
			Help:      "Total number of insight cache misses, by layer.",
		}, []string{"layer"}),
		Invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight_cache",
			Name:      "invalidations_total",
			Help:      "Total number of insight cache invalidations.",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Invalidations)
	return m
}

func (m *CacheMetrics) Hit(layer string)  { m.Hits.WithLabelValues(layer).Inc() }
func (m *CacheMetrics) Miss(layer string) { m.Misses.WithLabelValues(layer).Inc() }
func (m *CacheMetrics) Invalidated()      { m.Invalidations.Inc() }
