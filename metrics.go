package entitree

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the optional observability surface a World can be wired to:
// population and churn counters for whatever is running it (a game or
// simulation server). A nil *Metrics is always safe to use — every method
// is a no-op — so NewWorld can be called without a registry in tests and
// tight loops.
type Metrics struct {
	entitiesAdded   *prometheus.CounterVec
	entitiesRemoved *prometheus.CounterVec
	poolSize        *prometheus.GaugeVec
}

// NewMetrics registers the World's counters/gauges on reg and returns a
// Metrics handle to pass to NewWorld. Each series is labeled by archetype
// (the stored record's type name) so a simulation server can see which
// record types dominate churn or standing population.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		entitiesAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "entitree_entities_added_total",
			Help: "Entities added to a World, by archetype.",
		}, []string{"archetype"}),
		entitiesRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "entitree_entities_removed_total",
			Help: "Entities removed from a World, by archetype.",
		}, []string{"archetype"}),
		poolSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "entitree_pool_size",
			Help: "Current number of entities in a pool, by archetype.",
		}, []string{"archetype"}),
	}
	reg.MustRegister(m.entitiesAdded, m.entitiesRemoved, m.poolSize)
	return m
}

func (m *Metrics) observeAdd(archetype string, poolLen int) {
	if m == nil {
		return
	}
	m.entitiesAdded.WithLabelValues(archetype).Inc()
	m.poolSize.WithLabelValues(archetype).Set(float64(poolLen))
}

func (m *Metrics) observeRemove(archetype string, poolLen int) {
	if m == nil {
		return
	}
	m.entitiesRemoved.WithLabelValues(archetype).Inc()
	m.poolSize.WithLabelValues(archetype).Set(float64(poolLen))
}
