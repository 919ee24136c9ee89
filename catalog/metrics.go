package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes.
const (
	outcomeHit       = "hit"
	outcomeMiss      = "miss"
	outcomeAmbiguous = "ambiguous"
	outcomeUnknown   = "unknown_vocabulary"
)

// Metrics holds Prometheus metrics for catalog lookups and reloads.
// A nil *Metrics records nothing.
type Metrics struct {
	lookups   *prometheus.CounterVec // Term lookups by vocabulary and outcome
	fallbacks *prometheus.CounterVec // TypeOr calls answered with the fallback
	reloads   *prometheus.CounterVec // Catalog loads by outcome
	concepts  *prometheus.GaugeVec   // Concepts per loaded vocabulary
}

// NewMetrics creates catalog metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clscorgi",
			Subsystem: "catalog",
			Name:      "term_lookups_total",
			Help:      "Total term lookups by vocabulary and outcome",
		}, []string{"vocabulary", "outcome"}),

		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clscorgi",
			Subsystem: "catalog",
			Name:      "type_fallbacks_total",
			Help:      "Total typed lookups that fell back to the caller's default type",
		}, []string{"vocabulary"}),

		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clscorgi",
			Subsystem: "catalog",
			Name:      "loads_total",
			Help:      "Total catalog loads by outcome",
		}, []string{"outcome"}),

		concepts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "clscorgi",
			Subsystem: "catalog",
			Name:      "concepts",
			Help:      "Number of concepts in each loaded vocabulary",
		}, []string{"vocabulary"}),
	}

	for _, c := range []prometheus.Collector{m.lookups, m.fallbacks, m.reloads, m.concepts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordLookup(vocabulary, outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(vocabulary, outcome).Inc()
}

func (m *Metrics) recordFallback(vocabulary string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(vocabulary).Inc()
}

func (m *Metrics) recordLoad(c *Catalog, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.reloads.WithLabelValues("error").Inc()
		return
	}
	m.reloads.WithLabelValues("success").Inc()

	m.concepts.Reset()
	for _, name := range c.Names() {
		m.concepts.WithLabelValues(name).Set(float64(c.registries[name].Len()))
	}
}
