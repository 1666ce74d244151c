package engine

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"static-flow-classifier/internal/model"
)

// Metrics counts evaluation outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Failures    *prometheus.CounterVec
}

// NewMetrics creates the evaluator counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tc_static",
			Name:      "evaluations_total",
			Help:      "Static classifier evaluations by attribute and result.",
		}, []string{"attribute", "result"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tc_static",
			Name:      "failures_total",
			Help:      "Static classifier evaluations resolved to false because of an error.",
		}, []string{"attribute", "kind"}),
	}
}

func (m *Metrics) observe(attr model.Attribute, matched bool) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(attrLabel(attr), strconv.FormatBool(matched)).Inc()
}

func (m *Metrics) fail(attr model.Attribute, err error) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(attrLabel(attr), model.ErrorKind(err)).Inc()
}

// attrLabel keeps label cardinality bounded for arbitrary policy tags.
func attrLabel(attr model.Attribute) string {
	if _, ok := matchers[attr]; ok {
		return string(attr)
	}
	return "unsupported"
}
