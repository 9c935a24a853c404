package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/rogrow/internal/domain"
)

// IntentMetrics counts answered questions by the rule that answered them.
type IntentMetrics struct {
	AnswersTotal *prometheus.CounterVec
}

func NewIntentMetrics(reg prometheus.Registerer) *IntentMetrics {
	m := &IntentMetrics{
		AnswersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chatbot",
			Name:      "answers_total",
			Help:      "Total number of answered questions, by intent.",
		}, []string{"intent"}),
	}

	reg.MustRegister(m.AnswersTotal)
	return m
}

func (m *IntentMetrics) RecordIntent(intent domain.Intent) {
	m.AnswersTotal.WithLabelValues(string(intent)).Inc()
}
