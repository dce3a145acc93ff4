package metrics

import "github.com/prometheus/client_golang/prometheus"

// TriageMetrics exposes counters/histograms for triage flows.
type TriageMetrics struct {
	decisionsTotal    *prometheus.CounterVec
	routingTotal      *prometheus.CounterVec
	validatorTotal    *prometheus.CounterVec
	extractionLatency *prometheus.HistogramVec
}

func NewTriageMetrics(reg prometheus.Registerer) *TriageMetrics {
	m := &TriageMetrics{
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salestriage",
			Subsystem: "qualification",
			Name:      "decisions_total",
			Help:      "Total qualification decisions by stage and intent",
		}, []string{"stage", "intent"}),
		routingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salestriage",
			Subsystem: "routing",
			Name:      "transfers_total",
			Help:      "Total routing outcomes by priority rule and target",
		}, []string{"priority", "target"}),
		validatorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salestriage",
			Subsystem: "validator",
			Name:      "responses_total",
			Help:      "Total validated responses by verdict and category",
		}, []string{"verdict", "category"}),
		extractionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salestriage",
			Subsystem: "extraction",
			Name:      "latency_seconds",
			Help:      "Latency of conversation analysis",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.decisionsTotal, m.routingTotal, m.validatorTotal, m.extractionLatency)
	return m
}

func (m *TriageMetrics) ObserveDecision(stage, intent string) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(stage, intent).Inc()
}

func (m *TriageMetrics) ObserveRouting(priority, target string) {
	if m == nil {
		return
	}
	if target == "" {
		target = "none"
	}
	m.routingTotal.WithLabelValues(priority, target).Inc()
}

func (m *TriageMetrics) ObserveValidation(approved bool, category string) {
	if m == nil {
		return
	}
	verdict := "approved"
	if !approved {
		verdict = "rejected"
	}
	if category == "" {
		category = "none"
	}
	m.validatorTotal.WithLabelValues(verdict, category).Inc()
}

func (m *TriageMetrics) ObserveExtractionLatency(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.extractionLatency.WithLabelValues(outcome).Observe(seconds)
}
