package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestTriageMetricsObserve(t *testing.T) {
	m := NewTriageMetrics(prometheus.NewRegistry())
	m.ObserveDecision("SQL", "sales")
	m.ObserveRouting("sales_qualified", "AE")
	m.ObserveRouting("traditional_qualification", "")
	m.ObserveValidation(true, "")
	m.ObserveValidation(false, "pricing")
	m.ObserveExtractionLatency("ok", 0.5)
}

func TestTriageMetricsNilSafe(t *testing.T) {
	var m *TriageMetrics
	m.ObserveDecision("SQL", "sales")
	m.ObserveRouting("support", "SUPPORT")
	m.ObserveValidation(false, "commitment")
	m.ObserveExtractionLatency("degraded", 0.1)
}
