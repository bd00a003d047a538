package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/docmindhq/docmind/internal/core/domain"
)

// AnalysisMetrics tracks fallback-chain outcomes. It implements the
// analysis observer consumed by the orchestrator.
type AnalysisMetrics struct {
	service string

	analysisTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	providerAttempts *prometheus.CounterVec
}

func NewAnalysisMetrics(service string, registerer prometheus.Registerer) *AnalysisMetrics {
	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docmind",
			Subsystem: "analysis",
			Name:      "total",
			Help:      "Completed document analyses by result provenance.",
		},
		[]string{"service", "provenance"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docmind",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "End-to-end analysis duration in seconds by provenance.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service", "provenance"},
	)
	providerAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docmind",
			Subsystem: "analysis",
			Name:      "provider_attempts_total",
			Help:      "Provider calls made by the analysis chain, by outcome.",
		},
		[]string{"service", "provider", "outcome"},
	)

	registerer.MustRegister(analysisTotal, analysisDuration, providerAttempts)

	return &AnalysisMetrics{
		service:          service,
		analysisTotal:    analysisTotal,
		analysisDuration: analysisDuration,
		providerAttempts: providerAttempts,
	}
}

func (m *AnalysisMetrics) ObserveAnalysis(provenance domain.Provenance, duration time.Duration) {
	m.analysisTotal.WithLabelValues(m.service, string(provenance)).Inc()
	m.analysisDuration.WithLabelValues(m.service, string(provenance)).Observe(duration.Seconds())
}

func (m *AnalysisMetrics) ObserveProviderAttempt(provider, outcome string) {
	if provider == "" {
		provider = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.providerAttempts.WithLabelValues(m.service, provider, outcome).Inc()
}
