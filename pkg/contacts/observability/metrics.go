// Package observability holds Prometheus metrics for contact
// reconciliation. Metrics are recorded by the command layer so the
// extraction and matching cores stay pure.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for contact reconciliation.
type Metrics struct {
	// Extraction metrics
	RecordsExtractedTotal *prometheus.CounterVec
	ExtractionSeconds     *prometheus.HistogramVec

	// Matching metrics
	ProposalsTotal  *prometheus.CounterVec
	MatchConfidence *prometheus.HistogramVec
	UniqueTotal     *prometheus.CounterVec

	// Resolution metrics
	ResolutionsTotal *prometheus.CounterVec
}

// DefaultMetrics creates metrics on the default registerer.
func DefaultMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

// NewMetrics creates a new set of reconciliation metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RecordsExtractedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitebook_records_extracted_total",
				Help: "Candidate records produced by extraction",
			},
			[]string{"kind", "source"},
		),
		ExtractionSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitebook_extraction_seconds",
				Help:    "Extraction latency per input blob",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"kind", "source"},
		),
		ProposalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitebook_match_proposals_total",
				Help: "Match proposals surfaced by the duplicate matcher",
			},
			[]string{"kind", "reason"},
		),
		MatchConfidence: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitebook_match_confidence",
				Help:    "Confidence scores of surfaced match proposals",
				Buckets: []float64{0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1.0},
			},
			[]string{"reason"},
		),
		UniqueTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitebook_unique_records_total",
				Help: "Candidate records partitioned as unique (auto-importable)",
			},
			[]string{"kind"},
		),
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitebook_resolutions_total",
				Help: "Resolutions applied to disputed records",
			},
			[]string{"kind", "action"},
		),
	}
}

// RecordExtraction records one extraction pass.
func (m *Metrics) RecordExtraction(kind, source string, records int, seconds float64) {
	m.RecordsExtractedTotal.WithLabelValues(kind, source).Add(float64(records))
	m.ExtractionSeconds.WithLabelValues(kind, source).Observe(seconds)
}

// RecordProposal records one surfaced match proposal.
func (m *Metrics) RecordProposal(kind, reason string, confidence float64) {
	m.ProposalsTotal.WithLabelValues(kind, reason).Inc()
	m.MatchConfidence.WithLabelValues(reason).Observe(confidence)
}

// RecordPartition records the unique side of a partition.
func (m *Metrics) RecordPartition(kind string, unique int) {
	m.UniqueTotal.WithLabelValues(kind).Add(float64(unique))
}

// RecordResolution records one applied resolution.
func (m *Metrics) RecordResolution(kind, action string) {
	m.ResolutionsTotal.WithLabelValues(kind, action).Inc()
}
