// Package monitoring registers the Prometheus metrics for the scoring
// pipeline.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the risk classifier.
type Metrics struct {
	IntervalsProcessed *prometheus.CounterVec
	IntervalsFailed    *prometheus.CounterVec
	FallbackUses       *prometheus.CounterVec
	RiskScore          *prometheus.HistogramVec
	RequestDuration    *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		IntervalsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classifier_intervals_processed_total",
				Help: "Sub-intervals successfully extracted and scored",
			},
			[]string{"exam_id"},
		),

		IntervalsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classifier_intervals_failed_total",
				Help: "Sub-intervals skipped due to extraction or write-back failure",
			},
			[]string{"exam_id"},
		),

		FallbackUses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classifier_fallback_uses_total",
				Help: "Feature requests served from the recent-events fallback",
			},
			[]string{"exam_id"},
		),

		RiskScore: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "classifier_risk_score",
				Help:    "Distribution of computed total risk scores",
				Buckets: []float64{5, 10, 25, 40, 60, 75, 90, 100},
			},
			[]string{"exam_id"},
		),

		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "classifier_request_duration_seconds",
				Help:    "Duration of scoring and feature requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}
