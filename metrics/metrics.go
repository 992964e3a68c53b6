// Package metrics provides Prometheus metrics instrumentation for the proxy.
//
// It exposes operational metrics about request routing, migration state,
// rollbacks, and validation activity. All metrics are exposed via the
// /metrics HTTP endpoint for Prometheus scraping.
//
// Metrics exposed:
//   - strangler_proxy_requests_total: Counter of routed requests by source and outcome
//   - strangler_proxy_request_duration_seconds: Histogram of backend call durations by source
//   - strangler_proxy_migration_percentage: Gauge of the current migration percentage
//   - strangler_proxy_rollbacks_total: Counter of rollback operations
//   - strangler_proxy_validations_total: Counter of twin validations by recommendation
//   - strangler_proxy_scaling_recommendations_total: Counter of scaling recommendations by action
//   - strangler_proxy_compliance_score: Gauge of the most recent compliance score
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProxyRequestsTotal     *prometheus.CounterVec
	ProxyRequestDuration   *prometheus.HistogramVec
	MigrationPercentage    prometheus.Gauge
	RollbacksTotal         prometheus.Counter
	ValidationsTotal       *prometheus.CounterVec
	ScalingRecommendations *prometheus.CounterVec
	ComplianceScore        prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ProxyRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "strangler_proxy_requests_total",
			Help: "Total number of routed requests by source and outcome",
		}, []string{"source", "outcome"}),

		ProxyRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "strangler_proxy_request_duration_seconds",
			Help:    "Duration of backend calls by source",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),

		MigrationPercentage: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strangler_proxy_migration_percentage",
			Help: "Current share of traffic routed to the cloud backend",
		}),

		RollbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "strangler_proxy_rollbacks_total",
			Help: "Total number of rollback operations",
		}),

		ValidationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "strangler_proxy_validations_total",
			Help: "Total number of digital twin validations by recommendation",
		}, []string{"recommendation"}),

		ScalingRecommendations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "strangler_proxy_scaling_recommendations_total",
			Help: "Total number of auto-scaling recommendations by action",
		}, []string{"action"}),

		ComplianceScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strangler_proxy_compliance_score",
			Help: "Most recent compliance check score",
		}),
	}
}

func (m *Metrics) RecordProxyRequest(source, outcome string) {
	m.ProxyRequestsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveProxyDuration(source string, seconds float64) {
	m.ProxyRequestDuration.WithLabelValues(source).Observe(seconds)
}

func (m *Metrics) SetMigrationPercentage(pct float64) {
	m.MigrationPercentage.Set(pct)
}

func (m *Metrics) RecordRollback() {
	m.RollbacksTotal.Inc()
}

func (m *Metrics) RecordValidation(recommendation string) {
	m.ValidationsTotal.WithLabelValues(recommendation).Inc()
}

func (m *Metrics) RecordScalingRecommendation(action string) {
	m.ScalingRecommendations.WithLabelValues(action).Inc()
}

func (m *Metrics) SetComplianceScore(score float64) {
	m.ComplianceScore.Set(score)
}
