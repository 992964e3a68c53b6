package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	m := New(prometheus.NewRegistry())

	if m.ProxyRequestsTotal == nil {
		t.Error("ProxyRequestsTotal should not be nil")
	}
	if m.ProxyRequestDuration == nil {
		t.Error("ProxyRequestDuration should not be nil")
	}
	if m.MigrationPercentage == nil {
		t.Error("MigrationPercentage should not be nil")
	}
	if m.RollbacksTotal == nil {
		t.Error("RollbacksTotal should not be nil")
	}
	if m.ValidationsTotal == nil {
		t.Error("ValidationsTotal should not be nil")
	}
	if m.ScalingRecommendations == nil {
		t.Error("ScalingRecommendations should not be nil")
	}
	if m.ComplianceScore == nil {
		t.Error("ComplianceScore should not be nil")
	}
}

func TestRecordProxyRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordProxyRequest("cloud", "success")
	m.RecordProxyRequest("cloud", "error")
	m.RecordProxyRequest("legacy", "success")

	count := testutil.CollectAndCount(m.ProxyRequestsTotal)
	if count != 3 {
		t.Errorf("expected 3 labeled counters, got %d", count)
	}

	value := testutil.ToFloat64(m.ProxyRequestsTotal.WithLabelValues("cloud", "success"))
	if value != 1 {
		t.Errorf("expected counter value 1, got %f", value)
	}
}

func TestObserveProxyDuration(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveProxyDuration("legacy", 2.5)
	m.ObserveProxyDuration("cloud", 0.087)

	count := testutil.CollectAndCount(m.ProxyRequestDuration)
	if count != 2 {
		t.Errorf("expected 2 labeled histograms, got %d", count)
	}
}

func TestSetMigrationPercentage(t *testing.T) {
	m := New(prometheus.NewRegistry())

	for _, pct := range []float64{0, 25, 50, 100} {
		m.SetMigrationPercentage(pct)

		value := testutil.ToFloat64(m.MigrationPercentage)
		if value != pct {
			t.Errorf("expected gauge %f, got %f", pct, value)
		}
	}
}

func TestRecordRollback(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRollback()
	m.RecordRollback()

	value := testutil.ToFloat64(m.RollbacksTotal)
	if value != 2 {
		t.Errorf("expected 2 rollbacks, got %f", value)
	}
}

func TestRecordValidation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordValidation("PROCEED")
	m.RecordValidation("PROCEED")
	m.RecordValidation("ROLLBACK")

	value := testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("PROCEED"))
	if value != 2 {
		t.Errorf("expected 2 PROCEED validations, got %f", value)
	}
}

func TestRecordScalingRecommendation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordScalingRecommendation("SCALE_UP")
	m.RecordScalingRecommendation("MAINTAIN")

	count := testutil.CollectAndCount(m.ScalingRecommendations)
	if count != 2 {
		t.Errorf("expected 2 labeled counters, got %d", count)
	}
}

func TestSetComplianceScore(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetComplianceScore(85)

	value := testutil.ToFloat64(m.ComplianceScore)
	if value != 85 {
		t.Errorf("expected compliance score 85, got %f", value)
	}
}
