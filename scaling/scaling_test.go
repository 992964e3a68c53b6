package scaling

import (
	"testing"
	"time"

	"github.com/automigrate/strangler-proxy/models"
)

func record(p *Predictor, counts ...int) {
	now := time.Now()
	for i, c := range counts {
		p.RecordTraffic(c, now.Add(time.Duration(i)*time.Second))
	}
}

func TestPredictInsufficientData(t *testing.T) {
	p := NewPredictor(120, 50)
	record(p, 50, 50, 50)

	prediction := p.Predict()

	if prediction.Prediction != "Insufficient data" {
		t.Errorf("Expected insufficient data marker, got %q", prediction.Prediction)
	}
	if prediction.Confidence != 0 {
		t.Errorf("Expected confidence 0, got %d", prediction.Confidence)
	}
	if prediction.SpikeDetected {
		t.Error("Expected no spike with 3 samples")
	}
	if prediction.DataPoints != 3 {
		t.Errorf("Expected 3 data points, got %d", prediction.DataPoints)
	}
}

func TestPredictStableTraffic(t *testing.T) {
	p := NewPredictor(120, 50)

	// 20 flat samples: recent equals baseline, no spike
	counts := make([]int, 20)
	for i := range counts {
		counts[i] = 50
	}
	record(p, counts...)

	prediction := p.Predict()

	if prediction.SpikeDetected {
		t.Error("Expected no spike for flat traffic")
	}
	if prediction.Confidence != 20 {
		t.Errorf("Expected confidence 20 without a spike, got %d", prediction.Confidence)
	}
	if prediction.Trend != models.TrendStable {
		t.Errorf("Expected STABLE trend, got %s", prediction.Trend)
	}
}

func TestPredictDetectsSpike(t *testing.T) {
	p := NewPredictor(120, 50)

	// 20 quiet seconds then 10 seconds at four times the load.
	// Baseline = (20×50 + 10×200) / 30 = 100, recent = 200, ratio 2.0.
	counts := make([]int, 0, 30)
	for i := 0; i < 20; i++ {
		counts = append(counts, 50)
	}
	for i := 0; i < 10; i++ {
		counts = append(counts, 200)
	}
	record(p, counts...)

	prediction := p.Predict()

	if !prediction.SpikeDetected {
		t.Fatal("Expected spike for recent load above 1.5x baseline")
	}
	if prediction.CurrentLoad != 200 {
		t.Errorf("Expected current load 200, got %d", prediction.CurrentLoad)
	}
	if prediction.BaselineLoad != 100 {
		t.Errorf("Expected baseline 100, got %d", prediction.BaselineLoad)
	}
	// (200/100) × 50 = 100
	if prediction.Confidence != 100 {
		t.Errorf("Expected confidence 100, got %d", prediction.Confidence)
	}
	if prediction.IncreasePct != 100 {
		t.Errorf("Expected increase 100%%, got %.1f", prediction.IncreasePct)
	}
}

func TestTrendDetection(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   string
	}{
		{"rising", []int{50, 50, 50, 80, 90}, models.TrendRising},
		{"falling", []int{100, 100, 100, 60, 50}, models.TrendFalling},
		{"stable", []int{50, 52, 48, 51, 49}, models.TrendStable},
		{"too few samples", []int{100, 10}, models.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]models.TrafficSample, len(tt.counts))
			for i, c := range tt.counts {
				samples[i] = models.TrafficSample{Requests: c}
			}
			if got := detectTrend(samples); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRecommendMaintainWithoutSpike(t *testing.T) {
	p := NewPredictor(120, 50)
	counts := make([]int, 20)
	for i := range counts {
		counts[i] = 50
	}
	record(p, counts...)

	rec := p.RecommendScaling(100)

	if rec.Action != models.ActionMaintain {
		t.Errorf("Expected MAINTAIN, got %s", rec.Action)
	}
	if rec.TargetCapacity != 100 {
		t.Errorf("Expected target capacity 100, got %d", rec.TargetCapacity)
	}
	if rec.ScaleFactor != 1.0 {
		t.Errorf("Expected scale factor 1.0, got %.2f", rec.ScaleFactor)
	}
}

func TestRecommendAggressiveOnLargeSpike(t *testing.T) {
	p := NewPredictor(120, 50)

	// Required = 100 × (1 + 100/100) × 1.2 = 240, factor 2.4 > 1.5
	counts := make([]int, 0, 30)
	for i := 0; i < 20; i++ {
		counts = append(counts, 50)
	}
	for i := 0; i < 10; i++ {
		counts = append(counts, 200)
	}
	record(p, counts...)

	rec := p.RecommendScaling(100)

	if rec.Action != models.ActionScaleUpAggressive {
		t.Fatalf("Expected SCALE_UP_AGGRESSIVE, got %s", rec.Action)
	}
	if rec.TargetCapacity != 200 {
		t.Errorf("Expected doubled capacity 200, got %d", rec.TargetCapacity)
	}
	if rec.ScaleFactor != 2.0 {
		t.Errorf("Expected scale factor 2.0, got %.2f", rec.ScaleFactor)
	}
	if rec.Benefits == nil {
		t.Fatal("Expected benefits on a scale-up recommendation")
	}
	if len(rec.Actions) != 4 {
		t.Errorf("Expected 4 action steps, got %d", len(rec.Actions))
	}
}

func TestRecommendationLogIsBounded(t *testing.T) {
	p := NewPredictor(120, 3)

	for i := 0; i < 6; i++ {
		p.AddRecommendation(models.ScalingRecommendation{Action: models.ActionMaintain})
	}

	history := p.History(10)
	if len(history) != 3 {
		t.Errorf("Expected log capped at 3, got %d", len(history))
	}
	for _, rec := range history {
		if rec.RecordedAt == "" {
			t.Error("Expected recorded_at to be stamped")
		}
	}
}

func TestSummaryHealthBuckets(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   string
	}{
		// Average of 10,10,10,100 is 32.5; current 100 > 48.75
		{"under load", []int{10, 10, 10, 100}, models.HealthUnderLoad},
		// Average of 50,50,50,65 is 53.75; current 65 > 64.5 but not > 80.6
		{"elevated", []int{50, 50, 50, 65}, models.HealthElevated},
		// Average of 100,100,100,10 is 77.5; current 10 < 38.75
		{"idle", []int{100, 100, 100, 10}, models.HealthIdle},
		{"normal", []int{50, 50, 50, 50}, models.HealthNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPredictor(120, 50)
			record(p, tt.counts...)

			summary := p.Summary()
			if summary.HealthStatus != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, summary.HealthStatus)
			}
		})
	}
}

func TestSummaryEmptyIsInitializing(t *testing.T) {
	p := NewPredictor(120, 50)

	summary := p.Summary()

	if summary.HealthStatus != models.HealthInitializing {
		t.Errorf("Expected INITIALIZING, got %s", summary.HealthStatus)
	}
	if summary.Trend != models.TrendStable {
		t.Errorf("Expected STABLE trend, got %s", summary.Trend)
	}
}

func TestWindowEviction(t *testing.T) {
	p := NewPredictor(5, 50)
	record(p, 1, 2, 3, 4, 5, 6, 7)

	summary := p.Summary()
	if summary.DataPoints != 5 {
		t.Errorf("Expected window capped at 5, got %d", summary.DataPoints)
	}
	// Sample 1 and 2 evicted, so peak is 7 and current is 7
	if summary.PeakLoad != 7 {
		t.Errorf("Expected peak 7, got %d", summary.PeakLoad)
	}
}
