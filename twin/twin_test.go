package twin

import (
	"strings"
	"testing"

	"github.com/automigrate/strangler-proxy/models"
)

func TestValidateMigrationShape(t *testing.T) {
	v := NewValidator(200)

	result := v.ValidateMigration(50, 30, 100)

	if !result.ValidationComplete {
		t.Error("Expected validation_complete to be set")
	}
	if result.TargetPercentage != 50 {
		t.Errorf("Expected target 50, got %.1f", result.TargetPercentage)
	}

	total := result.SimulationResults.LegacyRequestsCount + result.SimulationResults.CloudRequestsCount
	if total != 100 {
		t.Errorf("Expected 100 simulated requests, got %d", total)
	}
	if result.Analysis.Score < 0 || result.Analysis.Score > 100 {
		t.Errorf("Expected score in [0,100], got %d", result.Analysis.Score)
	}
	if result.Recommendation == "" {
		t.Error("Expected a recommendation")
	}
}

func TestValidateAtZeroPercentIsAllLegacy(t *testing.T) {
	v := NewValidator(200)

	result := v.ValidateMigration(0, 30, 200)

	if result.SimulationResults.CloudRequestsCount != 0 {
		t.Errorf("Expected no cloud requests at 0%%, got %d", result.SimulationResults.CloudRequestsCount)
	}
	if result.SimulationResults.LegacyRequestsCount != 200 {
		t.Errorf("Expected 200 legacy requests, got %d", result.SimulationResults.LegacyRequestsCount)
	}
	// Legacy times fall in 2000-3500ms, so the peak breaches 3000
	if result.SimulationResults.PeakResponseMS <= 3000 {
		t.Errorf("Expected peak above 3000ms for all-legacy traffic, got %.0f", result.SimulationResults.PeakResponseMS)
	}
}

func TestValidateAtHundredPercentIsAllCloud(t *testing.T) {
	v := NewValidator(200)

	result := v.ValidateMigration(100, 30, 200)

	if result.SimulationResults.LegacyRequestsCount != 0 {
		t.Errorf("Expected no legacy requests at 100%%, got %d", result.SimulationResults.LegacyRequestsCount)
	}
	// Cloud times fall in 50-150ms
	if result.SimulationResults.PeakResponseMS > 150 {
		t.Errorf("Expected peak at most 150ms for all-cloud traffic, got %.0f", result.SimulationResults.PeakResponseMS)
	}
}

func TestAnalyzeScoreDeductions(t *testing.T) {
	tests := []struct {
		name      string
		results   models.SimulationResults
		wantScore int
	}{
		{
			name: "clean run",
			results: models.SimulationResults{
				LegacySuccessRate: 100, CloudSuccessRate: 100,
				ErrorRate: 0, PeakResponseMS: 120,
			},
			wantScore: 100,
		},
		{
			name: "high error rate and slow peak",
			results: models.SimulationResults{
				LegacySuccessRate: 100, CloudSuccessRate: 100,
				ErrorRate: 6, PeakResponseMS: 5500,
			},
			// 100 minus 20 for errors minus 15 for peak
			wantScore: 65,
		},
		{
			name: "elevated error rate and somewhat slow peak",
			results: models.SimulationResults{
				LegacySuccessRate: 100, CloudSuccessRate: 100,
				ErrorRate: 4, PeakResponseMS: 3500,
			},
			// 100 minus 10 minus 5
			wantScore: 85,
		},
		{
			name: "both success rates low",
			results: models.SimulationResults{
				LegacySuccessRate: 90, CloudSuccessRate: 90,
				ErrorRate: 0, PeakResponseMS: 100,
			},
			// 100 minus 15 cloud minus 10 legacy
			wantScore: 75,
		},
		{
			name: "everything failing",
			results: models.SimulationResults{
				LegacySuccessRate: 50, CloudSuccessRate: 50,
				ErrorRate: 50, PeakResponseMS: 9000,
			},
			// 100 minus 20 minus 15 minus 15 minus 10
			wantScore: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := analyzeResults(tt.results, 25)
			if analysis.Score != tt.wantScore {
				t.Errorf("Expected score %d, got %d", tt.wantScore, analysis.Score)
			}
		})
	}
}

func TestAnalysisConfidenceBands(t *testing.T) {
	clean := models.SimulationResults{LegacySuccessRate: 100, CloudSuccessRate: 100, PeakResponseMS: 100}

	a := analyzeResults(clean, 25)
	if a.ConfidenceLevel != models.ConfidenceHigh || !a.Passed {
		t.Errorf("Expected HIGH and passed for score %d", a.Score)
	}

	medium := models.SimulationResults{LegacySuccessRate: 100, CloudSuccessRate: 90, PeakResponseMS: 3500}
	a = analyzeResults(medium, 25)
	// 100 minus 15 minus 5 lands at 80
	if a.ConfidenceLevel != models.ConfidenceMedium || !a.Passed {
		t.Errorf("Expected MEDIUM and passed, got %s with score %d", a.ConfidenceLevel, a.Score)
	}

	low := models.SimulationResults{LegacySuccessRate: 50, CloudSuccessRate: 50, ErrorRate: 50, PeakResponseMS: 9000}
	a = analyzeResults(low, 25)
	if a.ConfidenceLevel != models.ConfidenceLow || a.Passed {
		t.Errorf("Expected LOW and failed, got %s with score %d", a.ConfidenceLevel, a.Score)
	}
}

func TestDistributionWarningOnlyAboveFifty(t *testing.T) {
	// Heavily skewed split at a 75% target
	skewed := models.SimulationResults{
		LegacyRequestsCount: 80, CloudRequestsCount: 20,
		LegacySuccessRate: 100, CloudSuccessRate: 100, PeakResponseMS: 100,
	}

	a := analyzeResults(skewed, 75)
	found := false
	for _, w := range a.Warnings {
		if strings.Contains(w, "not evenly distributed") {
			found = true
		}
	}
	if !found {
		t.Error("Expected distribution warning for skewed split above 50%")
	}

	// Same skew at 40% never warns
	a = analyzeResults(skewed, 40)
	for _, w := range a.Warnings {
		if strings.Contains(w, "not evenly distributed") {
			t.Error("Expected no distribution warning at or below 50%")
		}
	}
}

func TestRecommendationBands(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "SAFE TO PROCEED"},
		{90, "SAFE TO PROCEED"},
		{80, "CAUTIOUS PROCEED"},
		{60, "NOT RECOMMENDED"},
		{30, "DO NOT PROCEED"},
	}

	for _, tt := range tests {
		got := recommendation(tt.score)
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("Score %d: expected prefix %q, got %q", tt.score, tt.want, got)
		}
	}
}

func TestHistoryBoundedAndNewestFirst(t *testing.T) {
	v := NewValidator(5)

	for i := 0; i < 8; i++ {
		v.ValidateMigration(float64(i*10), 30, 10)
	}

	if v.HistoryLen() != 5 {
		t.Errorf("Expected history capped at 5, got %d", v.HistoryLen())
	}

	history := v.History(10)
	if len(history) != 5 {
		t.Errorf("Expected 5 entries, got %d", len(history))
	}
	// Last run targeted 70
	if history[0].TargetPercentage != 70 {
		t.Errorf("Expected newest entry first with target 70, got %.0f", history[0].TargetPercentage)
	}
}

func TestNextStepIncrements(t *testing.T) {
	step := NextStep(30)

	if step.RecommendedNext == nil || *step.RecommendedNext != 40 {
		t.Fatalf("Expected next step 40, got %+v", step.RecommendedNext)
	}
	if step.StepSize != 10 {
		t.Errorf("Expected step size 10, got %d", step.StepSize)
	}
	if step.EstimatedSteps != "7 more steps" {
		t.Errorf("Expected 7 more steps, got %s", step.EstimatedSteps)
	}
}

func TestNextStepCapsAtHundred(t *testing.T) {
	step := NextStep(95)
	if step.RecommendedNext == nil || *step.RecommendedNext != 100 {
		t.Fatalf("Expected cap at 100, got %+v", step.RecommendedNext)
	}
}

func TestNextStepTerminalAtHundred(t *testing.T) {
	step := NextStep(100)

	if step.RecommendedNext != nil {
		t.Error("Expected no next step at 100")
	}
	if step.Recommendation != "Migration complete!" {
		t.Errorf("Expected completion message, got %s", step.Recommendation)
	}
}
