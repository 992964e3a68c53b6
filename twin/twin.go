// ABOUTME: Digital twin validator simulating migration traffic before going live.
// ABOUTME: Runs Monte Carlo traffic at a target percentage and scores the outcome.
package twin

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/automigrate/strangler-proxy/models"
)

// Simulated backend profiles. Cloud is fast with a 2% synthetic error rate,
// legacy is slow with 5%.
const (
	cloudMinMS      = 50.0
	cloudMaxMS      = 150.0
	cloudErrorRate  = 0.02
	legacyMinMS     = 2000.0
	legacyMaxMS     = 3500.0
	legacyErrorRate = 0.05

	passingScore = 75
	maxSimErrors = 5
)

// Validator runs migration simulations and keeps a bounded history of runs.
type Validator struct {
	mu           sync.RWMutex
	history      []models.ValidationResult
	historyLimit int

	rng *rand.Rand
}

func NewValidator(historyLimit int) *Validator {
	return &Validator{
		historyLimit: historyLimit,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ValidateMigration simulates trafficVolume requests at targetPercentage and
// returns the scored result. The run is appended to the validation history.
func (v *Validator) ValidateMigration(targetPercentage float64, durationSeconds, trafficVolume int) models.ValidationResult {
	slog.Info("Starting twin validation",
		"target_percentage", targetPercentage,
		"duration_seconds", durationSeconds,
		"traffic_volume", trafficVolume)

	v.mu.Lock()
	defer v.mu.Unlock()

	results := v.runSimulation(targetPercentage, trafficVolume)
	analysis := analyzeResults(results, targetPercentage)

	record := models.ValidationResult{
		Timestamp:          models.FormatTime(time.Now()),
		TargetPercentage:   targetPercentage,
		DurationSeconds:    durationSeconds,
		TrafficVolume:      trafficVolume,
		SimulationResults:  results,
		Analysis:           analysis,
		Recommendation:     recommendation(analysis.Score),
		ValidationComplete: true,
	}

	v.history = append(v.history, record)
	if len(v.history) > v.historyLimit {
		v.history = v.history[len(v.history)-v.historyLimit:]
	}

	slog.Info("Twin validation complete", "score", analysis.Score, "passed", analysis.Passed)
	return record
}

func (v *Validator) runSimulation(targetPercentage float64, trafficVolume int) models.SimulationResults {
	var legacyTimes, cloudTimes []float64
	var legacySuccess, cloudSuccess int
	errors := make([]models.SimError, 0)

	for i := 0; i < trafficVolume; i++ {
		useCloud := v.rng.Float64()*100 < targetPercentage

		if useCloud {
			responseTime := cloudMinMS + v.rng.Float64()*(cloudMaxMS-cloudMinMS)
			cloudTimes = append(cloudTimes, responseTime)
			if v.rng.Float64() > cloudErrorRate {
				cloudSuccess++
			} else {
				errors = append(errors, models.SimError{
					Type:      "Cloud Error",
					RequestID: i,
					Message:   "Timeout or service unavailable",
				})
			}
		} else {
			responseTime := legacyMinMS + v.rng.Float64()*(legacyMaxMS-legacyMinMS)
			legacyTimes = append(legacyTimes, responseTime)
			if v.rng.Float64() > legacyErrorRate {
				legacySuccess++
			} else {
				errors = append(errors, models.SimError{
					Type:      "Legacy Error",
					RequestID: i,
					Message:   "Database timeout or lock",
				})
			}
		}
	}

	legacyAvg := mean(legacyTimes)
	cloudAvg := mean(cloudTimes)

	// Empty branches report a 100% success rate
	legacyRate := 100.0
	if len(legacyTimes) > 0 {
		legacyRate = float64(legacySuccess) / float64(len(legacyTimes)) * 100
	}
	cloudRate := 100.0
	if len(cloudTimes) > 0 {
		cloudRate = float64(cloudSuccess) / float64(len(cloudTimes)) * 100
	}

	peak, min := 0.0, 0.0
	all := append(append([]float64{}, legacyTimes...), cloudTimes...)
	if len(all) > 0 {
		peak, min = all[0], all[0]
		for _, t := range all {
			if t > peak {
				peak = t
			}
			if t < min {
				min = t
			}
		}
	}

	errorRate := 0.0
	if trafficVolume > 0 {
		errorRate = float64(len(errors)) / float64(trafficVolume) * 100
	}

	shown := errors
	if len(shown) > maxSimErrors {
		shown = shown[:maxSimErrors]
	}

	return models.SimulationResults{
		LegacyRequestsCount: len(legacyTimes),
		CloudRequestsCount:  len(cloudTimes),
		LegacyAvgResponseMS: round2(legacyAvg),
		CloudAvgResponseMS:  round2(cloudAvg),
		LegacySuccessRate:   round1(legacyRate),
		CloudSuccessRate:    round1(cloudRate),
		TotalErrors:         len(errors),
		ErrorRate:           round2(errorRate),
		PeakResponseMS:      peak,
		MinResponseMS:       min,
		Errors:              shown,
	}
}

// analyzeResults scores a run starting from 100 and deducting per threshold
// breach, then derives pass/fail and a confidence level.
func analyzeResults(results models.SimulationResults, targetPercentage float64) models.TwinAnalysis {
	score := 100
	issues := make([]string, 0)
	warnings := make([]string, 0)

	if results.ErrorRate > 5 {
		score -= 20
		issues = append(issues, fmt.Sprintf("High error rate: %.2f%% (threshold: 5%%)", results.ErrorRate))
	} else if results.ErrorRate > 3 {
		score -= 10
		warnings = append(warnings, fmt.Sprintf("Elevated error rate: %.2f%%", results.ErrorRate))
	}

	if results.PeakResponseMS > 5000 {
		score -= 15
		issues = append(issues, fmt.Sprintf("Peak response time too high: %.0fms", results.PeakResponseMS))
	} else if results.PeakResponseMS > 3000 {
		score -= 5
		warnings = append(warnings, fmt.Sprintf("Some slow responses detected: %.0fms", results.PeakResponseMS))
	}

	if results.CloudSuccessRate < 95 {
		score -= 15
		issues = append(issues, fmt.Sprintf("Cloud success rate low: %.1f%%", results.CloudSuccessRate))
	}
	if results.LegacySuccessRate < 95 {
		score -= 10
		issues = append(issues, fmt.Sprintf("Legacy success rate low: %.1f%%", results.LegacySuccessRate))
	}

	// Heavy cloud targets should land near the configured split
	total := results.CloudRequestsCount + results.LegacyRequestsCount
	if targetPercentage > 50 && total > 0 {
		observed := float64(results.CloudRequestsCount) / float64(total)
		if math.Abs(observed-targetPercentage/100) > 0.15 {
			warnings = append(warnings, "Traffic not evenly distributed - retry test")
		}
	}

	if score < 0 {
		score = 0
	}

	confidence := models.ConfidenceLow
	if score >= 90 {
		confidence = models.ConfidenceHigh
	} else if score >= passingScore {
		confidence = models.ConfidenceMedium
	}

	perfImprovement := 0.0
	if results.CloudAvgResponseMS > 0 {
		perfImprovement = results.LegacyAvgResponseMS / results.CloudAvgResponseMS
	}

	return models.TwinAnalysis{
		Score:           score,
		Passed:          score >= passingScore,
		Issues:          issues,
		Warnings:        warnings,
		ConfidenceLevel: confidence,
		PerfImprovement: round1(perfImprovement),
	}
}

func recommendation(score int) string {
	switch {
	case score >= 90:
		return "SAFE TO PROCEED - All metrics excellent. Can increase traffic to next level."
	case score >= 75:
		return "CAUTIOUS PROCEED - Some minor issues detected. Monitor closely. Can proceed with caution."
	case score >= 50:
		return "NOT RECOMMENDED - Multiple issues detected. Fix critical issues before proceeding."
	default:
		return "DO NOT PROCEED - Serious issues detected. Rollback and investigate."
	}
}

// History returns the most recent validation runs, newest first.
func (v *Validator) History(limit int) []models.ValidationResult {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if limit <= 0 || limit > len(v.history) {
		limit = len(v.history)
	}

	out := make([]models.ValidationResult, 0, limit)
	for i := len(v.history) - 1; i >= len(v.history)-limit; i-- {
		out = append(out, v.history[i])
	}
	return out
}

func (v *Validator) HistoryLen() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.history)
}

// NextStep recommends the next migration percentage in fixed +10 increments,
// capped at 100. At or above 100 the migration is reported complete.
func NextStep(current float64) models.NextStep {
	if current >= 100 {
		return models.NextStep{
			Current:        current,
			Recommendation: "Migration complete!",
			Reason:         "Already at 100%",
		}
	}

	const stepSize = 10
	next := math.Min(100, current+stepSize)
	remaining := int(100-current) / stepSize

	return models.NextStep{
		Current:         current,
		RecommendedNext: &next,
		StepSize:        stepSize,
		Reason:          fmt.Sprintf("Gradual migration: increase by %d%% steps", stepSize),
		EstimatedSteps:  fmt.Sprintf("%d more steps", remaining),
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
