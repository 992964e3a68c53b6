// ABOUTME: Predictive auto-scaling built on a rolling window of traffic samples.
// ABOUTME: Detects spikes against a baseline and advises capacity changes.
package scaling

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/automigrate/strangler-proxy/models"
)

const (
	minSamplesForPrediction = 10
	spikeThreshold          = 1.5
	capacityBuffer          = 1.2
)

// Predictor keeps a bounded window of per-second traffic samples and a log
// of recommendations that were explicitly recorded.
type Predictor struct {
	mu              sync.RWMutex
	windowSize      int
	samples         []models.TrafficSample
	recommendations []models.ScalingRecommendation
	recLimit        int
}

func NewPredictor(windowSize, recommendationLimit int) *Predictor {
	return &Predictor{
		windowSize: windowSize,
		recLimit:   recommendationLimit,
	}
}

// RecordTraffic appends one observed request count. Old samples fall off
// once the window is full.
func (p *Predictor) RecordTraffic(requestCount int, timestamp time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.samples = append(p.samples, models.TrafficSample{
		Timestamp: timestamp,
		Requests:  requestCount,
	})
	if len(p.samples) > p.windowSize {
		p.samples = p.samples[len(p.samples)-p.windowSize:]
	}
}

// Predict reports whether a traffic spike is building. With fewer than ten
// samples it returns an insufficient-data result at zero confidence.
func (p *Predictor) Predict() models.Prediction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.predictLocked()
}

func (p *Predictor) predictLocked() models.Prediction {
	if len(p.samples) < minSamplesForPrediction {
		return models.Prediction{
			Prediction: "Insufficient data",
			DataPoints: len(p.samples),
		}
	}

	recentAvg := average(p.samples[len(p.samples)-10:])
	baseline := average(p.samples)
	if baseline <= 0 {
		baseline = 1
	}

	spikeDetected := recentAvg > baseline*spikeThreshold

	confidence := 20
	if spikeDetected {
		confidence = int(math.Min(100, recentAvg/baseline*50))
	}

	return models.Prediction{
		SpikeDetected: spikeDetected,
		CurrentLoad:   int(recentAvg),
		BaselineLoad:  int(baseline),
		IncreasePct:   round1((recentAvg - baseline) / baseline * 100),
		Trend:         detectTrend(p.samples),
		Confidence:    confidence,
		Timestamp:     models.FormatTime(time.Now()),
	}
}

// RecommendScaling translates the current prediction into a capacity change.
// Without a detected spike the recommendation is always MAINTAIN.
func (p *Predictor) RecommendScaling(currentCapacity int) models.ScalingRecommendation {
	p.mu.RLock()
	prediction := p.predictLocked()
	p.mu.RUnlock()

	if !prediction.SpikeDetected {
		return models.ScalingRecommendation{
			Action:         models.ActionMaintain,
			Reason:         "Traffic is normal",
			TargetCapacity: currentCapacity,
			ScaleFactor:    1.0,
			Confidence:     prediction.Confidence,
		}
	}

	requiredCapacity := float64(currentCapacity) * (1 + prediction.IncreasePct/100) * capacityBuffer
	scaleFactor := 1.0
	if currentCapacity > 0 {
		scaleFactor = requiredCapacity / float64(currentCapacity)
	}

	var action string
	var target int
	switch {
	case scaleFactor > 1.5:
		action = models.ActionScaleUpAggressive
		target = currentCapacity * 2
	case scaleFactor > 1.2:
		action = models.ActionScaleUpModerate
		target = int(float64(currentCapacity) * 1.5)
	default:
		action = models.ActionScaleUpLight
		target = int(float64(currentCapacity) * 1.25)
	}

	slog.Info("Scaling recommendation",
		"action", action,
		"current_capacity", currentCapacity,
		"target_capacity", target,
		"increase_percentage", prediction.IncreasePct)

	finalFactor := 1.0
	if currentCapacity > 0 {
		finalFactor = round2(float64(target) / float64(currentCapacity))
	}

	return models.ScalingRecommendation{
		Action:          action,
		Reason:          fmt.Sprintf("Traffic spike detected: +%.1f%% above baseline", prediction.IncreasePct),
		CurrentCapacity: currentCapacity,
		TargetCapacity:  target,
		ScaleFactor:     finalFactor,
		Confidence:      prediction.Confidence,
		ETAMinutes:      1,
		Benefits: &models.ScalingBenefits{
			PreventsTimeout:         "Avoids 99% of request timeouts",
			CostIncrease:            fmt.Sprintf("~%.1f%%", float64(target-currentCapacity)/float64(currentCapacity)*100),
			ResponseTimeImprovement: fmt.Sprintf("~%.0f%% faster", scaleFactor*20),
		},
		Actions: []string{
			fmt.Sprintf("1. Scale infrastructure to %d units", target),
			fmt.Sprintf("2. Add %d additional pods/instances", (target-currentCapacity)/25),
			"3. Monitor error rates for next 5 minutes",
			"4. Scale back down when traffic normalizes",
		},
	}
}

// AddRecommendation stores a recommendation in the bounded log.
func (p *Predictor) AddRecommendation(rec models.ScalingRecommendation) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec.RecordedAt = models.FormatTime(time.Now())
	p.recommendations = append(p.recommendations, rec)
	if len(p.recommendations) > p.recLimit {
		p.recommendations = p.recommendations[len(p.recommendations)-p.recLimit:]
	}
}

// History returns the most recently recorded recommendations, oldest first.
func (p *Predictor) History(limit int) []models.ScalingRecommendation {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if limit <= 0 || limit > len(p.recommendations) {
		limit = len(p.recommendations)
	}
	out := make([]models.ScalingRecommendation, limit)
	copy(out, p.recommendations[len(p.recommendations)-limit:])
	return out
}

// Summary reports current load against the window's average and peak.
func (p *Predictor) Summary() models.ScalingSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.samples) == 0 {
		return models.ScalingSummary{
			Trend:        models.TrendStable,
			HealthStatus: models.HealthInitializing,
		}
	}

	current := float64(p.samples[len(p.samples)-1].Requests)
	avg := average(p.samples)
	peak := 0
	for _, s := range p.samples {
		if s.Requests > peak {
			peak = s.Requests
		}
	}

	var health string
	switch {
	case current > avg*1.5:
		health = models.HealthUnderLoad
	case current > avg*1.2:
		health = models.HealthElevated
	case current < avg*0.5:
		health = models.HealthIdle
	default:
		health = models.HealthNormal
	}

	return models.ScalingSummary{
		CurrentLoad:   int(current),
		AverageLoad:   int(avg),
		PeakLoad:      peak,
		HealthStatus:  health,
		Trend:         detectTrend(p.samples),
		DataPoints:    len(p.samples),
		WindowSeconds: p.windowSize,
	}
}

// detectTrend compares the head and tail of the last five samples. A split
// of three against two keeps the math stable on short windows.
func detectTrend(samples []models.TrafficSample) string {
	if len(samples) < 5 {
		return models.TrendStable
	}

	recent := samples[len(samples)-5:]
	firstHalf := (float64(recent[0].Requests) + float64(recent[1].Requests) + float64(recent[2].Requests)) / 3
	secondHalf := (float64(recent[3].Requests) + float64(recent[4].Requests)) / 2

	changePct := 0.0
	if firstHalf > 0 {
		changePct = (secondHalf - firstHalf) / firstHalf * 100
	}

	switch {
	case changePct > 15:
		return models.TrendRising
	case changePct < -15:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

func average(samples []models.TrafficSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0
	for _, s := range samples {
		sum += s.Requests
	}
	return float64(sum) / float64(len(samples))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
