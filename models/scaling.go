// ABOUTME: Data models for traffic prediction and scaling recommendations
// ABOUTME: Trend, health, and action enums match the dashboard contract

package models

import "time"

// Traffic trend directions.
const (
	TrendRising  = "RISING"
	TrendFalling = "FALLING"
	TrendStable  = "STABLE"
)

// Scaling actions, from no-op to doubling capacity.
const (
	ActionMaintain           = "MAINTAIN"
	ActionScaleUpLight       = "SCALE_UP_LIGHT"
	ActionScaleUpModerate    = "SCALE_UP_MODERATE"
	ActionScaleUpAggressive  = "SCALE_UP_AGGRESSIVE"
)

// Health buckets for the traffic summary.
const (
	HealthInitializing = "INITIALIZING"
	HealthUnderLoad    = "UNDER_LOAD"
	HealthElevated     = "ELEVATED"
	HealthIdle         = "IDLE"
	HealthNormal       = "NORMAL"
)

// TrafficSample is one second of observed request volume.
type TrafficSample struct {
	Timestamp time.Time `json:"timestamp"`
	Requests  int       `json:"requests"`
}

// Prediction is the spike-detection output.
type Prediction struct {
	SpikeDetected bool    `json:"spike_detected"`
	CurrentLoad   int     `json:"current_load"`
	BaselineLoad  int     `json:"baseline_load"`
	IncreasePct   float64 `json:"increase_percentage"`
	Trend         string  `json:"trend"`
	Confidence    int     `json:"confidence"`
	Timestamp     string  `json:"timestamp"`

	// Set only in the insufficient-data case.
	Prediction string `json:"prediction,omitempty"`
	DataPoints int    `json:"data_points,omitempty"`
}

// ScalingBenefits carries the human-readable upside of a scale-up.
type ScalingBenefits struct {
	PreventsTimeout         string `json:"prevents_timeout"`
	CostIncrease            string `json:"cost_increase"`
	ResponseTimeImprovement string `json:"response_time_improvement"`
}

// ScalingRecommendation is the advised capacity change plus its rationale
// and an ordered action checklist.
type ScalingRecommendation struct {
	Action          string           `json:"action"`
	Reason          string           `json:"reason"`
	CurrentCapacity int              `json:"current_capacity,omitempty"`
	TargetCapacity  int              `json:"target_capacity"`
	ScaleFactor     float64          `json:"scale_factor"`
	Confidence      int              `json:"confidence"`
	ETAMinutes      int              `json:"eta_minutes,omitempty"`
	Benefits        *ScalingBenefits `json:"benefits,omitempty"`
	Actions         []string         `json:"actions,omitempty"`
	RecordedAt      string           `json:"recorded_at,omitempty"`
}

// ScalingSummary is the current-state dashboard view of traffic health.
type ScalingSummary struct {
	CurrentLoad   int    `json:"current_load"`
	AverageLoad   int    `json:"average_load"`
	PeakLoad      int    `json:"peak_load"`
	HealthStatus  string `json:"health_status"`
	Trend         string `json:"trend"`
	DataPoints    int    `json:"data_points"`
	WindowSeconds int    `json:"window_seconds"`
}
