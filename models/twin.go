// ABOUTME: Data models for digital twin simulation runs and their analysis
// ABOUTME: A ValidationResult is both the API response and the history entry

package models

// Confidence levels for a validation run.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// SimError is one synthetic failure observed during simulation.
type SimError struct {
	Type      string `json:"type"`
	RequestID int    `json:"request_id"`
	Message   string `json:"message"`
}

// SimulationResults holds the raw per-branch outcome of a simulated run.
type SimulationResults struct {
	LegacyRequestsCount int        `json:"legacy_requests_count"`
	CloudRequestsCount  int        `json:"cloud_requests_count"`
	LegacyAvgResponseMS float64    `json:"legacy_avg_response_time"`
	CloudAvgResponseMS  float64    `json:"cloud_avg_response_time"`
	LegacySuccessRate   float64    `json:"legacy_success_rate"`
	CloudSuccessRate    float64    `json:"cloud_success_rate"`
	TotalErrors         int        `json:"total_errors"`
	ErrorRate           float64    `json:"error_rate"`
	PeakResponseMS      float64    `json:"peak_response_time"`
	MinResponseMS       float64    `json:"min_response_time"`
	Errors              []SimError `json:"errors"`
}

// TwinAnalysis scores a simulation against the safety thresholds.
type TwinAnalysis struct {
	Score           int      `json:"validation_score"`
	Passed          bool     `json:"passed"`
	Issues          []string `json:"issues"`
	Warnings        []string `json:"warnings"`
	ConfidenceLevel string   `json:"confidence_level"`
	PerfImprovement float64  `json:"performance_improvement"`
}

// ValidationResult is a complete digital twin run: inputs, raw results,
// analysis, and the recommendation text.
type ValidationResult struct {
	Timestamp          string            `json:"timestamp"`
	TargetPercentage   float64           `json:"target_percentage"`
	DurationSeconds    int               `json:"duration_seconds"`
	TrafficVolume      int               `json:"traffic_volume"`
	SimulationResults  SimulationResults `json:"simulation_results"`
	Analysis           TwinAnalysis      `json:"analysis"`
	Recommendation     string            `json:"recommendation"`
	ValidationComplete bool              `json:"validation_complete"`
}

// NextStep recommends the next migration percentage to try.
type NextStep struct {
	Current         float64  `json:"current"`
	RecommendedNext *float64 `json:"recommended_next,omitempty"`
	StepSize        int      `json:"step_size,omitempty"`
	Recommendation  string   `json:"recommendation,omitempty"`
	Reason          string   `json:"reason"`
	EstimatedSteps  string   `json:"estimated_time_to_completion,omitempty"`
}
