// ABOUTME: Core data models for routed requests and aggregate metrics
// ABOUTME: JSON-serializable structures matching the proxy API surface

package models

import "time"

// Source identifies which backend served a request.
const (
	SourceLegacy = "legacy"
	SourceCloud  = "cloud"
)

// TimeLayout is the fixed-width ISO-8601 format used for record timestamps.
// Fixed width keeps lexicographic comparison equivalent to chronological
// comparison, which the rollback query relies on.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTime renders t in the canonical record timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// RequestRecord is the immutable ledger entry for a single routed request.
// Owned exclusively by the metrics store once logged.
type RequestRecord struct {
	ID             int64       `json:"id"`
	Timestamp      string      `json:"timestamp"`
	Endpoint       string      `json:"endpoint"`
	ResponseTimeMS float64     `json:"response_time_ms"`
	Source         string      `json:"source"`
	Error          string      `json:"error,omitempty"`
	RequestData    interface{} `json:"request_data,omitempty"`
	ResponseData   interface{} `json:"response_data,omitempty"`
	MigrationPct   float64     `json:"migration_percentage"`
}

// MetricsSummary holds aggregate statistics over the short rolling window.
type MetricsSummary struct {
	TotalRequests   int     `json:"total_requests"`
	LegacyRequests  int     `json:"legacy_requests"`
	CloudRequests   int     `json:"cloud_requests"`
	LegacyAvgTime   float64 `json:"legacy_avg_time"`
	CloudAvgTime    float64 `json:"cloud_avg_time"`
	ErrorCount      int     `json:"error_count"`
	MigrationPct    float64 `json:"migration_percentage"`
	CostSaved       float64 `json:"cost_saved"`
	PerfImprovement float64 `json:"performance_improvement"`
}

// RollbackSnapshot is captured every time the migration percentage is set.
// Snapshots are keyed by percentage value; setting the same value again
// overwrites the earlier snapshot.
type RollbackSnapshot struct {
	Timestamp    string         `json:"timestamp"`
	MigrationPct float64        `json:"migration_percentage"`
	Metrics      MetricsSummary `json:"metrics"`
}

// RollbackReport describes which requests fall inside the at-risk window.
// It is advisory: producing the report mutates nothing.
type RollbackReport struct {
	Success          bool            `json:"success"`
	RolledBackCount  int             `json:"rolled_back_request_count"`
	RolledBackSet    []RequestRecord `json:"rolled_back_requests"`
	PercentageBefore float64         `json:"migration_percentage_before_rollback"`
	Timestamp        string          `json:"timestamp"`
	Message          string          `json:"message"`
}

// RouteResult is what the router returns to its caller for every request,
// whether the backend call succeeded or not.
type RouteResult struct {
	Success        bool        `json:"success"`
	Data           interface{} `json:"data,omitempty"`
	Error          string      `json:"error,omitempty"`
	Source         string      `json:"source"`
	ResponseTimeMS float64     `json:"response_time_ms"`
	Timestamp      string      `json:"timestamp"`
}

// ErrorResponse is the standard JSON error payload for the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
