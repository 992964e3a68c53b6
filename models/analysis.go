// ABOUTME: Data models for the legacy-code analysis report
// ABOUTME: Shape is shared by the heuristic analyzer and the AI collaborator

package models

// EndpointAnalysis scores one route of the analyzed codebase.
type EndpointAnalysis struct {
	Endpoint              string   `json:"endpoint"`
	ComplexityScore       int      `json:"complexity_score"`
	ComplexityCategory    string   `json:"complexity_category"`
	ResponseTimeMS        int      `json:"response_time_ms"`
	LinesOfCode           int      `json:"lines_of_code,omitempty"`
	MigrationPriority     string   `json:"migration_priority"`
	RiskLevel             string   `json:"risk_level"`
	Dependencies          []string `json:"dependencies"`
	CanParallelize        string   `json:"can_parallelize,omitempty"`
	EstimatedRefactorDays int      `json:"estimated_refactor_days"`
}

// SlowOperation flags one latency hotspot found in the code.
type SlowOperation struct {
	Operation      string `json:"operation"`
	Location       string `json:"location"`
	DurationMS     int    `json:"duration_ms"`
	Impact         string `json:"impact"`
	Recommendation string `json:"recommendation"`
	FixEffort      string `json:"fix_effort"`
}

// MigrationPhase is one step of the phased migration plan.
type MigrationPhase struct {
	Phase         int      `json:"phase"`
	Endpoint      string   `json:"endpoint"`
	Complexity    string   `json:"complexity"`
	PriorityScore int      `json:"priority_score"`
	EstimatedDays int      `json:"estimated_days"`
	Dependencies  []string `json:"dependencies"`
	Risk          string   `json:"risk"`
	Action        string   `json:"action"`
}

// AnalysisReport is the fixed-shape report both analyzers produce.
type AnalysisReport struct {
	Timestamp              string             `json:"timestamp,omitempty"`
	TotalLinesOfCode       int                `json:"total_lines_of_code"`
	TotalEndpoints         int                `json:"total_endpoints"`
	Endpoints              []EndpointAnalysis `json:"endpoints"`
	SlowOperations         []SlowOperation    `json:"slow_operations"`
	MigrationPriority      []MigrationPhase   `json:"migration_priority"`
	OverallComplexityScore float64            `json:"overall_complexity_score"`
	EstimatedMigrationTime string             `json:"estimated_migration_time"`
	CriticalIssues         []string           `json:"critical_issues"`
	Recommendations        []string           `json:"recommendations"`
	AnalysisComplete       bool               `json:"analysis_complete"`
}
