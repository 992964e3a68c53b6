// ABOUTME: Data models for GDPR/TISAX compliance scan results
// ABOUTME: Violations are hard failures, warnings are advisory

package models

// Compliance statuses derived from the check score.
const (
	StatusCompliant    = "COMPLIANT"
	StatusCaution      = "CAUTION"
	StatusNonCompliant = "NON_COMPLIANT"
)

// ComplianceFinding is a single violation or warning found in a payload.
type ComplianceFinding struct {
	Severity    string `json:"severity"`
	Type        string `json:"type"`
	PIIType     string `json:"pii_type,omitempty"`
	Count       int    `json:"count,omitempty"`
	Message     string `json:"message"`
	GDPRArticle string `json:"gdpr_article,omitempty"`
	TISAXReq    string `json:"tisax_requirement,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

// ComplianceCheck is the result of scanning one payload.
type ComplianceCheck struct {
	Timestamp  string              `json:"timestamp"`
	Violations []ComplianceFinding `json:"violations"`
	Warnings   []ComplianceFinding `json:"warnings"`
	Score      int                 `json:"compliance_score"`
	Status     string              `json:"status"`
}

// ComplianceRecord pairs the request and response checks of one API call.
type ComplianceRecord struct {
	Timestamp     string              `json:"timestamp"`
	RequestCheck  ComplianceCheck     `json:"request_check"`
	ResponseCheck ComplianceCheck     `json:"response_check"`
	Score         float64             `json:"score"`
	Violations    []ComplianceFinding `json:"violations"`
	Warnings      []ComplianceFinding `json:"warnings"`
}

// ComplianceOverview is the aggregate dashboard across all logged checks.
type ComplianceOverview struct {
	OverallScore    float64  `json:"overall_score"`
	Status          string   `json:"status"`
	TotalChecks     int      `json:"total_checks"`
	ViolationsFound int      `json:"violations_found"`
	WarningsFound   int      `json:"warnings_found"`
	ComplianceLevel string   `json:"compliance_level"`
	Certifications  []string `json:"certifications"`
	LastCheck       string   `json:"last_check,omitempty"`
	GDPRArticles    []string `json:"gdpr_articles_covered,omitempty"`
	TISAXReqs       []string `json:"tisax_requirements,omitempty"`
}
