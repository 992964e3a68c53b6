// ABOUTME: GDPR/TISAX compliance scanner for proxied request and response bodies.
// ABOUTME: Regex-based PII detection with score deductions per finding class.
package compliance

import (
	"encoding/json"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/automigrate/strangler-proxy/models"
)

var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern      = regexp.MustCompile(`(\+?1?\d{9,15}|[0-9]{3}[-.]?[0-9]{3}[-.]?[0-9]{4})`)
	ssnPattern        = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	creditCardPattern = regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`)
	ipAddressPattern  = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)

	credentialPattern = regexp.MustCompile(`(?i)['"](password|secret|api_key|token)['"]?\s*[:=]\s*['"]?(\S+)['"]?`)
	privateKeyPattern = regexp.MustCompile(`(BEGIN RSA PRIVATE KEY|BEGIN PRIVATE KEY|BEGIN CERTIFICATE)`)
)

var encryptionIndicators = []string{"https", "tls", "ssl", "encrypted", "secure"}

// Checker scans payloads for PII and credential leaks and keeps a bounded
// history of paired request/response checks.
type Checker struct {
	mu           sync.RWMutex
	history      []models.ComplianceRecord
	historyLimit int
}

func NewChecker(historyLimit int) *Checker {
	return &Checker{historyLimit: historyLimit}
}

// CheckRequest scans a request payload. Any PII in the body is a critical
// violation; a missing encryption indicator or raw IP is advisory.
func (c *Checker) CheckRequest(requestData interface{}) models.ComplianceCheck {
	text := payloadText(requestData)

	violations := make([]models.ComplianceFinding, 0)
	warnings := make([]models.ComplianceFinding, 0)
	score := 100

	pii := findPII(text)
	for _, piiType := range []string{"email", "phone", "ssn", "credit_card"} {
		matches, ok := pii[piiType]
		if !ok {
			continue
		}
		upper := strings.ToUpper(piiType)
		violations = append(violations, models.ComplianceFinding{
			Severity:    "CRITICAL",
			Type:        upper + " in request",
			PIIType:     piiType,
			Count:       len(matches),
			Message:     upper + " data should not be in request body",
			GDPRArticle: "Article 32 (Security of processing)",
			Fix:         "Move " + piiType + " to headers or use encryption",
		})
		score -= 25
	}
	if matches, ok := pii["ip_address"]; ok {
		warnings = append(warnings, models.ComplianceFinding{
			Severity:    "MEDIUM",
			Type:        "IP Address in request",
			Count:       len(matches),
			Message:     "IP addresses should be anonymized per GDPR",
			GDPRArticle: "Article 32 (Pseudonymization)",
		})
		score -= 5
	}

	if !hasEncryptionIndicators(text) {
		warnings = append(warnings, models.ComplianceFinding{
			Severity:    "HIGH",
			Type:        "No encryption indicators",
			Message:     "Request should indicate HTTPS/TLS encryption",
			GDPRArticle: "Article 32 (Encryption)",
			Fix:         "Ensure all requests use HTTPS/TLS",
		})
		score -= 10
	}

	if secrets := findHardcodedSecrets(text); len(secrets) > 0 {
		violations = append(violations, models.ComplianceFinding{
			Severity: "CRITICAL",
			Type:     "Hardcoded credentials",
			Count:    len(secrets),
			Message:  "Credentials found in request body",
			TISAXReq: "TIS.C4.2.3 (Credential management)",
			Fix:      "Use environment variables or secure vaults",
		})
		score -= 30
	}

	return buildCheck(violations, warnings, score)
}

// CheckResponse scans a response payload. SSNs and card numbers in a
// response are the most severe finding the scanner produces.
func (c *Checker) CheckResponse(responseData interface{}) models.ComplianceCheck {
	text := payloadText(responseData)

	violations := make([]models.ComplianceFinding, 0)
	warnings := make([]models.ComplianceFinding, 0)
	score := 100

	pii := findPII(text)
	for _, piiType := range []string{"ssn", "credit_card"} {
		matches, ok := pii[piiType]
		if !ok {
			continue
		}
		upper := strings.ToUpper(piiType)
		violations = append(violations, models.ComplianceFinding{
			Severity:    "CRITICAL",
			Type:        upper + " exposed in response",
			PIIType:     piiType,
			Count:       len(matches),
			Message:     upper + " should NEVER be in response",
			GDPRArticle: "Article 5 (Data minimization)",
			Fix:         "Remove or mask " + piiType,
		})
		score -= 50
	}
	if _, ok := pii["phone"]; ok {
		warnings = append(warnings, models.ComplianceFinding{
			Severity:    "MEDIUM",
			Type:        "Unmasked phone number in response",
			Message:     "Phone numbers should be masked (last 4 digits only)",
			GDPRArticle: "Article 32 (Pseudonymization)",
			Fix:         "Mask as: ***-***-1234",
		})
		score -= 10
	}

	lower := strings.ToLower(text)
	if !strings.Contains(lower, "cache_control") && !strings.Contains(lower, "expires") {
		warnings = append(warnings, models.ComplianceFinding{
			Severity:    "MEDIUM",
			Type:        "Missing cache control headers",
			Message:     "Should specify data retention/cache policy",
			GDPRArticle: "Article 5 (Storage limitation)",
			Fix:         "Add Cache-Control and Expires headers",
		})
		score -= 5
	}

	return buildCheck(violations, warnings, score)
}

// LogCheck stores the paired request/response checks of one call.
func (c *Checker) LogCheck(requestCheck, responseCheck models.ComplianceCheck) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record := models.ComplianceRecord{
		Timestamp:     models.FormatTime(time.Now()),
		RequestCheck:  requestCheck,
		ResponseCheck: responseCheck,
		Score:         (float64(requestCheck.Score) + float64(responseCheck.Score)) / 2,
		Violations:    append(append([]models.ComplianceFinding{}, requestCheck.Violations...), responseCheck.Violations...),
		Warnings:      append(append([]models.ComplianceFinding{}, requestCheck.Warnings...), responseCheck.Warnings...),
	}

	c.history = append(c.history, record)
	if len(c.history) > c.historyLimit {
		c.history = c.history[len(c.history)-c.historyLimit:]
	}

	if len(record.Violations) > 0 {
		slog.Warn("Compliance violations detected",
			"violations", len(record.Violations),
			"score", record.Score)
	}
}

// Overall aggregates the logged checks into the compliance dashboard view.
func (c *Checker) Overall() models.ComplianceOverview {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.history) == 0 {
		return models.ComplianceOverview{
			OverallScore:    100,
			Status:          models.StatusCompliant,
			ComplianceLevel: "EXCELLENT",
			Certifications:  []string{"GDPR Ready", "TISAX Ready"},
		}
	}

	sum := 0.0
	violationsCount := 0
	warningsCount := 0
	for _, rec := range c.history {
		sum += rec.Score
		if len(rec.Violations) > 0 {
			violationsCount++
		}
		if len(rec.Warnings) > 0 {
			warningsCount++
		}
	}
	avg := sum / float64(len(c.history))

	var level string
	var certs []string
	switch {
	case avg >= 95:
		level = "EXCELLENT"
		certs = []string{"GDPR Certified", "TISAX Certified"}
	case avg >= 85:
		level = "GOOD"
		certs = []string{"GDPR Ready", "TISAX Ready"}
	case avg >= 70:
		level = "FAIR"
		certs = []string{"Needs improvement"}
	default:
		level = "POOR"
		certs = []string{"Non-compliant"}
	}

	return models.ComplianceOverview{
		OverallScore:    round1(avg),
		Status:          statusForScore(int(avg)),
		TotalChecks:     len(c.history),
		ViolationsFound: violationsCount,
		WarningsFound:   warningsCount,
		ComplianceLevel: level,
		Certifications:  certs,
		LastCheck:       c.history[len(c.history)-1].Timestamp,
		GDPRArticles: []string{
			"Article 5 (Principles)",
			"Article 32 (Security)",
			"Article 33 (Breach notification)",
		},
		TISAXReqs: []string{
			"TIS.C4.2.3 (Credential management)",
			"TIS.C4.1.1 (Access control)",
			"TIS.C4.1.5 (Encryption)",
		},
	}
}

// ViolationsHistory returns recent checks, newest first.
func (c *Checker) ViolationsHistory(limit int) []models.ComplianceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if limit <= 0 || limit > len(c.history) {
		limit = len(c.history)
	}
	out := make([]models.ComplianceRecord, 0, limit)
	for i := len(c.history) - 1; i >= len(c.history)-limit; i-- {
		out = append(out, c.history[i])
	}
	return out
}

func buildCheck(violations, warnings []models.ComplianceFinding, score int) models.ComplianceCheck {
	if score < 0 {
		score = 0
	}
	return models.ComplianceCheck{
		Timestamp:  models.FormatTime(time.Now()),
		Violations: violations,
		Warnings:   warnings,
		Score:      score,
		Status:     statusForScore(score),
	}
}

func statusForScore(score int) string {
	switch {
	case score >= 80:
		return models.StatusCompliant
	case score < 60:
		return models.StatusNonCompliant
	default:
		return models.StatusCaution
	}
}

// payloadText renders an arbitrary payload as the text the patterns run over.
func payloadText(data interface{}) string {
	if s, ok := data.(string); ok {
		return s
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(encoded)
}

func findPII(text string) map[string][]string {
	found := make(map[string][]string)

	if m := emailPattern.FindAllString(text, -1); len(m) > 0 {
		found["email"] = m
	}
	if m := phonePattern.FindAllString(text, -1); len(m) > 0 {
		found["phone"] = m
	}
	if m := ssnPattern.FindAllString(text, -1); len(m) > 0 {
		found["ssn"] = m
	}
	if m := creditCardPattern.FindAllString(text, -1); len(m) > 0 {
		found["credit_card"] = m
	}
	if m := ipAddressPattern.FindAllString(text, -1); len(m) > 0 {
		found["ip_address"] = m
	}
	return found
}

func hasEncryptionIndicators(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range encryptionIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func findHardcodedSecrets(text string) []string {
	secrets := make([]string, 0)
	if credentialPattern.MatchString(text) {
		secrets = append(secrets, "Found credential pattern")
	}
	if privateKeyPattern.MatchString(text) {
		secrets = append(secrets, "Found private key or certificate")
	}
	return secrets
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
