// ABOUTME: Legacy-code analyzer producing a migration assessment report.
// ABOUTME: Uses the Anthropic API when configured, a heuristic scanner otherwise.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/singleflight"

	"github.com/automigrate/strangler-proxy/cache"
	"github.com/automigrate/strangler-proxy/config"
	"github.com/automigrate/strangler-proxy/models"
)

const analysisMaxTokens = 4096

// Route declaration patterns across the stacks we expect to scan: chi,
// net/http, Flask, and FastAPI.
var (
	chiRoutePattern     = regexp.MustCompile(`r\.(?:Get|Post|Put|Delete|Patch)\("([^"]+)"`)
	handleFuncPattern   = regexp.MustCompile(`HandleFunc\("([^"]+)"`)
	flaskRoutePattern   = regexp.MustCompile(`@app\.route\('([^']+)'`)
	fastapiRoutePattern = regexp.MustCompile(`@app\.(?:get|post|put|delete)\("([^"]+)"\)`)

	sleepCallPattern = regexp.MustCompile(`time\.[Ss]leep\(([^)]*)\)`)
)

// PathError reports a file the analyzer could not locate, with every path
// it tried.
type PathError struct {
	Requested  string   `json:"requested"`
	TriedPaths []string `json:"tried_paths"`
	WorkingDir string   `json:"working_dir"`
}

func (e *PathError) Error() string {
	return fmt.Sprintf("source file %s not found (tried %s)", e.Requested, strings.Join(e.TriedPaths, ", "))
}

// Analyzer produces migration assessment reports for legacy source files.
// Identical sources share one in-flight analysis and a cached result.
type Analyzer struct {
	cfg     *config.Config
	cache   *cache.Cache
	sfGroup singleflight.Group
	client  anthropic.Client
}

func NewAnalyzer(cfg *config.Config, c *cache.Cache) *Analyzer {
	a := &Analyzer{
		cfg:   cfg,
		cache: c,
	}
	if cfg.AIConfigured() {
		a.client = anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
		slog.Info("Code analyzer using Anthropic API", "model", cfg.AnthropicModel)
	} else {
		slog.Info("ANTHROPIC_API_KEY not set, code analyzer running in heuristic mode")
	}
	return a
}

// AnalyzeFile locates and reads a source file, then analyzes its contents.
// Relative paths are tried as-is and under the current working directory.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (json.RawMessage, error) {
	if path == "" {
		path = a.cfg.AnalyzerDefaultFile
	}

	cwd, _ := os.Getwd()
	tried := []string{path, filepath.Join(cwd, path)}

	var source []byte
	var err error
	for _, candidate := range tried {
		source, err = os.ReadFile(candidate)
		if err == nil {
			slog.Info("Analyzing source file", "path", candidate, "bytes", len(source))
			return a.AnalyzeSource(ctx, string(source))
		}
	}

	return nil, &PathError{Requested: path, TriedPaths: tried, WorkingDir: cwd}
}

// AnalyzeSource analyzes raw source text. Results are cached by content
// hash, and concurrent requests for the same source share one analysis.
func (a *Analyzer) AnalyzeSource(ctx context.Context, source string) (json.RawMessage, error) {
	key := fmt.Sprintf("analysis:%x", sha256.Sum256([]byte(source)))

	if cached, ok := a.cache.Get(key); ok {
		return cached.(json.RawMessage), nil
	}

	result, err, _ := a.sfGroup.Do(key, func() (interface{}, error) {
		if a.cfg.AIConfigured() {
			report, err := a.analyzeWithModel(ctx, source)
			if err == nil {
				return report, nil
			}
			slog.Warn("Model analysis failed, falling back to heuristic scanner", "error", err)
		}
		raw, err := json.Marshal(analyzeHeuristic(source))
		return json.RawMessage(raw), err
	})
	if err != nil {
		return nil, err
	}

	report := result.(json.RawMessage)
	a.cache.Set(key, report)
	return report, nil
}

// analyzeWithModel asks the model for the report as strict JSON, validates
// the shape, and stamps the completion marker.
func (a *Analyzer) analyzeWithModel(ctx context.Context, source string) (json.RawMessage, error) {
	prompt := buildAnalysisPrompt(source)

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.AnthropicModel),
		MaxTokens: analysisMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling model: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}

	raw := stripCodeFences(text.String())
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("model returned invalid JSON")
	}
	for _, field := range []string{"total_endpoints", "endpoints", "migration_priority", "overall_complexity_score"} {
		if !gjson.Get(raw, field).Exists() {
			return nil, fmt.Errorf("model response missing %q", field)
		}
	}

	stamped, err := sjson.Set(raw, "analysis_complete", true)
	if err != nil {
		return nil, fmt.Errorf("finalizing report: %w", err)
	}
	stamped, err = sjson.Set(stamped, "timestamp", models.FormatTime(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("finalizing report: %w", err)
	}

	return json.RawMessage(stamped), nil
}

func buildAnalysisPrompt(source string) string {
	return fmt.Sprintf(`You are a migration consultant analyzing a legacy codebase
for a strangler-fig migration to a cloud-native service.

Analyze the source below and respond with ONLY a JSON object, no prose,
matching exactly this shape:

{
  "total_lines_of_code": <int>,
  "total_endpoints": <int>,
  "endpoints": [{"endpoint": <string>, "complexity_score": <int 0-100>,
    "complexity_category": "LOW"|"MEDIUM"|"HIGH", "response_time_ms": <int>,
    "migration_priority": "FIRST"|"MEDIUM"|"LAST", "risk_level": "LOW"|"MEDIUM"|"HIGH",
    "dependencies": [<string>], "estimated_refactor_days": <int>}],
  "slow_operations": [{"operation": <string>, "location": <string>,
    "duration_ms": <int>, "impact": <string>, "recommendation": <string>,
    "fix_effort": <string>}],
  "migration_priority": [{"phase": <int>, "endpoint": <string>,
    "complexity": <string>, "priority_score": <int>, "estimated_days": <int>,
    "dependencies": [<string>], "risk": <string>, "action": <string>}],
  "overall_complexity_score": <float>,
  "estimated_migration_time": <string>,
  "critical_issues": [<string>],
  "recommendations": [<string>]
}

Source:
%s`, source)
}

// stripCodeFences removes a ```json ... ``` wrapper if the model added one.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// analyzeHeuristic is the offline scanner. It scores the codebase as a whole
// and applies that score to each discovered route.
func analyzeHeuristic(source string) models.AnalysisReport {
	routes := extractRoutes(source)

	endpoints := make([]models.EndpointAnalysis, 0, len(routes))
	for _, route := range routes {
		endpoints = append(endpoints, analyzeEndpoint(source, route))
	}

	avgComplexity := 0.0
	if len(endpoints) > 0 {
		sum := 0
		for _, e := range endpoints {
			sum += e.ComplexityScore
		}
		avgComplexity = float64(sum) / float64(len(endpoints))
	}

	slowOps := findSlowOperations(source)

	return models.AnalysisReport{
		Timestamp:              models.FormatTime(time.Now()),
		TotalLinesOfCode:       strings.Count(source, "\n") + 1,
		TotalEndpoints:         len(routes),
		Endpoints:              endpoints,
		SlowOperations:         slowOps,
		MigrationPriority:      buildMigrationPhases(endpoints),
		OverallComplexityScore: round1(avgComplexity),
		EstimatedMigrationTime: estimateTime(len(routes), avgComplexity),
		CriticalIssues:         findCriticalIssues(source),
		Recommendations:        buildRecommendations(endpoints, slowOps),
		AnalysisComplete:       true,
	}
}

func extractRoutes(source string) []string {
	seen := make(map[string]bool)
	routes := make([]string, 0)

	add := func(matches [][]string) {
		for _, m := range matches {
			if !seen[m[1]] {
				seen[m[1]] = true
				routes = append(routes, m[1])
			}
		}
	}

	add(chiRoutePattern.FindAllStringSubmatch(source, -1))
	add(handleFuncPattern.FindAllStringSubmatch(source, -1))
	add(flaskRoutePattern.FindAllStringSubmatch(source, -1))
	add(fastapiRoutePattern.FindAllStringSubmatch(source, -1))

	sort.Strings(routes)
	return routes
}

func analyzeEndpoint(source, endpoint string) models.EndpointAnalysis {
	complexity := 50
	responseTime := 2000

	lower := strings.ToLower(source)

	if sleepCallPattern.MatchString(source) {
		complexity += 30
		responseTime += 1000
	}
	if strings.Contains(source, "for ") || strings.Contains(source, "while ") {
		complexity += 20
	}
	if strings.Contains(lower, "xml") {
		complexity += 15
		responseTime += 500
	}
	if strings.Contains(source, "requests.") || strings.Contains(source, "http.Client") {
		complexity += 10
		responseTime += 300
	}
	if complexity > 100 {
		complexity = 100
	}

	category, priority := "HIGH", "FIRST"
	if complexity < 50 {
		category, priority = "LOW", "LAST"
	} else if complexity < 75 {
		category, priority = "MEDIUM", "MEDIUM"
	}

	risk := "LOW"
	if complexity > 80 {
		risk = "HIGH"
	} else if complexity > 50 {
		risk = "MEDIUM"
	}

	canParallelize := "YES"
	if complexity >= 70 {
		canParallelize = "NO"
	}

	refactorDays := complexity / 20
	if refactorDays < 1 {
		refactorDays = 1
	}

	return models.EndpointAnalysis{
		Endpoint:              endpoint,
		ComplexityScore:       complexity,
		ComplexityCategory:    category,
		ResponseTimeMS:        responseTime,
		MigrationPriority:     priority,
		RiskLevel:             risk,
		Dependencies:          findDependencies(source),
		CanParallelize:        canParallelize,
		EstimatedRefactorDays: refactorDays,
	}
}

func findDependencies(source string) []string {
	deps := make([]string, 0)
	lower := strings.ToLower(source)

	if strings.Contains(source, "INVENTORY_DB") || strings.Contains(source, "inventoryDB") {
		deps = append(deps, "Inventory Database")
	}
	if strings.Contains(source, "DEALERS_DB") || strings.Contains(source, "dealersDB") {
		deps = append(deps, "Dealers Database")
	}
	if strings.Contains(source, "requests.") || strings.Contains(source, "http.Client") {
		deps = append(deps, "External APIs")
	}
	if strings.Contains(lower, "xml") {
		deps = append(deps, "XML Parser")
	}

	if len(deps) == 0 {
		deps = append(deps, "Core Database")
	}
	return deps
}

func findSlowOperations(source string) []models.SlowOperation {
	ops := make([]models.SlowOperation, 0)

	for _, m := range sleepCallPattern.FindAllStringSubmatch(source, -1) {
		duration := 2000
		if secs, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64); err == nil {
			duration = int(secs * 1000)
		}
		ops = append(ops, models.SlowOperation{
			Operation:      "Artificial Delay",
			Location:       "Multiple endpoints",
			DurationMS:     duration,
			Impact:         "CRITICAL",
			Recommendation: "Remove or async-ify",
			FixEffort:      "Easy",
		})
	}

	if strings.Contains(strings.ToLower(source), "xml") {
		ops = append(ops, models.SlowOperation{
			Operation:      "XML Serialization",
			Location:       "API responses",
			DurationMS:     500,
			Impact:         "HIGH",
			Recommendation: "Switch to JSON",
			FixEffort:      "Easy",
		})
	}

	return ops
}

func buildMigrationPhases(endpoints []models.EndpointAnalysis) []models.MigrationPhase {
	ordered := make([]models.EndpointAnalysis, len(endpoints))
	copy(ordered, endpoints)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].ComplexityScore != ordered[j].ComplexityScore {
			return ordered[i].ComplexityScore > ordered[j].ComplexityScore
		}
		return ordered[i].ResponseTimeMS > ordered[j].ResponseTimeMS
	})

	itemsPerPhase := len(endpoints) / 3
	if itemsPerPhase < 1 {
		itemsPerPhase = 1
	}

	phases := make([]models.MigrationPhase, 0, len(ordered))
	phaseNum := 1
	for i, ep := range ordered {
		if i > 0 && i%itemsPerPhase == 0 {
			phaseNum++
		}

		action := "Simple wrapper, add caching"
		if ep.ComplexityScore > 75 {
			action = "Refactor to async, switch from XML to JSON"
		}

		phases = append(phases, models.MigrationPhase{
			Phase:         phaseNum,
			Endpoint:      ep.Endpoint,
			Complexity:    ep.ComplexityCategory,
			PriorityScore: ep.ComplexityScore,
			EstimatedDays: ep.EstimatedRefactorDays,
			Dependencies:  ep.Dependencies,
			Risk:          ep.RiskLevel,
			Action:        action,
		})
	}
	return phases
}

func findCriticalIssues(source string) []string {
	issues := make([]string, 0)
	lower := strings.ToLower(source)

	if sleepCallPattern.MatchString(source) {
		issues = append(issues, "Blocking delays in request handlers - prevents scaling")
	}
	if strings.Contains(lower, "xml") && !strings.Contains(lower, "json") {
		issues = append(issues, "XML-only API - should support JSON for performance")
	}
	if strings.Contains(source, "global ") {
		issues = append(issues, "Global variables detected - thread safety issues")
	}
	if strings.Contains(source, "eval(") || strings.Contains(source, "exec(") {
		issues = append(issues, "Security vulnerability: eval/exec detected")
	}

	if len(issues) == 0 {
		issues = append(issues, "No critical issues detected")
	}
	return issues
}

func estimateTime(endpointCount int, avgComplexity float64) string {
	totalDays := int(3 + avgComplexity/20 + float64(endpointCount)/5*2)

	switch {
	case totalDays <= 5:
		return "1 week"
	case totalDays <= 10:
		return "2 weeks"
	case totalDays <= 15:
		return "3 weeks"
	default:
		return fmt.Sprintf("%d weeks", totalDays/5)
	}
}

func buildRecommendations(endpoints []models.EndpointAnalysis, slowOps []models.SlowOperation) []string {
	recs := make([]string, 0)

	if len(endpoints) > 10 {
		recs = append(recs, "Start with 3-5 high-complexity endpoints for Phase 1")
	}
	if len(slowOps) > 0 {
		recs = append(recs, "Eliminate artificial delays - biggest performance gain")
		recs = append(recs, "Use async I/O for slow operations")
	}
	for _, ep := range endpoints {
		if ep.ResponseTimeMS > 2000 {
			recs = append(recs, "Response times above 2s detected - prioritize these endpoints")
			break
		}
	}

	recs = append(recs,
		"Create wrapper APIs before full migration",
		"Add comprehensive tests for each migrated endpoint",
		"Monitor performance improvements after each phase")
	return recs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
