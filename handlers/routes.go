// ABOUTME: Declarative route table for the proxy API
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/proxy/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Service info
		{Method: http.MethodGet, Path: "/", Handler: h.Root},
		{Method: http.MethodGet, Path: "/proxy/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/proxy/config", Handler: h.GetConfig},

		// Routing & metrics store
		{Method: http.MethodPost, Path: "/proxy/request", Handler: h.ProxyRequest},
		{Method: http.MethodGet, Path: "/proxy/metrics", Handler: h.GetMetrics},
		{Method: http.MethodPost, Path: "/proxy/set_migration", Handler: h.SetMigration},
		{Method: http.MethodGet, Path: "/proxy/history", Handler: h.GetHistory},
		{Method: http.MethodGet, Path: "/proxy/request-by-id/{id}", Handler: h.GetRequestByID},
		{Method: http.MethodPost, Path: "/proxy/rollback", Handler: h.Rollback},
		{Method: http.MethodGet, Path: "/proxy/rollback-states", Handler: h.GetRollbackStates},
		{Method: http.MethodPost, Path: "/proxy/reset", Handler: h.Reset},

		// Digital twin validation
		{Method: http.MethodPost, Path: "/proxy/validate-migration", Handler: h.ValidateMigration},
		{Method: http.MethodGet, Path: "/proxy/validation-history", Handler: h.GetValidationHistory},
		{Method: http.MethodGet, Path: "/proxy/next-migration-step", Handler: h.GetNextMigrationStep},
		{Method: http.MethodPost, Path: "/proxy/plan/save", Handler: h.SavePlan},
		{Method: http.MethodPost, Path: "/proxy/validate_plan", Handler: h.ValidatePlan},

		// Auto-scaling
		{Method: http.MethodGet, Path: "/proxy/auto-scaling/predict", Handler: h.PredictScaling},
		{Method: http.MethodGet, Path: "/proxy/auto-scaling/recommendation", Handler: h.GetScalingRecommendation},
		{Method: http.MethodGet, Path: "/proxy/auto-scaling/metrics", Handler: h.GetScalingMetrics},
		{Method: http.MethodPost, Path: "/proxy/auto-scaling/record-traffic", Handler: h.RecordTraffic},
		{Method: http.MethodGet, Path: "/proxy/auto-scaling/history", Handler: h.GetScalingHistory},

		// Compliance
		{Method: http.MethodPost, Path: "/proxy/compliance/check", Handler: h.CheckCompliance},
		{Method: http.MethodGet, Path: "/proxy/compliance/status", Handler: h.GetComplianceStatus},
		{Method: http.MethodGet, Path: "/proxy/compliance/violations", Handler: h.GetComplianceViolations},

		// Code analysis
		{Method: http.MethodPost, Path: "/proxy/analyze-code", Handler: h.AnalyzeCode},
	}
}
