// ABOUTME: Handlers for GDPR and TISAX compliance endpoints
// ABOUTME: Scans request/response payloads and serves the compliance posture

package handlers

import (
	"log/slog"
	"net/http"
)

type complianceCheckBody struct {
	Request  interface{} `json:"request"`
	Response interface{} `json:"response"`
}

func (h *Handler) CheckCompliance(w http.ResponseWriter, r *http.Request) {
	var body complianceCheckBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	reqCheck := h.checker.CheckRequest(body.Request)
	respCheck := h.checker.CheckResponse(body.Response)
	h.checker.LogCheck(reqCheck, respCheck)
	h.metrics.SetComplianceScore(float64(reqCheck.Score+respCheck.Score) / 2)
	slog.Info("Compliance check", "request_status", reqCheck.Status, "response_status", respCheck.Status)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":             true,
		"request_compliance":  reqCheck,
		"response_compliance": respCheck,
		"timestamp":           now(),
	})
}

func (h *Handler) GetComplianceStatus(w http.ResponseWriter, r *http.Request) {
	overall := h.checker.Overall()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"compliance": overall,
		"timestamp":  now(),
	})
}

func (h *Handler) GetComplianceViolations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	violations := h.checker.ViolationsHistory(limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"violations": violations,
		"total":      len(violations),
	})
}
