// ABOUTME: Handlers for request routing and the metrics store endpoints
// ABOUTME: Covers proxy traffic, migration percentage, history, and rollback

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/automigrate/strangler-proxy/models"
)

type proxyRequestBody struct {
	Endpoint string      `json:"endpoint"`
	Method   string      `json:"method"`
	Data     interface{} `json:"data"`
}

// ProxyRequest routes a single request to the legacy or cloud backend
// according to the current migration percentage.
func (h *Handler) ProxyRequest(w http.ResponseWriter, r *http.Request) {
	var body proxyRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Endpoint == "" {
		writeError(w, "endpoint is required", http.StatusBadRequest)
		return
	}
	if body.Method == "" {
		body.Method = http.MethodPost
	}

	result := h.router.Route(r.Context(), body.Endpoint, body.Method, body.Data)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Aggregate())
}

func (h *Handler) SetMigration(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Percentage float64 `json:"percentage"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	applied := h.store.SetPercentage(body.Percentage)
	h.metrics.SetMigrationPercentage(applied)
	slog.Info("Migration percentage updated", "requested", body.Percentage, "applied", applied)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"migration_percentage": applied,
		"timestamp":            now(),
	})
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"history":        h.store.History(limit),
		"total_requests": h.store.HistoryLen(),
		"timestamp":      now(),
	})
}

func (h *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	record, found := h.store.ByID(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   "Request not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"request": record,
	})
}

type rollbackBody struct {
	Timestamp string `json:"timestamp"`
	RequestID *int64 `json:"request_id"`
}

// Rollback reports which requests fall after the given point, then sets the
// migration percentage to zero. The report is advisory; zeroing the
// percentage is the rollback itself.
func (h *Handler) Rollback(w http.ResponseWriter, r *http.Request) {
	var body rollbackBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var report *models.RollbackReport
	if body.RequestID != nil {
		if record, found := h.store.ByID(*body.RequestID); found {
			rb := h.store.RollbackTo(record.Timestamp)
			report = &rb
		}
	} else if body.Timestamp != "" {
		rb := h.store.RollbackTo(body.Timestamp)
		report = &rb
	}

	applied := h.store.SetPercentage(0)
	h.metrics.SetMigrationPercentage(applied)
	h.metrics.RecordRollback()
	slog.Warn("Rollback executed, migration set to 0%")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":                  true,
		"message":                  "Rollback successful. Migration set to 0%.",
		"rolled_back_info":         report,
		"new_migration_percentage": applied,
		"timestamp":                now(),
	})
}

func (h *Handler) GetRollbackStates(w http.ResponseWriter, r *http.Request) {
	states, pct := h.store.RollbackStates()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"rollback_states":      states,
		"migration_percentage": pct,
	})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	h.metrics.SetMigrationPercentage(0)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Metrics reset",
		"timestamp": now(),
	})
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func queryFloat(r *http.Request, key string, defaultValue float64) float64 {
	if value := r.URL.Query().Get(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
