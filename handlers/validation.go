// ABOUTME: Handlers for digital twin validation and migration planning
// ABOUTME: Runs simulations, serves history, and manages the saved plan

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/automigrate/strangler-proxy/twin"
)

type validateMigrationBody struct {
	Percentage    *float64 `json:"percentage"`
	Duration      *int     `json:"duration"`
	TrafficVolume *int     `json:"traffic_volume"`
}

func (h *Handler) ValidateMigration(w http.ResponseWriter, r *http.Request) {
	var body validateMigrationBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	percentage := 50.0
	if body.Percentage != nil {
		percentage = *body.Percentage
	}
	duration := 30
	if body.Duration != nil {
		duration = *body.Duration
	}
	volume := 100
	if body.TrafficVolume != nil {
		volume = *body.TrafficVolume
	}

	if percentage < 0 || percentage > 100 {
		writeError(w, "Percentage must be between 0-100", http.StatusBadRequest)
		return
	}

	slog.Info("Starting digital twin validation", "target_percentage", percentage)
	result := h.validator.ValidateMigration(percentage, duration, volume)
	h.metrics.RecordValidation(validationOutcome(result.Analysis.Passed))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"validation": result,
		"timestamp":  now(),
	})
}

func (h *Handler) GetValidationHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	history := h.validator.History(limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"history": history,
		"total":   len(history),
	})
}

func (h *Handler) GetNextMigrationStep(w http.ResponseWriter, r *http.Request) {
	current := queryFloat(r, "current", 0)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"next_step": twin.NextStep(current),
		"timestamp": now(),
	})
}

// SavePlan stores an arbitrary migration plan document for later validation.
func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	var plan map[string]interface{}
	if err := decodeBody(r, &plan); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.planMutex.Lock()
	h.plan = plan
	h.planMutex.Unlock()
	slog.Info("Migration plan saved")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Plan saved successfully",
		"plan":    plan,
	})
}

type validatePlanBody struct {
	Duration      *int `json:"duration"`
	TrafficVolume *int `json:"traffic_volume"`
}

// ValidatePlan runs a simulation using the engine percentage from the saved
// plan, falling back to 50 when no plan or engine value exists.
func (h *Handler) ValidatePlan(w http.ResponseWriter, r *http.Request) {
	var body validatePlanBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	duration := 30
	if body.Duration != nil {
		duration = *body.Duration
	}
	volume := 100
	if body.TrafficVolume != nil {
		volume = *body.TrafficVolume
	}

	percentage := h.planEnginePercentage()
	slog.Info("Starting digital twin validation for saved plan", "engine_percentage", percentage)
	result := h.validator.ValidateMigration(percentage, duration, volume)
	h.metrics.RecordValidation(validationOutcome(result.Analysis.Passed))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"validation": result,
		"message":    "Simulation run based on saved plan",
		"timestamp":  now(),
	})
}

func (h *Handler) planEnginePercentage() float64 {
	h.planMutex.RLock()
	defer h.planMutex.RUnlock()

	if subsystems, ok := h.plan["subsystems"].(map[string]interface{}); ok {
		if engine, ok := subsystems["engine"].(float64); ok {
			return engine
		}
	}
	return 50
}

func validationOutcome(passed bool) string {
	if passed {
		return "proceed"
	}
	return "hold"
}
