// ABOUTME: Handlers for traffic prediction and auto-scaling endpoints
// ABOUTME: Exposes spike detection, recommendations, and traffic recording

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

func (h *Handler) PredictScaling(w http.ResponseWriter, r *http.Request) {
	prediction := h.predictor.Predict()
	slog.Info("Auto-scaling prediction",
		"spike_detected", prediction.SpikeDetected,
		"confidence", prediction.Confidence)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"prediction": prediction,
		"timestamp":  now(),
	})
}

func (h *Handler) GetScalingRecommendation(w http.ResponseWriter, r *http.Request) {
	capacity := queryInt(r, "capacity", 100)
	rec := h.predictor.RecommendScaling(capacity)
	h.predictor.AddRecommendation(rec)
	h.metrics.RecordScalingRecommendation(rec.Action)
	slog.Info("Scaling recommendation", "action", rec.Action)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"recommendation": rec,
		"timestamp":      now(),
	})
}

func (h *Handler) GetScalingMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"metrics":   h.predictor.Summary(),
		"timestamp": now(),
	})
}

func (h *Handler) RecordTraffic(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RequestCount int `json:"request_count"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.predictor.RecordTraffic(body.RequestCount, time.Now())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Recorded %d requests", body.RequestCount),
	})
}

func (h *Handler) GetScalingHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	history := h.predictor.History(limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"history": history,
		"total":   len(history),
	})
}
