// ABOUTME: HTTP handlers for the strangler proxy API
// ABOUTME: Provides routing, metrics, rollback, and service info endpoints

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/automigrate/strangler-proxy/compliance"
	"github.com/automigrate/strangler-proxy/config"
	"github.com/automigrate/strangler-proxy/metrics"
	"github.com/automigrate/strangler-proxy/models"
	"github.com/automigrate/strangler-proxy/router"
	"github.com/automigrate/strangler-proxy/scaling"
	"github.com/automigrate/strangler-proxy/services"
	"github.com/automigrate/strangler-proxy/store"
	"github.com/automigrate/strangler-proxy/twin"
)

type Handler struct {
	cfg       *config.Config
	store     *store.Store
	router    *router.Router
	validator *twin.Validator
	predictor *scaling.Predictor
	checker   *compliance.Checker
	analyzer  *services.Analyzer
	metrics   *metrics.Metrics

	planMutex sync.RWMutex
	plan      map[string]interface{}
}

func NewHandler(
	cfg *config.Config,
	st *store.Store,
	rt *router.Router,
	validator *twin.Validator,
	predictor *scaling.Predictor,
	checker *compliance.Checker,
	analyzer *services.Analyzer,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     st,
		router:    rt,
		validator: validator,
		predictor: predictor,
		checker:   checker,
		analyzer:  analyzer,
		metrics:   m,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":               "ok",
		"system":               "proxy_router",
		"migration_percentage": h.store.Percentage(),
		"timestamp":            now(),
	})
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":              "AutoMigrate - Smart Proxy Router",
		"version":              "1.0.0",
		"status":               "running",
		"migration_percentage": h.store.Percentage(),
		"endpoints": map[string]string{
			"POST /proxy/request":            "Route request to legacy or cloud",
			"GET /proxy/metrics":             "Get current metrics",
			"POST /proxy/set_migration":      "Set migration percentage",
			"POST /proxy/validate-migration": "Run digital twin validation",
			"POST /proxy/analyze-code":       "Analyze legacy code for migration",
		},
		"timestamp": now(),
	})
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"config": map[string]interface{}{
			"legacy_url":      h.cfg.LegacyURL,
			"cloud_url":       h.cfg.CloudURL,
			"backend_timeout": h.cfg.BackendTimeout,
			"metrics_window":  h.cfg.ShortWindowSize,
			"history_window":  h.cfg.LongWindowSize,
			"ai_enabled":      h.cfg.AIConfigured(),
		},
		"timestamp": now(),
	})
}

func now() string {
	return models.FormatTime(time.Now())
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeBody parses a JSON request body into dst. An empty body is not an
// error; callers rely on their zero values and defaults in that case.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
