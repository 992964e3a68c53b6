// ABOUTME: Handler for the AI-assisted legacy code analysis endpoint
// ABOUTME: Accepts a file path or inline source and returns a migration report

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/automigrate/strangler-proxy/services"
)

type analyzeCodeBody struct {
	FilePath string `json:"file_path"`
	Source   string `json:"source"`
}

// AnalyzeCode produces a migration assessment for legacy code. Inline source
// takes precedence over a file path; with neither, the configured default
// file is analyzed.
func (h *Handler) AnalyzeCode(w http.ResponseWriter, r *http.Request) {
	var body analyzeCodeBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var (
		report   json.RawMessage
		err      error
		analyzed string
	)
	if body.Source != "" {
		analyzed = "inline-source"
		report, err = h.analyzer.AnalyzeSource(r.Context(), body.Source)
	} else {
		analyzed = body.FilePath
		if analyzed == "" {
			analyzed = h.cfg.AnalyzerDefaultFile
		}
		report, err = h.analyzer.AnalyzeFile(r.Context(), body.FilePath)
	}

	if err != nil {
		var pathErr *services.PathError
		if errors.As(err, &pathErr) {
			slog.Warn("Analysis source file not found", "requested", pathErr.Requested, "cwd", pathErr.WorkingDir)
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"success":     false,
				"error":       pathErr.Error(),
				"tried_paths": pathErr.TriedPaths,
			})
			return
		}
		slog.Error("Code analysis failed", "error", err)
		writeError(w, "analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"analysis":      report,
		"file_analyzed": analyzed,
		"timestamp":     now(),
	})
}
