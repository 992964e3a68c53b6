// ABOUTME: Entry point for the simulated legacy SOAP-era backend
// ABOUTME: Serves XML responses with artificial database latency

package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/automigrate/strangler-proxy/backends/legacy"
	"github.com/automigrate/strangler-proxy/logger"
)

func main() {
	logger.Init()

	port := os.Getenv("LEGACY_PORT")
	if port == "" {
		port = "5000"
	}
	latencyMS := 1000
	if v := os.Getenv("LEGACY_BASE_LATENCY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			latencyMS = n
		}
	}

	srv := legacy.NewServer(time.Duration(latencyMS) * time.Millisecond)

	addr := ":" + port
	slog.Info("Legacy backend listening", "addr", addr, "base_latency_ms", latencyMS)
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		slog.Error("Legacy backend failed", "error", err)
		os.Exit(1)
	}
}
