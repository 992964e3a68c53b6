// ABOUTME: Entry point for the simulated cloud-native backend
// ABOUTME: Serves the JSON API the migration moves traffic toward

package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/automigrate/strangler-proxy/backends/cloud"
	"github.com/automigrate/strangler-proxy/logger"
)

func main() {
	logger.Init()

	port := os.Getenv("CLOUD_PORT")
	if port == "" {
		port = "5001"
	}

	srv := cloud.NewServer()

	addr := ":" + port
	slog.Info("Cloud backend listening", "addr", addr)
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		slog.Error("Cloud backend failed", "error", err)
		os.Exit(1)
	}
}
