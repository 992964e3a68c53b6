// ABOUTME: Entry point for the strangler proxy service
// ABOUTME: Wires config, metrics, routing, and all migration subsystems

package main

import (
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/automigrate/strangler-proxy/cache"
	"github.com/automigrate/strangler-proxy/compliance"
	"github.com/automigrate/strangler-proxy/config"
	"github.com/automigrate/strangler-proxy/handlers"
	"github.com/automigrate/strangler-proxy/logger"
	"github.com/automigrate/strangler-proxy/metrics"
	"github.com/automigrate/strangler-proxy/middleware"
	"github.com/automigrate/strangler-proxy/models"
	"github.com/automigrate/strangler-proxy/router"
	"github.com/automigrate/strangler-proxy/scaling"
	"github.com/automigrate/strangler-proxy/services"
	"github.com/automigrate/strangler-proxy/store"
	"github.com/automigrate/strangler-proxy/twin"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting strangler proxy")
	slog.Info("Backends configured", "legacy", cfg.LegacyURL, "cloud", cfg.CloudURL)
	if cfg.AIConfigured() {
		slog.Info("AI code analysis enabled", "model", cfg.AnthropicModel)
	} else {
		slog.Info("AI code analysis disabled, heuristic scanner only")
	}

	routeMap := config.RouteMap{}
	if rm, err := cfg.LoadRouteMap(); err != nil {
		slog.Error("Failed to load route map", "error", err)
		os.Exit(1)
	} else if rm != nil {
		routeMap = *rm
		slog.Info("Route map loaded", "file", cfg.RouteMapFile)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	st := store.New(store.Options{
		ShortWindowSize:  cfg.ShortWindowSize,
		LongWindowSize:   cfg.LongWindowSize,
		LegacyFallbackMS: cfg.LegacyFallbackMS,
		CloudFallbackMS:  cfg.CloudFallbackMS,
		LegacyCostPerReq: cfg.LegacyCostPerReq,
		CloudCostPerReq:  cfg.CloudCostPerReq,
	})

	if cfg.MockData {
		seedMockData(st)
		slog.Info("Seeded sample metrics", "records", st.HistoryLen())
	}

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	analyzerCache := cache.New(cacheTTL)
	slog.Info("Analysis cache initialized", "ttl", cacheTTL)

	h := handlers.NewHandler(
		cfg,
		st,
		router.New(cfg, st, m, routeMap),
		twin.NewValidator(cfg.ValidationHistoryLimit),
		scaling.NewPredictor(cfg.TrafficWindowSize, cfg.RecommendationLimit),
		compliance.NewChecker(cfg.ComplianceHistoryLimit),
		services.NewAnalyzer(cfg, analyzerCache),
		m,
	)

	mux := chi.NewRouter()
	mux.Use(middleware.LogRequest)
	mux.Use(middleware.CORS)
	for _, route := range h.Routes() {
		mux.Method(route.Method, route.Path, route.Handler)
	}
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// seedMockData pre-populates the store so dashboards show realistic numbers
// before any real traffic arrives.
func seedMockData(st *store.Store) {
	for i := 0; i < 20; i++ {
		st.Log("test_endpoint", 2500+rand.Float64()*500, models.SourceLegacy, "", nil, nil)
	}
	for i := 0; i < 20; i++ {
		st.Log("test_endpoint", 50+rand.Float64()*70, models.SourceCloud, "", nil, nil)
	}
}
