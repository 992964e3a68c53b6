// ABOUTME: Configuration loader for the strangler proxy service
// ABOUTME: Loads settings from environment variables (and .env) with defaults

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port     string
	CacheTTL int // seconds, for analyzer result cache

	// Backends
	LegacyURL      string
	CloudURL       string
	BackendTimeout int    // seconds, per backend call (default 10)
	RouteMapFile   string // optional YAML override for endpoint translation

	// Metrics store
	ShortWindowSize  int     // aggregate window (default 100)
	LongWindowSize   int     // rollback/history window (default 50)
	LegacyFallbackMS float64 // avg response time reported before any legacy data
	CloudFallbackMS  float64 // avg response time reported before any cloud data
	LegacyCostPerReq float64
	CloudCostPerReq  float64

	// Digital twin
	ValidationHistoryLimit int

	// Auto-scaling
	TrafficWindowSize   int // seconds of traffic history (default 120)
	RecommendationLimit int

	// Compliance
	ComplianceHistoryLimit int

	// AI analyzer (optional; heuristic analyzer used when key is empty)
	AnthropicAPIKey     string
	AnthropicModel      string
	AnalyzerDefaultFile string

	// Startup behavior
	MockData bool // seed sample metrics on boot
}

// RouteMap maps logical endpoint names to backend-specific paths.
type RouteMap struct {
	Legacy map[string]string `yaml:"legacy"`
	Cloud  map[string]string `yaml:"cloud"`
}

// AIConfigured returns true if the remote code analyzer can be used.
func (c *Config) AIConfigured() bool {
	return c.AnthropicAPIKey != ""
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8000"),
		CacheTTL: getEnvInt("CACHE_TTL", 300),

		LegacyURL:      getEnv("LEGACY_URL", "http://localhost:5000"),
		CloudURL:       getEnv("CLOUD_URL", "http://localhost:5001"),
		BackendTimeout: getEnvInt("BACKEND_TIMEOUT", 10),
		RouteMapFile:   os.Getenv("ROUTE_MAP_FILE"),

		ShortWindowSize:  getEnvInt("METRICS_WINDOW", 100),
		LongWindowSize:   getEnvInt("HISTORY_WINDOW", 50),
		LegacyFallbackMS: getEnvFloat("LEGACY_FALLBACK_MS", 2847),
		CloudFallbackMS:  getEnvFloat("CLOUD_FALLBACK_MS", 87),
		LegacyCostPerReq: getEnvFloat("LEGACY_COST_PER_REQUEST", 0.50),
		CloudCostPerReq:  getEnvFloat("CLOUD_COST_PER_REQUEST", 0.05),

		ValidationHistoryLimit: getEnvInt("VALIDATION_HISTORY_LIMIT", 200),

		TrafficWindowSize:   getEnvInt("TRAFFIC_WINDOW", 120),
		RecommendationLimit: getEnvInt("RECOMMENDATION_LIMIT", 50),

		ComplianceHistoryLimit: getEnvInt("COMPLIANCE_HISTORY_LIMIT", 100),

		AnthropicAPIKey:     os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:      getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		AnalyzerDefaultFile: getEnv("ANALYZER_DEFAULT_FILE", "backends/legacy/legacy.go"),

		MockData: getEnvBool("MOCK_DATA", true),
	}

	if cfg.LegacyURL == "" {
		return nil, fmt.Errorf("LEGACY_URL is required")
	}
	if cfg.CloudURL == "" {
		return nil, fmt.Errorf("CLOUD_URL is required")
	}
	if cfg.BackendTimeout < 1 || cfg.BackendTimeout > 120 {
		return nil, fmt.Errorf("BACKEND_TIMEOUT must be between 1 and 120 seconds, got %d", cfg.BackendTimeout)
	}

	// Window sizes must hold at least one entry
	for _, w := range []struct {
		name  string
		value int
	}{
		{"METRICS_WINDOW", cfg.ShortWindowSize},
		{"HISTORY_WINDOW", cfg.LongWindowSize},
		{"TRAFFIC_WINDOW", cfg.TrafficWindowSize},
		{"VALIDATION_HISTORY_LIMIT", cfg.ValidationHistoryLimit},
		{"RECOMMENDATION_LIMIT", cfg.RecommendationLimit},
		{"COMPLIANCE_HISTORY_LIMIT", cfg.ComplianceHistoryLimit},
	} {
		if w.value < 1 {
			return nil, fmt.Errorf("%s must be at least 1, got %d", w.name, w.value)
		}
	}

	return cfg, nil
}

// LoadRouteMap reads the optional YAML endpoint translation table.
// Returns nil (no override) when no file is configured.
func (c *Config) LoadRouteMap() (*RouteMap, error) {
	if c.RouteMapFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.RouteMapFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read route map %s: %w", c.RouteMapFile, err)
	}

	var rm RouteMap
	if err := yaml.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("failed to parse route map %s: %w", c.RouteMapFile, err)
	}
	return &rm, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
