// ABOUTME: Tests for route table definitions
// ABOUTME: Verifies all routes have required fields and no duplicates

package handlers

import (
	"net/http"
	"testing"
)

func TestRoutesAllHaveRequiredFields(t *testing.T) {
	h := newTestHandler(t)
	routes := h.Routes()

	if len(routes) == 0 {
		t.Fatal("Routes() returned empty slice")
	}

	for i, route := range routes {
		if route.Method == "" {
			t.Errorf("Route %d: Method is empty", i)
		}
		if route.Path == "" {
			t.Errorf("Route %d: Path is empty", i)
		}
		if route.Handler == nil {
			t.Errorf("Route %d: Handler is nil", i)
		}
	}
}

func TestRoutesNoDuplicates(t *testing.T) {
	h := newTestHandler(t)

	seen := make(map[string]bool)
	for _, route := range h.Routes() {
		key := route.Method + " " + route.Path
		if seen[key] {
			t.Errorf("Duplicate route: %s", key)
		}
		seen[key] = true
	}
}

func TestRoutesExpectedEndpoints(t *testing.T) {
	h := newTestHandler(t)

	registered := make(map[string]bool)
	for _, route := range h.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		http.MethodPost + " /proxy/request",
		http.MethodGet + " /proxy/metrics",
		http.MethodPost + " /proxy/set_migration",
		http.MethodPost + " /proxy/rollback",
		http.MethodPost + " /proxy/validate-migration",
		http.MethodGet + " /proxy/auto-scaling/predict",
		http.MethodPost + " /proxy/compliance/check",
		http.MethodPost + " /proxy/analyze-code",
	}
	for _, key := range expected {
		if !registered[key] {
			t.Errorf("Expected route %s not registered", key)
		}
	}
}
