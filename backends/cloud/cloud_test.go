package cloud

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer() (*Server, *httptest.Server) {
	s := NewServer()
	return s, httptest.NewServer(s.Routes())
}

func TestGetPartFound(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/parts/get", "application/json",
		strings.NewReader(`{"part_number": "PART003"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var parsed struct {
		Status string `json:"status"`
		Data   struct {
			Part Part `json:"part"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if parsed.Status != "SUCCESS" {
		t.Errorf("Expected status SUCCESS, got %s", parsed.Status)
	}
	if parsed.Data.Part.Name != "Brake Pads" {
		t.Errorf("Expected Brake Pads, got %s", parsed.Data.Part.Name)
	}
}

func TestGetPartNotFoundIs404(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/parts/get", "application/json",
		strings.NewReader(`{"part_number": "PART999"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestListInventory(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/inventory/list")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		Data struct {
			PartCount int    `json:"part_count"`
			Parts     []Part `json:"parts"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if parsed.Data.PartCount != 4 {
		t.Errorf("Expected 4 parts, got %d", parsed.Data.PartCount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"unknown dealer", `{"dealer_id": "DEALER_XX_001", "part_number": "PART001"}`, http.StatusNotFound},
		{"unknown part", `{"dealer_id": "DEALER_US_001", "part_number": "PART999"}`, http.StatusNotFound},
		{"insufficient stock", `{"dealer_id": "DEALER_US_001", "part_number": "PART002", "quantity": 100000}`, http.StatusBadRequest},
		{"valid order", `{"dealer_id": "DEALER_US_001", "part_number": "PART001", "quantity": 3}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/orders/create", "application/json",
				strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestCreateOrderDiscountMatchesLegacyRule(t *testing.T) {
	s, ts := newTestServer()
	defer ts.Close()

	// Friday 2026-01-02
	s.Now = func() time.Time { return time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC) }

	resp, err := http.Post(ts.URL+"/api/v1/orders/create", "application/json",
		strings.NewReader(`{"dealer_id": "DEALER_DE_001", "part_number": "PART002", "quantity": 1}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		Data struct {
			Order struct {
				DiscountApplied float64 `json:"discount_applied"`
			} `json:"order"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if parsed.Data.Order.DiscountApplied != 0.02 {
		t.Errorf("Expected discount 0.02, got %f", parsed.Data.Order.DiscountApplied)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if parsed["system"] != "cloud_vw_system" {
		t.Errorf("Expected cloud_vw_system, got %s", parsed["system"])
	}
}
