package legacy

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer() (*Server, *httptest.Server) {
	s := NewServer(0)
	return s, httptest.NewServer(s.Routes())
}

func TestGetPartFound(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/inventory/get_part", "application/json",
		strings.NewReader(`{"part_number": "PART001"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/xml" {
		t.Errorf("Expected XML content type, got %s", ct)
	}

	var parsed partResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode XML: %v", err)
	}
	if parsed.Status != "SUCCESS" {
		t.Errorf("Expected status SUCCESS, got %s", parsed.Status)
	}
	if parsed.Part == nil || parsed.Part.PartName != "Engine Block" {
		t.Errorf("Expected Engine Block, got %+v", parsed.Part)
	}
}

func TestGetPartNotFound(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/inventory/get_part", "application/json",
		strings.NewReader(`{"part_number": "PART999"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed partResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode XML: %v", err)
	}
	if parsed.Status != "ERROR" {
		t.Errorf("Expected status ERROR, got %s", parsed.Status)
	}
	if !strings.Contains(parsed.Message, "PART999") {
		t.Errorf("Expected message to name the missing part, got %q", parsed.Message)
	}
}

func TestGetDealer(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/dealer/get_details", "application/json",
		strings.NewReader(`{"dealer_id": "DEALER_DE_001"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed dealerResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode XML: %v", err)
	}
	if parsed.Dealer == nil || parsed.Dealer.DealerName != "Munich Motors" {
		t.Errorf("Expected Munich Motors, got %+v", parsed.Dealer)
	}
}

func TestListInventory(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/inventory/list_all")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed inventoryResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode XML: %v", err)
	}
	if parsed.PartCount != 4 {
		t.Errorf("Expected 4 parts, got %d", parsed.PartCount)
	}
	if len(parsed.Parts) != 4 {
		t.Errorf("Expected 4 part items, got %d", len(parsed.Parts))
	}
}

func TestCreateOrderDiscountRule(t *testing.T) {
	s, ts := newTestServer()
	defer ts.Close()

	// Friday 2026-01-02
	friday := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return friday }

	resp, err := http.Post(ts.URL+"/orders/create", "application/json",
		strings.NewReader(`{"dealer_id": "DEALER_DE_001", "part_number": "PART002", "quantity": 2}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed orderResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode XML: %v", err)
	}
	if parsed.Order == nil {
		t.Fatal("Expected an order in the response")
	}
	// German dealer + Friday + part above 1000 qualifies for 2%
	if parsed.Order.DiscountApplied != 0.02 {
		t.Errorf("Expected discount 0.02, got %f", parsed.Order.DiscountApplied)
	}

	// Same order on a Monday gets no discount
	s.Now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC) }
	resp2, err := http.Post(ts.URL+"/orders/create", "application/json",
		strings.NewReader(`{"dealer_id": "DEALER_DE_001", "part_number": "PART002", "quantity": 2}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp2.Body.Close()

	var parsed2 orderResponse
	if err := xml.NewDecoder(resp2.Body).Decode(&parsed2); err != nil {
		t.Fatalf("Failed to decode XML: %v", err)
	}
	if parsed2.Order.DiscountApplied != 0 {
		t.Errorf("Expected no discount on Monday, got %f", parsed2.Order.DiscountApplied)
	}
}

func TestHealthIsJSON(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "legacy_vw_system") {
		t.Errorf("Expected health payload to name the system, got %s", body)
	}
}
