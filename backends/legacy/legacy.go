// ABOUTME: Simulated 1995-era inventory system used as the migration source.
// ABOUTME: Serves XML over slow endpoints backed by a static in-memory catalog.
package legacy

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/automigrate/strangler-proxy/models"
)

// Part is a catalog entry in the legacy schema. Field names mirror the
// original database columns.
type Part struct {
	PartNo   string  `xml:"PART_NO"`
	PartName string  `xml:"PART_NAME"`
	PartDesc string  `xml:"PART_DESC"`
	StockQty int     `xml:"STOCK_QTY"`
	Price    float64 `xml:"PRICE"`
	Supplier string  `xml:"SUPPLIER"`
	Status   string  `xml:"STATUS"`
}

type Dealer struct {
	DealerID   string `xml:"DEALER_ID"`
	DealerName string `xml:"DEALER_NAME"`
	Country    string `xml:"COUNTRY"`
	Territory  string `xml:"TERRITORY"`
	Active     bool   `xml:"ACTIVE"`
	Contact    string `xml:"CONTACT"`
}

var inventoryDB = map[string]Part{
	"PART001": {PartNo: "PART001", PartName: "Engine Block", PartDesc: "High-performance engine component", StockQty: 150, Price: 2500.50, Supplier: "BOSCH", Status: "ACTIVE"},
	"PART002": {PartNo: "PART002", PartName: "Transmission Unit", PartDesc: "Automatic transmission assembly", StockQty: 89, Price: 5000.00, Supplier: "ZF", Status: "ACTIVE"},
	"PART003": {PartNo: "PART003", PartName: "Brake Pads", PartDesc: "Ceramic brake pads set", StockQty: 450, Price: 180.00, Supplier: "BREMBO", Status: "ACTIVE"},
	"PART004": {PartNo: "PART004", PartName: "Battery", PartDesc: "Lead-acid automotive battery", StockQty: 220, Price: 350.00, Supplier: "EXIDE", Status: "ACTIVE"},
}

var dealersDB = map[string]Dealer{
	"DEALER_DE_001": {DealerID: "DEALER_DE_001", DealerName: "Munich Motors", Country: "DE", Territory: "Bavaria", Active: true, Contact: "Fritz@munichm.com"},
	"DEALER_IN_001": {DealerID: "DEALER_IN_001", DealerName: "Delhi Auto Hub", Country: "IN", Territory: "Northern India", Active: true, Contact: "rajesh@deliauto.com"},
	"DEALER_US_001": {DealerID: "DEALER_US_001", DealerName: "Los Angeles Motors", Country: "US", Territory: "California", Active: true, Contact: "john@lautos.com"},
}

type partResponse struct {
	XMLName   xml.Name `xml:"PartResponse"`
	Status    string   `xml:"status"`
	Part      *Part    `xml:"part,omitempty"`
	Message   string   `xml:"message,omitempty"`
	Timestamp string   `xml:"timestamp"`
}

type dealerResponse struct {
	XMLName   xml.Name `xml:"DealerResponse"`
	Status    string   `xml:"status"`
	Dealer    *Dealer  `xml:"dealer,omitempty"`
	Message   string   `xml:"message,omitempty"`
	Timestamp string   `xml:"timestamp"`
}

type inventoryResponse struct {
	XMLName   xml.Name `xml:"InventoryResponse"`
	Status    string   `xml:"status"`
	PartCount int      `xml:"part_count"`
	Parts     []Part   `xml:"parts>item"`
	Timestamp string   `xml:"timestamp"`
}

type order struct {
	OrderID            string  `xml:"order_id"`
	DealerID           string  `xml:"dealer_id"`
	PartNumber         string  `xml:"part_number"`
	Quantity           int     `xml:"quantity"`
	DiscountApplied    float64 `xml:"discount_applied"`
	DiscountPercentage float64 `xml:"discount_percentage"`
	CreatedAt          string  `xml:"created_at"`
}

type orderResponse struct {
	XMLName   xml.Name `xml:"OrderResponse"`
	Status    string   `xml:"status"`
	Order     *order   `xml:"order,omitempty"`
	Message   string   `xml:"message,omitempty"`
	Timestamp string   `xml:"timestamp"`
}

// Server simulates the legacy backend. BaseLatency scales the simulated
// database delays; zero disables them entirely, which tests rely on.
type Server struct {
	BaseLatency time.Duration
	Now         func() time.Time
}

func NewServer(baseLatency time.Duration) *Server {
	return &Server{
		BaseLatency: baseLatency,
		Now:         time.Now,
	}
}

// Routes builds the legacy HTTP surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/inventory/get_part", s.handleGetPart)
	r.Post("/dealer/get_details", s.handleGetDealer)
	r.Get("/inventory/list_all", s.handleListInventory)
	r.Post("/orders/create", s.handleCreateOrder)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics/system", s.handleSystemMetrics)
	return r
}

// simulateSlowDatabase blocks for factor times the base latency with jitter.
func (s *Server) simulateSlowDatabase(factor float64) {
	if s.BaseLatency <= 0 {
		return
	}
	jitter := 0.85 + rand.Float64()*0.4
	time.Sleep(time.Duration(float64(s.BaseLatency) * factor * jitter))
}

func writeXML(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	if err := xml.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode XML response", "error", err)
	}
}

func (s *Server) handleGetPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartNumber string `json:"part_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.PartNumber = "UNKNOWN"
	}

	slog.Info("Legacy part lookup", "part_number", req.PartNumber)
	s.simulateSlowDatabase(2.0)

	ts := models.FormatTime(s.Now())
	if part, ok := inventoryDB[req.PartNumber]; ok {
		writeXML(w, http.StatusOK, partResponse{Status: "SUCCESS", Part: &part, Timestamp: ts})
		return
	}
	writeXML(w, http.StatusOK, partResponse{
		Status:    "ERROR",
		Message:   fmt.Sprintf("Part %s not found", req.PartNumber),
		Timestamp: ts,
	})
}

func (s *Server) handleGetDealer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DealerID string `json:"dealer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.DealerID = "UNKNOWN"
	}

	slog.Info("Legacy dealer lookup", "dealer_id", req.DealerID)
	s.simulateSlowDatabase(1.5)

	ts := models.FormatTime(s.Now())
	if dealer, ok := dealersDB[req.DealerID]; ok {
		writeXML(w, http.StatusOK, dealerResponse{Status: "SUCCESS", Dealer: &dealer, Timestamp: ts})
		return
	}
	writeXML(w, http.StatusOK, dealerResponse{
		Status:    "ERROR",
		Message:   fmt.Sprintf("Dealer %s not found", req.DealerID),
		Timestamp: ts,
	})
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	slog.Info("Legacy full inventory scan")
	s.simulateSlowDatabase(2.5)

	parts := make([]Part, 0, len(inventoryDB))
	for _, id := range []string{"PART001", "PART002", "PART003", "PART004"} {
		parts = append(parts, inventoryDB[id])
	}

	writeXML(w, http.StatusOK, inventoryResponse{
		Status:    "SUCCESS",
		PartCount: len(parts),
		Parts:     parts,
		Timestamp: models.FormatTime(s.Now()),
	})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DealerID   string `json:"dealer_id"`
		PartNumber string `json:"part_number"`
		Quantity   int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeXML(w, http.StatusOK, orderResponse{
			Status:    "ERROR",
			Message:   "Invalid order payload",
			Timestamp: models.FormatTime(s.Now()),
		})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	slog.Info("Legacy order creation", "dealer_id", req.DealerID, "part_number", req.PartNumber, "quantity", req.Quantity)

	// Validate dealer, check inventory, calculate discount, generate order
	// number, write to database. Each step is its own round trip.
	s.simulateSlowDatabase(0.5)
	s.simulateSlowDatabase(0.8)
	s.simulateSlowDatabase(0.3)
	s.simulateSlowDatabase(0.7)
	s.simulateSlowDatabase(0.7)

	now := s.Now()
	discount := s.orderDiscount(now, req.DealerID, req.PartNumber)

	writeXML(w, http.StatusOK, orderResponse{
		Status: "SUCCESS",
		Order: &order{
			OrderID:            fmt.Sprintf("ORD-%d", now.Unix()),
			DealerID:           req.DealerID,
			PartNumber:         req.PartNumber,
			Quantity:           req.Quantity,
			DiscountApplied:    discount,
			DiscountPercentage: discount * 100,
			CreatedAt:          models.FormatTime(now),
		},
		Timestamp: models.FormatTime(now),
	})
}

// orderDiscount applies the undocumented pricing rule carried over from the
// original system: German dealers ordering parts above 1000 on a Friday get 2%.
func (s *Server) orderDiscount(now time.Time, dealerID, partNo string) float64 {
	isFriday := now.Weekday() == time.Friday
	isGermanDealer := strings.HasSuffix(dealerID, "_DE_001")
	partExpensive := inventoryDB[partNo].Price > 1000

	if isFriday && isGermanDealer && partExpensive {
		return 0.02
	}
	return 0
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"system":    "legacy_vw_system",
		"timestamp": models.FormatTime(s.Now()),
	})
}

func (s *Server) handleSystemMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"system":            "legacy_vw_inventory",
		"status":            "running",
		"api_version":       "1.0",
		"database":          "Oracle 8i",
		"response_time_avg": "2500ms",
		"uptime":            "423 days",
		"last_backup":       "2024-01-15T02:30:00Z",
	})
}
