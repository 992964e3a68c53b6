// ABOUTME: Simulated cloud-native replacement backend, the migration target.
// ABOUTME: Serves the same catalog as the legacy system over fast JSON endpoints.
package cloud

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/automigrate/strangler-proxy/models"
)

type Part struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Price       float64 `json:"price"`
	Supplier    string  `json:"supplier"`
	Status      string  `json:"status"`
}

type Dealer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	Territory string `json:"territory"`
	Active    bool   `json:"active"`
	Contact   string `json:"contact"`
}

var inventoryDB = map[string]Part{
	"PART001": {ID: "PART001", Name: "Engine Block", Description: "High-performance engine component", Stock: 150, Price: 2500.50, Supplier: "BOSCH", Status: "active"},
	"PART002": {ID: "PART002", Name: "Transmission Unit", Description: "Automatic transmission assembly", Stock: 89, Price: 5000.00, Supplier: "ZF", Status: "active"},
	"PART003": {ID: "PART003", Name: "Brake Pads", Description: "Ceramic brake pads set", Stock: 450, Price: 180.00, Supplier: "BREMBO", Status: "active"},
	"PART004": {ID: "PART004", Name: "Battery", Description: "Lead-acid automotive battery", Stock: 220, Price: 350.00, Supplier: "EXIDE", Status: "active"},
}

var dealersDB = map[string]Dealer{
	"DEALER_DE_001": {ID: "DEALER_DE_001", Name: "Munich Motors", Country: "DE", Territory: "Bavaria", Active: true, Contact: "Fritz@munichm.com"},
	"DEALER_IN_001": {ID: "DEALER_IN_001", Name: "Delhi Auto Hub", Country: "IN", Territory: "Northern India", Active: true, Contact: "rajesh@deliauto.com"},
	"DEALER_US_001": {ID: "DEALER_US_001", Name: "Los Angeles Motors", Country: "US", Territory: "California", Active: true, Contact: "john@lautos.com"},
}

// Server simulates the cloud backend.
type Server struct {
	Now func() time.Time
}

func NewServer() *Server {
	return &Server{Now: time.Now}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleRoot)
	r.Get("/api/v1/health", s.handleHealth)
	r.Post("/api/v1/parts/get", s.handleGetPart)
	r.Post("/api/v1/dealers/get", s.handleGetDealer)
	r.Get("/api/v1/inventory/list", s.handleListInventory)
	r.Post("/api/v1/orders/create", s.handleCreateOrder)
	r.Get("/api/v1/metrics/system", s.handleSystemMetrics)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":    "ERROR",
		"message":   message,
		"timestamp": models.FormatTime(s.Now()),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service":   "VW Cloud Service",
		"version":   "1.0.0",
		"status":    "running",
		"timestamp": models.FormatTime(s.Now()),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"system":    "cloud_vw_system",
		"timestamp": models.FormatTime(s.Now()),
	})
}

func (s *Server) handleGetPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartNumber string `json:"part_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PartNumber == "" {
		s.writeError(w, http.StatusBadRequest, "part_number is required")
		return
	}

	slog.Info("Cloud part lookup", "part_number", req.PartNumber)

	part, ok := inventoryDB[req.PartNumber]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("Part %s not found", req.PartNumber))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "SUCCESS",
		"data":      map[string]interface{}{"part": part},
		"timestamp": models.FormatTime(s.Now()),
	})
}

func (s *Server) handleGetDealer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DealerID string `json:"dealer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DealerID == "" {
		s.writeError(w, http.StatusBadRequest, "dealer_id is required")
		return
	}

	slog.Info("Cloud dealer lookup", "dealer_id", req.DealerID)

	dealer, ok := dealersDB[req.DealerID]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("Dealer %s not found", req.DealerID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "SUCCESS",
		"data":      map[string]interface{}{"dealer": dealer},
		"timestamp": models.FormatTime(s.Now()),
	})
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	slog.Info("Cloud inventory listing")

	parts := make([]Part, 0, len(inventoryDB))
	for _, id := range []string{"PART001", "PART002", "PART003", "PART004"} {
		parts = append(parts, inventoryDB[id])
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "SUCCESS",
		"data": map[string]interface{}{
			"part_count": len(parts),
			"parts":      parts,
		},
		"timestamp": models.FormatTime(s.Now()),
	})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DealerID   string `json:"dealer_id"`
		PartNumber string `json:"part_number"`
		Quantity   int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid order payload")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	slog.Info("Cloud order creation", "dealer_id", req.DealerID, "part_number", req.PartNumber, "quantity", req.Quantity)

	if _, ok := dealersDB[req.DealerID]; !ok {
		s.writeError(w, http.StatusNotFound, "Dealer not found")
		return
	}
	part, ok := inventoryDB[req.PartNumber]
	if !ok {
		s.writeError(w, http.StatusNotFound, "Part not found")
		return
	}
	if part.Stock < req.Quantity {
		s.writeError(w, http.StatusBadRequest, "Insufficient stock")
		return
	}

	// Same pricing rule as the legacy system
	now := s.Now()
	isFriday := now.Weekday() == time.Friday
	isGermanDealer := strings.HasSuffix(req.DealerID, "_DE_001")
	partExpensive := part.Price > 1000

	discount := 0.0
	if isFriday && isGermanDealer && partExpensive {
		discount = 0.02
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "SUCCESS",
		"data": map[string]interface{}{
			"order": map[string]interface{}{
				"order_id":            fmt.Sprintf("ORD-%d", now.Unix()),
				"dealer_id":           req.DealerID,
				"part_number":         req.PartNumber,
				"quantity":            req.Quantity,
				"discount_applied":    discount,
				"discount_percentage": discount * 100,
				"created_at":          models.FormatTime(now),
			},
		},
		"timestamp": models.FormatTime(now),
	})
}

func (s *Server) handleSystemMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"system":            "cloud_vw_system",
		"status":            "running",
		"api_version":       "1.0",
		"database":          "Cloud Firestore",
		"response_time_avg": "<100ms",
		"uptime":            "24/7",
		"last_update":       models.FormatTime(s.Now()),
	})
}
