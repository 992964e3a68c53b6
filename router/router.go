// ABOUTME: Strangler-pattern request router splitting traffic between backends.
// ABOUTME: Each call draws against the migration percentage and logs the outcome.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/automigrate/strangler-proxy/config"
	"github.com/automigrate/strangler-proxy/metrics"
	"github.com/automigrate/strangler-proxy/models"
	"github.com/automigrate/strangler-proxy/store"
)

// cloudEndpointMap translates proxy endpoint names to cloud API paths.
// Endpoints not listed fall back to /api/v1/{endpoint}.
var cloudEndpointMap = map[string]string{
	"inventory/get_part": "api/v1/parts/get",
	"dealer/get_details": "api/v1/dealers/get",
	"inventory/list_all": "api/v1/inventory/list",
	"orders/create":      "api/v1/orders/create",
}

// Router decides per request whether to call the legacy or cloud backend.
type Router struct {
	legacyURL string
	cloudURL  string
	client    *http.Client
	store     *store.Store
	metrics   *metrics.Metrics
	routeMap  config.RouteMap

	// draw returns a value in [0,1). Overridable for deterministic tests.
	draw func() float64
}

func New(cfg *config.Config, st *store.Store, m *metrics.Metrics, routeMap config.RouteMap) *Router {
	return &Router{
		legacyURL: cfg.LegacyURL,
		cloudURL:  cfg.CloudURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.BackendTimeout) * time.Second,
		},
		store:    st,
		metrics:  m,
		routeMap: routeMap,
		draw:     rand.Float64,
	}
}

// ShouldUseCloud draws once against the current migration percentage.
// At 0 it never selects cloud, at 100 it always does.
func (rt *Router) ShouldUseCloud() bool {
	return rt.draw()*100 < rt.store.Percentage()
}

// Route dispatches one request to the backend selected by this call's draw.
// Exactly one history record is logged per call, success or failure.
func (rt *Router) Route(ctx context.Context, endpoint, method string, data interface{}) models.RouteResult {
	start := time.Now()

	useCloud := rt.ShouldUseCloud()
	source := models.SourceLegacy
	if useCloud {
		source = models.SourceCloud
	}

	slog.Info("Routing request", "endpoint", endpoint, "source", source)

	var response interface{}
	var err error
	if useCloud {
		response, err = rt.callCloud(ctx, endpoint, method, data)
	} else {
		response, err = rt.callLegacy(ctx, endpoint, method, data)
	}

	elapsed := time.Since(start)
	responseMS := float64(elapsed.Microseconds()) / 1000

	if err != nil {
		rt.store.Log(endpoint, responseMS, source, err.Error(), data, nil)
		rt.metrics.RecordProxyRequest(source, "error")
		rt.metrics.ObserveProxyDuration(source, elapsed.Seconds())

		slog.Error("Backend call failed", "endpoint", endpoint, "source", source, "error", err)

		return models.RouteResult{
			Success:        false,
			Error:          err.Error(),
			Source:         source,
			ResponseTimeMS: round2(responseMS),
			Timestamp:      models.FormatTime(time.Now()),
		}
	}

	rt.store.Log(endpoint, responseMS, source, "", data, response)
	rt.metrics.RecordProxyRequest(source, "success")
	rt.metrics.ObserveProxyDuration(source, elapsed.Seconds())

	return models.RouteResult{
		Success:        true,
		Data:           response,
		Source:         source,
		ResponseTimeMS: round2(responseMS),
		Timestamp:      models.FormatTime(time.Now()),
	}
}

// callLegacy calls the legacy backend and returns the raw body text. The
// legacy system speaks XML, so the payload is surfaced verbatim rather
// than decoded.
func (rt *Router) callLegacy(ctx context.Context, endpoint, method string, data interface{}) (interface{}, error) {
	path := endpoint
	if override, ok := rt.routeMap.Legacy[endpoint]; ok {
		path = override
	}
	url := fmt.Sprintf("%s/%s", rt.legacyURL, path)

	body, err := rt.do(ctx, method, url, data)
	if err != nil {
		return nil, err
	}
	return string(body), nil
}

// callCloud calls the cloud backend and returns the decoded JSON payload.
func (rt *Router) callCloud(ctx context.Context, endpoint, method string, data interface{}) (interface{}, error) {
	path, ok := rt.routeMap.Cloud[endpoint]
	if !ok {
		path, ok = cloudEndpointMap[endpoint]
		if !ok {
			path = fmt.Sprintf("api/v1/%s", endpoint)
		}
	}
	url := fmt.Sprintf("%s/%s", rt.cloudURL, path)

	body, err := rt.do(ctx, method, url, data)
	if err != nil {
		return nil, err
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding cloud response: %w", err)
	}
	return decoded, nil
}

func (rt *Router) do(ctx context.Context, method, url string, data interface{}) ([]byte, error) {
	var reqBody io.Reader
	if method == http.MethodPost {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := rt.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
