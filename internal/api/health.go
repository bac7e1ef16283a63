package api

import (
	"net/http"
	"time"

	respond "github.com/habitline/habitline/server/internal/api/respond"
)

// HealthReporter exposes cached service health.
type HealthReporter interface {
	IsHealthy() bool
	Components() map[string]bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	reporter HealthReporter
}

// NewHealthHandler creates a new health handler. A nil reporter reports unhealthy.
func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// CheckHealth handles GET /api/health
// Returns 200 when healthy and 503 otherwise; the body lists component state.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "unhealthy", http.StatusServiceUnavailable
	components := map[string]string{}
	if h.reporter != nil {
		if h.reporter.IsHealthy() {
			status, code = "healthy", http.StatusOK
		}
		for name, ok := range h.reporter.Components() {
			components[name] = "down"
			if ok {
				components[name] = "up"
			}
		}
	}
	respond.WriteJSON(w, code, map[string]interface{}{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
