package handlers

import (
	"context"
	"net/http"
)

// Checker is anything that can report its own health
type Checker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports the status of each backing service
type HealthHandler struct {
	checks map[string]Checker
}

// NewHealthHandler creates a health handler; nil checkers are reported as disabled
func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	for name, check := range h.checks {
		if check == nil {
			status[name] = "disabled"
			continue
		}
		if err := check.Health(r.Context()); err != nil {
			status[name] = "down"
			status["status"] = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "up"
	}

	writeJSON(w, code, status)
}
