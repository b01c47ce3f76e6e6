package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"solsight/pkg/logger"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// Checker is a dependency that can report whether it is reachable
type Checker interface {
	Health(ctx context.Context) error
}

// Check is a named Checker
type Check struct {
	Name    string
	Checker Checker
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	checks      []Check
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler. Checks run in the given order.
func New(log *logger.Logger, serviceName, version string, checks ...Check) *Handler {
	return &Handler{
		log:         log.With("handler", "health"),
		checks:      checks,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status      string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service     string                     `json:"service"`
	Version     string                     `json:"version"`
	Uptime      string                     `json:"uptime"`
	Timestamp   string                     `json:"timestamp"`
	Checks      map[string]ComponentHealth `json:"checks"`
	ErrorDetail string                     `json:"error_detail,omitempty"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if service is running
// Used by Kubernetes liveness probe
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

// HandleReadiness checks if every dependency is reachable
// Used by Kubernetes readiness probe
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	status := h.status(checks)

	statusCode := http.StatusOK
	if healthy < len(h.checks) {
		status.Status = statusUnhealthy
		statusCode = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", checks)
	}

	writeStatus(w, statusCode, status)
}

// HandleHealth returns detailed health status (includes all checks)
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	status := h.status(checks)

	statusCode := http.StatusOK
	switch {
	case len(h.checks) > 0 && healthy == 0:
		status.Status = statusUnhealthy
		statusCode = http.StatusServiceUnavailable
	case healthy < len(h.checks):
		// still 200 for degraded
		status.Status = statusDegraded
	}

	writeStatus(w, statusCode, status)
}

func (h *Handler) status(checks map[string]ComponentHealth) HealthStatus {
	return HealthStatus{
		Status:    statusHealthy,
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    checks,
	}
}

func (h *Handler) runChecks(ctx context.Context) (map[string]ComponentHealth, int) {
	results := make(map[string]ComponentHealth, len(h.checks))
	healthy := 0
	for _, c := range h.checks {
		res := h.check(ctx, c)
		results[c.Name] = res
		if res.Status == statusHealthy {
			healthy++
		}
	}
	return results, healthy
}

// check pings a single dependency
func (h *Handler) check(ctx context.Context, c Check) ComponentHealth {
	start := time.Now()
	err := c.Checker.Health(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Errorw("Health check failed", "component", c.Name, "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       statusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       statusHealthy,
		ResponseTime: elapsed.String(),
	}
}

func writeStatus(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
