package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Probe reports whether one dependency is reachable.
type Probe func(ctx context.Context) error

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	version  string
	started  time.Time
	probes   map[string]Probe
	critical map[string]bool
}

// NewHealthHandlers creates health handlers for the given dependency probes.
// Readiness fails only when a critical probe fails.
func NewHealthHandlers(version string, probes map[string]Probe, critical ...string) *HealthHandlers {
	crit := make(map[string]bool, len(critical))
	for _, name := range critical {
		crit[name] = true
	}
	return &HealthHandlers{version: version, started: time.Now(), probes: probes, critical: crit}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

func (h *HealthHandlers) run(ctx context.Context) (map[string]error, []string) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]error, len(names))
	for _, name := range names {
		results[name] = h.probes[name](ctx)
	}
	return results, names
}

// HealthCheck handles GET /health. A failing dependency degrades the status to 206.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	results, names := h.run(c.Request().Context())
	for _, name := range names {
		if err := results[name]; err != nil {
			c.Logger().Warnf("health check %s failed: %v", name, err)
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
			continue
		}
		health.Services[name] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck handles GET /health/ready
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	results, names := h.run(c.Request().Context())
	for _, name := range names {
		if results[name] != nil && h.critical[name] {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "not_ready",
				"message": "Critical services unavailable",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck handles GET /health/live
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
