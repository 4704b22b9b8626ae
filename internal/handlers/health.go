package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vanachal/fra-api/internal/refdata"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
)

// ClaimCounter reports the size of the claim population.
// Implemented by registry.Registry.
type ClaimCounter interface {
	Count() int
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	zones     *refdata.ZoneRepository
	claims    ClaimCounter
	startTime time.Time
	env       string
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(zones *refdata.ZoneRepository, claims ClaimCounter, env string) *HealthHandler {
	return &HealthHandler{
		zones:     zones,
		claims:    claims,
		startTime: time.Now(),
		env:       env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status        string `json:"status"`
	ReferenceData string `json:"reference_data"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
	ClaimCount  int    `json:"claim_count"`
}

// Health handles GET /api/health.
// Basic liveness check that always returns 200 OK.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /api/health/ready.
// The service stays ready even without reference data, since the whole
// system degrades to the capacity fallback; the mode is reported so
// operators can see it.
func (h *HealthHandler) Ready(c *gin.Context) {
	mode := "loaded"
	if h.zones.Degraded() {
		mode = "degraded"
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:        "ready",
		ReferenceData: mode,
	})
}

// Info handles GET /api/info.
// Returns API metadata including version, environment, and uptime.
func (h *HealthHandler) Info(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(uptime),
		ClaimCount:  h.claims.Count(),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
