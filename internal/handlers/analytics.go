package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/vanachal/fra-api/internal/analytics"
	apierrors "github.com/vanachal/fra-api/internal/errors"
	"github.com/vanachal/fra-api/internal/middleware"
	"github.com/vanachal/fra-api/internal/models"
)

// AnalyticsHandler serves the risk-analytics views.
type AnalyticsHandler struct {
	analytics *analytics.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance.
func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: svc,
	}
}

// SimulateRequest carries a secondary claim population to merge into the
// snapshot before aggregating. The registry is not mutated.
type SimulateRequest struct {
	Claims []models.Claim `json:"claims" binding:"required"`
}

// Overview handles GET /api/analytics.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.Overview())
}

// Simulate handles POST /api/analytics/simulate.
// Merges the supplied claims with the registry snapshot and aggregates
// through the same single implementation as Overview.
func (h *AnalyticsHandler) Simulate(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing simulated analytics request", map[string]interface{}{
			"extra_claims": len(req.Claims),
		})
	}

	c.JSON(http.StatusOK, h.analytics.WithExtra(req.Claims))
}
