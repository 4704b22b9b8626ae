package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vanachal/fra-api/internal/analytics"
	apierrors "github.com/vanachal/fra-api/internal/errors"
	"github.com/vanachal/fra-api/internal/middleware"
	"github.com/vanachal/fra-api/internal/report"
)

// ReportHandler serves AI compliance reports. The generator may be nil
// when no provider is configured; report requests then return 503.
type ReportHandler struct {
	analytics *analytics.Service
	generator *report.Generator
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(svc *analytics.Service, generator *report.Generator) *ReportHandler {
	return &ReportHandler{
		analytics: svc,
		generator: generator,
	}
}

// District handles GET /api/report/:district.
// It looks up the district's fact bundle and hands it to the report
// generator; the engine itself contributes only numbers and categories.
func (h *ReportHandler) District(c *gin.Context) {
	log := middleware.GetLogger(c)
	district := c.Param("district")

	if h.generator == nil {
		apierrors.ServiceUnavailable(c, "Report generation is not configured; set OPENAI_API_KEY to enable it")
		return
	}

	facts, ok := h.analytics.DistrictFacts(district)
	if !ok {
		apierrors.NotFound(c, "No data found for district: "+district)
		return
	}

	if log != nil {
		log.Info("Generating district report", map[string]interface{}{
			"district":   district,
			"risk_level": string(facts.RiskLevel),
		})
	}

	rep, err := h.generator.Generate(c.Request.Context(), facts)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to generate report", err)
		return
	}

	c.JSON(http.StatusOK, rep)
}
