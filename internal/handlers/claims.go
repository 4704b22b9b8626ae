package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/vanachal/fra-api/internal/errors"
	"github.com/vanachal/fra-api/internal/middleware"
	"github.com/vanachal/fra-api/internal/models"
	"github.com/vanachal/fra-api/internal/services"
)

// ClaimsHandler handles claim-related HTTP requests.
type ClaimsHandler struct {
	service services.ClaimService
}

// NewClaimsHandler creates a new ClaimsHandler instance.
func NewClaimsHandler(service services.ClaimService) *ClaimsHandler {
	return &ClaimsHandler{
		service: service,
	}
}

// SubmitClaimRequest is the JSON body for claim submission.
// areaRequested may be zero when a geometry is supplied; the service
// enforces the conditional requirement.
type SubmitClaimRequest struct {
	ApplicantName string          `json:"applicantName" binding:"required"`
	District      string          `json:"district" binding:"required"`
	Village       string          `json:"village"`
	AreaRequested float64         `json:"areaRequested" binding:"omitempty,gte=0"`
	Geometry      *models.Polygon `json:"geometry"`
}

// ReviewClaimRequest is the JSON body for the admin review operation.
type ReviewClaimRequest struct {
	Decision string `json:"decision" binding:"required,oneof=Approved Rejected"`
}

// ClaimResponse wraps a single claim.
type ClaimResponse struct {
	Claim models.Claim `json:"claim"`
}

// ClaimListResponse wraps a claim listing.
type ClaimListResponse struct {
	Claims []models.Claim `json:"claims"`
	Count  int            `json:"count"`
}

// Submit handles POST /api/claims.
// It evaluates and stores a new claim, returning the full record with
// its assigned status and conflict severity.
func (h *ClaimsHandler) Submit(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing claim submission", map[string]interface{}{
			"district":     req.District,
			"has_geometry": req.Geometry != nil,
		})
	}

	claim, err := h.service.SubmitClaim(c.Request.Context(), services.SubmitInput{
		ApplicantName: req.ApplicantName,
		District:      req.District,
		Village:       req.Village,
		AreaRequested: req.AreaRequested,
		Geometry:      req.Geometry,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to submit claim", err)
		return
	}

	c.JSON(http.StatusCreated, ClaimResponse{Claim: claim})
}

// List handles GET /api/claims.
// Accepts an optional ?district= filter.
func (h *ClaimsHandler) List(c *gin.Context) {
	claims := h.service.ListClaims(c.Query("district"))

	c.JSON(http.StatusOK, ClaimListResponse{
		Claims: claims,
		Count:  len(claims),
	})
}

// Review handles POST /api/claims/:id/review.
// Applies an Approved/Rejected decision; conflict severity is never
// recomputed by review.
func (h *ClaimsHandler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Claim id must be a positive integer", nil)
		return
	}

	var req ReviewClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	claim, err := h.service.ReviewClaim(c.Request.Context(), uint(id), req.Decision)
	if err != nil {
		if errors.Is(err, services.ErrClaimNotFound) {
			apierrors.NotFound(c, "No claim found with this id")
			return
		}
		if errors.Is(err, services.ErrStateConflict) {
			apierrors.StateConflict(c, err.Error())
			return
		}
		apierrors.InternalServerError(c, "Failed to review claim", err)
		return
	}

	c.JSON(http.StatusOK, ClaimResponse{Claim: claim})
}
