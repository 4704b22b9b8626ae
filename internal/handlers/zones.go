package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vanachal/fra-api/internal/models"
	"github.com/vanachal/fra-api/internal/services"
)

// ZonesHandler serves the immutable reference geometries.
type ZonesHandler struct {
	service services.ClaimService
}

// NewZonesHandler creates a new ZonesHandler instance.
func NewZonesHandler(service services.ClaimService) *ZonesHandler {
	return &ZonesHandler{
		service: service,
	}
}

// ZoneListResponse wraps a region-zone listing.
type ZoneListResponse struct {
	Zones []models.RegionZone `json:"zones"`
	Count int                 `json:"count"`
}

// ReservedZoneListResponse wraps a reserved-zone listing.
type ReservedZoneListResponse struct {
	ReservedZones []models.ReservedZone `json:"reservedZones"`
	Count         int                   `json:"count"`
}

// Zones handles GET /api/zones with an optional ?district= filter.
func (h *ZonesHandler) Zones(c *gin.Context) {
	zones := h.service.GetZones(c.Query("district"))

	c.JSON(http.StatusOK, ZoneListResponse{
		Zones: zones,
		Count: len(zones),
	})
}

// ReservedZones handles GET /api/reserved-zones with an optional
// ?district= filter.
func (h *ZonesHandler) ReservedZones(c *gin.Context) {
	zones := h.service.GetReservedZones(c.Query("district"))

	c.JSON(http.StatusOK, ReservedZoneListResponse{
		ReservedZones: zones,
		Count:         len(zones),
	})
}
