package evaluator

import (
	"math"

	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/models"
)

// DefaultDistrictCapacity is used when a district has no region zone on
// record, in acres.
const DefaultDistrictCapacity = 500.0

// Reason strings attached to evaluations. These feed API responses and
// the reporting collaborator; the engine itself never builds prose.
const (
	ReasonOutsideZone     = "outside designated zone"
	ReasonReservedForest  = "inside reserved forest"
	ReasonHighOverlap     = "high overlap"
	ReasonExceedsCapacity = "exceeds district capacity"
	ReasonMinorConflict   = "minor intersection"
	ReasonValidGeometry   = "valid geometry"
	ReasonWithinCapacity  = "within district capacity"
)

// Evaluation is the immutable result of evaluating one submission.
type Evaluation struct {
	Status   models.ClaimStatus
	Severity int
	Reason   string
}

// CapacityAccountant performs the non-spatial conflict check: cumulative
// approved area plus the new request against the district capacity.
//
// This path deliberately has only two outcomes. Any nonzero excess,
// however small, flags the claim; there is no moderate tier here.
type CapacityAccountant struct {
	defaultCapacity float64
	log             *logger.Logger
}

// NewCapacityAccountant creates a capacity accountant. A non-positive
// defaultCapacity falls back to DefaultDistrictCapacity.
func NewCapacityAccountant(defaultCapacity float64, log *logger.Logger) *CapacityAccountant {
	if defaultCapacity <= 0 {
		defaultCapacity = DefaultDistrictCapacity
	}
	return &CapacityAccountant{
		defaultCapacity: defaultCapacity,
		log:             log,
	}
}

// Evaluate sums the declared area of the district's approved claims,
// adds the requested area, and compares against the zone capacity (or
// the default when zone is nil).
func (a *CapacityAccountant) Evaluate(district string, requestedArea float64, existing []models.Claim, zone *models.RegionZone) Evaluation {
	capacity := a.defaultCapacity
	if zone != nil && zone.Capacity > 0 {
		capacity = zone.Capacity
	}

	total := requestedArea
	for _, c := range existing {
		if c.Status == models.StatusApproved {
			total += c.AreaRequested
		}
	}

	if total <= capacity {
		a.log.Debug("Capacity check passed", map[string]interface{}{
			"district":  district,
			"requested": requestedArea,
			"total":     total,
			"capacity":  capacity,
		})
		return Evaluation{
			Status:   models.StatusApproved,
			Severity: 0,
			Reason:   ReasonWithinCapacity,
		}
	}

	excess := total - capacity
	severity := clampSeverity(round2(excess / capacity * 100))

	a.log.Info("Capacity exceeded", map[string]interface{}{
		"district": district,
		"total":    total,
		"capacity": capacity,
		"excess":   excess,
		"severity": severity,
	})

	return Evaluation{
		Status:   models.StatusFlagged,
		Severity: severity,
		Reason:   ReasonExceedsCapacity,
	}
}

// round2 rounds to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// clampSeverity rounds a severity figure to the stored integer scale
// and clamps it into [0, 100].
func clampSeverity(x float64) int {
	s := int(math.Round(x))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
