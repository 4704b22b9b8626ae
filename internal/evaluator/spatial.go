package evaluator

import (
	"math"

	"github.com/vanachal/fra-api/internal/geometry"
	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/models"
)

// Severity thresholds for the three-tier spatial classification.
const (
	flaggedThreshold = 10 // severity above this is Flagged
	noiseFloor       = 1  // severity below this collapses to zero
)

// ZoneSource provides the immutable reference geometries the evaluator
// reads. Implemented by refdata.ZoneRepository.
type ZoneSource interface {
	ZoneFor(district string) (models.RegionZone, bool)
	ReservedZonesFor(district string) []models.ReservedZone
}

// SpatialEvaluator produces a conflict severity and recommended status
// for a claim geometry by checking, in order: containment in the region
// zone, reserved-zone intrusion, overlap with existing approved claim
// geometries, and cumulative capacity.
//
// Any geometry failure along the way recovers into the capacity-only
// path; the caller never sees a geometry error.
type SpatialEvaluator struct {
	zones    ZoneSource
	engine   geometry.Engine
	capacity *CapacityAccountant
	log      *logger.Logger
}

// NewSpatialEvaluator wires the evaluator with its zone source, geometry
// engine, and the capacity accountant it falls back to.
func NewSpatialEvaluator(zones ZoneSource, engine geometry.Engine, capacity *CapacityAccountant, log *logger.Logger) *SpatialEvaluator {
	return &SpatialEvaluator{
		zones:    zones,
		engine:   engine,
		capacity: capacity,
		log:      log,
	}
}

// Evaluate scores one submission against the district's reference
// geometries and the existing claims of the same district. existing may
// contain claims of any status; only Approved ones count.
func (e *SpatialEvaluator) Evaluate(district string, claimGeometry *models.Polygon, declaredArea float64, existing []models.Claim) Evaluation {
	zone, hasZone := e.zones.ZoneFor(district)
	if !hasZone || !claimGeometry.IsValid() {
		return e.capacityFallback(district, declaredArea, existing, nil, "no zone or unusable geometry")
	}

	// Containment: a claim wholly outside the designated zone is
	// terminal regardless of anything else.
	zoneHit, err := e.engine.Intersect(*claimGeometry, zone.Boundary)
	if err != nil {
		return e.capacityFallback(district, declaredArea, existing, &zone, err.Error())
	}
	if zoneHit == nil {
		e.log.Info("Claim outside designated zone", map[string]interface{}{
			"district": district,
		})
		return Evaluation{
			Status:   models.StatusFlagged,
			Severity: 100,
			Reason:   ReasonOutsideZone,
		}
	}

	// Reserved zones are an absolute constraint: any contact wins over
	// every later check, whatever the overlap magnitude.
	for _, reserved := range e.zones.ReservedZonesFor(district) {
		hit, err := e.engine.Intersect(*claimGeometry, reserved.Polygon)
		if err != nil {
			return e.capacityFallback(district, declaredArea, existing, &zone, err.Error())
		}
		if hit != nil {
			e.log.Info("Claim intrudes on reserved zone", map[string]interface{}{
				"district": district,
				"reserved": reserved.Name,
			})
			return Evaluation{
				Status:   models.StatusReservedViolation,
				Severity: 100,
				Reason:   ReasonReservedForest,
			}
		}
	}

	refLat := claimGeometry.CentroidLat()

	drawnSqDeg, err := e.engine.Area(*claimGeometry)
	if err != nil {
		return e.capacityFallback(district, declaredArea, existing, &zone, err.Error())
	}
	drawnArea := geometry.AcresFromSquareDegrees(drawnSqDeg, refLat)

	// Overlap against every approved claim geometry in the district.
	// Overlaps between the approved claims themselves are not
	// deduplicated; pairwise-overlapping approvals double-count here.
	totalOverlapSqDeg := 0.0
	approvedAreaSum := 0.0
	for _, c := range existing {
		if c.Status != models.StatusApproved {
			continue
		}
		approvedAreaSum += c.AreaRequested
		if c.Geometry == nil {
			continue
		}
		hit, err := e.engine.Intersect(*claimGeometry, *c.Geometry)
		if err != nil {
			return e.capacityFallback(district, declaredArea, existing, &zone, err.Error())
		}
		if hit != nil {
			totalOverlapSqDeg += hit.Area
		}
	}
	totalOverlapArea := geometry.AcresFromSquareDegrees(totalOverlapSqDeg, refLat)

	capacity := zone.Capacity
	if capacity <= 0 {
		capacity = DefaultDistrictCapacity
	}

	overlapPct := totalOverlapArea / capacity * 100

	capacityExcess := (approvedAreaSum + drawnArea) - capacity
	capacitySeverity := math.Max(0, capacityExcess/capacity*100)

	severityFig := math.Max(overlapPct, capacitySeverity)
	severity := clampSeverity(severityFig)
	if severity < noiseFloor {
		severity = 0
	}

	e.log.Debug("Spatial evaluation computed", map[string]interface{}{
		"district":          district,
		"drawn_area":        drawnArea,
		"overlap_area":      totalOverlapArea,
		"overlap_pct":       overlapPct,
		"capacity_severity": capacitySeverity,
		"severity":          severity,
	})

	switch {
	case severity > flaggedThreshold:
		reason := ReasonExceedsCapacity
		if overlapPct > flaggedThreshold {
			reason = ReasonHighOverlap
		}
		return Evaluation{Status: models.StatusFlagged, Severity: severity, Reason: reason}
	case severity > 0:
		return Evaluation{Status: models.StatusModerateConflict, Severity: severity, Reason: ReasonMinorConflict}
	default:
		// The spatial path's clean outcome still goes to administrative
		// review; only the capacity path approves directly.
		return Evaluation{Status: models.StatusUnderReview, Severity: 0, Reason: ReasonValidGeometry}
	}
}

// capacityFallback recovers from missing reference data or geometry
// failures by delegating to the capacity accountant with the declared
// area.
func (e *SpatialEvaluator) capacityFallback(district string, declaredArea float64, existing []models.Claim, zone *models.RegionZone, cause string) Evaluation {
	e.log.Warn("Falling back to capacity evaluation", map[string]interface{}{
		"district": district,
		"cause":    cause,
	})
	return e.capacity.Evaluate(district, declaredArea, existing, zone)
}
