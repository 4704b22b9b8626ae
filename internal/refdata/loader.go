package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/models"
)

// Reference-data file names expected inside the configured data directory.
const (
	RegionZonesFile   = "region_zones.geojson"
	ReservedZonesFile = "reserved_zones.geojson"
	MockClaimsFile    = "mock_claims.geojson"
)

// featureCollection is the subset of GeoJSON we consume.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// Load reads the reference data from dir and returns the zone repository
// plus the historical claims used to seed baseline analytics.
//
// Zone files failing to load is recoverable: the repository comes back
// in degraded mode and every evaluation falls through to the capacity
// path. Seed-claim failures just leave the baseline empty. Neither is
// fatal.
func Load(dir string, log *logger.Logger) (*ZoneRepository, []models.Claim) {
	zones, err := loadRegionZones(filepath.Join(dir, RegionZonesFile))
	if err != nil {
		log.Warn("Region zone data unavailable, operating in fallback mode", map[string]interface{}{
			"file":  RegionZonesFile,
			"error": err.Error(),
		})
		return NewDegradedZoneRepository(), loadSeedClaims(filepath.Join(dir, MockClaimsFile), log)
	}

	reserved, err := loadReservedZones(filepath.Join(dir, ReservedZonesFile))
	if err != nil {
		log.Warn("Reserved zone data unavailable, operating in fallback mode", map[string]interface{}{
			"file":  ReservedZonesFile,
			"error": err.Error(),
		})
		return NewDegradedZoneRepository(), loadSeedClaims(filepath.Join(dir, MockClaimsFile), log)
	}

	log.Info("Reference geometries loaded", map[string]interface{}{
		"region_zones":   len(zones),
		"reserved_zones": len(reserved),
	})

	return NewZoneRepository(zones, reserved), loadSeedClaims(filepath.Join(dir, MockClaimsFile), log)
}

func readFeatureCollection(path string) (*featureCollection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &fc, nil
}

func loadRegionZones(path string) ([]models.RegionZone, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	zones := make([]models.RegionZone, 0, len(fc.Features))
	for i, f := range fc.Features {
		var props struct {
			District string  `json:"district"`
			Capacity float64 `json:"capacity"`
		}
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			return nil, fmt.Errorf("region zone feature %d: bad properties: %w", i, err)
		}
		if props.District == "" {
			return nil, fmt.Errorf("region zone feature %d: missing district", i)
		}

		var boundary models.Polygon
		if err := json.Unmarshal(f.Geometry, &boundary); err != nil {
			return nil, fmt.Errorf("region zone feature %d (%s): bad geometry: %w", i, props.District, err)
		}

		zones = append(zones, models.RegionZone{
			District: props.District,
			Boundary: boundary,
			Capacity: props.Capacity,
		})
	}
	return zones, nil
}

func loadReservedZones(path string) ([]models.ReservedZone, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	zones := make([]models.ReservedZone, 0, len(fc.Features))
	for i, f := range fc.Features {
		var props struct {
			District string `json:"district"`
			Name     string `json:"name"`
		}
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			return nil, fmt.Errorf("reserved zone feature %d: bad properties: %w", i, err)
		}
		if props.District == "" {
			return nil, fmt.Errorf("reserved zone feature %d: missing district", i)
		}

		var poly models.Polygon
		if err := json.Unmarshal(f.Geometry, &poly); err != nil {
			return nil, fmt.Errorf("reserved zone feature %d (%s): bad geometry: %w", i, props.District, err)
		}

		zones = append(zones, models.ReservedZone{
			District: props.District,
			Name:     props.Name,
			Polygon:  poly,
		})
	}
	return zones, nil
}

// loadSeedClaims reads the historical claim features used to seed the
// registry. These were decided before this system existed, so they keep
// their recorded status and flags and are never re-evaluated.
func loadSeedClaims(path string, log *logger.Logger) []models.Claim {
	fc, err := readFeatureCollection(path)
	if err != nil {
		log.Warn("Historical claim data unavailable, starting with empty baseline", map[string]interface{}{
			"file":  MockClaimsFile,
			"error": err.Error(),
		})
		return nil
	}

	claims := make([]models.Claim, 0, len(fc.Features))
	for i, f := range fc.Features {
		var props struct {
			Applicant     string  `json:"applicant_name"`
			District      string  `json:"district"`
			Village       string  `json:"village"`
			Status        string  `json:"status"`
			Area          float64 `json:"area"`
			Overlap       bool    `json:"overlap"`
			ProtectedZone bool    `json:"protected_zone"`
		}
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			log.Warn("Skipping malformed historical claim feature", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}

		claim := models.Claim{
			ApplicantName:     props.Applicant,
			District:          props.District,
			Village:           props.Village,
			AreaRequested:     props.Area,
			Status:            mapSeedStatus(props.Status),
			ConflictSeverity:  seedSeverity(props.ProtectedZone, props.Overlap),
			OverlapFlag:       props.Overlap,
			ProtectedZoneFlag: props.ProtectedZone,
			SubmittedAt:       time.Now().UTC(),
		}

		if len(f.Geometry) > 0 && string(f.Geometry) != "null" {
			var poly models.Polygon
			if err := json.Unmarshal(f.Geometry, &poly); err == nil && poly.IsValid() {
				claim.Geometry = &poly
			}
		}

		claims = append(claims, claim)
	}

	log.Info("Historical claims loaded", map[string]interface{}{
		"count": len(claims),
	})

	return claims
}

// mapSeedStatus translates the informal status strings of the historical
// data set onto the closed status set.
func mapSeedStatus(s string) models.ClaimStatus {
	switch s {
	case "Approved":
		return models.StatusApproved
	case "Rejected":
		return models.StatusRejected
	case "Pending":
		return models.StatusSubmitted
	case "Conflict":
		return models.StatusFlagged
	}
	if st := models.ClaimStatus(s); st.Valid() {
		return st
	}
	return models.StatusSubmitted
}

// seedSeverity assigns a nominal severity to historical claims, which
// predate the evaluator: reserved-area intrusions rank as absolute,
// plain overlaps as moderate-high, the rest as clean.
func seedSeverity(protectedZone, overlap bool) int {
	switch {
	case protectedZone:
		return 100
	case overlap:
		return 50
	default:
		return 0
	}
}
