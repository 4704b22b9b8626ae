package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/models"
	"github.com/vanachal/fra-api/internal/registry"
)

// Service-level errors
var (
	// ErrValidation marks a submission rejected before any state change.
	ErrValidation = errors.New("validation failed")

	// Re-exported registry errors so handlers depend on one package.
	ErrClaimNotFound = registry.ErrClaimNotFound
	ErrStateConflict = registry.ErrStateConflict
)

// ClaimRegistry is the mutable claim collection the service writes to.
// Implemented by registry.Registry.
type ClaimRegistry interface {
	Create(req registry.CreateRequest) (models.Claim, error)
	Review(id uint, decision models.ClaimStatus) (models.Claim, error)
	List(district string) []models.Claim
}

// ZoneCatalog lists the immutable reference geometries.
// Implemented by refdata.ZoneRepository.
type ZoneCatalog interface {
	Zones(district string) []models.RegionZone
	ReservedZones(district string) []models.ReservedZone
}

// ReportInvalidator drops cached district reports after claim mutations.
// Implemented by report.Generator; may be nil when reporting is disabled.
type ReportInvalidator interface {
	Invalidate(district string)
}

// SubmitInput carries one submission. AreaRequested is required only
// when Geometry is absent; with geometry the evaluator measures the
// drawn area itself.
type SubmitInput struct {
	ApplicantName string
	District      string
	Village       string
	AreaRequested float64
	Geometry      *models.Polygon
}

// ClaimService defines the claim business operations.
type ClaimService interface {
	// SubmitClaim validates, evaluates and stores a new claim.
	// Returns ErrValidation when required fields are missing or malformed.
	SubmitClaim(ctx context.Context, input SubmitInput) (models.Claim, error)

	// ListClaims returns claims, optionally filtered by district.
	ListClaims(district string) []models.Claim

	// ReviewClaim applies an admin decision to a claim.
	// Returns ErrClaimNotFound for unknown identifiers and
	// ErrStateConflict for terminal claims or invalid decision values.
	ReviewClaim(ctx context.Context, id uint, decision string) (models.Claim, error)

	// GetZones returns region zones, optionally filtered by district.
	GetZones(district string) []models.RegionZone

	// GetReservedZones returns reserved zones, optionally filtered by district.
	GetReservedZones(district string) []models.ReservedZone
}

// claimService is the concrete implementation of ClaimService.
type claimService struct {
	registry ClaimRegistry
	zones    ZoneCatalog
	reports  ReportInvalidator
	log      *logger.Logger
}

// NewClaimService creates a new instance of ClaimService. reports may be
// nil when report generation is not configured.
func NewClaimService(reg ClaimRegistry, zones ZoneCatalog, reports ReportInvalidator, log *logger.Logger) ClaimService {
	return &claimService{
		registry: reg,
		zones:    zones,
		reports:  reports,
		log:      log,
	}
}

// SubmitClaim validates the input, then hands it to the registry, which
// runs the evaluator exactly once inside its critical section.
func (s *claimService) SubmitClaim(ctx context.Context, input SubmitInput) (models.Claim, error) {
	applicant := strings.TrimSpace(input.ApplicantName)
	district := strings.TrimSpace(input.District)

	if applicant == "" {
		return models.Claim{}, fmt.Errorf("%w: applicantName is required", ErrValidation)
	}
	if district == "" {
		return models.Claim{}, fmt.Errorf("%w: district is required", ErrValidation)
	}
	if input.AreaRequested < 0 {
		return models.Claim{}, fmt.Errorf("%w: areaRequested must be non-negative", ErrValidation)
	}
	if input.Geometry == nil && input.AreaRequested == 0 {
		return models.Claim{}, fmt.Errorf("%w: areaRequested is required when no geometry is provided", ErrValidation)
	}

	s.log.Info("Submitting claim", map[string]interface{}{
		"applicant":    applicant,
		"district":     district,
		"area":         input.AreaRequested,
		"has_geometry": input.Geometry != nil,
	})

	claim, err := s.registry.Create(registry.CreateRequest{
		ApplicantName: applicant,
		District:      district,
		Village:       strings.TrimSpace(input.Village),
		AreaRequested: input.AreaRequested,
		Geometry:      input.Geometry,
	})
	if err != nil {
		s.log.Error("Failed to store claim", err, map[string]interface{}{
			"applicant": applicant,
			"district":  district,
		})
		return models.Claim{}, fmt.Errorf("failed to store claim: %w", err)
	}

	s.invalidateReports(claim.District)

	return claim, nil
}

// ListClaims returns claims, optionally filtered by district.
func (s *claimService) ListClaims(district string) []models.Claim {
	return s.registry.List(strings.TrimSpace(district))
}

// ReviewClaim parses and applies an admin decision.
func (s *claimService) ReviewClaim(ctx context.Context, id uint, decision string) (models.Claim, error) {
	status := models.ClaimStatus(strings.TrimSpace(decision))

	claim, err := s.registry.Review(id, status)
	if err != nil {
		if errors.Is(err, ErrClaimNotFound) || errors.Is(err, ErrStateConflict) {
			return models.Claim{}, err
		}
		s.log.Error("Failed to review claim", err, map[string]interface{}{
			"claim_id": id,
			"decision": decision,
		})
		return models.Claim{}, fmt.Errorf("failed to review claim: %w", err)
	}

	s.invalidateReports(claim.District)

	return claim, nil
}

// GetZones returns region zones, optionally filtered by district.
func (s *claimService) GetZones(district string) []models.RegionZone {
	return s.zones.Zones(strings.TrimSpace(district))
}

// GetReservedZones returns reserved zones, optionally filtered by district.
func (s *claimService) GetReservedZones(district string) []models.ReservedZone {
	return s.zones.ReservedZones(strings.TrimSpace(district))
}

func (s *claimService) invalidateReports(district string) {
	if s.reports != nil {
		s.reports.Invalidate(district)
	}
}
