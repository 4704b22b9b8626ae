package analytics

import (
	"github.com/vanachal/fra-api/internal/logger"
	"github.com/vanachal/fra-api/internal/models"
)

// SnapshotSource supplies a consistent copy of the claim population.
// Implemented by registry.Registry.
type SnapshotSource interface {
	Snapshot() []models.Claim
}

// Service exposes the analytics views. Both the plain and the
// simulation-merged view share the Aggregate implementation; neither
// mutates the registry.
type Service struct {
	source SnapshotSource
	log    *logger.Logger
}

// NewService creates an analytics service over the given claim source.
func NewService(source SnapshotSource, log *logger.Logger) *Service {
	return &Service{
		source: source,
		log:    log,
	}
}

// Overview aggregates the registry population as-is.
func (s *Service) Overview() Report {
	return s.WithExtra(nil)
}

// WithExtra merges a secondary claim population into the snapshot
// before aggregating. The extras live only for this call.
func (s *Service) WithExtra(extra []models.Claim) Report {
	snapshot := s.source.Snapshot()
	if len(extra) > 0 {
		merged := make([]models.Claim, 0, len(snapshot)+len(extra))
		merged = append(merged, snapshot...)
		merged = append(merged, extra...)
		snapshot = merged
	}

	report := Aggregate(snapshot)

	s.log.Debug("Analytics aggregated", map[string]interface{}{
		"claims":    len(snapshot),
		"extra":     len(extra),
		"districts": len(report.Districts),
	})

	return report
}

// DistrictFacts returns the fact bundle for one district, or false when
// the district has no claims on record.
func (s *Service) DistrictFacts(district string) (DistrictRisk, bool) {
	report := s.Overview()
	for _, d := range report.Districts {
		if d.District == district {
			return d, true
		}
	}
	return DistrictRisk{}, false
}
