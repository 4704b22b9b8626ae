package refdata

import (
	"github.com/vanachal/fra-api/internal/models"
)

// ZoneRepository holds the immutable reference geometries loaded at
// startup: one region zone per district plus zero or more reserved
// zones. All reads are lock-free; nothing mutates after construction.
//
// A repository in degraded mode answers "absent" for every lookup,
// which pushes the whole system onto the non-spatial fallback path
// instead of failing requests.
type ZoneRepository struct {
	zones         map[string]models.RegionZone
	reserved      map[string][]models.ReservedZone
	zoneOrder     []string
	reservedOrder []string
	degraded      bool
}

// NewZoneRepository builds a repository from loaded reference data.
func NewZoneRepository(zones []models.RegionZone, reserved []models.ReservedZone) *ZoneRepository {
	repo := &ZoneRepository{
		zones:    make(map[string]models.RegionZone, len(zones)),
		reserved: make(map[string][]models.ReservedZone),
	}
	for _, z := range zones {
		if _, exists := repo.zones[z.District]; !exists {
			repo.zoneOrder = append(repo.zoneOrder, z.District)
		}
		repo.zones[z.District] = z
	}
	for _, r := range reserved {
		if _, exists := repo.reserved[r.District]; !exists {
			repo.reservedOrder = append(repo.reservedOrder, r.District)
		}
		repo.reserved[r.District] = append(repo.reserved[r.District], r)
	}
	return repo
}

// NewDegradedZoneRepository returns a repository that answers "absent"
// for every district. Used when the reference data failed to load.
func NewDegradedZoneRepository() *ZoneRepository {
	repo := NewZoneRepository(nil, nil)
	repo.degraded = true
	return repo
}

// ZoneFor returns the region zone for a district, if one exists.
func (r *ZoneRepository) ZoneFor(district string) (models.RegionZone, bool) {
	z, ok := r.zones[district]
	return z, ok
}

// ReservedZonesFor returns the reserved zones of a district.
// Returns an empty slice when the district has none.
func (r *ZoneRepository) ReservedZonesFor(district string) []models.ReservedZone {
	return r.reserved[district]
}

// Zones lists region zones, optionally filtered by district.
// Order matches the reference-data file.
func (r *ZoneRepository) Zones(district string) []models.RegionZone {
	out := make([]models.RegionZone, 0, len(r.zones))
	for _, name := range r.zoneOrder {
		if district != "" && name != district {
			continue
		}
		out = append(out, r.zones[name])
	}
	return out
}

// ReservedZones lists reserved zones, optionally filtered by district.
func (r *ZoneRepository) ReservedZones(district string) []models.ReservedZone {
	if district != "" {
		out := make([]models.ReservedZone, len(r.reserved[district]))
		copy(out, r.reserved[district])
		return out
	}
	out := make([]models.ReservedZone, 0)
	for _, name := range r.reservedOrder {
		out = append(out, r.reserved[name]...)
	}
	return out
}

// Degraded reports whether the repository is running without reference
// data.
func (r *ZoneRepository) Degraded() bool {
	return r.degraded
}
