package models

import (
	"encoding/json"
	"fmt"
)

// Polygon represents a GeoJSON Polygon geometry.
// Coordinates follow the GeoJSON structure: [rings][points][lon,lat],
// with the first ring as the outer boundary and any further rings as holes.
// SRID 4326 (WGS84) is assumed for all reference and claim geometry.
type Polygon struct {
	Coordinates [][][2]float64
	SRID        int
}

// MarshalJSON implements json.Marshaler for API responses.
// Returns GeoJSON-compliant format for frontend consumption.
func (p Polygon) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{
		Type:        "Polygon",
		Coordinates: p.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input,
// both from submitted claims and from the reference-data files.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon: %w", err)
	}

	if geom.Type != "" && geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = 4326

	return nil
}

// IsValid reports whether the polygon is structurally usable: at least
// one ring with enough points to close a surface. Anything else routes
// the claim down the non-spatial fallback path.
func (p *Polygon) IsValid() bool {
	if p == nil || len(p.Coordinates) == 0 {
		return false
	}
	return len(p.Coordinates[0]) >= 4
}

// CentroidLat returns the mean latitude of the outer ring. Used to pick
// the longitude scale when converting planar degree areas to acres.
func (p Polygon) CentroidLat() float64 {
	if len(p.Coordinates) == 0 || len(p.Coordinates[0]) == 0 {
		return 0
	}
	sum := 0.0
	for _, pt := range p.Coordinates[0] {
		sum += pt[1]
	}
	return sum / float64(len(p.Coordinates[0]))
}

// Clone returns a deep copy of the polygon.
func (p Polygon) Clone() Polygon {
	out := Polygon{SRID: p.SRID}
	if p.Coordinates == nil {
		return out
	}
	out.Coordinates = make([][][2]float64, len(p.Coordinates))
	for i, ring := range p.Coordinates {
		out.Coordinates[i] = make([][2]float64, len(ring))
		copy(out.Coordinates[i], ring)
	}
	return out
}
