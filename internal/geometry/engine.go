package geometry

import (
	"encoding/json"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/vanachal/fra-api/internal/models"
)

// Intersection is the result of a non-empty polygon intersection.
// Geometry holds the intersection rings when the result is a single
// polygon; for multi-part or lower-dimension results only Area is
// meaningful (and is zero for pure boundary contact).
type Intersection struct {
	Geometry models.Polygon
	Area     float64 // planar area in square degrees
}

// Engine is the computational-geometry capability the evaluator depends
// on. Implementations must be safe for concurrent use.
type Engine interface {
	// Area returns the planar area of the polygon in square degrees.
	Area(p models.Polygon) (float64, error)

	// Intersect computes the intersection of two polygons.
	// Returns nil when the polygons are disjoint.
	Intersect(a, b models.Polygon) (*Intersection, error)
}

// PlanarEngine implements Engine on top of the simplefeatures geometry
// library. All computation is in-process; no external service is involved.
type PlanarEngine struct{}

// NewPlanarEngine returns a ready-to-use planar geometry engine.
func NewPlanarEngine() *PlanarEngine {
	return &PlanarEngine{}
}

// Area returns the planar polygon area in square degrees.
func (e *PlanarEngine) Area(p models.Polygon) (float64, error) {
	g, err := toGeometry(p)
	if err != nil {
		return 0, err
	}
	return g.Area(), nil
}

// Intersect computes the polygon intersection, returning nil for
// disjoint inputs.
func (e *PlanarEngine) Intersect(a, b models.Polygon) (*Intersection, error) {
	ga, err := toGeometry(a)
	if err != nil {
		return nil, err
	}
	gb, err := toGeometry(b)
	if err != nil {
		return nil, err
	}

	result, err := geom.Intersection(ga, gb)
	if err != nil {
		return nil, fmt.Errorf("intersection computation failed: %w", err)
	}
	if result.IsEmpty() {
		return nil, nil
	}

	inter := &Intersection{Area: result.Area()}

	// Single-polygon results keep their rings; multi-part or linear
	// results only carry an area.
	raw, err := json.Marshal(result)
	if err == nil {
		var poly models.Polygon
		if jsonErr := json.Unmarshal(raw, &poly); jsonErr == nil {
			inter.Geometry = poly
		}
	}

	return inter, nil
}

// toGeometry converts the domain polygon into a validated simplefeatures
// geometry via its GeoJSON form.
func toGeometry(p models.Polygon) (geom.Geometry, error) {
	if !p.IsValid() {
		return geom.Geometry{}, fmt.Errorf("polygon has no usable coordinates")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("failed to encode polygon: %w", err)
	}
	g, err := geom.UnmarshalGeoJSON(raw)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("malformed polygon: %w", err)
	}
	return g, nil
}
