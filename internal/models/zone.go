package models

// RegionZone is the authorized claim area for a district: one boundary
// polygon plus the maximum cumulative claim capacity in acres. Loaded
// once at startup and read-only afterward.
type RegionZone struct {
	District string  `json:"district"`
	Boundary Polygon `json:"boundary"`
	Capacity float64 `json:"capacity"`
}

// ReservedZone is an absolute no-claim sub-area within a district.
// Any claim geometry touching a reserved zone is rejected outright.
type ReservedZone struct {
	District string  `json:"district"`
	Name     string  `json:"name,omitempty"`
	Polygon  Polygon `json:"polygon"`
}
