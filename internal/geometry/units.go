package geometry

import "math"

// Conversion constants for the planar degree-to-acre approximation.
// One degree of latitude is treated as a constant length; one degree of
// longitude shrinks with the cosine of the reference latitude. Exact
// geodesic area is explicitly not a goal.
const (
	metersPerDegreeLat     = 110574.0
	metersPerDegreeLonAtEq = 111320.0
	squareMetersPerAcre    = 4046.8564224
)

// AcresFromSquareDegrees converts a planar area in square degrees to
// acres, scaling longitude by the cosine of the reference latitude.
func AcresFromSquareDegrees(sqDeg, refLatDeg float64) float64 {
	if sqDeg <= 0 {
		return 0
	}
	lonScale := metersPerDegreeLonAtEq * math.Cos(refLatDeg*math.Pi/180)
	if lonScale < 0 {
		lonScale = 0
	}
	sqMeters := sqDeg * metersPerDegreeLat * lonScale
	return sqMeters / squareMetersPerAcre
}
