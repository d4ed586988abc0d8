package spatialgrid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// distance computes the scalar distance from centre to each row of
// points under the given metric, applying the minimum-image convention
// on periodic axes for the euclid metric (angular metrics ignore
// periodicity; they wrap on the sphere instead).
//
// points is row-major with stride dim, matching PointSet.Values.
func distance(kind MetricKind, centre []float64, points []float64, dim int, axes []AxisConfig) ([]float64, error) {
	if kind.angular() && dim != 2 {
		return nil, newErrorf(DimensionMismatch, "distance",
			"metric %q requires d=2, got d=%d", kind, dim)
	}

	n := len(points) / dim
	out := make([]float64, n)

	switch kind {
	case Euclid:
		delta := make([]float64, dim)
		for i := 0; i < n; i++ {
			row := points[i*dim : i*dim+dim]
			for j := range delta {
				delta[j] = row[j] - centre[j]
			}
			minimumImage(delta, axes)
			out[i] = floats.Norm(delta, 2)
		}
	case Haversine:
		for i := 0; i < n; i++ {
			row := points[i*dim : i*dim+dim]
			out[i] = haversineDistance(centre[0], centre[1], row[0], row[1])
		}
	case Vincenty:
		for i := 0; i < n; i++ {
			row := points[i*dim : i*dim+dim]
			out[i] = vincentyDistance(centre[0], centre[1], row[0], row[1])
		}
	default:
		return nil, newErrorf(UnsupportedMetric, "distance", "unsupported metric kind %q", kind)
	}
	return out, nil
}

// haversineDistance returns the great-circle central angle, in radians,
// between two points given as (longitude, latitude) in radians. Uses
// the half-angle (haversine) formulation for numerical stability near
// antipodes and at small separations.
func haversineDistance(lon1, lat1, lon2, lat2 float64) float64 {
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// Clamp for safety against rounding pushing a fractionally outside [0,1].
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return 2 * math.Asin(math.Sqrt(a))
}

// vincentyDistance returns the great-circle central angle, in radians,
// using the numerically stable atan2 form of the Vincenty formula
// (special case for a sphere, not an ellipsoid).
func vincentyDistance(lon1, lat1, lon2, lat2 float64) float64 {
	dLon := lon2 - lon1
	sinLat1, cosLat1 := math.Sincos(lat1)
	sinLat2, cosLat2 := math.Sincos(lat2)
	sinDLon, cosDLon := math.Sincos(dLon)

	t1 := cosLat2 * sinDLon
	t2 := cosLat1*sinLat2 - sinLat1*cosLat2*cosDLon
	numerator := math.Hypot(t1, t2)
	denominator := sinLat1*sinLat2 + cosLat1*cosLat2*cosDLon
	return math.Atan2(numerator, denominator)
}
