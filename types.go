// Package spatialgrid implements a fixed-resolution regular-grid spatial
// index for fixed-radius (bubble, shell) and k-nearest-neighbor queries
// over point sets in d-dimensional Euclidean space. Axes may be
// aperiodic or periodic (wrap-around); the euclid metric honors the
// minimum-image convention on periodic axes, while haversine and
// vincenty compute great-circle angular distance on the 2-sphere.
//
// An Index is built once from an immutable point set and queried any
// number of times; it holds no mutable state across queries and is safe
// for concurrent read-only use.
package spatialgrid

import "fmt"

// MetricKind selects the distance function used by an Index.
type MetricKind string

const (
	Euclid    MetricKind = "euclid"
	Haversine MetricKind = "haversine"
	Vincenty  MetricKind = "vincenty"
)

func (m MetricKind) angular() bool {
	return m == Haversine || m == Vincenty
}

// AxisConfig describes one axis of the point space: either aperiodic, or
// periodic with a wrap interval [Lo, Hi).
type AxisConfig struct {
	Periodic bool
	Lo, Hi   float64
}

// Aperiodic returns the configuration for an axis with no wrap-around.
func Aperiodic() AxisConfig {
	return AxisConfig{}
}

// PeriodicAxis returns the configuration for an axis that wraps at
// [lo, hi). Construct() rejects lo >= hi with BadAxisConfig.
func PeriodicAxis(lo, hi float64) AxisConfig {
	return AxisConfig{Periodic: true, Lo: lo, Hi: hi}
}

// length returns hi - lo for a periodic axis; callers must not invoke it
// on an aperiodic axis.
func (a AxisConfig) length() float64 {
	return a.Hi - a.Lo
}

// PointSet is an immutable, row-major view over N points in R^d. Values
// holds N*Dim entries; point i occupies Values[i*Dim : i*Dim+Dim].
type PointSet struct {
	Values []float64
	N      int
	Dim    int
}

// NewPointSet builds a PointSet from row-major data. It does not copy:
// callers that want an owned copy should clone data first (see
// Construct's ownData parameter, which performs the copy for the index
// itself).
func NewPointSet(data []float64, n, dim int) (PointSet, error) {
	if dim <= 0 || n < 0 || len(data) != n*dim {
		return PointSet{}, newErrorf(BadShape, "NewPointSet",
			"data array has the wrong shape: got %d values for n=%d dim=%d", len(data), n, dim)
	}
	return PointSet{Values: data, N: n, Dim: dim}, nil
}

// At returns a view of point i's coordinates. The returned slice aliases
// the underlying storage; callers must not mutate it.
func (p PointSet) At(i int) []float64 {
	return p.Values[i*p.Dim : i*p.Dim+p.Dim]
}

// BoundingBox holds the per-axis [Min, Max] extent of the indexed point
// set: aperiodic axes take the data's extrema, periodic axes take the
// declared [lo, hi).
type BoundingBox struct {
	Min, Max []float64
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("BoundingBox{Min:%v Max:%v}", b.Min, b.Max)
}
