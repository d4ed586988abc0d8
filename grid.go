package spatialgrid

import (
	"encoding/binary"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// cellKey packs a d-dimensional integer cell coordinate into a single
// comparable map key. This generalizes the Szudzik pairing trick used
// for 2-D cell IDs elsewhere in the pack to arbitrary dimension: each
// axis's int32 coordinate is encoded to 4 bytes and concatenated, giving
// an exact, collision-free key regardless of d.
type cellKey string

func packCell(coord []int32) cellKey {
	buf := make([]byte, 4*len(coord))
	for i, c := range coord {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(c))
	}
	return cellKey(buf)
}

// Grid is the sparse mapping from non-empty cell coordinate to the
// ordered list of point indices it contains.
type Grid struct {
	M         int
	Dim       int
	Bounds    BoundingBox
	CellWidth []float64
	cells     map[cellKey][]int
}

// NCells reports the number of non-empty cells.
func (g *Grid) NCells() int {
	return len(g.cells)
}

// CellOf returns the point indices assigned to the cell at the given
// integer coordinate, or nil if the cell is empty or out of range.
func (g *Grid) CellOf(coord []int32) []int {
	return g.cells[packCell(coord)]
}

// cellCoordOf computes the integer cell coordinate of a point, clamped
// to [0, M-1] on every axis, periodic or not. No periodic folding is
// done here.
func cellCoordOf(point []float64, bounds BoundingBox, width []float64, m int) []int32 {
	coord := make([]int32, len(point))
	for i, v := range point {
		c := int(math.Floor((v - bounds.Min[i]) / width[i]))
		// Clamp unconditionally: on aperiodic axes this pins any point at
		// or beyond the data extrema into the last cell; on periodic axes
		// it only guards against floating-point rounding landing exactly
		// on M for a point infinitesimally below hi_i.
		if c < 0 {
			c = 0
		} else if c > m-1 {
			c = m - 1
		}
		coord[i] = int32(c)
	}
	return coord
}

// buildGrid computes the bounding box, the cell widths, and buckets
// every point index into its cell's list in index order.
func buildGrid(points PointSet, axes []AxisConfig, m int) (*Grid, error) {
	if points.N == 0 {
		return nil, newError(EmptyData, "buildGrid", "point set has zero points")
	}
	if points.Dim < 1 {
		return nil, newErrorf(BadShape, "buildGrid", "point set must have at least 1 dimension, got %d", points.Dim)
	}
	if len(axes) != points.Dim {
		return nil, newErrorf(BadShape, "buildGrid", "axis config length %d does not match dimension %d", len(axes), points.Dim)
	}
	if m < 1 {
		return nil, newErrorf(BadResolution, "buildGrid", "resolution must be >= 1, got %d", m)
	}

	dim := points.Dim
	bounds := BoundingBox{Min: make([]float64, dim), Max: make([]float64, dim)}

	// Per-axis columns, used both for the aperiodic min/max reduction
	// (via gonum/floats) and for the periodic-range rejection check.
	column := make([]float64, points.N)
	for i, a := range axes {
		if a.Periodic {
			if a.Lo >= a.Hi {
				return nil, newErrorf(BadAxisConfig, "buildGrid", "periodic axis %d has lo=%g >= hi=%g", i, a.Lo, a.Hi)
			}
			bounds.Min[i], bounds.Max[i] = a.Lo, a.Hi
			for j := 0; j < points.N; j++ {
				v := points.At(j)[i]
				if v < a.Lo || v >= a.Hi {
					return nil, newErrorf(BadAxisConfig, "buildGrid",
						"point %d lies outside declared periodic range on axis %d: %g not in [%g, %g)", j, i, v, a.Lo, a.Hi)
				}
			}
			continue
		}
		for j := 0; j < points.N; j++ {
			column[j] = points.At(j)[i]
		}
		bounds.Min[i] = floats.Min(column[:points.N])
		bounds.Max[i] = floats.Max(column[:points.N])
	}

	width := make([]float64, dim)
	for i := range width {
		width[i] = (bounds.Max[i] - bounds.Min[i]) / float64(m)
		if width[i] == 0 {
			// Degenerate axis (all points share one coordinate): treat
			// the single cell as covering the whole axis so every point
			// still maps to cell 0.
			width[i] = 1
		}
	}

	g := &Grid{
		M:         m,
		Dim:       dim,
		Bounds:    bounds,
		CellWidth: width,
		cells:     make(map[cellKey][]int, points.N/estimatedPointsPerCell+1),
	}

	for j := 0; j < points.N; j++ {
		coord := cellCoordOf(points.At(j), bounds, width, m)
		// On periodic axes buildGrid already rejected any point outside
		// [lo, hi), so cellCoordOf's clamp there only absorbs rounding at
		// the top edge.
		key := packCell(coord)
		g.cells[key] = append(g.cells[key], j)
	}

	log.Printf("[Grid] built index dim=%d n=%d m=%d non_empty_cells=%d", dim, points.N, m, len(g.cells))

	return g, nil
}

// estimatedPointsPerCell seeds the initial capacity of the sparse cell
// map so the common case (roughly uniform density) doesn't churn the
// map with rehashes while building.
const estimatedPointsPerCell = 4

// averagePointsPerCell estimates rho, the mean occupancy of non-empty
// cells, used to seed the k-NN adaptive radius search.
func (g *Grid) averagePointsPerCell() float64 {
	if len(g.cells) == 0 {
		return 0
	}
	counts := make([]float64, 0, len(g.cells))
	for _, idxs := range g.cells {
		counts = append(counts, float64(len(idxs)))
	}
	return stat.Mean(counts, nil)
}

// minCellWidth returns w_min, the narrowest per-axis cell width.
func (g *Grid) minCellWidth() float64 {
	return floats.Min(g.CellWidth)
}
