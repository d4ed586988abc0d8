package spatialgrid

import (
	"encoding/binary"
	"math"
)

// cellMatch is one (cell, periodic image shift) pair the walker has
// decided to visit. shift is the translation applied to the data
// coordinate before computing distance, so candidates from a wrapped
// image land back in the vicinity of the query centre.
type cellMatch struct {
	coord   []int32
	shift   []float64
	periods []int32
}

// axisRange is the inclusive range of folded cell indices that
// intersect [lo, hi] on one axis, paired with the image shift each
// folded index carries. periods is the integer period count the shift
// was derived from (shift = periods * L); it is kept alongside the
// float shift because the shift itself may not be exactly
// representable when the axis length is irrational or has a repeating
// fraction, and integer periods is what a dedup key must be built on.
type axisRange struct {
	idx     []int32
	shift   []float64
	periods []int32
}

// walkCells enumerates the candidate (cell, shift) pairs whose cell
// intersects the axis-aligned box [centre-r, centre+r] on every axis
// (a superset of the cells meeting the closed ball of radius r; exact
// distances are filtered by the caller). Angular metrics fall back to
// "visit every non-empty cell", since the grid is built on raw
// (lon, lat) coordinates and an angular radius does not correspond to
// an axis-aligned box in that coordinate space.
func walkCells(g *Grid, centre []float64, r float64, axes []AxisConfig, kind MetricKind) []cellMatch {
	if kind.angular() {
		return allCells(g)
	}

	ranges := make([]axisRange, g.Dim)
	for i := range ranges {
		ranges[i] = axisRangeFor(g, i, centre[i], r, axes[i])
	}

	return cartesianProduct(ranges)
}

// allCells returns every non-empty cell with a zero shift, used by the
// angular-metric full-scan fallback.
func allCells(g *Grid) []cellMatch {
	out := make([]cellMatch, 0, len(g.cells))
	zeroShift := make([]float64, g.Dim)
	zeroPeriods := make([]int32, g.Dim)
	for key := range g.cells {
		out = append(out, cellMatch{coord: unpackCell(key, g.Dim), shift: zeroShift, periods: zeroPeriods})
	}
	return out
}

// axisRangeFor computes the folded cell-index range and per-index image
// shift for one axis. On an aperiodic axis the range is simply clamped
// to [0, M-1] with a zero shift throughout. On a periodic axis the
// unwrapped range may span more than one period when 2r exceeds the
// axis length; each unwrapped integer is folded through mod M and
// tagged with the shift that translates its image back near centre.
func axisRangeFor(g *Grid, axis int, q, r float64, a AxisConfig) axisRange {
	lo := q - r
	hi := q + r
	loIdx := int(math.Floor((lo - g.Bounds.Min[axis]) / g.CellWidth[axis]))
	hiIdx := int(math.Floor((hi - g.Bounds.Min[axis]) / g.CellWidth[axis]))

	if !a.Periodic {
		if loIdx < 0 {
			loIdx = 0
		}
		if hiIdx > g.M-1 {
			hiIdx = g.M - 1
		}
		if hiIdx < loIdx {
			return axisRange{}
		}
		n := hiIdx - loIdx + 1
		out := axisRange{idx: make([]int32, n), shift: make([]float64, n), periods: make([]int32, n)}
		for k := 0; k < n; k++ {
			out.idx[k] = int32(loIdx + k)
			out.shift[k] = 0
			out.periods[k] = 0
		}
		return out
	}

	L := a.length()
	n := hiIdx - loIdx + 1
	if n < 1 {
		n = 1
	}
	out := axisRange{idx: make([]int32, 0, n), shift: make([]float64, 0, n), periods: make([]int32, 0, n)}
	for unwrapped := loIdx; unwrapped <= hiIdx; unwrapped++ {
		folded := unwrapped % g.M
		if folded < 0 {
			folded += g.M
		}
		// The image shift translates the folded cell's data coordinates
		// back to the unwrapped position's vicinity: how many full
		// periods separate the folded index from the unwrapped one.
		periods := (unwrapped - folded) / g.M
		out.idx = append(out.idx, int32(folded))
		out.shift = append(out.shift, float64(periods)*L)
		out.periods = append(out.periods, int32(periods))
	}
	return out
}

// cartesianProduct enumerates the Cartesian product of per-axis
// (index, shift) pairs via an odometer: a counter whose digit i ranges
// over ranges[i], incrementing the lowest digit each step and carrying
// into the next. Returns nil if any axis's range is empty, since that
// axis has no intersection and so no cell can match.
func cartesianProduct(ranges []axisRange) []cellMatch {
	dim := len(ranges)
	for _, rg := range ranges {
		if len(rg.idx) == 0 {
			return nil
		}
	}

	total := 1
	for _, rg := range ranges {
		total *= len(rg.idx)
	}

	out := make([]cellMatch, 0, total)
	digits := make([]int, dim)
	for {
		coord := make([]int32, dim)
		shift := make([]float64, dim)
		periods := make([]int32, dim)
		for i, d := range digits {
			coord[i] = ranges[i].idx[d]
			shift[i] = ranges[i].shift[d]
			periods[i] = ranges[i].periods[d]
		}
		out = append(out, cellMatch{coord: coord, shift: shift, periods: periods})

		// Increment the odometer.
		pos := dim - 1
		for pos >= 0 {
			digits[pos]++
			if digits[pos] < len(ranges[pos].idx) {
				break
			}
			digits[pos] = 0
			pos--
		}
		if pos < 0 {
			return out
		}
	}
}

// unpackCell reverses packCell for iterating the grid's own keys (used
// only by the angular-metric full scan, which never constructs a key
// itself).
func unpackCell(key cellKey, dim int) []int32 {
	buf := []byte(key)
	coord := make([]int32, dim)
	for i := 0; i < dim; i++ {
		coord[i] = int32(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return coord
}
