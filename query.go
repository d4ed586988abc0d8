package spatialgrid

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
)

// Neighbors holds one centre's query result: parallel distance/index
// slices of equal length, ordered per the operation's contract.
type Neighbors struct {
	Distances []float64
	Indices   []int
}

// runBatch dispatches fn across every row of centres, striping the work
// across runtime.GOMAXPROCS(0) goroutines joined by a WaitGroup. Each
// goroutine writes only to its own slots of out, so there is no shared
// mutable state between centres. ctx is checked
// between centres, never mid-centre: a cancelled context stops a
// goroutine from starting its next centre, but never truncates one
// already in progress.
func runBatch(ctx context.Context, q, dim int, centres []float64, fn func(centre []float64) Neighbors) ([]Neighbors, error) {
	out := make([]Neighbors, q)
	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > q {
		nprocs = q
	}
	if nprocs < 1 {
		nprocs = 1
	}

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for proc := 0; proc < nprocs; proc++ {
		go func(proc int) {
			defer wg.Done()
			for i := proc; i < q; i += nprocs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				out[i] = fn(centres[i*dim : i*dim+dim])
			}
		}(proc)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func toNeighborSlices(results []Neighbors) ([][]float64, [][]int) {
	dists := make([][]float64, len(results))
	idxs := make([][]int, len(results))
	for i, r := range results {
		dists[i] = r.Distances
		idxs[i] = r.Indices
	}
	return dists, idxs
}

// Bubble returns, for every row of centres, every point within radius
// r. If sorted, each centre's result is ordered ascending by distance.
func (idx *Index) Bubble(ctx context.Context, centres []float64, q int, r float64, sorted bool) ([][]float64, [][]int, error) {
	if r < 0 {
		return nil, nil, newErrorf(BadRange, "Bubble", "radius must be >= 0, got %g", r)
	}
	if q*idx.dim != len(centres) {
		return nil, nil, newErrorf(BadShape, "Bubble", "centres array has the wrong shape for q=%d dim=%d", q, idx.dim)
	}

	results, err := runBatch(ctx, q, idx.dim, centres, func(c []float64) Neighbors {
		return idx.bubbleOne(c, r, sorted)
	})
	if err != nil {
		return nil, nil, err
	}
	return toNeighborSlices(results)
}

func (idx *Index) bubbleOne(centre []float64, r float64, sorted bool) Neighbors {
	matches := walkCells(idx.grid, centre, r, idx.axes, idx.metric)
	n := Neighbors{Distances: []float64{}, Indices: []int{}}

	// A point can surface through more than one (cell, shift) pair when
	// 2r exceeds a periodic axis's length: the minimum-image distance is
	// the same from either image, so the second sighting is a duplicate,
	// not a second neighbor.
	seen := make(map[int]struct{})

	for _, m := range matches {
		pts := idx.grid.CellOf(m.coord)
		if len(pts) == 0 {
			continue
		}
		shifted := gatherShifted(idx.data, idx.dim, pts, m.shift)
		dists, _ := distance(idx.metric, centre, shifted, idx.dim, idx.axes)
		for k, j := range pts {
			if dists[k] > r {
				continue
			}
			if _, dup := seen[j]; dup {
				continue
			}
			seen[j] = struct{}{}
			n.Distances = append(n.Distances, dists[k])
			n.Indices = append(n.Indices, j)
		}
	}

	if sorted {
		sortByDistance(n.Distances, n.Indices)
	}
	return n
}

// Shell returns, for every row of centres, every point whose distance
// lies in the closed interval [rLo, rHi]. The inner radii
// never exclude cells from the walk -- only bubble(rHi) candidates are
// filtered on exact distance -- because a cell's bounding box can
// straddle rLo.
func (idx *Index) Shell(ctx context.Context, centres []float64, q int, rLo, rHi float64, sorted bool) ([][]float64, [][]int, error) {
	if rLo < 0 || rLo > rHi {
		return nil, nil, newErrorf(BadRange, "Shell", "require 0 <= r_lo <= r_hi, got r_lo=%g r_hi=%g", rLo, rHi)
	}
	if q*idx.dim != len(centres) {
		return nil, nil, newErrorf(BadShape, "Shell", "centres array has the wrong shape for q=%d dim=%d", q, idx.dim)
	}

	results, err := runBatch(ctx, q, idx.dim, centres, func(c []float64) Neighbors {
		n := idx.bubbleOne(c, rHi, false)
		out := Neighbors{Distances: []float64{}, Indices: []int{}}
		for k, d := range n.Distances {
			if d >= rLo {
				out.Distances = append(out.Distances, d)
				out.Indices = append(out.Indices, n.Indices[k])
			}
		}
		if sorted {
			sortByDistance(out.Distances, out.Indices)
		}
		return out
	})
	if err != nil {
		return nil, nil, err
	}
	return toNeighborSlices(results)
}

// NearestNeighbors returns, for every row of centres, the n points
// closest to it, sorted ascending by distance with ties broken by
// ascending point index.
func (idx *Index) NearestNeighbors(ctx context.Context, centres []float64, q int, n int) ([][]float64, [][]int, error) {
	if n < 0 {
		return nil, nil, newErrorf(BadRange, "NearestNeighbors", "n must be >= 0, got %d", n)
	}
	if n > idx.data.N {
		return nil, nil, newErrorf(InsufficientPoints, "NearestNeighbors", "requested n=%d exceeds N=%d points", n, idx.data.N)
	}
	if q*idx.dim != len(centres) {
		return nil, nil, newErrorf(BadShape, "NearestNeighbors", "centres array has the wrong shape for q=%d dim=%d", q, idx.dim)
	}
	if n == 0 {
		empty := make([]Neighbors, q)
		for i := range empty {
			empty[i] = Neighbors{Distances: []float64{}, Indices: []int{}}
		}
		d, ix := toNeighborSlices(empty)
		return d, ix, nil
	}

	results, err := runBatch(ctx, q, idx.dim, centres, func(c []float64) Neighbors {
		return idx.nearestOne(c, n)
	})
	if err != nil {
		return nil, nil, err
	}
	return toNeighborSlices(results)
}

// nearestOne implements adaptive radius expansion: start from a
// density-derived seed radius, double it until at least n
// candidates have been collected, then keep the n smallest. Cells are
// tracked in a visited set keyed by (cell, shift) so a doubling never
// re-walks or re-scores a cell it already processed.
func (idx *Index) nearestOne(centre []float64, n int) Neighbors {
	rho := idx.grid.averagePointsPerCell()
	if rho <= 0 {
		rho = 1
	}
	wMin := idx.grid.minCellWidth()
	r := wMin * math.Ceil(math.Pow(float64(n)/rho, 1/float64(idx.dim)))
	if r <= 0 {
		r = wMin
	}

	type cand struct {
		dist float64
		idx  int
	}
	var collected []cand
	visited := make(map[cellKey]struct{})
	// Same duplicate-image guard as bubbleOne: a point reached through a
	// second (cell, shift) pair once 2r exceeds a periodic axis's length
	// must not occupy two slots of the result.
	seen := make(map[int]struct{})

	fullyCovered := func() bool {
		return !idx.periodicFlag && len(visited) >= idx.grid.NCells()
	}

	for {
		matches := walkCells(idx.grid, centre, r, idx.axes, idx.metric)
		for _, m := range matches {
			key := shiftedCellKey(m)
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}

			pts := idx.grid.CellOf(m.coord)
			if len(pts) == 0 {
				continue
			}
			shifted := gatherShifted(idx.data, idx.dim, pts, m.shift)
			dists, _ := distance(idx.metric, centre, shifted, idx.dim, idx.axes)
			for k, j := range pts {
				if _, dup := seen[j]; dup {
					continue
				}
				seen[j] = struct{}{}
				collected = append(collected, cand{dist: dists[k], idx: j})
			}
		}

		withinR := 0
		for _, c := range collected {
			if c.dist <= r {
				withinR++
			}
		}

		if withinR >= n || fullyCovered() {
			break
		}
		r *= 2
	}

	sort.Slice(collected, func(a, b int) bool {
		if collected[a].dist != collected[b].dist {
			return collected[a].dist < collected[b].dist
		}
		return collected[a].idx < collected[b].idx
	})
	if len(collected) > n {
		collected = collected[:n]
	}

	out := Neighbors{Distances: make([]float64, len(collected)), Indices: make([]int, len(collected))}
	for i, c := range collected {
		out.Distances[i] = c.dist
		out.Indices[i] = c.idx
	}
	return out
}

// shiftedCellKey folds a cell's integer period count into its dedup
// key alongside the cell coordinate. It keys on periods rather than
// the float shift value itself: shift = periods * L is not always
// exactly representable (L need not be an integer), so truncating it
// back to an int could collide between genuinely different images.
func shiftedCellKey(m cellMatch) cellKey {
	coord := make([]int32, 0, len(m.coord)*2)
	coord = append(coord, m.coord...)
	coord = append(coord, m.periods...)
	return packCell(coord)
}

// gatherShifted materializes the coordinates of the given point indices
// translated by shift, so the euclid metric can compute distance
// against a periodic image without mutating the stored data.
func gatherShifted(data PointSet, dim int, pts []int, shift []float64) []float64 {
	out := make([]float64, len(pts)*dim)
	allZero := true
	for _, s := range shift {
		if s != 0 {
			allZero = false
			break
		}
	}
	for k, j := range pts {
		row := data.At(j)
		dst := out[k*dim : k*dim+dim]
		copy(dst, row)
		if !allZero {
			for i := range dst {
				dst[i] += shift[i]
			}
		}
	}
	return out
}

func sortByDistance(dists []float64, idxs []int) {
	order := make([]int, len(dists))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		da, db := dists[order[a]], dists[order[b]]
		if da != db {
			return da < db
		}
		return idxs[order[a]] < idxs[order[b]]
	})
	sortedD := make([]float64, len(dists))
	sortedI := make([]int, len(idxs))
	for i, o := range order {
		sortedD[i] = dists[o]
		sortedI[i] = idxs[o]
	}
	copy(dists, sortedD)
	copy(idxs, sortedI)
}
