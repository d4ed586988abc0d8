package spatialgrid

// Index is the immutable, queryable handle produced by Construct. It
// owns (or borrows, per ownData) the point data, the built grid, and
// the per-axis configuration that every query must honor.
type Index struct {
	data         PointSet
	dim          int
	axes         []AxisConfig
	metric       MetricKind
	periodicFlag bool
	grid         *Grid
}

// Construct builds an Index over data (N*dim row-major coordinates).
// axes must have exactly dim entries; m is the
// per-axis grid resolution (cells per axis). If ownData is true,
// Construct copies data so the caller is free to mutate or discard its
// own slice afterward; if false, the Index aliases data and the caller
// must not mutate it for the Index's lifetime.
func Construct(data []float64, n, dim int, axes []AxisConfig, metric MetricKind, m int, ownData bool) (*Index, error) {
	points, err := NewPointSet(data, n, dim)
	if err != nil {
		return nil, err
	}
	if ownData {
		owned := make([]float64, len(data))
		copy(owned, data)
		points.Values = owned
	}

	if len(axes) != dim {
		return nil, newErrorf(BadShape, "Construct", "axis config length %d does not match dimension %d", len(axes), dim)
	}
	switch metric {
	case Euclid, Haversine, Vincenty:
	default:
		return nil, newErrorf(UnsupportedMetric, "Construct", "unsupported metric kind %q", metric)
	}
	if metric.angular() && dim != 2 {
		return nil, newErrorf(DimensionMismatch, "Construct", "metric %q requires d=2, got d=%d", metric, dim)
	}

	grid, err := buildGrid(points, axes, m)
	if err != nil {
		return nil, err
	}

	return &Index{
		data:         points,
		dim:          dim,
		axes:         axes,
		metric:       metric,
		periodicFlag: periodicFlag(axes),
		grid:         grid,
	}, nil
}

// Dim reports the dimensionality of the indexed point space.
func (idx *Index) Dim() int {
	return idx.dim
}

// N reports the number of indexed points.
func (idx *Index) N() int {
	return idx.data.N
}

// NCells reports the number of non-empty cells in the underlying grid.
func (idx *Index) NCells() int {
	return idx.grid.NCells()
}

// Metric reports the distance function the Index was built with.
func (idx *Index) Metric() MetricKind {
	return idx.metric
}

// Periodic returns a copy of the per-axis periodicity configuration.
func (idx *Index) Periodic() []AxisConfig {
	out := make([]AxisConfig, len(idx.axes))
	copy(out, idx.axes)
	return out
}

// PeriodicFlag reports whether any axis wraps.
func (idx *Index) PeriodicFlag() bool {
	return idx.periodicFlag
}

// Data returns a read-only view of the indexed points. The returned
// PointSet aliases the Index's own storage; callers must not mutate it.
func (idx *Index) Data() PointSet {
	return idx.data
}

// KBins returns the per-axis cell edges: M+1 boundary values per axis,
// running from Bounds.Min[i] in steps of CellWidth[i]. The last edge is
// Bounds.Max[i] except on a degenerate axis (all points share one
// coordinate), where CellWidth[i] is 1 and the edges run past it.
func (idx *Index) KBins() [][]float64 {
	out := make([][]float64, idx.dim)
	for i := range out {
		edges := make([]float64, idx.grid.M+1)
		for k := range edges {
			edges[k] = idx.grid.Bounds.Min[i] + float64(k)*idx.grid.CellWidth[i]
		}
		out[i] = edges
	}
	return out
}

// Bounds returns the grid's bounding box.
func (idx *Index) Bounds() BoundingBox {
	return idx.grid.Bounds
}

// Resolution reports M, the number of cells per axis.
func (idx *Index) Resolution() int {
	return idx.grid.M
}
