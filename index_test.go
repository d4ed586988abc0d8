package spatialgrid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubeAxes() []AxisConfig {
	return []AxisConfig{Aperiodic(), Aperiodic(), Aperiodic()}
}

func cubeData() []float64 {
	return []float64{
		0, 0, 0,
		0, 0, 1,
		0, 1, 0,
		0, 1, 1,
		1, 0, 0,
		1, 0, 1,
		1, 1, 0,
		1, 1, 1,
	}
}

// S6: construction with a data argument whose length doesn't match
// n*dim fails with BadShape.
func TestConstruct_S6RejectsScalarData(t *testing.T) {
	t.Parallel()

	_, err := Construct([]float64{1, 2, 3}, 2, 3, cubeAxes(), Euclid, 2, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, &GridError{Kind: BadShape})
}

// S6: construction with an empty array fails with EmptyData.
func TestConstruct_S6RejectsEmptyData(t *testing.T) {
	t.Parallel()

	_, err := Construct(nil, 0, 3, cubeAxes(), Euclid, 2, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, &GridError{Kind: EmptyData})
}

func TestConstruct_RejectsUnsupportedMetric(t *testing.T) {
	t.Parallel()

	_, err := Construct(cubeData(), 8, 3, cubeAxes(), MetricKind("manhattan"), 2, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, &GridError{Kind: UnsupportedMetric})
}

func TestConstruct_OwnDataCopiesStorage(t *testing.T) {
	t.Parallel()

	data := cubeData()
	idx, err := Construct(data, 8, 3, cubeAxes(), Euclid, 2, true)
	require.NoError(t, err)

	data[0] = 999
	assert.Equal(t, 0.0, idx.Data().At(0)[0], "owned copy must not alias caller's slice")
}

func TestConstruct_BorrowedDataAliases(t *testing.T) {
	t.Parallel()

	data := cubeData()
	idx, err := Construct(data, 8, 3, cubeAxes(), Euclid, 2, false)
	require.NoError(t, err)

	data[0] = 999
	assert.Equal(t, 999.0, idx.Data().At(0)[0], "borrowed data aliases the caller's slice")
}

func TestIndex_Accessors(t *testing.T) {
	t.Parallel()

	idx, err := Construct(cubeData(), 8, 3, cubeAxes(), Euclid, 2, true)
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Dim())
	assert.Equal(t, 8, idx.N())
	assert.Equal(t, Euclid, idx.Metric())
	assert.False(t, idx.PeriodicFlag())
	assert.Equal(t, 2, idx.Resolution())
	assert.Len(t, idx.Periodic(), 3)
	assert.Len(t, idx.KBins(), 3)
	for _, edges := range idx.KBins() {
		assert.Len(t, edges, idx.Resolution()+1)
	}
}

// TestIndex_KBinsEdges checks the exact cell-edge values on the unit
// cube (bounds [0,1] on every axis, m=2): each axis's edges must run
// 0, 0.5, 1.
func TestIndex_KBinsEdges(t *testing.T) {
	t.Parallel()

	idx, err := Construct(cubeData(), 8, 3, cubeAxes(), Euclid, 2, true)
	require.NoError(t, err)

	want := [][]float64{
		{0, 0.5, 1},
		{0, 0.5, 1},
		{0, 0.5, 1},
	}
	if diff := cmp.Diff(want, idx.KBins()); diff != "" {
		t.Errorf("KBins mismatch (-want +got):\n%s", diff)
	}
}
