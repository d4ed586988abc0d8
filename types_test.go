package spatialgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointSet_RejectsBadShape(t *testing.T) {
	t.Parallel()

	_, err := NewPointSet([]float64{1, 2, 3}, 2, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, &GridError{Kind: BadShape})
}

func TestNewPointSet_Accepts(t *testing.T) {
	t.Parallel()

	p, err := NewPointSet([]float64{0, 0, 1, 1}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, p.At(0))
	assert.Equal(t, []float64{1, 1}, p.At(1))
}

func TestAxisConfig_Constructors(t *testing.T) {
	t.Parallel()

	a := Aperiodic()
	assert.False(t, a.Periodic)

	p := PeriodicAxis(0, 360)
	assert.True(t, p.Periodic)
	assert.Equal(t, 360.0, p.length())
}

func TestMetricKind_Angular(t *testing.T) {
	t.Parallel()

	assert.False(t, Euclid.angular())
	assert.True(t, Haversine.angular())
	assert.True(t, Vincenty.angular())
}
