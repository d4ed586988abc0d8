package spatialgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinimumImage_WrapsOnPeriodicAxisOnly(t *testing.T) {
	t.Parallel()

	axes := []AxisConfig{PeriodicAxis(0, 100), Aperiodic()}
	delta := []float64{95, 95}
	minimumImage(delta, axes)

	assert.InDelta(t, -5, delta[0], 1e-9, "periodic axis folds 95 to -5 with L=100")
	assert.Equal(t, 95.0, delta[1], "aperiodic axis is untouched")
}

func TestMinimumImage_NoOpWithinHalfPeriod(t *testing.T) {
	t.Parallel()

	axes := []AxisConfig{PeriodicAxis(0, 100)}
	delta := []float64{30}
	minimumImage(delta, axes)
	assert.Equal(t, 30.0, delta[0])
}

func TestPeriodicFlag(t *testing.T) {
	t.Parallel()

	assert.False(t, periodicFlag([]AxisConfig{Aperiodic(), Aperiodic()}))
	assert.True(t, periodicFlag([]AxisConfig{Aperiodic(), PeriodicAxis(0, 1)}))
}
