package spatialgrid

import "math"

// minimumImage rewrites delta in place, replacing each periodic axis's
// component with its minimum-image value: the representative of
// delta_i modulo the axis's wrap length with the smallest absolute
// value. Aperiodic axes are left untouched. Angular metrics never call
// this: great-circle distance wraps on the sphere by construction, not
// through a linear wrap interval.
func minimumImage(delta []float64, axes []AxisConfig) {
	for i, a := range axes {
		if !a.Periodic {
			continue
		}
		L := a.length()
		delta[i] -= L * math.Round(delta[i]/L)
	}
}

// periodicFlag reports whether any axis wraps.
func periodicFlag(axes []AxisConfig) bool {
	for _, a := range axes {
		if a.Periodic {
			return true
		}
	}
	return false
}
