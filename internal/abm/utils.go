package abm

import (
	"math"
)

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// perturbs reports whether an aspect-ratio parameter asks for Brakke scattering.
func perturbs(delta float64) bool { return isFinite(delta) && delta > 0 }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
