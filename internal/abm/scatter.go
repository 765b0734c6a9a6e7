package abm

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// perpendicular returns a vector orthogonal to v (not normalised), built by
// zeroing the component of v with the smallest magnitude.
func perpendicular(v r3.Vec) r3.Vec {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax < ay && ax < az:
		return r3.Vec{X: 0, Y: -v.Z, Z: v.Y}
	case ay < az:
		return r3.Vec{X: v.Z, Y: 0, Z: -v.X}
	default:
		return r3.Vec{X: -v.Y, Y: v.X, Z: 0}
	}
}

// frame builds an orthonormal basis (u, v, w) with w = D.
func frame(D r3.Vec) (u, v, w r3.Vec) {
	w = D
	u = r3.Unit(perpendicular(D))
	v = r3.Cross(w, u)
	return u, v, w
}

// brakke perturbs the unit direction D with the Brakke angular distribution of
// aspect-ratio exponent delta: polar angle acos(U^(1/(delta+1))) around D,
// uniform azimuth. Samples that would cross back through the interface the
// photon just left (opposite Z sign to D) are rejected and redrawn.
func brakke(D r3.Vec, delta float64, rng *rand.Rand) r3.Vec {
	u, v, w := frame(D)
	exponent := 1 / (delta + 1)
	for {
		polar := math.Acos(math.Pow(rng.Float64(), exponent))
		azimuthal := 2 * math.Pi * rng.Float64()
		sp, cp := math.Sincos(polar)
		sa, ca := math.Sincos(azimuthal)
		P := r3.Add(r3.Add(r3.Scale(sp*ca, u), r3.Scale(sp*sa, v)), r3.Scale(cp, w))
		if P.Z*D.Z >= 0 {
			return P
		}
	}
}
