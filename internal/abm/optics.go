package abm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Interface geometry: N is the unit interface normal oriented back toward the
// incoming photon, so cosI = -D·N is in [0,1] for a unit direction D.

// fresnel returns the unpolarised Fresnel reflectance (mean of s and p) for a
// photon leaving a medium of index n1 into a medium of index n2.
// Total internal reflection yields exactly 1, an index-matched boundary exactly 0.
func fresnel(cosI, n1, n2 float64) float64 {
	if n1 == n2 {
		return 0
	}
	sin2I := 1 - cosI*cosI
	n := n1 / n2
	k := 1 - n*n*sin2I
	if k < 0 {
		return 1.0
	}
	cosT := math.Sqrt(k)
	rs := (n1*cosI - n2*cosT) / (n1*cosI + n2*cosT)
	rp := (n1*cosT - n2*cosI) / (n1*cosT + n2*cosI)
	return (rs*rs + rp*rp) / 2
}

// reflect mirrors D about the interface.
func reflect(D, N r3.Vec, cosI float64) r3.Vec {
	return r3.Add(D, r3.Scale(2*cosI, N))
}

// refract bends D per Snell's law going from index n1 to n2.
// ok is false on total internal reflection.
func refract(D, N r3.Vec, cosI, n1, n2 float64) (r3.Vec, bool) {
	if n1 == n2 {
		return D, true
	}
	eta := n1 / n2
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return r3.Vec{}, false
	}
	return r3.Add(r3.Scale(eta, D), r3.Scale(eta*cosI-math.Sqrt(k), N)), true
}

// startDirection converts incidence angles (radians) to a unit direction.
// The stack is listed adaxial-first while incidence is given relative to the
// abaxial side, hence the flipped Z.
func startDirection(azimuth, polar float64) r3.Vec {
	sp := math.Sin(polar)
	return r3.Vec{
		X: math.Cos(azimuth) * sp,
		Y: math.Sin(azimuth) * sp,
		Z: -math.Cos(polar),
	}
}
