package abm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-10

// incoming builds a unit direction heading down onto the z=const plane at angle a.
func incoming(a float64) r3.Vec {
	return r3.Vec{X: math.Sin(a), Y: 0, Z: -math.Cos(a)}
}

var up = r3.Vec{Z: 1}

func TestFresnel_IndexMatchedNormalIncidenceIsZero(t *testing.T) {
	for _, n := range []float64{1.0, 1.33, 1.5} {
		assert.Equal(t, 0.0, fresnel(1, n, n), "n=%g", n)
	}
}

func TestFresnel_KnownValues(t *testing.T) {
	// normal incidence air -> glass: ((n1-n2)/(n1+n2))^2
	assert.InDelta(t, 0.04, fresnel(1, 1.0, 1.5), 1e-12)
	// symmetric at normal incidence
	assert.InDelta(t, fresnel(1, 1.5, 1.0), fresnel(1, 1.0, 1.5), 1e-12)
	// grazing incidence reflects everything
	assert.InDelta(t, 1.0, fresnel(0, 1.0, 1.5), 1e-12)
}

func TestFresnel_TotalInternalReflection(t *testing.T) {
	n1, n2 := 1.5, 1.0
	critical := math.Asin(n2 / n1)
	for _, a := range []float64{critical + 1e-6, 1.0, 1.4} {
		cosI := math.Cos(a)
		k := 1 - (n1/n2)*(n1/n2)*(1-cosI*cosI)
		require.Less(t, k, 0.0)
		assert.Equal(t, 1.0, fresnel(cosI, n1, n2), "angle %g", a)
	}
	// just below the critical angle the photon can still escape
	assert.Less(t, fresnel(math.Cos(critical-1e-3), n1, n2), 1.0)
}

func TestFresnel_InUnitInterval(t *testing.T) {
	for _, n1 := range []float64{1, 1.3, 1.5} {
		for _, n2 := range []float64{1, 1.4, 1.6} {
			for c := 0.0; c <= 1.0; c += 0.05 {
				f := fresnel(c, n1, n2)
				assert.True(t, f >= 0 && f <= 1, "fresnel(%g,%g,%g)=%g", c, n1, n2, f)
			}
		}
	}
}

func TestReflect_Properties(t *testing.T) {
	for _, a := range []float64{math.Pi / 6, math.Pi / 3} {
		I := incoming(a)
		cosI := -r3.Dot(I, up)
		R := reflect(I, up, cosI)
		assert.InDelta(t, 1, r3.Norm(R), eps)
		// normal component flips, tangent preserved
		assert.InDelta(t, -I.Z, R.Z, eps)
		assert.InDelta(t, I.X, R.X, eps)
		assert.InDelta(t, I.Y, R.Y, eps)
	}
}

func TestRefract_Snell(t *testing.T) {
	cases := []struct {
		name   string
		n1, n2 float64
		angle  float64
	}{
		{"entering", 1.0, 1.5, 40 * degToRad},
		{"exiting small angle", 1.3, 1.0, 10 * degToRad},
		{"matched", 1.4, 1.4, 25 * degToRad},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			I := incoming(tc.angle)
			cosI := -r3.Dot(I, up)
			T, ok := refract(I, up, cosI, tc.n1, tc.n2)
			require.True(t, ok)
			assert.InDelta(t, 1, r3.Norm(T), 1e-12)
			assert.Less(t, T.Z, 0.0, "refracted photon keeps travelling down")
			// n1 sin i == n2 sin t
			sinT := math.Hypot(T.X, T.Y)
			assert.InDelta(t, tc.n1*math.Sin(tc.angle), tc.n2*sinT, 1e-9)
		})
	}
}

func TestRefract_TIR(t *testing.T) {
	I := incoming(60 * degToRad)
	_, ok := refract(I, up, -r3.Dot(I, up), 1.5, 1.0)
	assert.False(t, ok)
}

func TestStartDirection(t *testing.T) {
	d := startDirection(0, 8*degToRad)
	assert.InDelta(t, 1, r3.Norm(d), eps)
	assert.Less(t, d.Z, 0.0, "default incidence enters the adaxial side first")
	assert.InDelta(t, math.Sin(8*degToRad), d.X, eps)

	d = startDirection(math.Pi/2, math.Pi-0.1)
	assert.Greater(t, d.Z, 0.0)
	assert.InDelta(t, 0, d.X, eps)
}
