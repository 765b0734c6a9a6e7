package abm

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// absorbedState is the terminal state of a photon that never leaves the leaf.
const absorbedState = -2

var (
	normalUp   = r3.Vec{Z: 1}
	normalDown = r3.Vec{Z: -1}
)

// Incidence angles of the illumination, in radians.
type Incidence struct {
	Azimuth float64
	Polar   float64
}

type TransportOptions struct {
	// DisableSieve scales the free path by the raw obliquity cosI instead of cos(cosI).
	DisableSieve bool
	// MaxInteractions caps interface events per photon; 0 means unlimited.
	MaxInteractions int
	// Wavelength is only used to label traced events.
	Wavelength int
}

// Tally counts photon fates.
type Tally struct {
	Reflected   int
	Transmitted int
	Absorbed    int
}

func (t Tally) Total() int { return t.Reflected + t.Transmitted + t.Absorbed }

func (t Tally) fraction(n int) float64 {
	if total := t.Total(); total > 0 {
		return float64(n) / float64(total)
	}
	return 0
}

func (t Tally) Reflectance() float64   { return t.fraction(t.Reflected) }
func (t Tally) Transmittance() float64 { return t.fraction(t.Transmitted) }

// Absorptance is derived, so the three fractions always sum to one.
func (t Tally) Absorptance() float64 {
	if t.Total() == 0 {
		return 0
	}
	return 1 - (t.Reflectance() + t.Transmittance())
}

func (t *Tally) Add(o Tally) {
	t.Reflected += o.Reflected
	t.Transmitted += o.Transmitted
	t.Absorbed += o.Absorbed
}

// RunTrials fires n photons through the stack and tallies where they end up.
// The rng must not be shared with other goroutines.
func RunTrials(stack *Stack, n int, inc Incidence, opts TransportOptions, rng *rand.Rand) Tally {
	start := startDirection(inc.Azimuth, inc.Polar)
	size := stack.Size()

	// Photons arriving from above start at the first interface, photons from
	// below at the last one; escaping back out the entry side is reflection.
	startState, reflectedState, transmittedState := 0, -1, size
	if start.Z >= 0 {
		startState, reflectedState, transmittedState = size-1, size, -1
	}

	var tally Tally
	snapshot := make([]Interface, 0, size)
	for i := 0; i < n; i++ {
		snapshot = stack.PrepareForSample(rng, snapshot)
		switch tracePhoton(snapshot, start, startState, opts, rng) {
		case reflectedState:
			tally.Reflected++
			if Trace {
				logPhoton(Reflected, opts.Wavelength, reflectedState, r3.Vec{}, 0)
			}
		case transmittedState:
			tally.Transmitted++
			if Trace {
				logPhoton(Transmitted, opts.Wavelength, transmittedState, r3.Vec{}, 0)
			}
		default:
			tally.Absorbed++
		}
	}
	return tally
}

// tracePhoton follows one photon from state until it leaves the stack
// (returns -1 or len(ifaces)) or is absorbed (returns absorbedState).
func tracePhoton(ifaces []Interface, D r3.Vec, state int, opts TransportOptions, rng *rand.Rand) int {
	for step := 0; state >= 0 && state < len(ifaces); step++ {
		if opts.MaxInteractions > 0 && step >= opts.MaxInteractions {
			if Trace {
				logPhoton(InteractionLimit, opts.Wavelength, state, D, step)
			}
			return absorbedState
		}
		it := &ifaces[state]

		var (
			N                          r3.Vec
			n1, n2                     float64
			pertReflect, pertRefract   float64
			reflectState, refractState int
			thickness, absorption      float64
		)
		if D.Z < 0 {
			// travelling down: crossing from the layer above into the one below
			N = normalUp
			n1, n2 = it.NAbove, it.NBelow
			pertReflect, pertRefract = it.PerturbanceDownAbove, it.PerturbanceDownBelow
			reflectState, refractState = state-1, state+1
			thickness, absorption = it.ThicknessAbove, it.AbsorptionAbove
		} else {
			N = normalDown
			n1, n2 = it.NBelow, it.NAbove
			pertReflect, pertRefract = it.PerturbanceUpBelow, it.PerturbanceUpAbove
			reflectState, refractState = state+1, state-1
			thickness, absorption = it.ThicknessBelow, it.AbsorptionBelow
		}

		cosI := -r3.Dot(D, N)
		if cosI < 0 {
			cosI = 0
		} else if cosI > 1 {
			cosI = 1
		}

		if thickness > 0 && freePath(cosI, absorption, opts.DisableSieve, rng) < thickness {
			if Trace {
				logPhoton(Absorb, opts.Wavelength, state, D, step)
			}
			return absorbedState
		}

		F := fresnel(cosI, n1, n2)
		if rng.Float64() < F {
			D = r3.Unit(reflect(D, N, cosI))
			if perturbs(pertReflect) {
				D = brakke(D, pertReflect, rng)
			}
			if Trace {
				cat := Reflect
				if F == 1 {
					cat = TIR
				}
				logPhoton(cat, opts.Wavelength, state, D, step)
			}
			state = reflectState
			continue
		}

		T, ok := refract(D, N, cosI, n1, n2)
		if !ok {
			// F < 1 rules this out; keep the photon on its side if rounding disagrees.
			T = reflect(D, N, cosI)
			refractState = reflectState
		}
		D = r3.Unit(T)
		if perturbs(pertRefract) {
			D = brakke(D, pertRefract, rng)
		}
		if Trace {
			logPhoton(Refract, opts.Wavelength, state, D, step)
		}
		state = refractState
	}
	return state
}

// freePath samples the distance travelled before absorption: exponential with
// rate absorption, scaled by cosI, or by cos(cosI) when the sieve effect is on.
func freePath(cosI, absorption float64, disableSieve bool, rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	l := -math.Log(u) / absorption
	if disableSieve {
		return l * cosI
	}
	return l * math.Cos(cosI)
}
