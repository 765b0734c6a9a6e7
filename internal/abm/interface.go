package abm

import (
	"fmt"
	"io"
	"math/rand"
)

// Leg tags a layer side whose thickness is re-drawn for every photon.
type Leg uint8

const (
	LegNone   Leg = iota // fixed thickness
	LegFirst             // p * T
	LegSecond            // (1-p) * T
)

func (l Leg) String() string {
	switch l {
	case LegFirst:
		return "p"
	case LegSecond:
		return "1-p"
	}
	return "-"
}

// Interface is one optical boundary. "Above" is the adaxial side.
type Interface struct {
	Name string

	NAbove, NBelow float64

	// Brakke aspect ratios; NoPerturbance leaves the direction alone.
	PerturbanceDownAbove float64
	PerturbanceDownBelow float64
	PerturbanceUpAbove   float64
	PerturbanceUpBelow   float64

	AbsorptionAbove, AbsorptionBelow float64
	ThicknessAbove, ThicknessBelow   float64

	SplitAbove, SplitBelow Leg
}

// NewInterface returns an index-matched, non-absorbing, smooth boundary.
func NewInterface(name string) Interface {
	return Interface{
		Name:                 name,
		NAbove:               AirRI,
		NBelow:               AirRI,
		PerturbanceDownAbove: NoPerturbance,
		PerturbanceDownBelow: NoPerturbance,
		PerturbanceUpAbove:   NoPerturbance,
		PerturbanceUpBelow:   NoPerturbance,
	}
}

// Stack is the leaf cross-section for one wavelength, listed adaxial first.
// It is never modified after construction; per-photon geometry lives in the
// snapshot returned by PrepareForSample.
type Stack struct {
	interfaces []Interface
	// total thickness partitioned between LegFirst and LegSecond sides
	splitThickness float64
	hasSplit       bool
}

// NewStack copies ifaces. splitThickness is the total shared by the split legs.
func NewStack(ifaces []Interface, splitThickness float64) *Stack {
	s := &Stack{
		interfaces:     make([]Interface, len(ifaces)),
		splitThickness: splitThickness,
	}
	copy(s.interfaces, ifaces)
	for _, it := range s.interfaces {
		if it.SplitAbove != LegNone || it.SplitBelow != LegNone {
			s.hasSplit = true
		}
	}
	return s
}

func (s *Stack) Size() int { return len(s.interfaces) }

func (s *Stack) Get(i int) Interface { return s.interfaces[i] }

// PrepareForSample writes this photon's view of the stack into dst (grown as
// needed) and returns it. Stacks with split legs draw one p ~ U[0,1) and give
// LegFirst sides p*T and LegSecond sides (1-p)*T; other stacks consume no
// random numbers.
func (s *Stack) PrepareForSample(rng *rand.Rand, dst []Interface) []Interface {
	dst = append(dst[:0], s.interfaces...)
	if !s.hasSplit {
		return dst
	}
	p := rng.Float64()
	leg := func(l Leg, cur float64) float64 {
		switch l {
		case LegFirst:
			return p * s.splitThickness
		case LegSecond:
			return (1 - p) * s.splitThickness
		}
		return cur
	}
	for i := range dst {
		dst[i].ThicknessAbove = leg(dst[i].SplitAbove, dst[i].ThicknessAbove)
		dst[i].ThicknessBelow = leg(dst[i].SplitBelow, dst[i].ThicknessBelow)
	}
	return dst
}

// DumpStack prints one line per interface.
func DumpStack(w io.Writer, s *Stack) {
	fmt.Fprintf(w, "[STACK] %d interfaces, split thickness=%g\n", s.Size(), s.splitThickness)
	for i, it := range s.interfaces {
		fmt.Fprintf(w, " #%d %-32s n=%.4f/%.4f abs=%.4g/%.4g thick=%.4g(%s)/%.4g(%s) pert(down)=%s/%s pert(up)=%s/%s\n",
			i, it.Name,
			it.NAbove, it.NBelow,
			it.AbsorptionAbove, it.AbsorptionBelow,
			it.ThicknessAbove, it.SplitAbove, it.ThicknessBelow, it.SplitBelow,
			fmtPerturbance(it.PerturbanceDownAbove), fmtPerturbance(it.PerturbanceDownBelow),
			fmtPerturbance(it.PerturbanceUpAbove), fmtPerturbance(it.PerturbanceUpBelow))
	}
}

func fmtPerturbance(p float64) string {
	if !perturbs(p) {
		return "none"
	}
	return fmt.Sprintf("%g", p)
}
