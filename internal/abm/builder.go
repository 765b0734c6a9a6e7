package abm

import (
	"errors"
	"fmt"
)

// Builder assembles the interface stack of a leaf at one wavelength.
// Implementations are safe for concurrent use: they only read their Spectra.
type Builder interface {
	Build(sample *Sample, wavelength int) (*Stack, error)
}

// NewBuilder selects the leaf model: bifacial (ABM-B) or uniform mesophyll (ABM-U).
func NewBuilder(spectra *Spectra, bifacial bool) Builder {
	if bifacial {
		return &bifacialBuilder{spectra: spectra}
	}
	return &uniformBuilder{spectra: spectra}
}

// LayerOptics are the per-wavelength properties of the leaf media.
type LayerOptics struct {
	AirRI               float64
	CuticleRI           float64
	MesophyllRI         float64
	AntidermalRI        float64
	MesophyllAbsorption float64
	MesophyllThickness  float64
}

var errNoSpectrum = errors.New("spectrum not loaded")

// spectralLookup keeps the first lookup error so a block of lookups can be
// checked once.
type spectralLookup struct {
	wavelength int
	err        error
}

func (l *spectralLookup) at(t *SpectralTable) float64 {
	if l.err != nil {
		return 0
	}
	if t == nil {
		l.err = errNoSpectrum
		return 0
	}
	v, err := t.Lookup(l.wavelength)
	if err != nil {
		l.err = err
	}
	return v
}

// layerOpticsAt sums every chromophore's concentration times its specific
// absorption, plus water. Lignin has no spectrum of its own and borrows cellulose's.
func layerOpticsAt(sample *Sample, sp *Spectra, wavelength int) (LayerOptics, error) {
	l := &spectralLookup{wavelength: wavelength}
	protein := sample.ProteinConcentration * l.at(sp.ProteinAbsorption)
	chlorophyll := (sample.ChlorophyllAConcentration + sample.ChlorophyllBConcentration) * l.at(sp.ChlorophyllAbsorption)
	carotenoid := sample.CarotenoidConcentration * l.at(sp.CarotenoidAbsorption)
	cellulose := sample.CelluloseConcentration * l.at(sp.CelluloseAbsorption)
	lignin := sample.LigninConcentration * l.at(sp.CelluloseAbsorption)
	water := l.at(sp.WaterAbsorption)

	lo := LayerOptics{
		AirRI:               AirRI,
		CuticleRI:           l.at(sp.CuticleRI),
		MesophyllRI:         l.at(sp.MesophyllRI),
		AntidermalRI:        l.at(sp.AntidermalRI),
		MesophyllAbsorption: protein + chlorophyll + carotenoid + cellulose + lignin + water,
		MesophyllThickness:  sample.MesophyllThickness(),
	}
	if l.err != nil {
		return LayerOptics{}, fmt.Errorf("optics at %d nm: %w", wavelength, l.err)
	}
	return lo, nil
}

// uniformBuilder models a leaf with one homogeneous mesophyll (ABM-U). The air
// gap in the middle lets a photon re-enter the mesophyll from either side; the
// mesophyll thickness is split at a random point for every photon.
type uniformBuilder struct {
	spectra *Spectra
}

func (b *uniformBuilder) Build(sample *Sample, wavelength int) (*Stack, error) {
	lo, err := layerOpticsAt(sample, b.spectra, wavelength)
	if err != nil {
		return nil, err
	}
	return uniformStack(sample, lo), nil
}

func uniformStack(sample *Sample, lo LayerOptics) *Stack {
	cuticle := sample.CuticleUndulationsAspectRatio
	epidermis := sample.EpidermisCellCapsAspectRatio
	spongy := sample.SpongyCellCapsAspectRatio

	airCuticle := NewInterface("Air<->Adaxial Epidermis")
	airCuticle.NAbove, airCuticle.NBelow = lo.AirRI, lo.CuticleRI
	airCuticle.PerturbanceDownAbove = cuticle
	airCuticle.PerturbanceDownBelow = epidermis
	airCuticle.PerturbanceUpBelow = epidermis

	epidermisMesophyll := NewInterface("Adaxial Epidermis<->Mesophyll")
	epidermisMesophyll.NAbove, epidermisMesophyll.NBelow = lo.CuticleRI, lo.MesophyllRI
	epidermisMesophyll.PerturbanceDownAbove = epidermis
	epidermisMesophyll.PerturbanceUpAbove = epidermis
	epidermisMesophyll.PerturbanceDownBelow = spongy
	epidermisMesophyll.PerturbanceUpBelow = spongy
	epidermisMesophyll.ThicknessBelow = lo.MesophyllThickness
	epidermisMesophyll.AbsorptionBelow = lo.MesophyllAbsorption
	epidermisMesophyll.SplitBelow = LegFirst

	mesophyllAir := NewInterface("Mesophyll<->Air")
	mesophyllAir.NAbove, mesophyllAir.NBelow = lo.MesophyllRI, lo.AirRI
	mesophyllAir.PerturbanceDownAbove = spongy
	mesophyllAir.PerturbanceUpAbove = spongy
	mesophyllAir.PerturbanceDownBelow = spongy
	mesophyllAir.PerturbanceUpBelow = spongy
	mesophyllAir.ThicknessAbove = lo.MesophyllThickness
	mesophyllAir.AbsorptionAbove = lo.MesophyllAbsorption
	mesophyllAir.SplitAbove = LegFirst

	airMesophyll := NewInterface("Air<->Mesophyll")
	airMesophyll.NAbove, airMesophyll.NBelow = lo.AirRI, lo.MesophyllRI
	airMesophyll.PerturbanceDownAbove = spongy
	airMesophyll.PerturbanceUpAbove = spongy
	airMesophyll.PerturbanceDownBelow = spongy
	airMesophyll.PerturbanceUpBelow = spongy
	airMesophyll.ThicknessBelow = lo.MesophyllThickness
	airMesophyll.AbsorptionBelow = lo.MesophyllAbsorption
	airMesophyll.SplitBelow = LegSecond

	mesophyllEpidermis := NewInterface("Mesophyll<->Abaxial Epidermis")
	mesophyllEpidermis.NAbove, mesophyllEpidermis.NBelow = lo.MesophyllRI, lo.CuticleRI
	mesophyllEpidermis.PerturbanceDownAbove = spongy
	mesophyllEpidermis.PerturbanceUpAbove = spongy
	mesophyllEpidermis.PerturbanceDownBelow = epidermis
	mesophyllEpidermis.PerturbanceUpBelow = epidermis
	mesophyllEpidermis.ThicknessAbove = lo.MesophyllThickness
	mesophyllEpidermis.AbsorptionAbove = lo.MesophyllAbsorption
	mesophyllEpidermis.SplitAbove = LegSecond

	epidermisAir := NewInterface("Abaxial Epidermis<->Air")
	epidermisAir.NAbove, epidermisAir.NBelow = lo.CuticleRI, lo.AirRI
	epidermisAir.PerturbanceDownAbove = spongy
	epidermisAir.PerturbanceUpAbove = spongy
	epidermisAir.PerturbanceUpBelow = cuticle

	return NewStack([]Interface{
		airCuticle, epidermisMesophyll, mesophyllAir,
		airMesophyll, mesophyllEpidermis, epidermisAir,
	}, lo.MesophyllThickness)
}

// bifacialBuilder models a dorsiventral leaf (ABM-B): palisade over spongy
// mesophyll, then an air gap, antidermal wall and abaxial cuticle. No boundary
// is resampled per photon.
type bifacialBuilder struct {
	spectra *Spectra
}

func (b *bifacialBuilder) Build(sample *Sample, wavelength int) (*Stack, error) {
	lo, err := layerOpticsAt(sample, b.spectra, wavelength)
	if err != nil {
		return nil, err
	}
	return bifacialStack(sample, lo), nil
}

func bifacialStack(sample *Sample, lo LayerOptics) *Stack {
	cuticle := sample.CuticleUndulationsAspectRatio
	epidermis := sample.EpidermisCellCapsAspectRatio
	palisade := sample.PalisadeCellCapsAspectRatio
	spongy := sample.SpongyCellCapsAspectRatio

	airCuticle := NewInterface("Air<->Adaxial Epidermis")
	airCuticle.NAbove, airCuticle.NBelow = lo.AirRI, lo.CuticleRI
	airCuticle.PerturbanceDownAbove = cuticle
	airCuticle.PerturbanceDownBelow = epidermis
	airCuticle.PerturbanceUpBelow = epidermis

	epidermisMesophyll := NewInterface("Adaxial Epidermis<->Mesophyll")
	epidermisMesophyll.NAbove, epidermisMesophyll.NBelow = lo.CuticleRI, lo.MesophyllRI
	epidermisMesophyll.PerturbanceDownAbove = epidermis
	epidermisMesophyll.PerturbanceUpAbove = epidermis
	epidermisMesophyll.PerturbanceDownBelow = palisade
	epidermisMesophyll.PerturbanceUpBelow = palisade
	epidermisMesophyll.ThicknessBelow = lo.MesophyllThickness
	epidermisMesophyll.AbsorptionBelow = lo.MesophyllAbsorption

	mesophyllAir := NewInterface("Mesophyll<->Air")
	mesophyllAir.NAbove, mesophyllAir.NBelow = lo.MesophyllRI, lo.AirRI
	mesophyllAir.PerturbanceDownAbove = palisade
	mesophyllAir.PerturbanceUpAbove = palisade
	mesophyllAir.PerturbanceDownBelow = spongy
	mesophyllAir.PerturbanceUpBelow = spongy
	mesophyllAir.ThicknessAbove = lo.MesophyllThickness
	mesophyllAir.AbsorptionAbove = lo.MesophyllAbsorption

	// The antidermal wall is modelled as a smooth, clear boundary.
	airAntidermal := NewInterface("Air<->Antidermal Wall")
	airAntidermal.NAbove, airAntidermal.NBelow = lo.AirRI, lo.AntidermalRI

	antidermalCuticle := NewInterface("Antidermal Wall<->Cuticle")
	antidermalCuticle.NAbove, antidermalCuticle.NBelow = lo.AntidermalRI, lo.CuticleRI
	antidermalCuticle.PerturbanceDownBelow = epidermis
	antidermalCuticle.PerturbanceUpBelow = epidermis

	cuticleAir := NewInterface("Cuticle<->Air")
	cuticleAir.NAbove, cuticleAir.NBelow = lo.CuticleRI, lo.AirRI
	cuticleAir.PerturbanceDownAbove = epidermis
	cuticleAir.PerturbanceUpAbove = epidermis
	cuticleAir.PerturbanceUpBelow = cuticle

	return NewStack([]Interface{
		airCuticle, epidermisMesophyll, mesophyllAir,
		airAntidermal, antidermalCuticle, cuticleAir,
	}, 0)
}
