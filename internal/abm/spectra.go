package abm

import "path/filepath"

// Spectra holds every per-wavelength property the leaf models need.
// It is read-only once loaded and shared by all workers without locking.
type Spectra struct {
	CarotenoidAbsorption  *SpectralTable
	CelluloseAbsorption   *SpectralTable
	ChlorophyllAbsorption *SpectralTable
	ProteinAbsorption     *SpectralTable
	WaterAbsorption       *SpectralTable
	MesophyllRI           *SpectralTable
	CuticleRI             *SpectralTable
	AntidermalRI          *SpectralTable
}

// LoadSpectra reads the eight spectral files from dir. A missing file is fatal:
// there is no sensible default for an absorption spectrum.
func LoadSpectra(dir string) (*Spectra, error) {
	s := &Spectra{}
	files := []struct {
		name string
		dst  **SpectralTable
	}{
		{CarotenoidAbsorptionFile, &s.CarotenoidAbsorption},
		{CelluloseAbsorptionFile, &s.CelluloseAbsorption},
		{ChlorophyllAbsorptionFile, &s.ChlorophyllAbsorption},
		{ProteinAbsorptionFile, &s.ProteinAbsorption},
		{WaterAbsorptionFile, &s.WaterAbsorption},
		{MesophyllRIFile, &s.MesophyllRI},
		{CuticleRIFile, &s.CuticleRI},
		{AntidermalRIFile, &s.AntidermalRI},
	}
	for _, f := range files {
		t, err := LoadSpectralTable(filepath.Join(dir, f.name), GridBegin, GridStep)
		if err != nil {
			return nil, err
		}
		*f.dst = t
	}
	for _, t := range []*SpectralTable{s.CarotenoidAbsorption, s.CelluloseAbsorption, s.ChlorophyllAbsorption, s.ProteinAbsorption} {
		t.Scale(chromophoreScale)
	}
	DebugLog("Loaded spectra from %s", dir)
	return s, nil
}

// End returns the last wavelength covered by every table.
func (s *Spectra) End() int {
	end := 0
	for i, t := range s.tables() {
		if i == 0 || t.End() < end {
			end = t.End()
		}
	}
	return end
}

func (s *Spectra) tables() []*SpectralTable {
	return []*SpectralTable{
		s.CarotenoidAbsorption, s.CelluloseAbsorption, s.ChlorophyllAbsorption, s.ProteinAbsorption,
		s.WaterAbsorption, s.MesophyllRI, s.CuticleRI, s.AntidermalRI,
	}
}
