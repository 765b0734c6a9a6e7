package abm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/floats"
)

// SpectralTable is a spectrum sampled every Step nm starting at Begin nm.
// Lookups do not interpolate: the wavelength must sit on a grid point.
type SpectralTable struct {
	Name  string
	Begin int
	Step  int
	data  []float64
}

// NewSpectralTable wraps already sampled values.
func NewSpectralTable(name string, begin, step int, values []float64) *SpectralTable {
	data := make([]float64, len(values))
	copy(data, values)
	return &SpectralTable{Name: name, Begin: begin, Step: step, data: data}
}

// LoadSpectralTable reads one value per line, skipping blank lines.
// When path does not exist but path+".gz" does, the compressed file is read instead.
func LoadSpectralTable(path string, begin, step int) (*SpectralTable, error) {
	if step <= 0 {
		return nil, configErrorf("spectral step must be positive, got %d", step)
	}
	f, err := os.Open(path)
	name := path
	var r io.Reader = f
	if errors.Is(err, fs.ErrNotExist) {
		gz, gzErr := os.Open(path + ".gz")
		if gzErr != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		f, name = gz, path+".gz"
		zr, zErr := gzip.NewReader(gz)
		if zErr != nil {
			_ = gz.Close()
			return nil, &IOError{Path: name, Err: zErr}
		}
		defer zr.Close()
		r = zr
	} else if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	DebugLog("Reading in %s", name)
	values, err := readSpectrum(r)
	if err != nil {
		return nil, &IOError{Path: name, Err: err}
	}
	return &SpectralTable{Name: name, Begin: begin, Step: step, data: values}, nil
}

func readSpectrum(r io.Reader) ([]float64, error) {
	var values []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// Len returns the number of grid points.
func (t *SpectralTable) Len() int { return len(t.data) }

// End returns the last wavelength covered by the table.
func (t *SpectralTable) End() int { return t.Begin + (len(t.data)-1)*t.Step }

// Scale multiplies every value by f. Only call it before the table is shared.
func (t *SpectralTable) Scale(f float64) {
	floats.Scale(f, t.data)
}

// Lookup returns the value at wavelength (nm).
func (t *SpectralTable) Lookup(wavelength int) (float64, error) {
	off := wavelength - t.Begin
	if off%t.Step != 0 {
		return 0, fmt.Errorf("%s: wavelength %d nm is not on the %d nm grid starting at %d nm", t.Name, wavelength, t.Step, t.Begin)
	}
	idx := off / t.Step
	if idx < 0 || idx >= len(t.data) {
		return 0, fmt.Errorf("%s: wavelength %d nm outside %d-%d nm", t.Name, wavelength, t.Begin, t.End())
	}
	return t.data[idx], nil
}
