package abm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CSVHeader is the first line of every result file.
const CSVHeader = "wavelength, reflectance, transmittance, absorptance"

// WriteCSV writes the header and one row per result, in the given order.
func WriteCSV(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, CSVHeader); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(bw, "%d,%f,%f,%f\n", r.Wavelength, r.Reflectance(), r.Transmittance(), r.Absorptance()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Output is a result file opened before the sweep, so an unwritable path
// fails before any photons are traced.
type Output struct {
	path string
	f    *os.File
}

// CreateOutput opens path for writing, creating parent directories.
func CreateOutput(path string) (*Output, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return &Output{path: path, f: f}, nil
}

// Commit writes results, syncs and closes the file. On failure the file is removed.
func (o *Output) Commit(results []Result) error {
	if err := WriteCSV(o.f, results); err != nil {
		o.Discard()
		return &IOError{Path: o.path, Err: err}
	}
	if err := o.f.Sync(); err != nil {
		o.Discard()
		return &IOError{Path: o.path, Err: err}
	}
	if err := o.f.Close(); err != nil {
		_ = os.Remove(o.path)
		return &IOError{Path: o.path, Err: err}
	}
	return nil
}

// Discard closes and removes the file.
func (o *Output) Discard() {
	_ = o.f.Close()
	_ = os.Remove(o.path)
}
