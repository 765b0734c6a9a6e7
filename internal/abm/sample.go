package abm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/tailscale/hujson"
)

// Sample is the biophysical description of one leaf.
type Sample struct {
	WholeLeafThickness            float64 `json:"wholeLeafThickness"`
	CuticleUndulationsAspectRatio float64 `json:"cuticleUndulationsAspectRatio"`
	EpidermisCellCapsAspectRatio  float64 `json:"epidermisCellCapsAspectRatio"`
	SpongyCellCapsAspectRatio     float64 `json:"spongyCellCapsAspectRatio"`
	PalisadeCellCapsAspectRatio   float64 `json:"palisadeCellCapsAspectRatio"`
	ProteinConcentration          float64 `json:"proteinConcentration"`
	CelluloseConcentration        float64 `json:"celluloseConcentration"`
	LigninConcentration           float64 `json:"ligninConcentration"`
	ChlorophyllAConcentration     float64 `json:"chlorophyllAConcentration"`
	ChlorophyllBConcentration     float64 `json:"chlorophyllBConcentration"`
	CarotenoidConcentration       float64 `json:"carotenoidConcentration"`
	MesophyllFraction             float64 `json:"mesophyllFraction"`
	Bifacial                      bool    `json:"bifacial"`
}

// legacyLigninKey is the historical misspelling still found in older sample files.
const legacyLigninKey = "linginConcentration"

// MesophyllThickness is the share of the leaf occupied by mesophyll.
func (s *Sample) MesophyllThickness() float64 {
	return s.MesophyllFraction * s.WholeLeafThickness
}

// sampleFields returns a pointer for every numeric key, keyed by its JSON name.
func (s *Sample) sampleFields() map[string]*float64 {
	return map[string]*float64{
		"wholeLeafThickness":            &s.WholeLeafThickness,
		"cuticleUndulationsAspectRatio": &s.CuticleUndulationsAspectRatio,
		"epidermisCellCapsAspectRatio":  &s.EpidermisCellCapsAspectRatio,
		"spongyCellCapsAspectRatio":     &s.SpongyCellCapsAspectRatio,
		"palisadeCellCapsAspectRatio":   &s.PalisadeCellCapsAspectRatio,
		"proteinConcentration":          &s.ProteinConcentration,
		"celluloseConcentration":        &s.CelluloseConcentration,
		"ligninConcentration":           &s.LigninConcentration,
		"chlorophyllAConcentration":     &s.ChlorophyllAConcentration,
		"chlorophyllBConcentration":     &s.ChlorophyllBConcentration,
		"carotenoidConcentration":       &s.CarotenoidConcentration,
		"mesophyllFraction":             &s.MesophyllFraction,
	}
}

// LoadSample opens and parses a sample file.
func LoadSample(path string) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()
	s, err := ParseSample(f)
	if pe, ok := err.(*ParseError); ok {
		pe.Source = path
	}
	if err != nil {
		return nil, err
	}
	DebugLog("Loaded sample from %s: %+v", path, *s)
	return s, nil
}

// ParseSample decodes a sample record. Comments and trailing commas are allowed.
// Unknown and missing keys are all collected into a single *ParseError.
func ParseSample(r io.Reader) (*Sample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	pe := &ParseError{}
	v, err := hujson.Parse(data)
	if err != nil {
		pe.add("malformed record: %v", err)
		return nil, pe
	}
	v.Standardize()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(v.Pack(), &raw); err != nil {
		pe.add("malformed record: %v", err)
		return nil, pe
	}

	s := &Sample{}
	fields := s.sampleFields()
	if legacy, ok := raw[legacyLigninKey]; ok {
		if _, dup := raw["ligninConcentration"]; dup {
			pe.add("both %q and %q given", "ligninConcentration", legacyLigninKey)
		} else {
			raw["ligninConcentration"] = legacy
		}
		delete(raw, legacyLigninKey)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg := raw[k]
		// Unmarshal leaves the zero value on null, which would pass as present.
		isNull := bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
		if k == "bifacial" {
			if err := json.Unmarshal(msg, &s.Bifacial); err != nil || isNull {
				pe.add("key %q: expected a boolean, got %s", k, bytes.TrimSpace(msg))
			}
			continue
		}
		dst, ok := fields[k]
		if !ok {
			pe.add("unknown key: %q", k)
			continue
		}
		if err := json.Unmarshal(msg, dst); err != nil || isNull {
			pe.add("key %q: expected a number, got %s", k, bytes.TrimSpace(msg))
		}
	}

	missing := make([]string, 0)
	for k := range fields {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	for _, k := range missing {
		pe.add("missing key: %q", k)
	}

	if len(pe.Problems) == 0 {
		s.validate(pe)
	}
	if len(pe.Problems) > 0 {
		return nil, pe
	}
	return s, nil
}

func (s *Sample) validate(pe *ParseError) {
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"wholeLeafThickness", s.WholeLeafThickness},
		{"proteinConcentration", s.ProteinConcentration},
		{"celluloseConcentration", s.CelluloseConcentration},
		{"ligninConcentration", s.LigninConcentration},
		{"chlorophyllAConcentration", s.ChlorophyllAConcentration},
		{"chlorophyllBConcentration", s.ChlorophyllBConcentration},
		{"carotenoidConcentration", s.CarotenoidConcentration},
	}
	for _, f := range nonNegative {
		if f.v < 0 || !isFinite(f.v) {
			pe.add("%s must be a finite value >= 0, got %g", f.name, f.v)
		}
	}
	aspect := []struct {
		name string
		v    float64
	}{
		{"cuticleUndulationsAspectRatio", s.CuticleUndulationsAspectRatio},
		{"epidermisCellCapsAspectRatio", s.EpidermisCellCapsAspectRatio},
		{"spongyCellCapsAspectRatio", s.SpongyCellCapsAspectRatio},
		{"palisadeCellCapsAspectRatio", s.PalisadeCellCapsAspectRatio},
	}
	for _, f := range aspect {
		if !(f.v > 0) || math.IsNaN(f.v) {
			pe.add("%s must be > 0, got %g", f.name, f.v)
		}
	}
	if s.MesophyllFraction < 0 || s.MesophyllFraction > 1 || math.IsNaN(s.MesophyllFraction) {
		pe.add("mesophyllFraction must be in [0, 1], got %g", s.MesophyllFraction)
	}
}

func (s Sample) String() string {
	model := "uniform"
	if s.Bifacial {
		model = "bifacial"
	}
	return fmt.Sprintf("%s leaf, thickness=%g, mesophyll=%g", model, s.WholeLeafThickness, s.MesophyllFraction)
}
