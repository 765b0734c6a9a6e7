package abm

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSample_Valid(t *testing.T) {
	s := mustParseSample(t, validSampleJSON)
	assert.Equal(t, 0.0204, s.WholeLeafThickness)
	assert.Equal(t, 5.0, s.PalisadeCellCapsAspectRatio)
	assert.Equal(t, 0.00234, s.ChlorophyllAConcentration)
	assert.False(t, s.Bifacial)
	assert.InDelta(t, 0.8*0.0204, s.MesophyllThickness(), 1e-15)
	assert.Contains(t, s.String(), "uniform leaf")
}

func TestParseSample_Bifacial(t *testing.T) {
	body := strings.Replace(validSampleJSON, `"mesophyllFraction": 0.8,`, `"mesophyllFraction": 0.8, "bifacial": true`, 1)
	s := mustParseSample(t, body)
	assert.True(t, s.Bifacial)
	assert.Contains(t, s.String(), "bifacial leaf")
}

func TestParseSample_LegacyLigninKey(t *testing.T) {
	body := strings.Replace(validSampleJSON, `"ligninConcentration": 0.0`, `"linginConcentration": 0.25`, 1)
	s := mustParseSample(t, body)
	assert.Equal(t, 0.25, s.LigninConcentration)

	both := strings.Replace(validSampleJSON, `"ligninConcentration": 0.0,`, `"ligninConcentration": 0.1, "linginConcentration": 0.2,`, 1)
	_, err := ParseSample(strings.NewReader(both))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "linginConcentration")
}

func TestParseSample_CollectsAllProblems(t *testing.T) {
	body := `{
		"wholeLeafThickness": "thick",
		"colour": "green",
		"mesophyllFraction": 0.5
	}`
	_, err := ParseSample(strings.NewReader(body))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	msg := pe.Error()
	assert.Contains(t, msg, `unknown key: "colour"`)
	assert.Contains(t, msg, `key "wholeLeafThickness": expected a number`)
	assert.Contains(t, msg, `missing key: "carotenoidConcentration"`)
	assert.Contains(t, msg, `missing key: "spongyCellCapsAspectRatio"`)
	assert.NotContains(t, msg, `missing key: "mesophyllFraction"`)
	// 1 unknown + 1 type error + 10 missing numeric keys
	assert.Len(t, pe.Problems, 12)
}

func TestParseSample_NullIsATypeError(t *testing.T) {
	body := strings.Replace(validSampleJSON, `"wholeLeafThickness": 0.0204`, `"wholeLeafThickness": null`, 1)
	_, err := ParseSample(strings.NewReader(body))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, []string{`key "wholeLeafThickness": expected a number, got null`}, pe.Problems)

	body = strings.Replace(validSampleJSON, `"mesophyllFraction": 0.8,`, `"mesophyllFraction": 0.8, "bifacial": null`, 1)
	_, err = ParseSample(strings.NewReader(body))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, []string{`key "bifacial": expected a boolean, got null`}, pe.Problems)
}

func TestParseSample_Malformed(t *testing.T) {
	for _, body := range []string{``, `{`, `[1, 2]`, `{"wholeLeafThickness": }`} {
		_, err := ParseSample(strings.NewReader(body))
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, "body %q", body)
	}
}

func TestParseSample_Validation(t *testing.T) {
	cases := []struct {
		from, to, want string
	}{
		{`"wholeLeafThickness": 0.0204`, `"wholeLeafThickness": -1`, "wholeLeafThickness"},
		{`"carotenoidConcentration": 0.0005`, `"carotenoidConcentration": -0.1`, "carotenoidConcentration"},
		{`"spongyCellCapsAspectRatio": 5`, `"spongyCellCapsAspectRatio": 0`, "spongyCellCapsAspectRatio must be > 0"},
		{`"mesophyllFraction": 0.8`, `"mesophyllFraction": 1.5`, "mesophyllFraction must be in [0, 1]"},
	}
	for _, c := range cases {
		body := strings.Replace(validSampleJSON, c.from, c.to, 1)
		require.NotEqual(t, validSampleJSON, body, c.from)
		_, err := ParseSample(strings.NewReader(body))
		require.Error(t, err, c.to)
		assert.Contains(t, err.Error(), c.want)
	}
}

func TestLoadSample(t *testing.T) {
	s, err := LoadSample(writeSample(t, validSampleJSON))
	require.NoError(t, err)
	assert.Equal(t, 0.8, s.MesophyllFraction)

	missing := filepath.Join(t.TempDir(), "nope.json")
	_, err = LoadSample(missing)
	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	assert.Equal(t, missing, ioe.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, ExitIO, ExitCode(err))

	bad := writeSample(t, `{"colour": 1}`)
	_, err = LoadSample(bad)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, bad, pe.Source)
	assert.True(t, strings.HasPrefix(err.Error(), bad+": "))
}
