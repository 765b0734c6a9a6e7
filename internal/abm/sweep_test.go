package abm

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWavelengths(t *testing.T) {
	assert.Equal(t, []int{400, 405, 410}, Wavelengths(400, 410, 5))
	assert.Equal(t, []int{400, 405}, Wavelengths(400, 409, 5))
	assert.Equal(t, []int{500}, Wavelengths(500, 500, 5))
	assert.Nil(t, Wavelengths(410, 400, 5))
	assert.Nil(t, Wavelengths(400, 410, 0))
}

func TestTaskSeedDiffersPerWavelength(t *testing.T) {
	seen := map[int64]int{}
	for _, w := range Wavelengths(400, 2500, 5) {
		s := taskSeed(42, w)
		_, dup := seen[s]
		require.False(t, dup, "seed collision at %d nm", w)
		seen[s] = w
	}
	assert.Equal(t, taskSeed(7, 400), taskSeed(7, 400))
	assert.NotEqual(t, taskSeed(7, 400), taskSeed(8, 400))
}

func sweepConfig(workers int) SweepConfig {
	return SweepConfig{
		Start: 400, End: 410, Step: 5,
		Samples:   300,
		Workers:   workers,
		Incidence: Incidence{Polar: 8 * degToRad},
		Transport: TransportOptions{MaxInteractions: DefaultMaxInteractions},
		Seed:      12345,
	}
}

func TestSweep_OrderedAndDeterministic(t *testing.T) {
	sample := mustParseSample(t, validSampleJSON)
	builder := NewBuilder(uniformSpectra(5, 2, 1.415, 1.5, 1.535), false)

	var first []Result
	for _, workers := range []int{1, 2, 4, 8} {
		res, err := Sweep(sweepConfig(workers), sample, builder)
		require.NoError(t, err, "workers=%d", workers)
		require.Len(t, res, 3)
		for i, w := range []int{400, 405, 410} {
			assert.Equal(t, w, res[i].Wavelength)
			assert.Equal(t, 300, res[i].Tally.Total())
			assert.InDelta(t, 1.0, res[i].Reflectance()+res[i].Transmittance()+res[i].Absorptance(), 1e-12)
		}
		if first == nil {
			first = res
			continue
		}
		assert.Equal(t, first, res, "workers=%d", workers)
	}
}

func TestSweep_InvalidConfig(t *testing.T) {
	sample := mustParseSample(t, validSampleJSON)
	builder := NewBuilder(uniformSpectra(5, 2, 1.415, 1.5, 1.535), false)
	for _, mut := range []func(*SweepConfig){
		func(c *SweepConfig) { c.Step = 0 },
		func(c *SweepConfig) { c.End = 395 },
		func(c *SweepConfig) { c.Samples = 0 },
	} {
		cfg := sweepConfig(2)
		mut(&cfg)
		_, err := Sweep(cfg, sample, builder)
		var ce *ConfigError
		assert.ErrorAs(t, err, &ce)
	}
}

// countingBuilder fails on one wavelength and records every call.
type countingBuilder struct {
	Builder
	failAt int
	mu     sync.Mutex
	calls  []int
}

var errBuild = errors.New("no data")

func (b *countingBuilder) Build(sample *Sample, wavelength int) (*Stack, error) {
	b.mu.Lock()
	b.calls = append(b.calls, wavelength)
	b.mu.Unlock()
	if wavelength == b.failAt {
		return nil, errBuild
	}
	return b.Builder.Build(sample, wavelength)
}

func TestSweep_FailureRunsEveryTaskAndReportsError(t *testing.T) {
	sample := mustParseSample(t, validSampleJSON)
	b := &countingBuilder{Builder: NewBuilder(uniformSpectra(5, 2, 1.415, 1.5, 1.535), true), failAt: 405}
	res, err := Sweep(sweepConfig(2), sample, b)
	assert.Nil(t, res)
	require.ErrorIs(t, err, errBuild)
	assert.ElementsMatch(t, []int{400, 405, 410}, b.calls)
	assert.Equal(t, ExitIO, ExitCode(err))
}

func TestSweep_OutOfRangeWavelength(t *testing.T) {
	sample := mustParseSample(t, validSampleJSON)
	cfg := sweepConfig(4)
	cfg.End = 430 // tables stop at 420 nm
	_, err := Sweep(cfg, sample, NewBuilder(uniformSpectra(5, 2, 1.415, 1.5, 1.535), false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside 400-420 nm")
}

func TestResultCollector(t *testing.T) {
	c := &resultCollector{}
	c.add(Result{Wavelength: 410})
	c.add(Result{Wavelength: 400})
	c.fail(errBuild)
	c.fail(errors.New("second"))
	assert.Equal(t, []int{400, 410}, []int{c.sorted()[0].Wavelength, c.sorted()[1].Wavelength})
	assert.Equal(t, errBuild, c.err)
}
