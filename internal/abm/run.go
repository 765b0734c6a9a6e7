package abm

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Config is a complete, validated description of one simulation run.
type Config struct {
	SamplePath string
	OutputPath string
	DataDir    string

	Samples    int
	AzimuthDeg float64
	PolarDeg   float64
	Start, End int // nm
	Step       int // nm
	Workers    int

	DisableSieve    bool
	MaxInteractions int
	Seed            int64 // 0 seeds from the clock
}

func DefaultConfig() Config {
	return Config{
		DataDir:         DefaultDataDir,
		Samples:         DefaultSamples,
		AzimuthDeg:      DefaultAzimuthDeg,
		PolarDeg:        DefaultPolarDeg,
		Start:           DefaultStart,
		End:             DefaultEnd,
		Step:            DefaultStep,
		Workers:         DefaultWorkers,
		MaxInteractions: DefaultMaxInteractions,
	}
}

func (c Config) Validate() error {
	switch {
	case c.SamplePath == "" || c.OutputPath == "":
		return configErrorf("both sample file and output file are required")
	case c.Samples <= 0:
		return configErrorf("number of samples must be positive, got %d", c.Samples)
	case c.Step <= 0:
		return configErrorf("wavelength step must be positive, got %d", c.Step)
	case c.Step%GridStep != 0:
		return configErrorf("wavelength step %d nm is not a multiple of the %d nm data grid", c.Step, GridStep)
	case c.Start < GridBegin:
		return configErrorf("wavelength start %d nm is below %d nm", c.Start, GridBegin)
	case (c.Start-GridBegin)%GridStep != 0:
		return configErrorf("wavelength start %d nm is not on the %d nm data grid", c.Start, GridStep)
	case c.End < c.Start:
		return configErrorf("wavelength end %d nm is before start %d nm", c.End, c.Start)
	case c.Workers <= 0:
		return configErrorf("number of threads must be positive, got %d", c.Workers)
	case c.MaxInteractions < 0:
		return configErrorf("max interactions must be >= 0, got %d", c.MaxInteractions)
	case !isFinite(c.AzimuthDeg) || !isFinite(c.PolarDeg):
		return configErrorf("incidence angles must be finite")
	}
	return nil
}

// Incidence converts the configured angles to radians.
func (c Config) Incidence() Incidence {
	return Incidence{Azimuth: c.AzimuthDeg * degToRad, Polar: c.PolarDeg * degToRad}
}

// Run loads the inputs, sweeps the wavelength range and writes the CSV.
// The output file is only left behind when the whole sweep succeeded.
func Run(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	sample, err := LoadSample(cfg.SamplePath)
	if err != nil {
		return err
	}
	spectra, err := LoadSpectra(cfg.DataDir)
	if err != nil {
		return err
	}
	if end := spectra.End(); cfg.End > end {
		return configErrorf("wavelength end %d nm is beyond the spectral data (last %d nm)", cfg.End, end)
	}
	builder := NewBuilder(spectra, sample.Bifacial)

	out, err := CreateOutput(cfg.OutputPath)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	DebugLog("Sample: %s, seed: %d", sample, seed)
	Progress("Running simulation (%d samples, wavelengths %dnm-%dnm)...", cfg.Samples, cfg.Start, cfg.End)

	start := time.Now()
	results, err := Sweep(SweepConfig{
		Start:     cfg.Start,
		End:       cfg.End,
		Step:      cfg.Step,
		Samples:   cfg.Samples,
		Workers:   cfg.Workers,
		Incidence: cfg.Incidence(),
		Transport: TransportOptions{
			DisableSieve:    cfg.DisableSieve,
			MaxInteractions: cfg.MaxInteractions,
		},
		Seed: seed,
	}, sample, builder)
	if err != nil {
		out.Discard()
		return err
	}
	if err := out.Commit(results); err != nil {
		return err
	}

	summarize(results, time.Since(start))
	if Trace {
		PhotonStats(logger.Writer())
	}
	return nil
}

func summarize(results []Result, elapsed time.Duration) {
	if len(results) == 0 {
		return
	}
	var total Tally
	r := make([]float64, len(results))
	t := make([]float64, len(results))
	a := make([]float64, len(results))
	for i, res := range results {
		r[i], t[i], a[i] = res.Reflectance(), res.Transmittance(), res.Absorptance()
		total.Add(res.Tally)
	}
	Progress("Done: %d wavelengths, %d photons in %s, mean r:%f, t:%f, a:%f",
		len(results), total.Total(), elapsed.Round(time.Millisecond), stat.Mean(r, nil), stat.Mean(t, nil), stat.Mean(a, nil))
}
