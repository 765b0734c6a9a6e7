package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/lukaszgryglicki/leafabm/internal/abm"
)

type cli struct {
	Samples   int     `short:"n" default:"${samples}" env:"ABM_SAMPLES" help:"Number of samples (photons per wavelength)."`
	Azimuth   float64 `short:"a" default:"${azimuth}" env:"ABM_AZIMUTH" help:"Azimuthal angle (degrees)."`
	Polar     float64 `short:"p" default:"${polar}" env:"ABM_POLAR" help:"Polar angle (degrees)."`
	Step      int     `short:"s" default:"${step}" env:"ABM_STEP" help:"Wavelength step (nanometers)."`
	Start     int     `short:"w" default:"${start}" env:"ABM_START" help:"Wavelength start (nanometers)."`
	End       int     `short:"e" default:"${end}" env:"ABM_END" help:"Wavelength end (nanometers)."`
	DataDir   string  `short:"d" default:"${datadir}" env:"ABM_DATA_DIR" help:"Data directory."`
	Threads   int     `short:"t" default:"${threads}" env:"ABM_THREADS" help:"Number of threads."`
	NoSieve   bool    `short:"q" name:"disable-sieve" env:"ABM_DISABLE_SIEVE" help:"Disable sieve and detour effects."`
	Seed      int64   `default:"0" env:"ABM_SEED" help:"Random seed (0 seeds from the clock)."`
	MaxEvents int     `name:"max-interactions" default:"${maxevents}" env:"ABM_MAX_INTERACTIONS" help:"Give up on a photon after this many interface events (0 = never)."`

	SampleFile string `arg:"" name:"sample_file.json" help:"Leaf sample description."`
	OutputFile string `arg:"" name:"output_file.csv" help:"Where to write the spectrum."`
}

func (c *cli) config() abm.Config {
	return abm.Config{
		SamplePath:      c.SampleFile,
		OutputPath:      c.OutputFile,
		DataDir:         c.DataDir,
		Samples:         c.Samples,
		AzimuthDeg:      c.Azimuth,
		PolarDeg:        c.Polar,
		Start:           c.Start,
		End:             c.End,
		Step:            c.Step,
		Workers:         c.Threads,
		DisableSieve:    c.NoSieve,
		MaxInteractions: c.MaxEvents,
		Seed:            c.Seed,
	}
}

func defaults() kong.Vars {
	d := abm.DefaultConfig()
	return kong.Vars{
		"samples":   strconv.Itoa(d.Samples),
		"azimuth":   strconv.FormatFloat(d.AzimuthDeg, 'g', -1, 64),
		"polar":     strconv.FormatFloat(d.PolarDeg, 'g', -1, 64),
		"step":      strconv.Itoa(d.Step),
		"start":     strconv.Itoa(d.Start),
		"end":       strconv.Itoa(d.End),
		"datadir":   d.DataDir,
		"threads":   strconv.Itoa(d.Workers),
		"maxevents": strconv.Itoa(d.MaxInteractions),
	}
}

// angleFlags take values that may be negative, which kong would otherwise
// read as another short flag.
var angleFlags = map[string]string{
	"-a": "--azimuth", "--azimuth": "--azimuth",
	"-p": "--polar", "--polar": "--polar",
}

// joinAngleValues rewrites "-a -30" as "--azimuth=-30".
func joinAngleValues(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return append(out, args[i:]...)
		}
		long, ok := angleFlags[args[i]]
		if ok && i+1 < len(args) {
			if _, err := strconv.ParseFloat(args[i+1], 64); err == nil {
				out = append(out, long+"="+args[i+1])
				i++
				continue
			}
		}
		out = append(out, args[i])
	}
	return out
}

// run parses args and runs the simulation, returning the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	var c cli
	exited := false
	parser, err := kong.New(&c,
		kong.Name("abm"),
		kong.Description("Monte Carlo leaf reflectance/transmittance (angular broken model)."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) { exited = true }),
		defaults(),
	)
	if err != nil {
		fmt.Fprintf(stderr, "abm: %v\n", err)
		return abm.ExitConfig
	}
	if _, err := parser.Parse(joinAngleValues(args)); err != nil {
		if exited {
			return abm.ExitOK
		}
		fmt.Fprintf(stderr, "abm: error: %v\n", err)
		fmt.Fprintln(stderr, "Usage: abm [options] <sample_file.json> <output_file.csv> (see --help)")
		return abm.ExitConfig
	}
	if exited {
		return abm.ExitOK
	}

	if err := abm.Run(c.config()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return abm.ExitCode(err)
	}
	return abm.ExitOK
}

func main() {
	abm.Debug = os.Getenv("DEBUG") != ""
	abm.Trace = os.Getenv("TRACE") != ""
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		code := run(os.Args[1:], os.Stdout, os.Stderr)
		pprof.StopCPUProfile()
		_ = f.Close()
		os.Exit(code)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
