package abm

import "math"

const (
	DefaultSamples         = 100_000
	DefaultAzimuthDeg      = 0.0
	DefaultPolarDeg        = 8.0
	DefaultStep            = 5
	DefaultStart           = 400
	DefaultEnd             = 2500
	DefaultWorkers         = 4
	DefaultDataDir         = "data"
	DefaultMaxInteractions = 1_000_000 // per photon; 0 means unlimited

	// Spectral data grid: one value per GridStep nm starting at GridBegin nm.
	GridBegin = 400
	GridStep  = 5

	AirRI = 1.0

	// Chromophore spectra are tabulated in units ten times larger than the model uses.
	chromophoreScale = 1.0 / 10.0

	degToRad = math.Pi / 180
)

// Spectral data files expected in the data directory.
const (
	CarotenoidAbsorptionFile  = "caro-PAS-400-2500.txt"
	CelluloseAbsorptionFile   = "cellulose400-2500.txt"
	ChlorophyllAbsorptionFile = "chloAB-DFA-400-2500.txt"
	ProteinAbsorptionFile     = "protein400-2500.txt"
	WaterAbsorptionFile       = "sacwH400-2500.txt"
	MesophyllRIFile           = "rmH400-2500.txt"
	CuticleRIFile             = "rcH400-2500.txt"
	AntidermalRIFile          = "raH400-2500.txt"
)

// NoPerturbance marks an interface side that leaves the scattered direction untouched.
var NoPerturbance = math.Inf(1)
