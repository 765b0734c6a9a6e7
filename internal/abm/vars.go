package abm

var (
	Debug = false // set to true for verbose debug output
	Trace = false // set to true to record per-event photon statistics (slow, takes a lock per event)
	// Compile time checks to ensure that both leaf models implement the builder interface
	_ Builder = (*uniformBuilder)(nil)
	_ Builder = (*bifacialBuilder)(nil)
)
