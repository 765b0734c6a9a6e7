package abm

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

type Category uint8

const (
	Absorb           Category = iota // absorbed inside a layer
	Reflect                          // Fresnel reflection at an interface
	Refract                          // refraction through an interface
	TIR                              // total internal reflection
	Reflected                        // left the stack on the incidence side
	Transmitted                      // left the stack on the far side
	InteractionLimit                 // gave up after MaxInteractions events
)

var categoryNames = [...]string{
	Absorb:           "absorbed",
	Reflect:          "reflect",
	Refract:          "refract",
	TIR:              "total_internal_reflection",
	Reflected:        "escaped_reflected",
	Transmitted:      "escaped_transmitted",
	InteractionLimit: "interaction_limit",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", c)
}

type PhotonEvent struct {
	Category   Category
	Wavelength int
	Interface  int    // interface index, or the terminal state for escapes
	Direction  r3.Vec // direction after the event
	Step       int    // interface events so far in this trial
}

// maxLoggedEvents bounds how many full events are kept per category; counts are exact.
const maxLoggedEvents = 1024

type PhotonLogCache struct {
	mu     sync.Mutex
	counts map[Category]int64
	events map[Category][]PhotonEvent
}

func newPhotonLogCache() *PhotonLogCache {
	return &PhotonLogCache{
		counts: make(map[Category]int64),
		events: make(map[Category][]PhotonEvent),
	}
}

var photonLog = newPhotonLogCache()

func logPhoton(category Category, wavelength, iface int, dir r3.Vec, step int) {
	photonLog.mu.Lock()
	defer photonLog.mu.Unlock()
	photonLog.counts[category]++
	if len(photonLog.events[category]) < maxLoggedEvents {
		photonLog.events[category] = append(photonLog.events[category], PhotonEvent{
			Category:   category,
			Wavelength: wavelength,
			Interface:  iface,
			Direction:  dir,
			Step:       step,
		})
	}
}

// PhotonStats prints per-category event counts.
func PhotonStats(w io.Writer) {
	photonLog.mu.Lock()
	defer photonLog.mu.Unlock()
	cats := make([]Category, 0, len(photonLog.counts))
	for c := range photonLog.counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		fmt.Fprintf(w, "Photon event %s: %d (%d kept)\n", c, photonLog.counts[c], len(photonLog.events[c]))
	}
}
