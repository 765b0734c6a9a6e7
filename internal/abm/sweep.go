package abm

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// SweepConfig describes one wavelength sweep.
type SweepConfig struct {
	Start, End, Step int // nm, inclusive range
	Samples          int // photons per wavelength
	Workers          int
	Incidence        Incidence
	Transport        TransportOptions
	Seed             int64 // root seed; each wavelength derives its own stream
}

// Task is one wavelength's worth of work.
type Task struct {
	Wavelength int
	Samples    int
	Seed       int64
}

// Result is the outcome of one Task.
type Result struct {
	Wavelength int
	Tally      Tally
}

func (r Result) Reflectance() float64   { return r.Tally.Reflectance() }
func (r Result) Transmittance() float64 { return r.Tally.Transmittance() }
func (r Result) Absorptance() float64   { return r.Tally.Absorptance() }

// Wavelengths lists start, start+step, ... up to and including end.
func Wavelengths(start, end, step int) []int {
	if step <= 0 || end < start {
		return nil
	}
	n := (end-start)/step + 1
	out := make([]int, n)
	for i := range out {
		out[i] = start + i*step
	}
	return out
}

// taskSeed gives every wavelength an independent, reproducible stream
// regardless of which worker picks it up.
func taskSeed(root int64, wavelength int) int64 {
	return root ^ int64(uint64(wavelength)*0x9e3779b97f4a7c15)
}

// resultCollector gathers results in completion order.
type resultCollector struct {
	mu      sync.Mutex
	results []Result
	err     error
}

func (c *resultCollector) add(r Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
}

func (c *resultCollector) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// sorted returns the results ordered by wavelength.
func (c *resultCollector) sorted() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Result, len(c.results))
	copy(out, c.results)
	sort.Slice(out, func(i, j int) bool { return out[i].Wavelength < out[j].Wavelength })
	return out
}

// Sweep runs every wavelength on a fixed pool of workers and returns the
// results in ascending wavelength order. There is no cancellation: all tasks
// run even if one fails, and the first failure is returned after the join.
func Sweep(cfg SweepConfig, sample *Sample, builder Builder) ([]Result, error) {
	if cfg.Step <= 0 {
		return nil, configErrorf("wavelength step must be positive, got %d", cfg.Step)
	}
	if cfg.End < cfg.Start {
		return nil, configErrorf("wavelength end %d nm is before start %d nm", cfg.End, cfg.Start)
	}
	if cfg.Samples <= 0 {
		return nil, configErrorf("number of samples must be positive, got %d", cfg.Samples)
	}
	wavelengths := Wavelengths(cfg.Start, cfg.End, cfg.Step)
	workers := imax(cfg.Workers, 1)
	if workers > len(wavelengths) {
		workers = len(wavelengths)
	}

	queue := make(chan Task, len(wavelengths))
	for _, w := range wavelengths {
		queue <- Task{Wavelength: w, Samples: cfg.Samples, Seed: taskSeed(cfg.Seed, w)}
	}
	close(queue)

	collector := &resultCollector{results: make([]Result, 0, len(wavelengths))}
	var done int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(wid int) {
			defer wg.Done()
			for task := range queue {
				res, err := runTask(task, cfg, sample, builder)
				if err != nil {
					collector.fail(err)
					continue
				}
				collector.add(res)
				n := atomic.AddInt64(&done, 1)
				Progress("Wavelength %d\t r:%f, t:%f, a:%f", res.Wavelength, res.Reflectance(), res.Transmittance(), res.Absorptance())
				DebugLog("worker %d finished %d nm (%d/%d)", wid, task.Wavelength, n, len(wavelengths))
			}
		}(w)
	}
	wg.Wait()

	if collector.err != nil {
		return nil, collector.err
	}
	return collector.sorted(), nil
}

func runTask(task Task, cfg SweepConfig, sample *Sample, builder Builder) (Result, error) {
	stack, err := builder.Build(sample, task.Wavelength)
	if err != nil {
		return Result{}, fmt.Errorf("building stack: %w", err)
	}
	if Debug {
		var b strings.Builder
		DumpStack(&b, stack)
		DebugLog("%d nm\n%s", task.Wavelength, strings.TrimRight(b.String(), "\n"))
	}
	opts := cfg.Transport
	opts.Wavelength = task.Wavelength
	rng := rand.New(rand.NewSource(task.Seed))
	tally := RunTrials(stack, task.Samples, cfg.Incidence, opts, rng)
	return Result{Wavelength: task.Wavelength, Tally: tally}, nil
}
