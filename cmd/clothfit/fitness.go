package main

import (
	"math"
	"sync"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/cloth"
	"github.com/pthm-cable/cloth/config"
	"github.com/pthm-cable/cloth/physics"
	"github.com/pthm-cable/cloth/telemetry"
	"github.com/pthm-cable/cloth/wind"
)

// scenario is one wind condition every candidate is run through.
type scenario struct {
	name      string
	wind      float64 // horizontal force over the whole screen, 0 = calm
	weight    float64 // cost of tearing under this wind
}

// The cloth should hold in calm air and a breeze and is allowed to tear in
// a gale.
var scenarios = []scenario{
	{name: "calm", wind: 0, weight: 10},
	{name: "breeze", wind: 1000, weight: 5},
	{name: "gale", wind: 4000, weight: 1},
}

// Fitness weights.
const (
	sagWeight       = 2.0
	fragilityWeight = 0.5
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	frames      int32
	baseConfig  *config.Config
	targetSag   float64 // wanted cloth height after settling in calm air
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	lastTorn    []float64 // torn fraction per scenario from the latest Evaluate
}

// NewFitnessEvaluator creates a new evaluator. sagRatio is the wanted calm
// cloth height relative to its unstretched height.
func NewFitnessEvaluator(params *ParamVector, frames int32, baseCfg *config.Config, sagRatio float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		frames:      frames,
		baseConfig:  baseCfg,
		targetSag:   baseCfg.Derived.ClothH * sagRatio,
		statsWindow: 1.0,
		bestFitness: math.Inf(1),
	}
}

// LastTorn returns the torn fraction per scenario from the most recent evaluation.
func (fe *FitnessEvaluator) LastTorn() []float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return append([]float64(nil), fe.lastTorn...)
}

// runResult holds the results from a single simulation run.
type runResult struct {
	links   int                     // links at build time
	broken  int                     // links broken over the run
	windows []telemetry.WindowStats // one per stats window
}

// tornFraction is the share of the original links that broke.
func (r *runResult) tornFraction() float64 {
	if r.links == 0 {
		return 0
	}
	return math.Min(float64(r.broken)/float64(r.links), 1)
}

// finalHeight is the cloth height in the last window.
func (r *runResult) finalHeight() float64 {
	if len(r.windows) == 0 {
		return 0
	}
	return r.windows[len(r.windows)-1].ExtentH
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all scenarios in parallel
	results := make([]*runResult, len(scenarios))
	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(idx int, sc scenario) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, sc)
		}(i, sc)
	}
	wg.Wait()

	fitness := fe.computeFitness(cfg, results)

	torn := make([]float64, len(results))
	for i, r := range results {
		torn[i] = r.tornFraction()
	}

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.lastTorn = torn
	fe.mu.Unlock()

	return fitness
}

// computeFitness weighs tearing per scenario, the calm sag error, and a
// preference for cloth that breaks easily.
func (fe *FitnessEvaluator) computeFitness(cfg *config.Config, results []*runResult) float64 {
	var fitness float64
	for i, r := range results {
		fitness += scenarios[i].weight * r.tornFraction()
	}

	if fe.targetSag > 0 {
		sagErr := math.Abs(results[0].finalHeight()-fe.targetSag) / fe.targetSag
		fitness += sagWeight * sagErr
	}

	fitness += fragilityWeight * (cfg.Cloth.MaxElongation - 1)
	return fitness
}

// runSimulation executes a single headless run of one scenario.
// cfg is shared between goroutines and only read.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, sc scenario) *runResult {
	solver := physics.NewSolver(cloth.SolverConfig(cfg))
	if _, err := cloth.Build(solver, cfg); err != nil {
		// Config was validated by copyConfig; treat as fully torn
		return &runResult{links: 1, broken: 1}
	}
	result := &runResult{links: solver.Links().Len()}

	field := scenarioField(cfg, sc)

	collector := telemetry.NewCollector(fe.statsWindow, cfg.Derived.DT32)
	dt := cfg.Physics.DT

	for frame := int32(1); frame <= fe.frames; frame++ {
		field.Apply(solver, dt)
		solver.Update(dt)

		fs := solver.LastFrame()
		collector.RecordFrame(fs)
		result.broken += fs.Broken

		if collector.ShouldFlush(frame) || frame == fe.frames {
			result.windows = append(result.windows, collector.Flush(frame, solver))
		}

		// Severed: nothing more to learn
		if result.broken*2 >= result.links {
			result.windows = append(result.windows, collector.Flush(frame, solver))
			break
		}
	}
	return result
}

// scenarioField covers the whole screen with the scenario's wind, so the
// trial cloth is hit wherever it hangs. Calm scenarios get an empty field.
func scenarioField(cfg *config.Config, sc scenario) *wind.Field {
	w, h := float64(cfg.Screen.Width), float64(cfg.Screen.Height)
	field := wind.NewField(w)
	if sc.wind != 0 {
		field.Add(wind.NewZone(cp.Vector{X: w, Y: h}, cp.Vector{}, cp.Vector{X: sc.wind}))
	}
	return field
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Cloth.Pins = append([]config.GridPoint(nil), fe.baseConfig.Cloth.Pins...)
	cfg.Wind.Zones = append([]config.ZoneConfig(nil), fe.baseConfig.Wind.Zones...)
	return &cfg
}
