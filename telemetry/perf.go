package telemetry

import (
	"log/slog"
	"slices"
	"time"
)

// Phase names for one simulation step, in execution order.
const (
	PhaseInteraction = "interaction" // mouse drag and cut
	PhaseWind        = "wind"
	PhaseSolver      = "solver"
	PhaseTelemetry   = "telemetry"
)

var phases = [...]string{PhaseInteraction, PhaseWind, PhaseSolver, PhaseTelemetry}

const noPhase = -1

// Phases returns the step phases in execution order.
func Phases() []string {
	return slices.Clone(phases[:])
}

func phaseIndex(name string) int {
	for i, p := range phases {
		if p == name {
			return i
		}
	}
	return noPhase
}

// stepTiming is one recorded step: wall time plus time per phase slot.
type stepTiming struct {
	total  time.Duration
	phases [len(phases)]time.Duration
}

// PerfCollector times simulation steps and their phases over a ring of the
// most recent steps, plus the render frame interval.
type PerfCollector struct {
	now func() time.Time

	ring   []stepTiming
	next   int
	filled int

	cur        stepTiming
	stepStart  time.Time
	phaseStart time.Time
	phase      int

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector keeps the last windowSize steps; non-positive sizes get 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:   time.Now,
		ring:  make([]stepTiming, windowSize),
		phase: noPhase,
	}
}

// StartStep begins timing a new step.
func (p *PerfCollector) StartStep() {
	p.stepStart = p.now()
	p.cur = stepTiming{}
	p.phase = noPhase
}

// StartPhase closes the running phase and opens the named one. Names outside
// Phases are not timed but still close the previous phase.
func (p *PerfCollector) StartPhase(name string) {
	t := p.now()
	p.closePhase(t)
	p.phase = phaseIndex(name)
	p.phaseStart = t
}

// EndStep closes the running phase and stores the step in the ring.
func (p *PerfCollector) EndStep() {
	t := p.now()
	p.closePhase(t)
	p.phase = noPhase
	p.cur.total = t.Sub(p.stepStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

func (p *PerfCollector) closePhase(t time.Time) {
	if p.phase != noPhase {
		p.cur.phases[p.phase] += t.Sub(p.phaseStart)
	}
}

// RecordFrame marks a rendered frame; the interval between calls gives FPS.
func (p *PerfCollector) RecordFrame() {
	t := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = t.Sub(p.lastFrame)
	}
	p.lastFrame = t
}

// PerfStats summarises the steps in the ring.
type PerfStats struct {
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration
	P95StepDuration time.Duration

	// Keyed by phase name, only phases in Phases
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average step

	StepsPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the recorded steps. An empty collector yields zero
// timings with non-nil maps.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(phases)),
		PhasePct:      make(map[string]float64, len(phases)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		stats.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return stats
	}

	steps := make([]float64, p.filled)
	var total time.Duration
	var phaseSum [len(phases)]time.Duration
	for i, s := range p.ring[:p.filled] {
		steps[i] = float64(s.total)
		total += s.total
		for j, d := range s.phases {
			phaseSum[j] += d
		}
	}
	slices.Sort(steps)

	n := time.Duration(p.filled)
	stats.AvgStepDuration = total / n
	stats.MinStepDuration = time.Duration(steps[0])
	stats.MaxStepDuration = time.Duration(steps[len(steps)-1])
	stats.P95StepDuration = time.Duration(Percentile(steps, 0.95))

	for j, name := range phases {
		avg := phaseSum[j] / n
		stats.PhaseAvg[name] = avg
		if stats.AvgStepDuration > 0 {
			stats.PhasePct[name] = 100 * float64(avg) / float64(stats.AvgStepDuration)
		}
	}
	if stats.AvgStepDuration > 0 {
		stats.StepsPerSecond = float64(time.Second) / float64(stats.AvgStepDuration)
	}
	return stats
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("p95_step_us", s.P95StepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Int("steps_per_sec", int(s.StepsPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, name := range phases {
		if pct := s.PhasePct[name]; pct >= 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgStepUS      int64   `csv:"avg_step_us"`
	MinStepUS      int64   `csv:"min_step_us"`
	MaxStepUS      int64   `csv:"max_step_us"`
	P95StepUS      int64   `csv:"p95_step_us"`
	StepsPerSec    float64 `csv:"steps_per_sec"`
	FPS            float64 `csv:"fps"`
	InteractionPct float64 `csv:"interaction_pct"`
	WindPct        float64 `csv:"wind_pct"`
	SolverPct      float64 `csv:"solver_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgStepUS:      s.AvgStepDuration.Microseconds(),
		MinStepUS:      s.MinStepDuration.Microseconds(),
		MaxStepUS:      s.MaxStepDuration.Microseconds(),
		P95StepUS:      s.P95StepDuration.Microseconds(),
		StepsPerSec:    s.StepsPerSecond,
		FPS:            s.FPS,
		InteractionPct: s.PhasePct[PhaseInteraction],
		WindPct:        s.PhasePct[PhaseWind],
		SolverPct:      s.PhasePct[PhaseSolver],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
