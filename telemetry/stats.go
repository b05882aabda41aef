// Package telemetry provides cloth health tracking, bookmarking, and state dumps.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Cloth size at window end
	Particles int `csv:"particles"`
	Links     int `csv:"links"`
	Pinned    int `csv:"pinned"`

	// Events during window
	Broken   int `csv:"broken"`    // links torn by over-stretching
	Pruned   int `csv:"pruned"`    // links removed by the solver
	Erased   int `csv:"erased"`    // particles cut by the mouse
	Dragged  int `csv:"dragged"`   // particle-frames pushed by the mouse
	WindHits int `csv:"wind_hits"` // particle-frames pushed by wind

	// Link strain distribution (length / rest length), sampled at window end
	StrainMean float64 `csv:"strain_mean"`
	StrainStd  float64 `csv:"strain_std"`
	StrainP50  float64 `csv:"strain_p50"`
	StrainP90  float64 `csv:"strain_p90"`
	StrainMax  float64 `csv:"strain_max"`

	// Bounding box of the live particles
	ExtentW float64 `csv:"extent_w"`
	ExtentH float64 `csv:"extent_h"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeStrainStats calculates mean, population std, median, p90 and max.
// values is sorted in place.
func ComputeStrainStats(values []float64) (mean, std, p50, p90, peak float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sort.Float64s(values)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)
	peak = floats.Max(values)

	return mean, std, p50, p90, peak
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("links", s.Links),
		slog.Int("pinned", s.Pinned),
		slog.Int("broken", s.Broken),
		slog.Int("pruned", s.Pruned),
		slog.Int("erased", s.Erased),
		slog.Int("dragged", s.Dragged),
		slog.Int("wind_hits", s.WindHits),
		slog.Float64("strain_mean", s.StrainMean),
		slog.Float64("strain_std", s.StrainStd),
		slog.Float64("strain_p50", s.StrainP50),
		slog.Float64("strain_p90", s.StrainP90),
		slog.Float64("strain_max", s.StrainMax),
		slog.Float64("extent_w", s.ExtentW),
		slog.Float64("extent_h", s.ExtentH),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"links", s.Links,
		"broken", s.Broken,
		"pruned", s.Pruned,
		"erased", s.Erased,
		"strain_mean", s.StrainMean,
		"strain_p90", s.StrainP90,
		"strain_max", s.StrainMax,
	)
}
