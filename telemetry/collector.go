package telemetry

import (
	"math"

	"github.com/pthm-cable/cloth/physics"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec    float64
	windowDurationFrames int32
	dt                   float32

	// Current window tracking
	windowStartFrame int32

	// Event counters for current window
	broken   int
	pruned   int
	erased   int
	dragged  int
	windHits int

	// Reused across flushes
	strains []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per frame (used for frame-to-time conversion)
//
// The frame count is rounded: dt usually arrives as a float32, and 1/60
// widened back to float64 is slightly above 1/60.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	framesPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}

	return &Collector{
		windowDurationSec:    windowDurationSec,
		windowDurationFrames: framesPerWindow,
		dt:                   dt,
	}
}

// RecordFrame folds the solver's per-frame link bookkeeping into the window.
func (c *Collector) RecordFrame(fs physics.FrameStats) {
	c.broken += fs.Broken
	c.pruned += fs.Pruned
}

// RecordErase records particles cut by the mouse.
func (c *Collector) RecordErase(n int) {
	c.erased += n
}

// RecordDrag records particles pushed by a mouse drag.
func (c *Collector) RecordDrag(n int) {
	c.dragged += n
}

// RecordWind records particles pushed by the wind.
func (c *Collector) RecordWind(n int) {
	c.windHits += n
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int32) bool {
	return currentFrame-c.windowStartFrame >= c.windowDurationFrames
}

// Flush samples the solver, produces a WindowStats and resets counters for
// the next window.
func (c *Collector) Flush(currentFrame int32, s *physics.Solver) WindowStats {
	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		SimTimeSec:       float64(currentFrame) * float64(c.dt),

		Particles: s.Particles().Len(),
		Links:     s.Links().Len(),

		Broken:   c.broken,
		Pruned:   c.pruned,
		Erased:   c.erased,
		Dragged:  c.dragged,
		WindHits: c.windHits,
	}

	for _, p := range s.Particles().All() {
		if !p.Movable {
			stats.Pinned++
		}
	}

	c.strains = s.LinkStrains(c.strains[:0])
	stats.StrainMean, stats.StrainStd, stats.StrainP50, stats.StrainP90, stats.StrainMax =
		ComputeStrainStats(c.strains)

	if lo, hi, ok := s.Bounds(); ok {
		stats.ExtentW = hi.X - lo.X
		stats.ExtentH = hi.Y - lo.Y
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.broken = 0
	c.pruned = 0
	c.erased = 0
	c.dragged = 0
	c.windHits = 0

	return stats
}

// Reset restarts the window at currentFrame and drops pending counts.
// Used when the cloth is rebuilt.
func (c *Collector) Reset(currentFrame int32) {
	c.windowStartFrame = currentFrame
	c.broken = 0
	c.pruned = 0
	c.erased = 0
	c.dragged = 0
	c.windHits = 0
}

// WindowDurationFrames returns the number of frames per window.
func (c *Collector) WindowDurationFrames() int32 {
	return c.windowDurationFrames
}
