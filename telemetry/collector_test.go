package telemetry

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/config"
	"github.com/pthm-cable/cloth/physics"
)

// twoLinkSolver builds a pinned particle with a chain of two links, the
// lower one stretched to 1.2.
func twoLinkSolver(t *testing.T) *physics.Solver {
	t.Helper()
	s := physics.NewSolver(physics.DefaultConfig())
	a := s.AddParticle(cp.Vector{X: 0, Y: 0})
	b := s.AddParticle(cp.Vector{X: 0, Y: 10})
	c := s.AddParticle(cp.Vector{X: 0, Y: 22})
	s.SetPinned(a, true)
	if _, err := s.AddLinkRest(a, b, 10, 1.5); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddLinkRest(b, c, 10, 1.5); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	if got := c.WindowDurationFrames(); got != 60 {
		t.Fatalf("frames per window = %d, want 60", got)
	}
	if c.ShouldFlush(59) {
		t.Error("flushed before the window ended")
	}
	if !c.ShouldFlush(60) {
		t.Error("did not flush at window end")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 1.0/60.0)
	if c.WindowDurationFrames() != 1 {
		t.Errorf("frames per window = %d, want 1", c.WindowDurationFrames())
	}
}

func TestCollectorFlush(t *testing.T) {
	s := twoLinkSolver(t)
	c := NewCollector(1.0, 0.5)

	c.RecordFrame(physics.FrameStats{Pruned: 1, Broken: 2})
	c.RecordFrame(physics.FrameStats{Broken: 1})
	c.RecordErase(4)
	c.RecordDrag(7)
	c.RecordWind(9)

	stats := c.Flush(10, s)

	if stats.WindowStartFrame != 0 || stats.WindowEndFrame != 10 || stats.SimTimeSec != 5 {
		t.Errorf("window = %d..%d at %v", stats.WindowStartFrame, stats.WindowEndFrame, stats.SimTimeSec)
	}
	if stats.Particles != 3 || stats.Links != 2 || stats.Pinned != 1 {
		t.Errorf("counts = %d particles, %d links, %d pinned", stats.Particles, stats.Links, stats.Pinned)
	}
	if stats.Broken != 3 || stats.Pruned != 1 || stats.Erased != 4 || stats.Dragged != 7 || stats.WindHits != 9 {
		t.Errorf("events = %+v", stats)
	}
	if math.Abs(stats.StrainMean-1.1) > 1e-9 || math.Abs(stats.StrainMax-1.2) > 1e-9 {
		t.Errorf("strain mean/max = %v/%v, want 1.1/1.2", stats.StrainMean, stats.StrainMax)
	}
	if stats.ExtentW != 0 || stats.ExtentH != 22 {
		t.Errorf("extent = %v x %v, want 0 x 22", stats.ExtentW, stats.ExtentH)
	}

	// Counters reset, window restarts
	next := c.Flush(20, s)
	if next.WindowStartFrame != 10 {
		t.Errorf("next window starts at %d, want 10", next.WindowStartFrame)
	}
	if next.Broken != 0 || next.Erased != 0 || next.WindHits != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollectorFlushEmptySolver(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)
	stats := c.Flush(60, physics.NewSolver(physics.DefaultConfig()))
	if stats.Particles != 0 || stats.StrainMean != 0 || stats.ExtentW != 0 {
		t.Errorf("empty solver stats = %+v", stats)
	}
}

func TestCollectorWindowFrames(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		dt      float32
		want    int32
	}{
		{"one second", 1, 1.0 / 60.0, 60},
		{"default window", 5, 1.0 / 60.0, 300},
		{"quarter second", 0.25, 1.0 / 60.0, 15},
		{"thirty hertz", 2, 1.0 / 30.0, 60},
		{"shorter than a frame", 0.001, 1.0 / 60.0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewCollector(tt.seconds, tt.dt).WindowDurationFrames(); got != tt.want {
				t.Errorf("NewCollector(%v, %v) frames = %d, want %d", tt.seconds, tt.dt, got, tt.want)
			}
		})
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)
	c.RecordErase(3)
	c.Reset(100)

	if c.ShouldFlush(159) {
		t.Error("window did not restart at the reset frame")
	}
	stats := c.Flush(160, physics.NewSolver(physics.DefaultConfig()))
	if stats.Erased != 0 {
		t.Errorf("erased = %d after reset", stats.Erased)
	}
}

func TestCollectorDefaultConfigWindow(t *testing.T) {
	cfg := config.Default()
	c := NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32)

	want := int32(math.Round(cfg.Telemetry.StatsWindow / cfg.Physics.DT))
	if got := c.WindowDurationFrames(); got != want {
		t.Errorf("default window = %d frames, want %d", got, want)
	}
	if c.ShouldFlush(want - 1) || !c.ShouldFlush(want) {
		t.Error("default window flushed on the wrong frame")
	}
}
