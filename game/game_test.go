package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/config"
	"github.com/pthm-cable/cloth/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Cloth.Width = 6
	cfg.Cloth.Height = 6
	cfg.Cloth.LinkLength = 10
	cfg.Screen.Width = 200
	cfg.Wind.Enabled = false
	if err := cfg.Refresh(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newHeadless(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g, err := NewGameWithOptions(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(g.Unload)
	return g
}

func particlePos(t *testing.T, g *Game, col, row int) cp.Vector {
	t.Helper()
	p, ok := g.Solver().Particle(g.Grid().At(col, row))
	if !ok {
		t.Fatalf("no particle at (%d, %d)", col, row)
	}
	return p.Position
}

func TestHeadlessSteps(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})

	if g.Solver().Particles().Len() != 36 || g.Solver().Links().Len() != 60 {
		t.Fatalf("built %d particles, %d links", g.Solver().Particles().Len(), g.Solver().Links().Len())
	}

	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}
	if g.Frame() != 30 {
		t.Errorf("Frame() = %d, want 30", g.Frame())
	}
	if g.BrokenTotal() != 0 {
		t.Errorf("resting cloth tore %d links", g.BrokenTotal())
	}
}

func TestCutRemovesParticle(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mouse.EraseRadius = 5
	g := newHeadless(t, cfg, Options{})

	g.Cut(particlePos(t, g, 2, 3))
	g.UpdateHeadless()

	if got := g.Solver().Particles().Len(); got != 35 {
		t.Errorf("particles after cut = %d, want 35", got)
	}
	g.UpdateHeadless()
	// Interior particle had four links; they are pruned on the next update
	if got := g.Solver().Links().Len(); got != 56 {
		t.Errorf("links after cut = %d, want 56", got)
	}
}

func TestCutMissesDistantParticles(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})

	g.Cut(cp.Vector{X: -500, Y: -500})
	g.UpdateHeadless()

	if got := g.Solver().Particles().Len(); got != 36 {
		t.Errorf("particles = %d, want 36", got)
	}
}

func TestDragPushesCloth(t *testing.T) {
	cfg := testConfig(t)
	cfg.Physics.Gravity = config.Vec2{}
	g := newHeadless(t, cfg, Options{})

	before := particlePos(t, g, 3, 5)
	g.Drag(before, cp.Vector{X: 1})
	g.UpdateHeadless()

	after := particlePos(t, g, 3, 5)
	if after.X <= before.X {
		t.Errorf("dragged particle x = %v, was %v", after.X, before.X)
	}

	// Pinned row stays put
	top := particlePos(t, g, 3, 0)
	if top.Y != cfg.Cloth.Top {
		t.Errorf("pinned particle moved to %v", top)
	}
}

func TestZeroDragForce(t *testing.T) {
	cfg := testConfig(t)
	cfg.Physics.Gravity = config.Vec2{}
	cfg.Mouse.DragForce = 0
	g := newHeadless(t, cfg, Options{})

	before := particlePos(t, g, 3, 5)
	g.Drag(before, cp.Vector{X: 5, Y: 5})
	g.UpdateHeadless()

	if after := particlePos(t, g, 3, 5); after != before {
		t.Errorf("particle moved from %v to %v with no drag force", before, after)
	}
}

func TestWindToggle(t *testing.T) {
	cfg := testConfig(t)
	cfg.Wind.Enabled = true
	g := newHeadless(t, cfg, Options{StatsWindowSec: 0.25})

	if !g.WindEnabled() {
		t.Fatal("wind should start enabled")
	}
	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}
	// Stock gusts cover x < 100, the cloth starts at x = 75
	if g.LastWindow().WindHits == 0 {
		t.Error("wind hit no particles")
	}

	g.ToggleWind()
	if g.WindEnabled() {
		t.Fatal("wind still enabled after toggle")
	}
	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}
	if g.LastWindow().WindHits != 0 {
		t.Errorf("wind hits with wind off = %d", g.LastWindow().WindHits)
	}
}

func TestTearAndRebuild(t *testing.T) {
	cfg := testConfig(t)
	// Any link at or beyond rest length breaks
	cfg.Cloth.MaxElongation = 1
	g := newHeadless(t, cfg, Options{})

	g.UpdateHeadless()
	if g.BrokenTotal() == 0 {
		t.Fatal("expected links to break")
	}

	if err := g.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if g.BrokenTotal() != 0 {
		t.Errorf("BrokenTotal after rebuild = %d", g.BrokenTotal())
	}
	if g.Solver().Links().Len() != 60 || g.Solver().Particles().Len() != 36 {
		t.Errorf("rebuilt %d particles, %d links", g.Solver().Particles().Len(), g.Solver().Links().Len())
	}
	if g.Frame() != 1 {
		t.Errorf("rebuild reset the frame counter to %d", g.Frame())
	}
}

func TestRebuildDropsPendingInput(t *testing.T) {
	g := newHeadless(t, testConfig(t), Options{})

	g.Cut(particlePos(t, g, 2, 2))
	if err := g.Rebuild(); err != nil {
		t.Fatal(err)
	}
	g.UpdateHeadless()

	if got := g.Solver().Particles().Len(); got != 36 {
		t.Errorf("particles = %d, want 36", got)
	}
}

func TestOutputAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, testConfig(t), Options{OutputDir: dir, StatsWindowSec: 0.25})

	for i := 0; i < 40; i++ {
		g.UpdateHeadless()
	}
	path := g.saveSnapshot(nil)
	if path == "" {
		t.Fatal("snapshot not saved")
	}
	if filepath.Dir(path) != filepath.Join(dir, "snapshots") {
		t.Errorf("snapshot saved to %s", path)
	}
	g.Unload()

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var snap telemetry.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Frame != 40 || len(snap.Particles) != 36 || len(snap.Links) != 60 {
		t.Errorf("snapshot frame %d with %d particles, %d links", snap.Frame, len(snap.Particles), len(snap.Links))
	}
}
