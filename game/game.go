// Package game drives the cloth simulation: it owns the solver, feeds it
// wind and mouse input once per frame, and renders the result.
package game

import (
	"fmt"
	"log/slog"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/camera"
	"github.com/pthm-cable/cloth/cloth"
	"github.com/pthm-cable/cloth/config"
	"github.com/pthm-cable/cloth/physics"
	"github.com/pthm-cable/cloth/renderer"
	"github.com/pthm-cable/cloth/telemetry"
	"github.com/pthm-cable/cloth/ui"
	"github.com/pthm-cable/cloth/wind"
)

// Options configures optional game features.
type Options struct {
	LogStats       bool    // Output stats via slog
	StatsWindowSec float64 // Stats window size in seconds, 0 = config value
	SnapshotDir    string  // Directory for bookmark snapshots (empty = disabled)
	OutputDir      string  // Directory for CSV logs and config (empty = disabled)
	Headless       bool    // Skip all raylib state
}

// Game holds the complete simulation state.
type Game struct {
	cfg    *config.Config
	solver *physics.Solver
	grid   cloth.Grid
	field  *wind.Field

	// Live controls, edited by keys and the controls panel
	controls ui.ControlState

	// Input queued for the next step
	pending []action

	// Rendering, nil when headless
	camera        *camera.Camera
	background    *renderer.BackgroundRenderer
	clothRenderer *renderer.ClothRenderer
	windRenderer  *renderer.WindRenderer
	hud           *ui.HUD
	controlsPanel *ui.ControlsPanel
	perfPanel     *ui.PerfPanel
	showPerf      bool

	// Mouse tracking for drag deltas, in world space
	lastMouse cp.Vector
	haveMouse bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	logStats         bool
	lastWindow       telemetry.WindowStats

	// State
	frame       int32
	brokenTotal int
	headless    bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game from cfg. The graphical parts are only
// constructed when opts.Headless is false; call it after the raylib window
// exists in that case.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		cfg:    cfg,
		solver: physics.NewSolver(cloth.SolverConfig(cfg)),
		field:  cloth.WindField(cfg),
		controls: ui.ControlState{
			Wind:        cfg.Wind.Enabled,
			DragForce:   float32(cfg.Mouse.DragForce),
			DragRadius:  float32(cfg.Mouse.DragRadius),
			EraseRadius: float32(cfg.Mouse.EraseRadius),
		},
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		snapshotDir:      opts.SnapshotDir,
		logStats:         opts.LogStats,
		headless:         opts.Headless,
		screenWidth:      cfg.Derived.ScreenW32,
		screenHeight:     cfg.Derived.ScreenH32,
	}

	grid, err := cloth.Build(g.solver, cfg)
	if err != nil {
		return nil, fmt.Errorf("building cloth: %w", err)
	}
	g.grid = grid

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		if g.snapshotDir == "" {
			g.snapshotDir = om.SnapshotDir()
		}
	}
	g.outputManager = om

	if !opts.Headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight, float32(cfg.Screen.Zoom))
		g.background = renderer.NewBackgroundRenderer(18, 20, 26)
		g.clothRenderer = renderer.NewClothRenderer()
		g.windRenderer = renderer.NewWindRenderer()
		g.hud = ui.NewHUD()
		g.controlsPanel = ui.NewControlsPanel(int32(g.screenWidth)-270, 10, 260)
		g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-270, 260)
	}

	slog.Info("cloth ready",
		"particles", g.solver.Particles().Len(),
		"links", g.solver.Links().Len(),
		"wind_zones", len(g.field.Zones),
		"wind", g.controls.Wind,
		"headless", opts.Headless,
	)

	return g, nil
}

// Rebuild discards the current cloth and builds a fresh one from the config.
// Wind zones return to their configured positions and telemetry restarts.
func (g *Game) Rebuild() error {
	grid, err := cloth.Build(g.solver, g.cfg)
	if err != nil {
		return fmt.Errorf("rebuilding cloth: %w", err)
	}
	g.grid = grid
	g.field = cloth.WindField(g.cfg)
	g.pending = g.pending[:0]
	g.brokenTotal = 0
	g.lastWindow = telemetry.WindowStats{}
	g.collector.Reset(g.frame)
	g.bookmarkDetector.Reset()

	slog.Info("cloth rebuilt", "frame", g.frame, "particles", g.solver.Particles().Len())
	return nil
}

// ToggleWind switches the wind on or off.
func (g *Game) ToggleWind() {
	g.controls.Wind = !g.controls.Wind
	if g.controls.Wind {
		slog.Info("Wind is now blowing")
	} else {
		slog.Info("Wind is no longer blowing")
	}
}

// WindEnabled reports whether the wind is blowing.
func (g *Game) WindEnabled() bool { return g.controls.Wind }

// Frame returns the number of simulated frames.
func (g *Game) Frame() int32 { return g.frame }

// Solver exposes the cloth solver.
func (g *Game) Solver() *physics.Solver { return g.solver }

// Grid returns the particle layout of the last built cloth.
func (g *Game) Grid() cloth.Grid { return g.grid }

// BrokenTotal returns how many links broke since the cloth was built.
func (g *Game) BrokenTotal() int { return g.brokenTotal }

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output files", "error", err)
		}
		g.outputManager = nil
	}
}
