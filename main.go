package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cloth/config"
	"github.com/pthm-cable/cloth/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	defPath := flag.String("def", "", "Path to a JSON cloth definition applied over the config")
	width := flag.Int("W", 0, "Cloth width in particles")
	height := flag.Int("H", 0, "Cloth height in particles")
	linkLength := flag.Float64("link", 0, "Rest length of cloth links")
	gravityX := flag.Float64("gx", 0, "Gravity x component")
	gravityY := flag.Float64("gy", 0, "Gravity y component")
	friction := flag.Float64("friction", 0, "Air friction")
	noWind := flag.Bool("nowind", false, "Disable wind")
	zoom := flag.Float64("zoom", 0, "Initial camera zoom")
	screenW := flag.Int("wsize", 0, "Window width in pixels")
	screenH := flag.Int("hsize", 0, "Window height in pixels")
	verbose := flag.Bool("v", false, "Verbose (debug) logging")
	headless := flag.Bool("headless", false, "Run without graphics")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *defPath != "" {
		if err := cfg.ApplyDefinition(*defPath); err != nil {
			slog.Error("failed to load cloth definition", "path", *defPath, "error", err)
			os.Exit(1)
		}
	}

	// Flags override file values only when given
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "W":
			cfg.Cloth.Width = *width
		case "H":
			cfg.Cloth.Height = *height
		case "link":
			cfg.Cloth.LinkLength = *linkLength
		case "gx":
			cfg.Physics.Gravity.X = *gravityX
		case "gy":
			cfg.Physics.Gravity.Y = *gravityY
		case "friction":
			cfg.Physics.Friction = *friction
		case "nowind":
			cfg.Wind.Enabled = !*noWind
		case "zoom":
			cfg.Screen.Zoom = *zoom
		case "wsize":
			cfg.Screen.Width = *screenW
		case "hsize":
			cfg.Screen.Height = *screenH
		}
	})
	if err := cfg.Refresh(); err != nil {
		slog.Error("invalid settings", "error", err)
		os.Exit(1)
	}
	slog.Debug("configuration", "config", cfg)

	opts := game.Options{
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.NewGameWithOptions(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation", "max_frames", *maxFrames)

		for {
			g.UpdateHeadless()

			if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
				slog.Info("max frames reached", "frame", g.Frame())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Cloth")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
			break
		}
	}
}
