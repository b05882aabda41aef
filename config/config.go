// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Cloth     ClothConfig     `yaml:"cloth"`
	Wind      WindConfig      `yaml:"wind"`
	Mouse     MouseConfig     `yaml:"mouse"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	Zoom      float64 `yaml:"zoom"` // initial camera zoom
}

// PhysicsConfig holds solver parameters.
type PhysicsConfig struct {
	DT         float64 `yaml:"dt"`         // fixed frame step in seconds
	Gravity    Vec2    `yaml:"gravity"`    // positive y is down
	Friction   float64 `yaml:"friction"`   // linear air drag
	Iterations int     `yaml:"iterations"` // relaxation passes per sub-step
	SubSteps   int     `yaml:"sub_steps"`
}

// ClothConfig describes the cloth grid.
type ClothConfig struct {
	Width         int         `yaml:"width"`  // particles per row
	Height        int         `yaml:"height"` // particles per column
	LinkLength    float64     `yaml:"link_length"`
	Stiffness     float64     `yaml:"stiffness"`
	MaxElongation float64     `yaml:"max_elongation"` // break ratio
	Mass          float64     `yaml:"mass"`
	Top           float64     `yaml:"top"`     // y of the first row
	PinTop        bool        `yaml:"pin_top"` // pin the whole first row
	Pins          []GridPoint `yaml:"pins"`    // extra pinned particles
}

// WindConfig holds the wind zones. An enabled config with no zones gets the
// two stock gusts.
type WindConfig struct {
	Enabled bool         `yaml:"enabled"`
	Zones   []ZoneConfig `yaml:"zones"`
}

// ZoneConfig describes one wind zone.
type ZoneConfig struct {
	Position Vec2    `yaml:"position"` // top-left corner
	Size     Vec2    `yaml:"size"`
	Force    Vec2    `yaml:"force"`
	Speed    float64 `yaml:"speed"` // horizontal drift, 0 = static
}

// MouseConfig holds interaction parameters.
type MouseConfig struct {
	DragRadius  float64 `yaml:"drag_radius"`
	DragForce   float64 `yaml:"drag_force"` // force per unit of mouse motion
	EraseRadius float64 `yaml:"erase_radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of simulation per window
	PerfWindow  int     `yaml:"perf_window"`  // frames in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	ClothW    float64 // horizontal extent of the cloth
	ClothH    float64 // vertical extent of the cloth
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Refresh revalidates the config and recomputes derived values after the
// caller changed fields in place (command-line overrides, definitions).
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate checks ranges the simulation relies on.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case c.Screen.Zoom <= 0:
		return fmt.Errorf("%w: screen.zoom %g", ErrInvalid, c.Screen.Zoom)
	case c.Physics.DT <= 0:
		return fmt.Errorf("%w: physics.dt %g", ErrInvalid, c.Physics.DT)
	case c.Physics.SubSteps < 1:
		return fmt.Errorf("%w: physics.sub_steps %d", ErrInvalid, c.Physics.SubSteps)
	case c.Physics.Iterations < 0:
		return fmt.Errorf("%w: physics.iterations %d", ErrInvalid, c.Physics.Iterations)
	case c.Physics.Friction < 0:
		return fmt.Errorf("%w: physics.friction %g", ErrInvalid, c.Physics.Friction)
	case c.Cloth.Width < 1 || c.Cloth.Height < 1:
		return fmt.Errorf("%w: cloth size %dx%d", ErrInvalid, c.Cloth.Width, c.Cloth.Height)
	case c.Cloth.LinkLength <= 0:
		return fmt.Errorf("%w: cloth.link_length %g", ErrInvalid, c.Cloth.LinkLength)
	case c.Cloth.Mass <= 0:
		return fmt.Errorf("%w: cloth.mass %g", ErrInvalid, c.Cloth.Mass)
	case c.Cloth.Stiffness <= 0 || c.Cloth.Stiffness > 1:
		return fmt.Errorf("%w: cloth.stiffness %g not in (0, 1]", ErrInvalid, c.Cloth.Stiffness)
	case c.Cloth.MaxElongation < 1:
		return fmt.Errorf("%w: cloth.max_elongation %g < 1", ErrInvalid, c.Cloth.MaxElongation)
	}
	for i, p := range c.Cloth.Pins {
		if p.Col < 0 || p.Col >= c.Cloth.Width || p.Row < 0 || p.Row >= c.Cloth.Height {
			return fmt.Errorf("%w: cloth.pins[%d] (%d, %d) outside %dx%d grid",
				ErrInvalid, i, p.Col, p.Row, c.Cloth.Width, c.Cloth.Height)
		}
	}
	for i, z := range c.Wind.Zones {
		if z.Size.X <= 0 || z.Size.Y <= 0 {
			return fmt.Errorf("%w: wind.zones[%d] size %v", ErrInvalid, i, z.Size)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.ClothW = float64(c.Cloth.Width-1) * c.Cloth.LinkLength
	c.Derived.ClothH = float64(c.Cloth.Height-1) * c.Cloth.LinkLength
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// LogValue implements slog.LogValuer for structured logging.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("screen", fmt.Sprintf("%dx%d", c.Screen.Width, c.Screen.Height)),
		slog.String("cloth", fmt.Sprintf("%dx%d", c.Cloth.Width, c.Cloth.Height)),
		slog.Float64("link_length", c.Cloth.LinkLength),
		slog.Float64("max_elongation", c.Cloth.MaxElongation),
		slog.String("gravity", c.Physics.Gravity.String()),
		slog.Float64("friction", c.Physics.Friction),
		slog.Int("iterations", c.Physics.Iterations),
		slog.Int("sub_steps", c.Physics.SubSteps),
		slog.Bool("wind", c.Wind.Enabled),
		slog.Int("wind_zones", len(c.Wind.Zones)),
		slog.Float64("erase_radius", c.Mouse.EraseRadius),
		slog.Float64("drag_radius", c.Mouse.DragRadius),
		slog.Float64("drag_force", c.Mouse.DragForce),
		slog.Float64("zoom", c.Screen.Zoom),
	)
}
