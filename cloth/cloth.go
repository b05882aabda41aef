// Package cloth turns a loaded configuration into a live solver scene.
package cloth

import (
	"fmt"
	"log/slog"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/config"
	"github.com/pthm-cable/cloth/physics"
	"github.com/pthm-cable/cloth/store"
	"github.com/pthm-cable/cloth/wind"
)

// Grid maps cloth coordinates to particle handles. Row 0 is the top row.
type Grid struct {
	Cols, Rows int
	handles    []store.Handle
}

// At returns the handle at (col, row), or store.Invalid outside the grid.
func (g Grid) At(col, row int) store.Handle {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return store.Invalid
	}
	return g.handles[row*g.Cols+col]
}

// Len returns the number of grid cells.
func (g Grid) Len() int { return len(g.handles) }

// SolverConfig extracts the solver parameters from cfg.
func SolverConfig(cfg *config.Config) physics.Config {
	return physics.Config{
		Gravity:    vec(cfg.Physics.Gravity),
		Friction:   cfg.Physics.Friction,
		Iterations: cfg.Physics.Iterations,
		SubSteps:   cfg.Physics.SubSteps,
	}
}

// WindField builds the wind field described by cfg. An enabled config with
// no zones gets the stock gusts spanning the screen height.
func WindField(cfg *config.Config) *wind.Field {
	f := wind.NewField(float64(cfg.Screen.Width))
	if !cfg.Wind.Enabled {
		return f
	}
	if len(cfg.Wind.Zones) == 0 {
		f.Zones = wind.Defaults(float64(cfg.Screen.Height))
		return f
	}
	for _, z := range cfg.Wind.Zones {
		zone := wind.NewZone(vec(z.Size), vec(z.Position), vec(z.Force))
		zone.Speed = z.Speed
		f.Add(zone)
	}
	return f
}

// Build clears s and lays out a fresh cloth from cfg. A solver whose
// parameters fail physics.Config.Validate is rejected and left untouched.
//
// The grid is centred horizontally on the screen with its first row at
// Cloth.Top. Each particle links to its left and upper neighbours.
func Build(s *physics.Solver, cfg *config.Config) (Grid, error) {
	if err := s.Config().Validate(); err != nil {
		return Grid{}, err
	}
	s.Clear()

	c := cfg.Cloth
	g := Grid{Cols: c.Width, Rows: c.Height, handles: make([]store.Handle, c.Width*c.Height)}
	left := (float64(cfg.Screen.Width) - cfg.Derived.ClothW) * 0.5

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pos := cp.Vector{
				X: left + float64(col)*c.LinkLength,
				Y: c.Top + float64(row)*c.LinkLength,
			}
			h, err := s.AddParticleMass(pos, c.Mass)
			if err != nil {
				return Grid{}, fmt.Errorf("building cloth: %w", err)
			}
			g.handles[row*c.Width+col] = h

			if col > 0 {
				if err := link(s, g.At(col-1, row), h, c); err != nil {
					return Grid{}, err
				}
			}
			if row > 0 {
				if err := link(s, g.At(col, row-1), h, c); err != nil {
					return Grid{}, err
				}
			}
		}
	}

	if c.PinTop {
		for col := 0; col < c.Width; col++ {
			s.SetPinned(g.At(col, 0), true)
		}
	}
	for _, p := range c.Pins {
		if !s.SetPinned(g.At(p.Col, p.Row), true) {
			return Grid{}, fmt.Errorf("building cloth: pin (%d, %d) outside grid", p.Col, p.Row)
		}
	}

	slog.Debug("cloth built",
		"cols", g.Cols,
		"rows", g.Rows,
		"particles", s.Particles().Len(),
		"links", s.Links().Len(),
	)
	return g, nil
}

func link(s *physics.Solver, a, b store.Handle, c config.ClothConfig) error {
	h, err := s.AddLinkRest(a, b, c.LinkLength, c.MaxElongation)
	if err != nil {
		return fmt.Errorf("building cloth: %w", err)
	}
	l, _ := s.Link(h)
	l.Stiffness = c.Stiffness
	return nil
}

func vec(v config.Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}
