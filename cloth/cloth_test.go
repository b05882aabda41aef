package cloth

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/config"
	"github.com/pthm-cable/cloth/physics"
	"github.com/pthm-cable/cloth/store"
)

func smallConfig(t *testing.T, cols, rows int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Cloth.Width = cols
	cfg.Cloth.Height = rows
	cfg.Cloth.LinkLength = 10
	cfg.Screen.Width = 200
	if err := cfg.Refresh(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestBuildLayout(t *testing.T) {
	cfg := smallConfig(t, 5, 4)
	s := physics.NewSolver(SolverConfig(cfg))

	g, err := Build(s, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Particles().Len(); got != 20 {
		t.Errorf("particles = %d, want 20", got)
	}
	// (cols-1)*rows horizontal + cols*(rows-1) vertical
	if got := s.Links().Len(); got != 4*4+5*3 {
		t.Errorf("links = %d, want %d", got, 4*4+5*3)
	}

	// 40 wide cloth centred on a 200 wide screen
	first, _ := s.Particle(g.At(0, 0))
	if first.Position != (cp.Vector{X: 80, Y: cfg.Cloth.Top}) {
		t.Errorf("top-left at %v", first.Position)
	}
	last, _ := s.Particle(g.At(4, 3))
	if last.Position != (cp.Vector{X: 120, Y: cfg.Cloth.Top + 30}) {
		t.Errorf("bottom-right at %v", last.Position)
	}

	for col := 0; col < 5; col++ {
		p, _ := s.Particle(g.At(col, 0))
		if p.Movable {
			t.Errorf("top row particle %d not pinned", col)
		}
	}
	p, _ := s.Particle(g.At(2, 1))
	if !p.Movable {
		t.Error("second row should be free")
	}
}

func TestBuildLinksAtRest(t *testing.T) {
	cfg := smallConfig(t, 3, 3)
	cfg.Cloth.Stiffness = 0.5
	cfg.Cloth.MaxElongation = 2
	s := physics.NewSolver(SolverConfig(cfg))
	if _, err := Build(s, cfg); err != nil {
		t.Fatal(err)
	}

	for _, l := range s.Links().All() {
		if l.RestLength != 10 || l.Stiffness != 0.5 || l.MaxElongation != 2 {
			t.Errorf("link %d = %+v", l.Handle, *l)
		}
		if e := l.Elongation(s.Particles()); math.Abs(e-1) > 1e-12 {
			t.Errorf("link %d not at rest: elongation %v", l.Handle, e)
		}
	}
}

func TestBuildExplicitPins(t *testing.T) {
	cfg := smallConfig(t, 4, 3)
	cfg.Cloth.PinTop = false
	cfg.Cloth.Pins = []config.GridPoint{{Col: 0, Row: 0}, {Col: 3, Row: 0}}
	s := physics.NewSolver(SolverConfig(cfg))

	g, err := Build(s, cfg)
	if err != nil {
		t.Fatal(err)
	}

	pinned := 0
	for _, p := range s.Particles().All() {
		if !p.Movable {
			pinned++
		}
	}
	if pinned != 2 {
		t.Errorf("pinned = %d, want 2", pinned)
	}
	if p, _ := s.Particle(g.At(3, 0)); p.Movable {
		t.Error("corner pin missing")
	}
}

func TestBuildRebuildInvalidatesOldHandles(t *testing.T) {
	cfg := smallConfig(t, 3, 2)
	s := physics.NewSolver(SolverConfig(cfg))

	old, err := Build(s, cfg)
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := Build(s, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Particle(old.At(0, 0)); ok {
		t.Error("handle from the previous build still resolves")
	}
	if s.Particles().Len() != 6 {
		t.Errorf("particles after rebuild = %d, want 6", s.Particles().Len())
	}
	if fresh.At(0, 0) == old.At(0, 0) {
		t.Error("rebuild reused a handle")
	}
}

func TestBuildRejectsInvalidSolver(t *testing.T) {
	cfg := smallConfig(t, 3, 2)

	tests := []struct {
		name   string
		modify func(s *physics.Solver)
	}{
		{"no sub-steps", func(s *physics.Solver) { s.SetSubSteps(0) }},
		{"negative iterations", func(s *physics.Solver) { s.SetIterations(-1) }},
		{"negative friction", func(s *physics.Solver) { s.SetFriction(-0.5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := physics.NewSolver(SolverConfig(cfg))
			keep := s.AddParticle(cp.Vector{})
			tt.modify(s)

			if _, err := Build(s, cfg); !errors.Is(err, physics.ErrInvalidConfig) {
				t.Fatalf("Build() = %v, want ErrInvalidConfig", err)
			}
			if s.Particles().Len() != 1 || !s.Particles().Contains(keep) {
				t.Error("rejected build modified the solver")
			}
		})
	}
}

func TestGridAtOutside(t *testing.T) {
	g := Grid{Cols: 2, Rows: 2, handles: []store.Handle{0, 1, 2, 3}}
	for _, cr := range [][2]int{{-1, 0}, {2, 0}, {0, -1}, {0, 2}} {
		if h := g.At(cr[0], cr[1]); h != store.Invalid {
			t.Errorf("At(%d, %d) = %d, want Invalid", cr[0], cr[1], h)
		}
	}
	if g.At(1, 1) != 3 {
		t.Errorf("At(1, 1) = %d", g.At(1, 1))
	}
}

func TestWindField(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*config.Config)
		zones int
	}{
		{"stock gusts", func(c *config.Config) {}, 2},
		{"disabled", func(c *config.Config) { c.Wind.Enabled = false }, 0},
		{"configured", func(c *config.Config) {
			c.Wind.Zones = []config.ZoneConfig{{Size: config.Vec2{X: 5, Y: 5}, Speed: 3}}
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.setup(cfg)
			f := WindField(cfg)
			if len(f.Zones) != tt.zones {
				t.Errorf("zones = %d, want %d", len(f.Zones), tt.zones)
			}
			if f.Width != float64(cfg.Screen.Width) {
				t.Errorf("width = %v", f.Width)
			}
		})
	}

	cfg := config.Default()
	f := WindField(cfg)
	if f.Zones[0].Size.Y != float64(cfg.Screen.Height) {
		t.Errorf("stock gust height = %v", f.Zones[0].Size.Y)
	}
}

func TestSolverConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.Gravity = config.Vec2{X: 3, Y: 4}
	got := SolverConfig(cfg)
	want := physics.DefaultConfig()
	want.Gravity = cp.Vector{X: 3, Y: 4}
	if got != want {
		t.Errorf("SolverConfig = %+v, want %+v", got, want)
	}
}

func TestBuiltClothHangs(t *testing.T) {
	cfg := smallConfig(t, 6, 6)
	s := physics.NewSolver(SolverConfig(cfg))
	g, err := Build(s, cfg)
	if err != nil {
		t.Fatal(err)
	}
	links := s.Links().Len()
	for i := 0; i < 120; i++ {
		s.Update(cfg.Physics.DT)
	}

	top, _ := s.Particle(g.At(0, 0))
	if top.Position.Y != cfg.Cloth.Top {
		t.Errorf("pinned particle moved to %v", top.Position)
	}
	bottom, ok := s.Particle(g.At(2, 5))
	if !ok {
		t.Fatal("bottom particle gone")
	}
	if bottom.Position.Y <= cfg.Cloth.Top+49 {
		t.Errorf("cloth did not hang: bottom y = %v", bottom.Position.Y)
	}
	if s.Links().Len() != links {
		t.Errorf("links = %d, want %d: cloth tore under its own weight", s.Links().Len(), links)
	}
}
