// Command clothterm runs the cloth simulation in a terminal. The left mouse
// button cuts, the right button drags, Space toggles the wind and Enter
// rebuilds the cloth. Breaking links make a tick on the speaker.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/cloth"
	"github.com/pthm-cable/cloth/config"
	"github.com/pthm-cable/cloth/physics"
	"github.com/pthm-cable/cloth/wind"
)

// sim is the terminal front end's copy of the frame loop.
type sim struct {
	cfg    *config.Config
	solver *physics.Solver
	field  *wind.Field
	windOn bool

	screen tcell.Screen
	view   view
	sound  *tearSound

	// Mouse state, in world space
	buttons   tcell.ButtonMask
	mouse     cp.Vector
	lastMouse cp.Vector

	frame       int
	brokenTotal int
}

func newSim(cfg *config.Config, screen tcell.Screen) (*sim, error) {
	s := &sim{
		cfg:    cfg,
		solver: physics.NewSolver(cloth.SolverConfig(cfg)),
		windOn: cfg.Wind.Enabled,
		screen: screen,
	}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	s.resize()
	return s, nil
}

func (s *sim) rebuild() error {
	if _, err := cloth.Build(s.solver, s.cfg); err != nil {
		return err
	}
	s.field = cloth.WindField(s.cfg)
	s.brokenTotal = 0
	return nil
}

func (s *sim) resize() {
	cols, rows := s.screen.Size()
	s.view = view{
		worldW: float64(s.cfg.Screen.Width),
		worldH: float64(s.cfg.Screen.Height),
		cols:   cols,
		rows:   rows - 1, // status line
	}
}

// step advances one frame with the current mouse state.
func (s *sim) step() {
	dt := s.cfg.Physics.DT
	switch {
	case s.buttons&tcell.ButtonPrimary != 0, s.buttons&tcell.ButtonMiddle != 0:
		s.solver.EraseInRadius(s.mouse, s.cfg.Mouse.EraseRadius)
	case s.buttons&tcell.ButtonSecondary != 0:
		delta := s.mouse.Sub(s.lastMouse)
		s.solver.ApplyRadialForce(s.mouse, s.cfg.Mouse.DragRadius, delta.Mult(s.cfg.Mouse.DragForce))
	}
	s.lastMouse = s.mouse

	if s.windOn {
		s.field.Apply(s.solver, dt)
	}
	s.solver.Update(dt)

	broken := s.solver.LastFrame().Broken
	s.brokenTotal += broken
	if s.sound != nil {
		s.sound.Tear(broken, time.Now())
	}
	s.frame++
}

func (s *sim) draw() {
	s.screen.Clear()
	drawCloth(s.screen, s.view, s.solver)

	windState := "off"
	if s.windOn {
		windState = "on"
	}
	status := fmt.Sprintf(" frame %d  particles %d  links %d  broken %d  wind %s  [LMB cut, RMB drag, Space wind, Enter rebuild, q quit]",
		s.frame, s.solver.Particles().Len(), s.solver.Links().Len(), s.brokenTotal, windState)
	drawText(s.screen, 0, s.view.rows, status, tcell.StyleDefault.Reverse(true))
	s.screen.Show()
}

// handleEvent returns false when the program should exit.
func (s *sim) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
			ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyEnter:
			if err := s.rebuild(); err != nil {
				slog.Error("rebuild failed", "error", err)
			}
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			s.windOn = !s.windOn
			if s.windOn {
				slog.Info("Wind is now blowing")
			} else {
				slog.Info("Wind is no longer blowing")
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		pressed := s.buttons == 0 && ev.Buttons() != 0
		s.buttons = ev.Buttons()
		s.mouse = s.view.toWorld(x, y)
		if pressed {
			s.lastMouse = s.mouse
		}
	case *tcell.EventResize:
		s.screen.Sync()
		s.resize()
	}
	return true
}

func (s *sim) run() {
	ticker := time.NewTicker(time.Duration(s.cfg.Physics.DT * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !s.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			s.step()
			s.draw()
		}
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	defPath := flag.String("def", "", "Path to a JSON cloth definition applied over the config")
	width := flag.Int("W", 0, "Cloth width in particles")
	height := flag.Int("H", 0, "Cloth height in particles")
	noWind := flag.Bool("nowind", false, "Disable wind")
	mute := flag.Bool("mute", false, "Disable the tear sound")
	logPath := flag.String("log", "", "Write JSON logs to this file")
	flag.Parse()

	// The terminal is ours, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *defPath != "" {
		if err := cfg.ApplyDefinition(*defPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load cloth definition: %v\n", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "W":
			cfg.Cloth.Width = *width
		case "H":
			cfg.Cloth.Height = *height
		case "nowind":
			cfg.Wind.Enabled = !*noWind
		}
	})
	if err := cfg.Refresh(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	defer screen.Fini()

	s, err := newSim(cfg, screen)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to build cloth: %v\n", err)
		os.Exit(1)
	}

	if !*mute {
		sound, err := newTearSound()
		if err != nil {
			slog.Warn("audio unavailable", "error", err)
		} else {
			s.sound = sound
			defer sound.Close()
		}
	}

	s.run()
}
