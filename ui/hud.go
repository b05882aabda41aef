package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cloth/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Particles     int
	Links         int
	Pinned        int
	Broken        int // links broken since the cloth was built
	Frame         int32
	FPS           int32
	Paused        bool
	Wind          bool
	ColorMode     string
	Zoom          float32
	StrainMax     float64
	MaxElongation float64
	ScreenHeight  int32
}

// Lines returns the text rows of the HUD, top to bottom.
func (d HUDData) Lines() []string {
	wind := "off"
	if d.Wind {
		wind = "on"
	}
	status := "Running"
	if d.Paused {
		status = "PAUSED"
	}
	return []string{
		fmt.Sprintf("Particles: %d | Links: %d | Pinned: %d | Broken: %d", d.Particles, d.Links, d.Pinned, d.Broken),
		fmt.Sprintf("Frame: %d | FPS: %d | Zoom: %.2fx", d.Frame, d.FPS, d.Zoom),
		fmt.Sprintf("Wind: %s | Colors: %s", wind, d.ColorMode),
		status,
	}
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	lines := data.Lines()
	y := int32(35)
	for i, line := range lines {
		color := rl.LightGray
		if i == len(lines)-1 {
			color = rl.Yellow
		}
		rl.DrawText(line, 10, y, 16, color)
		y += 20
	}

	h.renderer.DrawStrainBar(10, y+4, "Max strain", data.StrainMax, data.MaxElongation, 300)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase step timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  P95: %s",
		stats.AvgStepDuration.Round(time.Microsecond),
		stats.P95StepDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases() {
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 80 {
			color = rl.Red
		} else if pct > 40 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
