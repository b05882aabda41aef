package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cloth/camera"
	"github.com/pthm-cable/cloth/wind"
)

// WindRenderer outlines wind zones with an arrow along their force.
type WindRenderer struct {
	Fill    rl.Color
	Outline rl.Color
}

// NewWindRenderer creates a new wind zone renderer.
func NewWindRenderer() *WindRenderer {
	return &WindRenderer{
		Fill:    rl.Color{R: 80, G: 160, B: 255, A: 24},
		Outline: rl.Color{R: 80, G: 160, B: 255, A: 90},
	}
}

// Draw renders the zones of f. Dimmed zones are drawn when the wind is off.
func (r *WindRenderer) Draw(f *wind.Field, cam *camera.Camera, active bool) {
	fill, outline := r.Fill, r.Outline
	if !active {
		fill.A /= 3
		outline.A /= 3
	}

	for i := range f.Zones {
		z := &f.Zones[i]
		x0, y0 := cam.WorldToScreen(float32(z.Position.X), float32(z.Position.Y))
		x1, y1 := cam.WorldToScreen(float32(z.Position.X+z.Size.X), float32(z.Position.Y+z.Size.Y))
		rect := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}

		rl.DrawRectangleRec(rect, fill)
		rl.DrawRectangleLinesEx(rect, 1, outline)

		// Arrow from the zone center, length scaled by force
		force := z.Force
		mag := force.Length()
		if mag == 0 {
			continue
		}
		arrow := float32(20 + mag/100)
		if arrow > 80 {
			arrow = 80
		}
		cx, cy := x0+rect.Width/2, y0+rect.Height/2
		dx, dy := float32(force.X/mag)*arrow, float32(force.Y/mag)*arrow
		tip := rl.Vector2{X: cx + dx, Y: cy + dy}
		rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, tip, 2, outline)
		rl.DrawCircleV(tip, 3, outline)
	}
}
