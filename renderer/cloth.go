// Package renderer draws the cloth and its surroundings with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cloth/camera"
	"github.com/pthm-cable/cloth/physics"
)

// ColorMode selects how links are colored.
type ColorMode uint8

const (
	ColorParticle ColorMode = iota // endpoint particle color
	ColorStrain                    // elongation gradient
)

// String returns the mode name shown in the HUD.
func (m ColorMode) String() string {
	if m == ColorStrain {
		return "strain"
	}
	return "plain"
}

// ClothRenderer renders links as lines and pinned particles as dots.
type ClothRenderer struct {
	Mode      ColorMode
	PinColor  rl.Color
	PinRadius float32
	ShowPins  bool
}

// NewClothRenderer creates a new cloth renderer.
func NewClothRenderer() *ClothRenderer {
	return &ClothRenderer{
		Mode:      ColorParticle,
		PinColor:  rl.Color{R: 120, G: 180, B: 255, A: 255},
		PinRadius: 3,
		ShowPins:  true,
	}
}

// ToggleMode switches between plain and strain coloring.
func (r *ClothRenderer) ToggleMode() {
	if r.Mode == ColorStrain {
		r.Mode = ColorParticle
	} else {
		r.Mode = ColorStrain
	}
}

// Draw renders every valid link through the camera.
func (r *ClothRenderer) Draw(s *physics.Solver, cam *camera.Camera) {
	particles := s.Particles()
	for _, l := range s.Links().All() {
		if !l.IsValid(particles) {
			continue
		}
		a, _ := particles.Get(l.A)
		b, _ := particles.Get(l.B)

		ax, ay := float32(a.Position.X), float32(a.Position.Y)
		bx, by := float32(b.Position.X), float32(b.Position.Y)
		if !cam.IsVisible(ax, ay, 0) && !cam.IsVisible(bx, by, 0) {
			continue
		}

		color := a.Color
		if r.Mode == ColorStrain {
			color = StrainColor(l.Elongation(particles), l.MaxElongation, a.Color)
		}

		sax, say := cam.WorldToScreen(ax, ay)
		sbx, sby := cam.WorldToScreen(bx, by)
		rl.DrawLineV(rl.Vector2{X: sax, Y: say}, rl.Vector2{X: sbx, Y: sby}, color)
	}

	if !r.ShowPins {
		return
	}
	for _, p := range particles.All() {
		if p.Movable {
			continue
		}
		x, y := float32(p.Position.X), float32(p.Position.Y)
		if !cam.IsVisible(x, y, r.PinRadius) {
			continue
		}
		sx, sy := cam.WorldToScreen(x, y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r.PinRadius, r.PinColor)
	}
}

// DrawCursor outlines the interaction radius around the mouse.
func (r *ClothRenderer) DrawCursor(screenX, screenY, worldRadius float32, cam *camera.Camera, color rl.Color) {
	rl.DrawCircleLines(int32(screenX), int32(screenY), worldRadius*cam.Zoom, color)
}
