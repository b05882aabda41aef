package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cloth/camera"
)

// BackgroundRenderer clears the screen and draws a world-space reference grid.
type BackgroundRenderer struct {
	Color     rl.Color
	GridColor rl.Color
	Spacing   float32 // world units between grid lines, 0 disables the grid
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		Color:     rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		GridColor: rl.Color{R: 255, G: 255, B: 255, A: 12},
		Spacing:   100,
	}
}

// Draw renders the background.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.Color)
	if b.Spacing <= 0 {
		return
	}

	// Skip the grid once lines would be closer than a few pixels
	if b.Spacing*cam.Zoom < 8 {
		return
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	for _, x := range gridLines(minX, maxX, b.Spacing) {
		sx, _ := cam.WorldToScreen(x, 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: cam.ViewportH}, b.GridColor)
	}
	for _, y := range gridLines(minY, maxY, b.Spacing) {
		_, sy := cam.WorldToScreen(0, y)
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: cam.ViewportW, Y: sy}, b.GridColor)
	}
}

// gridLines returns the multiples of spacing in [lo, hi].
func gridLines(lo, hi, spacing float32) []float32 {
	if spacing <= 0 || hi < lo {
		return nil
	}
	first := float32(math.Ceil(float64(lo/spacing))) * spacing
	var lines []float32
	for v := first; v <= hi; v += spacing {
		lines = append(lines, v)
	}
	return lines
}
