package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp/v2"
)

// controlsLegend is drawn along the bottom edge.
const controlsLegend = "RMB drag  MMB/Shift+LMB cut  LMB pan  Wheel zoom  " +
	"Space wind  Enter rebuild  P pause  C colors  Tab panel  F3 perf  F5 snapshot  / viewport"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.ToggleWind()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.controls.Paused = !g.controls.Paused
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.controls.StrainColors = !g.controls.StrainColors
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controlsPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		g.saveSnapshot(nil)
	}
	if rl.IsKeyPressed(rl.KeySlash) {
		slog.Info("viewport", "state", g.camera.String())
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		if err := g.Rebuild(); err != nil {
			slog.Error("rebuild failed", "error", err)
		}
	}

	g.handleCameraInput()
	g.handleMouse()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.controlsPanel.SetPosition(int32(w)-270, 10)
	g.perfPanel.SetPosition(int32(w)-270, 260)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	g.camera.Wheel(rl.GetMouseWheelMove())

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handleMouse turns mouse buttons into drag, cut and pan.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	world := cp.Vector{X: float64(wx), Y: float64(wy)}

	last := g.lastMouse
	moved := g.haveMouse
	g.lastMouse, g.haveMouse = world, true

	if g.controlsPanel.Contains(mouse.X, mouse.Y) {
		return
	}

	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	left := rl.IsMouseButtonDown(rl.MouseButtonLeft)

	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonRight):
		if moved {
			g.Drag(world, world.Sub(last))
		}
	case rl.IsMouseButtonDown(rl.MouseButtonMiddle), left && shift:
		g.Cut(world)
	case left:
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
		// The view moved under the cursor
		wx, wy = g.camera.ScreenToWorld(mouse.X, mouse.Y)
		g.lastMouse = cp.Vector{X: float64(wx), Y: float64(wy)}
	}
}
