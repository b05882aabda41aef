package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cloth/renderer"
	"github.com/pthm-cable/cloth/ui"
)

// Draw renders the game state.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()

	g.background.Draw(g.camera)
	g.windRenderer.Draw(g.field, g.camera, g.controls.Wind)

	if g.controls.StrainColors {
		g.clothRenderer.Mode = renderer.ColorStrain
	} else {
		g.clothRenderer.Mode = renderer.ColorParticle
	}
	g.clothRenderer.Draw(g.solver, g.camera)
	g.drawCursor()

	g.hud.Draw(g.hudData())
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	actions := g.controlsPanel.Draw(&g.controls)
	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	rl.EndDrawing()

	// Buttons act after the frame so the panel is drawn in a consistent state
	if actions.Rebuild {
		if err := g.Rebuild(); err != nil {
			slog.Error("rebuild failed", "error", err)
		}
	}
	if actions.ResetCamera {
		g.camera.Reset()
	}
	if actions.Snapshot {
		g.saveSnapshot(nil)
	}
}

// drawCursor outlines the radius of whichever tool the mouse is using.
func (g *Game) drawCursor() {
	mouse := rl.GetMousePosition()
	if g.controlsPanel.Contains(mouse.X, mouse.Y) {
		return
	}
	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonRight):
		g.clothRenderer.DrawCursor(mouse.X, mouse.Y, g.controls.DragRadius, g.camera, rl.Color{R: 120, G: 200, B: 255, A: 160})
	case rl.IsMouseButtonDown(rl.MouseButtonMiddle),
		rl.IsMouseButtonDown(rl.MouseButtonLeft) && (rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)):
		g.clothRenderer.DrawCursor(mouse.X, mouse.Y, g.controls.EraseRadius, g.camera, rl.Color{R: 255, G: 90, B: 90, A: 200})
	}
}

// hudData gathers the HUD numbers from the live solver.
func (g *Game) hudData() ui.HUDData {
	pinned := 0
	for _, p := range g.solver.Particles().All() {
		if !p.Movable {
			pinned++
		}
	}
	return ui.HUDData{
		Title:         "Cloth",
		Particles:     g.solver.Particles().Len(),
		Links:         g.solver.Links().Len(),
		Pinned:        pinned,
		Broken:        g.brokenTotal,
		Frame:         g.frame,
		FPS:           rl.GetFPS(),
		Paused:        g.controls.Paused,
		Wind:          g.controls.Wind,
		ColorMode:     g.clothRenderer.Mode.String(),
		Zoom:          g.camera.Zoom,
		StrainMax:     g.lastWindow.StrainMax,
		MaxElongation: g.cfg.Cloth.MaxElongation,
		ScreenHeight:  int32(g.screenHeight),
	}
}
