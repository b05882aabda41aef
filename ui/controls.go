package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is the live state the controls panel edits in place.
type ControlState struct {
	Wind         bool
	StrainColors bool
	Paused       bool
	DragForce    float32
	DragRadius   float32
	EraseRadius  float32
}

// ControlActions reports one-shot buttons pressed this frame.
type ControlActions struct {
	Rebuild     bool
	ResetCamera bool
	Snapshot    bool
}

// Slider ranges.
const (
	MaxDragForce   = 20000
	MaxDragRadius  = 300
	MaxEraseRadius = 60
)

const (
	controlRow    = 30
	controlHeight = controlRow*7 + 40
)

// ControlsPanel renders the raygui controls panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the visible panel, so
// mouse input there is not forwarded to the cloth.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+controlHeight)
}

// Draw renders the panel and applies slider and toggle changes to state.
func (c *ControlsPanel) Draw(state *ControlState) ControlActions {
	var actions ControlActions
	if !c.visible {
		return actions
	}

	r := c.renderer
	pad := float32(r.Theme.Padding)
	r.DrawPanel(c.x, c.y, c.width, controlHeight)
	rl.DrawText("Controls", c.x+r.Theme.Padding, c.y+r.Theme.Padding, 16, rl.White)

	x := float32(c.x) + pad
	y := float32(c.y) + pad + 24
	half := (float32(c.width) - pad*3) / 2
	sliderX := x + 70
	sliderW := float32(c.width) - pad*2 - 70 - 50

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(state.Wind, "Wind: on", "Wind: off")) {
		state.Wind = !state.Wind
	}
	if gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 24}, toggleText(state.StrainColors, "Strain", "Plain")) {
		state.StrainColors = !state.StrainColors
	}
	y += controlRow

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(state.Paused, "Resume", "Pause")) {
		state.Paused = !state.Paused
	}
	actions.Rebuild = gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 24}, "Rebuild")
	y += controlRow

	r.DrawLabelValue(int32(x), int32(y)+6, "Drag", "")
	state.DragForce = gui.SliderBar(rl.Rectangle{X: sliderX, Y: y, Width: sliderW, Height: 20},
		"", formatFloat(state.DragForce), state.DragForce, 0, MaxDragForce)
	y += controlRow

	r.DrawLabelValue(int32(x), int32(y)+6, "Reach", "")
	state.DragRadius = gui.SliderBar(rl.Rectangle{X: sliderX, Y: y, Width: sliderW, Height: 20},
		"", formatFloat(state.DragRadius), state.DragRadius, 1, MaxDragRadius)
	y += controlRow

	r.DrawLabelValue(int32(x), int32(y)+6, "Cut", "")
	state.EraseRadius = gui.SliderBar(rl.Rectangle{X: sliderX, Y: y, Width: sliderW, Height: 20},
		"", formatFloat(state.EraseRadius), state.EraseRadius, 1, MaxEraseRadius)
	y += controlRow

	actions.ResetCamera = gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, "Reset View")
	actions.Snapshot = gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 24}, "Snapshot")

	return actions
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
