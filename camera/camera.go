// Package camera provides a 2D camera system for viewport control.
package camera

import "fmt"

// WheelStep is the zoom factor applied per mouse wheel notch.
const WheelStep = 1.2

// Camera controls the viewport into the simulation world.
// Supports pan and zoom over an unbounded plane.
type Camera struct {
	// Position is the world point shown at the viewport center
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// Reset target
	homeX, homeY, homeZoom float32
}

// New creates a camera looking at the center of the viewport at the given
// zoom, so that at zoom 1 world and screen coordinates coincide.
func New(viewportW, viewportH, zoom float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.05,
		MaxZoom:   20.0,
		homeX:     viewportW / 2,
		homeY:     viewportH / 2,
	}
	c.homeZoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.Reset()
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	// Convert screen delta to world delta (inverse of zoom)
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetFocus centers the view on a world point.
func (c *Camera) SetFocus(wx, wy float32) {
	c.X, c.Y = wx, wy
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Wheel zooms in one WheelStep per positive notch and out per negative one.
func (c *Camera) Wheel(move float32) {
	switch {
	case move > 0:
		c.ZoomBy(WheelStep)
	case move < 0:
		c.ZoomBy(1 / WheelStep)
	}
}

// Reset returns the camera to its initial focus and zoom.
func (c *Camera) Reset() {
	c.X, c.Y = c.homeX, c.homeY
	c.Zoom = c.homeZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// String describes the viewport state for the debug dump.
func (c *Camera) String() string {
	return fmt.Sprintf("center %g,%g zoom %g offset %g,%g",
		c.ViewportW/2, c.ViewportH/2, c.Zoom, c.X, c.Y)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
