package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/physics"
)

// view maps a world rectangle onto the terminal cell grid.
type view struct {
	worldW, worldH float64
	cols, rows     int
}

// toCell returns the cell containing world point p.
func (v view) toCell(p cp.Vector) (x, y int) {
	x = int(math.Floor(p.X / v.worldW * float64(v.cols)))
	y = int(math.Floor(p.Y / v.worldH * float64(v.rows)))
	return x, y
}

// toWorld returns the world point at the center of cell (x, y).
func (v view) toWorld(x, y int) cp.Vector {
	return cp.Vector{
		X: (float64(x) + 0.5) * v.worldW / float64(v.cols),
		Y: (float64(y) + 0.5) * v.worldH / float64(v.rows),
	}
}

// line calls plot for every cell on the segment from (x0, y0) to (x1, y1).
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// strainStyle colors a link by how close it is to breaking.
func strainStyle(elongation, maxElongation float64) tcell.Style {
	span := maxElongation - 1
	t := 0.0
	if span > 0 {
		t = (elongation - 1) / span
	}
	switch {
	case t >= 0.7:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case t >= 0.4:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
}

// drawCloth rasterizes every valid link onto the screen.
func drawCloth(screen tcell.Screen, v view, s *physics.Solver) {
	particles := s.Particles()
	plot := func(style tcell.Style) func(x, y int) {
		return func(x, y int) {
			if x >= 0 && x < v.cols && y >= 0 && y < v.rows {
				screen.SetContent(x, y, '·', nil, style)
			}
		}
	}
	for _, l := range s.Links().All() {
		if !l.IsValid(particles) {
			continue
		}
		a, _ := particles.Get(l.A)
		b, _ := particles.Get(l.B)
		ax, ay := v.toCell(a.Position)
		bx, by := v.toCell(b.Position)
		line(ax, ay, bx, by, plot(strainStyle(l.Elongation(particles), l.MaxElongation)))
	}

	pin := tcell.StyleDefault.Foreground(tcell.ColorAqua)
	for _, p := range particles.All() {
		if p.Movable {
			continue
		}
		x, y := v.toCell(p.Position)
		if x >= 0 && x < v.cols && y >= 0 && y < v.rows {
			screen.SetContent(x, y, '•', nil, pin)
		}
	}
}

// drawText writes s starting at (x, y).
func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
