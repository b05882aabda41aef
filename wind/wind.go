// Package wind applies rectangular force zones to the cloth.
package wind

import (
	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/physics"
)

// Zone is an axis-aligned rectangle that pushes every particle inside it.
//
// Containment is half-open: a point is inside when
// Left <= x < Left+Width and Top <= y < Top+Height.
type Zone struct {
	Position cp.Vector // top-left corner
	Size     cp.Vector
	Force    cp.Vector

	// Speed drifts the zone horizontally in units per second, wrapping
	// around the field width. Zero keeps the zone static.
	Speed float64
}

// NewZone creates a static zone.
func NewZone(size, position, force cp.Vector) Zone {
	return Zone{Position: position, Size: size, Force: force}
}

// Contains reports whether p lies inside the zone.
func (z Zone) Contains(p cp.Vector) bool {
	return p.X >= z.Position.X && p.X < z.Position.X+z.Size.X &&
		p.Y >= z.Position.Y && p.Y < z.Position.Y+z.Size.Y
}

// advance drifts the zone and wraps it around [0, width).
func (z *Zone) advance(dt, width float64) {
	if z.Speed == 0 || width <= 0 {
		return
	}
	z.Position.X += z.Speed * dt
	if z.Position.X >= width {
		z.Position.X = -z.Size.X
	} else if z.Position.X+z.Size.X < 0 {
		z.Position.X = width
	}
}

// Field is an ordered set of zones. Overlapping zones add up.
type Field struct {
	Zones []Zone
	Width float64 // wrap width for drifting zones
}

// NewField creates an empty field that wraps drifting zones at width.
func NewField(width float64) *Field {
	return &Field{Width: width}
}

// Add appends a zone.
func (f *Field) Add(z Zone) {
	f.Zones = append(f.Zones, z)
}

// ForceAt returns the summed force of every zone containing p.
func (f *Field) ForceAt(p cp.Vector) cp.Vector {
	var sum cp.Vector
	for i := range f.Zones {
		if f.Zones[i].Contains(p) {
			sum = sum.Add(f.Zones[i].Force)
		}
	}
	return sum
}

// Apply pushes every particle by the wind at its position, scaled by dt, and
// returns how many particles were affected. Drifting zones move first.
//
// Call once per frame, before Solver.Update: the forces are calibrated
// against the frame dt, not the sub-step.
func (f *Field) Apply(s *physics.Solver, dt float64) int {
	for i := range f.Zones {
		f.Zones[i].advance(dt, f.Width)
	}
	if len(f.Zones) == 0 {
		return 0
	}

	n := 0
	for _, p := range s.Particles().All() {
		force := f.ForceAt(p.Position)
		if force == (cp.Vector{}) {
			continue
		}
		p.AddForce(force.Mult(dt))
		n++
	}
	return n
}

// Defaults returns the two stock gusts spanning a screen of the given height.
func Defaults(height float64) []Zone {
	return []Zone{
		NewZone(cp.Vector{X: 100, Y: height}, cp.Vector{}, cp.Vector{X: 1000}),
		NewZone(cp.Vector{X: 20, Y: height}, cp.Vector{}, cp.Vector{X: 3000}),
	}
}
