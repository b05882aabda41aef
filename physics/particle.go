// Package physics implements the cloth solver: point masses, distance links
// and the sub-stepped integration loop that ties them together.
package physics

import (
	"image/color"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/store"
)

// Particle is a point mass.
//
// Velocity is derived: it is recomputed from the position delta at the end of
// every sub-step, so PrevPosition always holds the position at the start of
// the current sub-step.
type Particle struct {
	Position     cp.Vector
	PrevPosition cp.Vector
	Velocity     cp.Vector
	Force        cp.Vector // accumulated for the current sub-step only
	Mass         float64
	Movable      bool
	Color        color.RGBA
	Handle       store.Handle
}

// DefaultColor is the color new particles are drawn with.
var DefaultColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// NewParticle creates a movable particle at rest at pos.
func NewParticle(pos cp.Vector, mass float64) Particle {
	return Particle{
		Position:     pos,
		PrevPosition: pos,
		Mass:         mass,
		Movable:      true,
		Color:        DefaultColor,
		Handle:       store.Invalid,
	}
}

// Update advances the particle by dt using the accumulated force.
func (p *Particle) Update(dt float64) {
	if !p.Movable {
		return
	}
	p.PrevPosition = p.Position
	p.Velocity = p.Velocity.Add(p.Force.Mult(dt / p.Mass))
	p.Position = p.Position.Add(p.Velocity.Mult(dt))
}

// UpdateDerivatives recovers the velocity from the position delta and clears
// the force accumulator.
func (p *Particle) UpdateDerivatives(dt float64) {
	if dt > 0 {
		p.Velocity = p.Position.Sub(p.PrevPosition).Mult(1 / dt)
	}
	p.Force = cp.Vector{}
}

// Move displaces a movable particle by v.
func (p *Particle) Move(v cp.Vector) {
	if !p.Movable {
		return
	}
	p.Position = p.Position.Add(v)
}

// AddForce accumulates f for the current sub-step.
func (p *Particle) AddForce(f cp.Vector) {
	p.Force = p.Force.Add(f)
}

// Within reports whether the particle lies strictly inside the circle.
func (p *Particle) Within(center cp.Vector, radius float64) bool {
	return p.Position.Near(center, radius)
}
