package physics

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// ApplyRadialForce adds force to every particle strictly within radius of
// center and returns how many were pushed.
func (s *Solver) ApplyRadialForce(center cp.Vector, radius float64, force cp.Vector) int {
	n := 0
	for _, p := range s.particles.All() {
		if p.Within(center, radius) {
			p.AddForce(force)
			n++
		}
	}
	return n
}

// EraseInRadius removes every particle strictly within radius of center and
// returns how many were removed. Links to them are pruned on the next Update.
func (s *Solver) EraseInRadius(center cp.Vector, radius float64) int {
	n := 0
	for h, p := range s.particles.All() {
		if p.Within(center, radius) {
			s.particles.Erase(h)
			n++
		}
	}
	return n
}

// LinkStrains appends the elongation ratio of every valid link to dst.
func (s *Solver) LinkStrains(dst []float64) []float64 {
	for _, l := range s.links.All() {
		if l.IsValid(s.particles) {
			dst = append(dst, l.Elongation(s.particles))
		}
	}
	return dst
}

// Bounds returns the corners of the box enclosing all particles.
// ok is false when there are none.
func (s *Solver) Bounds() (lo, hi cp.Vector, ok bool) {
	for _, p := range s.particles.All() {
		if !ok {
			lo, hi, ok = p.Position, p.Position, true
			continue
		}
		lo.X = math.Min(lo.X, p.Position.X)
		lo.Y = math.Min(lo.Y, p.Position.Y)
		hi.X = math.Max(hi.X, p.Position.X)
		hi.Y = math.Max(hi.Y, p.Position.Y)
	}
	return lo, hi, ok
}
