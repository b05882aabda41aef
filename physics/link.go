package physics

import "github.com/pthm-cable/cloth/store"

// Link constraint defaults.
const (
	DefaultStiffness     = 1.0
	DefaultMaxElongation = 1.5
)

// Link keeps two particles at RestLength apart and breaks when stretched past
// RestLength*MaxElongation. Endpoints are handles into the solver's particle
// store and may stop resolving at any time.
type Link struct {
	A, B          store.Handle
	RestLength    float64
	Stiffness     float64 // (0, 1]
	MaxElongation float64 // >= 1
	Broken        bool
	Handle        store.Handle
}

// endpoints resolves both particles. ok is false when either is gone.
func (l *Link) endpoints(particles *store.Store[Particle]) (a, b *Particle, ok bool) {
	a, okA := particles.Get(l.A)
	b, okB := particles.Get(l.B)
	return a, b, okA && okB
}

// IsValid reports whether the link is intact and both endpoints exist.
func (l *Link) IsValid(particles *store.Store[Particle]) bool {
	if l.Broken {
		return false
	}
	_, _, ok := l.endpoints(particles)
	return ok
}

// Length returns the current endpoint distance, or 0 if an endpoint is gone.
func (l *Link) Length(particles *store.Store[Particle]) float64 {
	a, b, ok := l.endpoints(particles)
	if !ok {
		return 0
	}
	return a.Position.Distance(b.Position)
}

// Elongation returns current length over rest length.
func (l *Link) Elongation(particles *store.Store[Particle]) float64 {
	if l.RestLength <= 0 {
		return 0
	}
	return l.Length(particles) / l.RestLength
}

// Solve pulls a stretched link back toward its rest length.
//
// The correction is split by inverse mass, so heavier endpoints move less.
// A link stretched to at least MaxElongation times its rest length is marked
// broken; the correction for this call is still applied.
func (l *Link) Solve(particles *store.Store[Particle]) {
	if l.Broken {
		return
	}
	a, b, ok := l.endpoints(particles)
	if !ok {
		return
	}

	v := a.Position.Sub(b.Position)
	dist := v.Length()
	if dist == 0 || dist <= l.RestLength {
		return
	}
	if dist >= l.RestLength*l.MaxElongation {
		l.Broken = true
	}

	n := v.Mult(1 / dist)
	c := l.RestLength - dist
	p := n.Mult(-(c * l.Stiffness) / (a.Mass + b.Mass))
	a.Move(p.Mult(-1 / a.Mass))
	b.Move(p.Mult(1 / b.Mass))
}
