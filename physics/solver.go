package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/store"
)

// Solver defaults.
const (
	DefaultGravityX   = 0.0
	DefaultGravityY   = 1500.0
	DefaultFriction   = 0.5
	DefaultIterations = 1
	DefaultSubSteps   = 16
)

var (
	// ErrInvalidMass is returned for particles with non-positive mass.
	ErrInvalidMass = errors.New("particle mass must be positive")
	// ErrUnknownParticle is returned when a link endpoint does not resolve.
	ErrUnknownParticle = errors.New("unknown particle")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid solver config")
)

// Config holds the solver parameters.
type Config struct {
	Gravity    cp.Vector
	Friction   float64 // linear air drag, not mass-normalised
	Iterations int     // relaxation passes per sub-step
	SubSteps   int     // integration sub-steps per frame
}

// DefaultConfig returns the stock cloth parameters.
func DefaultConfig() Config {
	return Config{
		Gravity:    cp.Vector{X: DefaultGravityX, Y: DefaultGravityY},
		Friction:   DefaultFriction,
		Iterations: DefaultIterations,
		SubSteps:   DefaultSubSteps,
	}
}

// Validate checks that the parameters describe a runnable solver.
func (c Config) Validate() error {
	if c.SubSteps < 1 {
		return fmt.Errorf("%w: sub_steps %d < 1", ErrInvalidConfig, c.SubSteps)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations %d < 0", ErrInvalidConfig, c.Iterations)
	}
	if c.Friction < 0 {
		return fmt.Errorf("%w: friction %g < 0", ErrInvalidConfig, c.Friction)
	}
	return nil
}

// FrameStats describes what the last Update did to the link set.
type FrameStats struct {
	Pruned int // invalid links removed before sub-stepping
	Broken int // links that broke during this frame
}

// Solver owns all particles and links and advances them frame by frame.
// It is not safe for concurrent use.
type Solver struct {
	particles *store.Store[Particle]
	links     *store.Store[Link]
	cfg       Config
	last      FrameStats
}

// NewSolver creates an empty solver.
func NewSolver(cfg Config) *Solver {
	return &Solver{
		particles: store.New[Particle](),
		links:     store.New[Link](),
		cfg:       cfg,
	}
}

// Config returns the current parameters.
func (s *Solver) Config() Config { return s.cfg }

// SetGravity replaces the gravity vector.
func (s *Solver) SetGravity(g cp.Vector) { s.cfg.Gravity = g }

// SetFriction replaces the air friction coefficient.
func (s *Solver) SetFriction(f float64) { s.cfg.Friction = f }

// SetIterations sets the number of relaxation passes per sub-step.
func (s *Solver) SetIterations(n int) { s.cfg.Iterations = n }

// SetSubSteps sets the number of sub-steps per frame.
func (s *Solver) SetSubSteps(n int) { s.cfg.SubSteps = n }

// Particles exposes the particle store.
func (s *Solver) Particles() *store.Store[Particle] { return s.particles }

// Links exposes the link store.
func (s *Solver) Links() *store.Store[Link] { return s.links }

// Particle resolves a particle handle.
func (s *Solver) Particle(h store.Handle) (*Particle, bool) { return s.particles.Get(h) }

// Link resolves a link handle.
func (s *Solver) Link(h store.Handle) (*Link, bool) { return s.links.Get(h) }

// LastFrame reports link bookkeeping from the most recent Update.
func (s *Solver) LastFrame() FrameStats { return s.last }

// AddParticle adds a unit-mass particle at pos.
func (s *Solver) AddParticle(pos cp.Vector) store.Handle {
	h, _ := s.AddParticleMass(pos, 1)
	return h
}

// AddParticleMass adds a particle with the given mass.
func (s *Solver) AddParticleMass(pos cp.Vector, mass float64) (store.Handle, error) {
	if !(mass > 0) {
		return store.Invalid, fmt.Errorf("%w: %g", ErrInvalidMass, mass)
	}
	h := s.particles.Insert(NewParticle(pos, mass))
	p, _ := s.particles.Get(h)
	p.Handle = h
	return h, nil
}

// RemoveParticle erases a particle. Links to it are pruned on the next Update.
func (s *Solver) RemoveParticle(h store.Handle) bool {
	return s.particles.Erase(h)
}

// SetPinned pins or releases a particle.
func (s *Solver) SetPinned(h store.Handle, pinned bool) bool {
	p, ok := s.particles.Get(h)
	if !ok {
		return false
	}
	p.Movable = !pinned
	return true
}

// AddLink joins two particles at their current distance.
func (s *Solver) AddLink(a, b store.Handle, maxElongation float64) (store.Handle, error) {
	pa, okA := s.particles.Get(a)
	pb, okB := s.particles.Get(b)
	if !okA || !okB {
		return store.Invalid, fmt.Errorf("%w: link %d-%d", ErrUnknownParticle, a, b)
	}
	return s.insertLink(a, b, pa.Position.Distance(pb.Position), maxElongation), nil
}

// AddLinkRest joins two particles with an explicit rest length.
func (s *Solver) AddLinkRest(a, b store.Handle, rest, maxElongation float64) (store.Handle, error) {
	if !s.particles.Contains(a) || !s.particles.Contains(b) {
		return store.Invalid, fmt.Errorf("%w: link %d-%d", ErrUnknownParticle, a, b)
	}
	return s.insertLink(a, b, rest, maxElongation), nil
}

func (s *Solver) insertLink(a, b store.Handle, rest, maxElongation float64) store.Handle {
	if maxElongation < 1 {
		maxElongation = 1
	}
	h := s.links.Insert(Link{
		A:             a,
		B:             b,
		RestLength:    rest,
		Stiffness:     DefaultStiffness,
		MaxElongation: maxElongation,
	})
	l, _ := s.links.Get(h)
	l.Handle = h
	return h
}

// Clear removes every particle and link. Old handles never resolve again.
func (s *Solver) Clear() {
	s.particles.Clear()
	s.links.Clear()
	s.last = FrameStats{}
}

// Update advances the simulation by one frame of length dt.
//
// Invalid links are pruned once, then each of the SubSteps sub-steps runs
// gravity, air friction, integration, constraint relaxation and derivative
// update in that order.
//
// With no sub-steps or a non-positive dt nothing moves, but forces added for
// this frame are still discarded so they cannot leak into the next one.
func (s *Solver) Update(dt float64) {
	s.last = FrameStats{}
	if s.cfg.SubSteps < 1 || dt <= 0 {
		s.clearForces()
		return
	}
	subDt := dt / float64(s.cfg.SubSteps)

	s.last.Pruned = s.removeBrokenLinks()
	for i := 0; i < s.cfg.SubSteps; i++ {
		s.applyGravity()
		s.applyAirFriction()
		s.updatePositions(subDt)
		s.last.Broken += s.solveConstraints()
		s.updateDerivatives(subDt)
	}
}

func (s *Solver) removeBrokenLinks() int {
	removed := 0
	for h, l := range s.links.All() {
		if !l.IsValid(s.particles) {
			s.links.Erase(h)
			removed++
		}
	}
	return removed
}

func (s *Solver) applyGravity() {
	for _, p := range s.particles.All() {
		p.AddForce(s.cfg.Gravity.Mult(p.Mass))
	}
}

func (s *Solver) applyAirFriction() {
	for _, p := range s.particles.All() {
		p.AddForce(p.Velocity.Mult(-s.cfg.Friction))
	}
}

func (s *Solver) updatePositions(dt float64) {
	for _, p := range s.particles.All() {
		p.Update(dt)
	}
}

// solveConstraints runs Iterations full passes over the links in storage
// order and returns how many links broke.
func (s *Solver) solveConstraints() int {
	broken := 0
	for i := 0; i < s.cfg.Iterations; i++ {
		for _, l := range s.links.All() {
			was := l.Broken
			l.Solve(s.particles)
			if l.Broken && !was {
				broken++
			}
		}
	}
	return broken
}

func (s *Solver) clearForces() {
	for _, p := range s.particles.All() {
		p.Force = cp.Vector{}
	}
}

func (s *Solver) updateDerivatives(dt float64) {
	for _, p := range s.particles.All() {
		p.UpdateDerivatives(dt)
	}
}
