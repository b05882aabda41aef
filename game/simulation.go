package game

import (
	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/telemetry"
)

type actionKind uint8

const (
	actionDrag actionKind = iota
	actionCut
)

// action is one mouse interaction applied at the start of the next step.
type action struct {
	kind  actionKind
	at    cp.Vector // world position
	delta cp.Vector // world-space mouse motion, drag only
}

// Drag queues a push on the particles around at. The force is the mouse
// motion scaled by the drag force setting.
func (g *Game) Drag(at, delta cp.Vector) {
	g.pending = append(g.pending, action{kind: actionDrag, at: at, delta: delta})
}

// Cut queues the removal of the particles around at.
func (g *Game) Cut(at cp.Vector) {
	g.pending = append(g.pending, action{kind: actionCut, at: at})
}

// Update handles input and advances one frame unless paused.
func (g *Game) Update() {
	g.handleInput()
	if g.controls.Paused {
		return
	}
	g.step()
}

// UpdateHeadless advances one frame without touching raylib.
func (g *Game) UpdateHeadless() {
	g.step()
}

// step runs one fixed frame: interaction, wind, solver, telemetry.
func (g *Game) step() {
	dt := g.cfg.Physics.DT

	g.perfCollector.StartStep()

	g.perfCollector.StartPhase(telemetry.PhaseInteraction)
	g.applyActions()

	g.perfCollector.StartPhase(telemetry.PhaseWind)
	if g.controls.Wind {
		g.collector.RecordWind(g.field.Apply(g.solver, dt))
	}

	g.perfCollector.StartPhase(telemetry.PhaseSolver)
	g.solver.Update(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	fs := g.solver.LastFrame()
	g.collector.RecordFrame(fs)
	g.brokenTotal += fs.Broken
	g.frame++
	g.flushTelemetry()

	g.perfCollector.EndStep()
}

// applyActions drains the queued mouse input into the solver.
func (g *Game) applyActions() {
	for _, a := range g.pending {
		switch a.kind {
		case actionDrag:
			force := a.delta.Mult(float64(g.controls.DragForce))
			n := g.solver.ApplyRadialForce(a.at, float64(g.controls.DragRadius), force)
			g.collector.RecordDrag(n)
		case actionCut:
			n := g.solver.EraseInRadius(a.at, float64(g.controls.EraseRadius))
			g.collector.RecordErase(n)
		}
	}
	g.pending = g.pending[:0]
}
