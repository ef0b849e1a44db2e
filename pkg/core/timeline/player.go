package timeline

import (
	"github.com/matzehuels/pulsegraph/pkg/core/sim"
	"github.com/matzehuels/pulsegraph/pkg/core/style"
)

// Player owns at most one full-sequence run over a simulation state and
// hands out independent schedulers for single-step previews.
type Player struct {
	st    *sim.State
	theme style.Theme

	sched      *Scheduler
	onEvent    func(Event)
	onComplete func(*sim.State)
}

// NewPlayer builds a player over the state with the theme used for travel
// durations and packet visuals.
func NewPlayer(st *sim.State, theme style.Theme) *Player {
	return &Player{st: st, theme: theme}
}

// OnEvent registers an observer for every fired mutation of the main run.
func (p *Player) OnEvent(fn func(Event)) { p.onEvent = fn }

// OnComplete registers the callback invoked with the final state when the
// main run's timeline finishes.
func (p *Player) OnComplete(fn func(*sim.State)) { p.onComplete = fn }

// Play compiles seq and starts it as the main run, superseding any run in
// progress: pending callbacks from the old run are discarded, every
// node and link active-state list is cleared, and the new sequence's init
// tags are applied before the first frame. It returns the compiled
// program for inspection.
func (p *Player) Play(seq Sequence) *Program {
	p.st.ClearStates()
	for _, init := range seq.InitNodes {
		// Unknown ids are skipped, same policy as steps.
		if n := p.st.Node(init.ID); n != nil && init.State != "" {
			n.AddState(init.State)
		}
	}

	program := Compile(p.st, p.theme, seq)
	p.sched = NewScheduler(program)
	if p.onEvent != nil {
		p.sched.OnEvent(p.onEvent)
	}
	if p.onComplete != nil {
		done := p.onComplete
		p.sched.OnComplete(func() { done(p.st) })
	}
	return program
}

// Preview compiles a single action in isolation and returns an
// independent scheduler for it, started immediately at clock zero. The
// main run, if any, is untouched; the caller advances the preview
// scheduler itself.
func (p *Player) Preview(a Action) *Scheduler {
	return NewScheduler(CompileOne(p.st, p.theme, a))
}

// Advance steps the main run's virtual clock. A player with no run in
// progress ignores the call.
func (p *Player) Advance(dt float64) {
	if p.sched != nil {
		p.sched.Advance(dt)
	}
}

// Playing reports whether a main run is in progress and not yet complete.
func (p *Player) Playing() bool {
	return p.sched != nil && !p.sched.Done()
}

// Stop abandons the main run without firing its remaining callbacks or
// its completion callback. Active-state lists keep whatever was already
// committed.
func (p *Player) Stop() { p.sched = nil }

// Now returns the main run's clock, zero when idle.
func (p *Player) Now() float64 {
	if p.sched == nil {
		return 0
	}
	return p.sched.Now()
}

// Total returns the main run's total span, zero when idle.
func (p *Player) Total() float64 {
	if p.sched == nil {
		return 0
	}
	return p.sched.Total()
}

// ActiveFlights returns the main run's in-progress packet flights.
func (p *Player) ActiveFlights() []FlightPosition {
	if p.sched == nil {
		return nil
	}
	return p.sched.ActiveFlights()
}

// ActivePulses returns the main run's in-progress node pulses.
func (p *Player) ActivePulses() []Pulse {
	if p.sched == nil {
		return nil
	}
	return p.sched.ActivePulses()
}
