package timeline

// timeEps absorbs floating-point drift from accumulating frame deltas, so
// an event scheduled at exactly t fires on the advance that reaches t.
const timeEps = 1e-9

// Scheduler replays a compiled program on a virtual clock. Advancing the
// clock fires every due mutation callback in offset order, each exactly
// once; wall time never enters the picture, which keeps runs independent
// of frame rate and trivially testable.
//
// Scheduler is single-threaded like the rest of the engine: Advance must
// only be called from the cooperative thread that owns the state.
type Scheduler struct {
	program *Program
	next    int
	now     float64
	done    bool

	onEvent    func(Event)
	onComplete func()
}

// NewScheduler wraps a compiled program, clock at zero.
func NewScheduler(p *Program) *Scheduler {
	return &Scheduler{program: p}
}

// OnEvent registers an observer invoked after each fired mutation.
func (s *Scheduler) OnEvent(fn func(Event)) { s.onEvent = fn }

// OnComplete registers the callback invoked once when the program's total
// span has elapsed.
func (s *Scheduler) OnComplete(fn func()) { s.onComplete = fn }

// Now returns the virtual clock.
func (s *Scheduler) Now() float64 { return s.now }

// Total returns the program's total span.
func (s *Scheduler) Total() float64 { return s.program.Total }

// Done reports whether the program has run to completion.
func (s *Scheduler) Done() bool { return s.done }

// Advance moves the virtual clock forward by dt and fires all callbacks
// that became due, in offset order. Coarse advances fire every event that
// the interval covers; re-advancing past an already-fired event never
// fires it again. Once the clock passes the program's total span the
// completion callback fires, exactly once.
func (s *Scheduler) Advance(dt float64) {
	if s.done || dt < 0 {
		return
	}
	s.now += dt

	events := s.program.Events
	for s.next < len(events) && events[s.next].At <= s.now+timeEps {
		ev := events[s.next]
		s.next++
		ev.Apply()
		if s.onEvent != nil {
			s.onEvent(ev)
		}
	}

	if s.now+timeEps >= s.program.Total {
		s.done = true
		if s.onComplete != nil {
			s.onComplete()
		}
	}
}

// FlightPosition is a flight with its progress at the current clock,
// ready for a rendering surface to interpolate between the endpoint
// positions.
type FlightPosition struct {
	Flight
	Progress float64
}

// ActiveFlights returns the flights in progress at the current clock.
// A zero-duration flight is never active; its effect is instantaneous.
func (s *Scheduler) ActiveFlights() []FlightPosition {
	var out []FlightPosition
	for _, f := range s.program.Flights {
		if f.Duration <= 0 || s.now < f.Start || s.now >= f.Start+f.Duration {
			continue
		}
		out = append(out, FlightPosition{
			Flight:   f,
			Progress: (s.now - f.Start) / f.Duration,
		})
	}
	return out
}

// ActivePulses returns the pulses in progress at the current clock.
func (s *Scheduler) ActivePulses() []Pulse {
	var out []Pulse
	for _, p := range s.program.Pulses {
		if p.Duration <= 0 || s.now < p.At || s.now >= p.At+p.Duration {
			continue
		}
		out = append(out, p)
	}
	return out
}
