package timeline

import (
	"testing"
)

// program builds a hand-rolled program whose events append their index to
// the shared log.
func countingProgram(offsets []float64, total float64, log *[]int) *Program {
	p := &Program{Total: total}
	for i, at := range offsets {
		i := i
		p.Events = append(p.Events, Event{At: at, Apply: func() { *log = append(*log, i) }})
	}
	return p
}

func TestSchedulerFiresExactlyOnce(t *testing.T) {
	var log []int
	s := NewScheduler(countingProgram([]float64{0.2, 0.5, 0.9}, 1, &log))

	// One coarse advance covers all three events.
	s.Advance(5)
	if len(log) != 3 {
		t.Fatalf("fired %d events, want 3", len(log))
	}

	// Advancing further must not re-fire anything.
	s.Advance(5)
	s.Advance(0.1)
	if len(log) != 3 {
		t.Errorf("fired %d events after extra advances, want 3", len(log))
	}
}

func TestSchedulerFiresInOffsetOrder(t *testing.T) {
	var log []int
	s := NewScheduler(countingProgram([]float64{0.1, 0.2, 0.3, 0.4}, 1, &log))

	s.Advance(10)
	for i, got := range log {
		if got != i {
			t.Fatalf("fire order = %v, want ascending offsets", log)
		}
	}
}

func TestSchedulerFineAdvances(t *testing.T) {
	var log []int
	s := NewScheduler(countingProgram([]float64{0.5, 1.0}, 1, &log))

	// Ten 0.1 advances accumulate float error; the event at exactly 1.0
	// must still fire on the tenth.
	for range 10 {
		s.Advance(0.1)
	}
	if len(log) != 2 {
		t.Errorf("fired %d events over fine advances, want 2", len(log))
	}
	if !s.Done() {
		t.Error("Done() = false after advancing past total")
	}
}

func TestSchedulerCompletion(t *testing.T) {
	var done int
	s := NewScheduler(&Program{Total: 1})
	s.OnComplete(func() { done++ })

	s.Advance(0.5)
	if done != 0 {
		t.Fatal("completion fired before total elapsed")
	}
	s.Advance(0.5)
	if done != 1 {
		t.Fatalf("completion fired %d times at total, want 1", done)
	}
	s.Advance(1)
	if done != 1 {
		t.Errorf("completion fired %d times after extra advance, want 1", done)
	}
}

func TestSchedulerNegativeAdvanceIgnored(t *testing.T) {
	var log []int
	s := NewScheduler(countingProgram([]float64{0.5}, 1, &log))

	s.Advance(-1)
	if s.Now() != 0 {
		t.Errorf("Now() = %v after negative advance, want 0", s.Now())
	}
	if len(log) != 0 {
		t.Error("negative advance fired events")
	}
}

func TestSchedulerOnEvent(t *testing.T) {
	var log []int
	var seen []string
	p := countingProgram([]float64{0.1, 0.2}, 1, &log)
	p.Events[0].Label = "first"
	p.Events[1].Label = "second"

	s := NewScheduler(p)
	s.OnEvent(func(ev Event) { seen = append(seen, ev.Label) })
	s.Advance(1)

	if len(seen) != 2 || seen[0] != "first" || seen[1] != "second" {
		t.Errorf("observed events = %v, want [first second]", seen)
	}
}

func TestSchedulerActiveFlights(t *testing.T) {
	p := &Program{
		Total: 2,
		Flights: []Flight{
			{From: "a", To: "b", Start: 0, Duration: 1},
			{From: "b", To: "c", Start: 1, Duration: 1},
		},
	}
	s := NewScheduler(p)

	s.Advance(0.5)
	active := s.ActiveFlights()
	if len(active) != 1 {
		t.Fatalf("active flights at 0.5 = %d, want 1", len(active))
	}
	if active[0].From != "a" || active[0].Progress != 0.5 {
		t.Errorf("active flight = %s->%s at %v, want a->b at 0.5", active[0].From, active[0].To, active[0].Progress)
	}

	s.Advance(1)
	active = s.ActiveFlights()
	if len(active) != 1 || active[0].From != "b" {
		t.Fatalf("active flights at 1.5 = %+v, want the b->c flight", active)
	}

	s.Advance(1)
	if got := s.ActiveFlights(); len(got) != 0 {
		t.Errorf("active flights after completion = %d, want 0", len(got))
	}
}
