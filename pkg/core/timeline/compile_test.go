package timeline

import (
	"math"
	"testing"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
	"github.com/matzehuels/pulsegraph/pkg/core/style"
)

func fptr(v float64) *float64 { return &v }

// newLinkedState builds nodes a, b, c with links a->b and b->c.
func newLinkedState(t *testing.T) *sim.State {
	t.Helper()
	st := sim.NewState()
	for _, id := range []string{"a", "b", "c"} {
		if err := st.AddNode(&sim.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s) error = %v", id, err)
		}
	}
	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}} {
		if _, err := st.AddLink(pair[0], pair[1], nil); err != nil {
			t.Fatalf("AddLink(%v) error = %v", pair, err)
		}
	}
	return st
}

func secureTheme() style.Theme {
	return style.Theme{
		LinkStyles: map[string]style.LinkStyle{
			"secure": {
				Color: "#0ea5e9",
				Animation: &style.LinkAnimation{
					PacketColor:    "#38bdf8",
					PacketRadius:   fptr(6),
					TravelDuration: fptr(0.25),
				},
			},
		},
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCompileSequentialTotal(t *testing.T) {
	st := newLinkedState(t)
	seq := Sequence{Steps: []Action{
		{From: "a", To: "b", Duration: fptr(1)},
		{From: "b", To: "c", Duration: fptr(0.5)},
		{From: "c", To: "b", Duration: fptr(0.25)},
	}}

	p := Compile(st, style.Theme{}, seq)
	if p.Total != 1.75 {
		t.Errorf("Total = %v, want 1.75 (sum of durations)", p.Total)
	}

	// Back-to-back starts: each step's flight begins where the previous span ended.
	wantStarts := []float64{0, 1, 1.5}
	if len(p.Flights) != len(wantStarts) {
		t.Fatalf("flights = %d, want %d", len(p.Flights), len(wantStarts))
	}
	for i, want := range wantStarts {
		if p.Flights[i].Start != want {
			t.Errorf("flight %d start = %v, want %v", i, p.Flights[i].Start, want)
		}
	}
}

func TestCompileParallelSpan(t *testing.T) {
	st := newLinkedState(t)
	seq := Sequence{Steps: []Action{{
		Type: TypeParallel,
		Steps: []Action{
			{From: "a", To: "b", Duration: fptr(0.8)},
			{From: "a", To: "c", Duration: fptr(0.5)},
		},
	}}}

	p := Compile(st, style.Theme{}, seq)
	if p.Total != 0.8 {
		t.Errorf("Total = %v, want 0.8 (max child span)", p.Total)
	}

	// Both children start at the group's local zero.
	for i, f := range p.Flights {
		if f.Start != 0 {
			t.Errorf("flight %d start = %v, want 0", i, f.Start)
		}
	}
}

func TestCompileMissingEndpointIsSilentNoOp(t *testing.T) {
	st := newLinkedState(t)
	seq := Sequence{Steps: []Action{
		{From: "a", To: "ghost", Duration: fptr(1), TargetNodeState: "hit", LinkStyle: "secure"},
		{From: "ghost", To: "b", Duration: fptr(1), TargetNodeState: "hit"},
	}}

	p := Compile(st, secureTheme(), seq)
	if len(p.Events) != 0 || len(p.Flights) != 0 || len(p.Pulses) != 0 {
		t.Errorf("invalid steps compiled to %d events, %d flights, %d pulses; want none",
			len(p.Events), len(p.Flights), len(p.Pulses))
	}
	if p.Total != 0 {
		t.Errorf("Total = %v, want 0 (invalid steps span nothing)", p.Total)
	}

	for _, n := range st.Nodes() {
		if n.HasState("hit") {
			t.Errorf("node %s mutated by an invalid step", n.ID)
		}
	}
}

func TestCompileTravelDurationPriority(t *testing.T) {
	theme := secureTheme()
	tests := []struct {
		name   string
		action Action
		want   float64
	}{
		{"explicit duration wins", Action{From: "a", To: "b", LinkStyle: "secure", Duration: fptr(2)}, 2},
		{"link style animation second", Action{From: "a", To: "b", LinkStyle: "secure"}, 0.25},
		{"default last", Action{From: "a", To: "b"}, DefaultTravelDuration},
		{"unknown style falls through", Action{From: "a", To: "b", LinkStyle: "nope"}, DefaultTravelDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newLinkedState(t)
			p := CompileOne(st, theme, tt.action)
			if len(p.Flights) != 1 {
				t.Fatalf("flights = %d, want 1", len(p.Flights))
			}
			if p.Flights[0].Duration != tt.want {
				t.Errorf("travel duration = %v, want %v", p.Flights[0].Duration, tt.want)
			}
		})
	}
}

func TestCompileStagedOffsets(t *testing.T) {
	st := newLinkedState(t)
	a := Action{
		From: "a", To: "b", Duration: fptr(1),
		TargetNodeState:     "arrived",
		ProcessingNodeState: "working",
		FinalNodeState:      "settled",
	}

	p := CompileOne(st, style.Theme{}, a)
	if len(p.Events) != 3 {
		t.Fatalf("events = %d, want 3 (arrive, processing, final)", len(p.Events))
	}
	if !near(p.Events[0].At, 1) {
		t.Errorf("arrival at %v, want 1", p.Events[0].At)
	}
	if !near(p.Events[1].At, 1.4) {
		t.Errorf("processing at %v, want 1.4 (default stage)", p.Events[1].At)
	}
	if !near(p.Events[2].At, 1.8) {
		t.Errorf("final at %v, want 1.8 (additively staged)", p.Events[2].At)
	}
	if !near(p.Total, 1.8) {
		t.Errorf("Total = %v, want 1.8 (span includes stages)", p.Total)
	}
}

func TestCompileFinalStageWithoutProcessingState(t *testing.T) {
	st := newLinkedState(t)
	a := Action{
		From: "a", To: "b", Duration: fptr(1),
		FinalNodeState: "settled",
		DurationFinal:  fptr(0.5),
	}

	p := CompileOne(st, style.Theme{}, a)
	if len(p.Events) != 2 {
		t.Fatalf("events = %d, want 2 (arrive, final)", len(p.Events))
	}
	// The processing stage still spaces the final commit even with no
	// processing tag to commit.
	if !near(p.Events[1].At, 1.9) {
		t.Errorf("final at %v, want 1.9 (1 + default 0.4 + 0.5)", p.Events[1].At)
	}
	if !near(p.Total, 1.9) {
		t.Errorf("Total = %v, want 1.9", p.Total)
	}
}

func TestCompileDelay(t *testing.T) {
	st := newLinkedState(t)
	seq := Sequence{Steps: []Action{
		{From: "a", To: "b", Duration: fptr(1), Delay: 0.5},
		{From: "b", To: "c", Duration: fptr(1)},
	}}

	p := Compile(st, style.Theme{}, seq)
	if p.Flights[0].Start != 0.5 {
		t.Errorf("delayed flight starts at %v, want 0.5", p.Flights[0].Start)
	}
	// The delay is part of the step's span, so step 2 starts after it.
	if p.Flights[1].Start != 1.5 {
		t.Errorf("second flight starts at %v, want 1.5", p.Flights[1].Start)
	}
	if p.Total != 2.5 {
		t.Errorf("Total = %v, want 2.5", p.Total)
	}
}

func TestCompileEventsSortedByOffset(t *testing.T) {
	st := newLinkedState(t)
	seq := Sequence{Steps: []Action{{
		Type: TypeParallel,
		Steps: []Action{
			{From: "a", To: "b", Duration: fptr(1), TargetNodeState: "x", ProcessingNodeState: "y"},
			{From: "a", To: "c", Duration: fptr(0.5), TargetNodeState: "z"},
		},
	}}}

	p := Compile(st, style.Theme{}, seq)
	for i := 1; i < len(p.Events); i++ {
		if p.Events[i].At < p.Events[i-1].At {
			t.Fatalf("events out of order: %v after %v", p.Events[i].At, p.Events[i-1].At)
		}
	}
}

func TestCompileFlightVisualsFromTheme(t *testing.T) {
	st := newLinkedState(t)
	p := CompileOne(st, secureTheme(), Action{From: "a", To: "b", LinkStyle: "secure"})
	if len(p.Flights) != 1 {
		t.Fatalf("flights = %d, want 1", len(p.Flights))
	}
	f := p.Flights[0]
	if f.Color != "#38bdf8" || f.Radius != 6 {
		t.Errorf("flight visual = %q/%v, want theme packet color #38bdf8 and radius 6", f.Color, f.Radius)
	}

	plain := CompileOne(st, style.Theme{}, Action{From: "a", To: "b"})
	if plain.Flights[0].Color != DefaultPacketColor || plain.Flights[0].Radius != DefaultPacketRadius {
		t.Errorf("unstyled flight = %q/%v, want package defaults", plain.Flights[0].Color, plain.Flights[0].Radius)
	}
}

func TestCompileNestedParallel(t *testing.T) {
	st := newLinkedState(t)
	seq := Sequence{Steps: []Action{{
		Type:  TypeParallel,
		Delay: 0.25,
		Steps: []Action{
			{From: "a", To: "b", Duration: fptr(0.5)},
			{
				Type: TypeParallel,
				Steps: []Action{
					{From: "b", To: "c", Duration: fptr(1)},
				},
			},
		},
	}}}

	p := Compile(st, style.Theme{}, seq)
	if p.Total != 1.25 {
		t.Errorf("Total = %v, want 1.25 (group delay + deepest child)", p.Total)
	}
}
