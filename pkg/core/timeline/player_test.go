package timeline

import (
	"testing"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
	"github.com/matzehuels/pulsegraph/pkg/core/style"
)

// newNumberedState builds nodes 1, 2, 3 with links 1->2 and 1->3.
func newNumberedState(t *testing.T) *sim.State {
	t.Helper()
	st := sim.NewState()
	for _, id := range []string{"1", "2", "3"} {
		if err := st.AddNode(&sim.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s) error = %v", id, err)
		}
	}
	for _, to := range []string{"2", "3"} {
		if _, err := st.AddLink("1", to, nil); err != nil {
			t.Fatalf("AddLink(1, %s) error = %v", to, err)
		}
	}
	return st
}

func TestPlayerInitNodesBeforeFirstStep(t *testing.T) {
	st := newNumberedState(t)
	p := NewPlayer(st, style.Theme{})

	var final *sim.State
	p.OnComplete(func(s *sim.State) { final = s })

	p.Play(Sequence{
		InitNodes: []InitNode{{ID: "1", State: "loading"}, {ID: "ghost", State: "x"}},
		Steps: []Action{
			{From: "1", To: "2", Duration: fptr(1), TargetNodeState: "success"},
		},
	})

	// Init tags land before any advance, i.e. before the first frame.
	if !st.Node("1").HasState("loading") {
		t.Fatal("node 1 missing init tag before playback")
	}
	if st.Node("2").HasState("success") {
		t.Fatal("step mutation committed before its offset")
	}

	p.Advance(1)
	if !st.Node("2").HasState("success") {
		t.Error("node 2 missing success after t=1")
	}
	if final == nil {
		t.Fatal("completion callback not fired at total")
	}
	if !final.Node("1").HasState("loading") {
		t.Error("final state lost the init tag")
	}
}

func TestPlayerAtomicStepSideEffects(t *testing.T) {
	st := sim.NewState()
	for _, id := range []string{"a", "b"} {
		if err := st.AddNode(&sim.Node{ID: id}); err != nil {
			t.Fatalf("AddNode() error = %v", err)
		}
	}
	if _, err := st.AddLink("a", "b", nil); err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}

	p := NewPlayer(st, style.Theme{})
	p.Play(Sequence{Steps: []Action{{
		From: "a", To: "b",
		LinkStyle:       "secure",
		TargetNodeState: "verified",
		Duration:        fptr(0.5),
	}}})
	p.Advance(0.5)

	if l := st.Link("a", "b"); !l.HasState("secure") {
		t.Error("link a-b missing secure tag after run")
	}
	if !st.Node("b").HasState("verified") {
		t.Error("node b missing verified tag after run")
	}
	if got := st.Node("a").States; len(got) != 0 {
		t.Errorf("node a states = %v, want unchanged (empty)", got)
	}
}

func TestPlayerParallelCommitsAllChildren(t *testing.T) {
	st := newNumberedState(t)
	p := NewPlayer(st, style.Theme{})

	prog := p.Play(Sequence{Steps: []Action{{
		Type: TypeParallel,
		Steps: []Action{
			{From: "1", To: "2", Duration: fptr(0.8), TargetNodeState: "fast"},
			{From: "1", To: "3", Duration: fptr(0.5), TargetNodeState: "slow"},
		},
	}}})
	if prog.Total != 0.8 {
		t.Fatalf("Total = %v, want 0.8", prog.Total)
	}

	p.Advance(0.5)
	if !st.Node("3").HasState("slow") {
		t.Error("shorter child not committed at its own offset")
	}
	if st.Node("2").HasState("fast") {
		t.Error("longer child committed early")
	}

	p.Advance(0.3)
	if !st.Node("2").HasState("fast") {
		t.Error("longer child not committed by group span")
	}
	if p.Playing() {
		t.Error("Playing() = true after total elapsed")
	}
}

func TestPlayerRepeatedTagInsertionIsIdempotent(t *testing.T) {
	st := newNumberedState(t)
	p := NewPlayer(st, style.Theme{})

	p.Play(Sequence{Steps: []Action{
		{From: "1", To: "2", Duration: fptr(0.5), TargetNodeState: "hot"},
		{From: "1", To: "2", Duration: fptr(0.5), TargetNodeState: "hot"},
	}})
	p.Advance(10)

	states := st.Node("2").States
	count := 0
	for _, tag := range states {
		if tag == "hot" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("tag hot present %d times, want once: %v", count, states)
	}
}

func TestPlayerPlaySupersedesRunInProgress(t *testing.T) {
	st := newNumberedState(t)
	p := NewPlayer(st, style.Theme{})

	var completions int
	p.OnComplete(func(*sim.State) { completions++ })

	p.Play(Sequence{Steps: []Action{
		{From: "1", To: "2", Duration: fptr(0.5), TargetNodeState: "early"},
		{From: "1", To: "3", Duration: fptr(0.5), TargetNodeState: "late"},
	}})
	p.Advance(0.5)
	if !st.Node("2").HasState("early") {
		t.Fatal("first run's early mutation missing")
	}

	// Supersede mid-run: the pending "late" mutation must be discarded
	// and all committed tags cleared.
	p.Play(Sequence{
		InitNodes: []InitNode{{ID: "3", State: "fresh"}},
		Steps:     []Action{{From: "1", To: "2", Duration: fptr(1), TargetNodeState: "second"}},
	})

	if st.Node("2").HasState("early") {
		t.Error("superseding run did not clear prior tags")
	}
	if !st.Node("3").HasState("fresh") {
		t.Error("new run's init tag not applied")
	}

	p.Advance(10)
	if st.Node("3").HasState("late") {
		t.Error("discarded run's pending mutation still fired")
	}
	if !st.Node("2").HasState("second") {
		t.Error("new run's mutation missing")
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1 (only the new run finishes)", completions)
	}
}

func TestPlayerPreviewIsIsolated(t *testing.T) {
	st := newNumberedState(t)
	p := NewPlayer(st, style.Theme{})

	p.Play(Sequence{Steps: []Action{
		{From: "1", To: "2", Duration: fptr(1), TargetNodeState: "main"},
	}})
	p.Advance(0.2)

	preview := p.Preview(Action{From: "1", To: "3", Duration: fptr(0.1), TargetNodeState: "previewed"})
	preview.Advance(0.1)

	if !st.Node("3").HasState("previewed") {
		t.Error("preview mutation not committed")
	}
	if got := p.Now(); got != 0.2 {
		t.Errorf("main run clock = %v after preview, want 0.2", got)
	}
	if st.Node("2").HasState("main") {
		t.Error("main run committed early; preview interfered")
	}

	p.Advance(0.8)
	if !st.Node("2").HasState("main") {
		t.Error("main run mutation missing after its offset")
	}
}

func TestPlayerStopDropsCompletion(t *testing.T) {
	st := newNumberedState(t)
	p := NewPlayer(st, style.Theme{})

	var completions int
	p.OnComplete(func(*sim.State) { completions++ })

	p.Play(Sequence{Steps: []Action{{From: "1", To: "2", Duration: fptr(1)}}})
	p.Stop()
	p.Advance(10)

	if completions != 0 {
		t.Errorf("completions = %d after Stop, want 0", completions)
	}
	if p.Playing() {
		t.Error("Playing() = true after Stop")
	}
}

func TestPlayerIdleAdvanceIsNoOp(t *testing.T) {
	st := newNumberedState(t)
	p := NewPlayer(st, style.Theme{})

	p.Advance(1)
	if p.Now() != 0 || p.Total() != 0 || p.Playing() {
		t.Error("idle player reported activity")
	}
	if got := p.ActiveFlights(); got != nil {
		t.Errorf("idle ActiveFlights() = %v, want nil", got)
	}
}
