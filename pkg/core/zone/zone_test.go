package zone

import (
	"errors"
	"testing"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
)

func newOverlayWithNodes(t *testing.T, ids ...string) (*Overlay, *sim.State) {
	t.Helper()
	st := sim.NewState()
	for i, id := range ids {
		if err := st.AddNode(&sim.Node{ID: id, X: float64(i * 10), Y: float64(i * 10)}); err != nil {
			t.Fatalf("AddNode(%s) error = %v", id, err)
		}
	}
	return NewOverlay(st), st
}

func mustAddZone(t *testing.T, o *Overlay, z *Zone) {
	t.Helper()
	if err := o.AddZone(z); err != nil {
		t.Fatalf("AddZone(%s) error = %v", z.ID, err)
	}
}

func mustAddLabel(t *testing.T, o *Overlay, l *Label) {
	t.Helper()
	if err := o.AddLabel(l); err != nil {
		t.Fatalf("AddLabel(%s) error = %v", l.ID, err)
	}
}

func TestOverlayAddErrors(t *testing.T) {
	o, _ := newOverlayWithNodes(t)

	if err := o.AddZone(&Zone{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("AddZone(empty) error = %v, want ErrEmptyID", err)
	}
	mustAddZone(t, o, &Zone{ID: "z"})
	if err := o.AddZone(&Zone{ID: "z"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("AddZone(dup) error = %v, want ErrDuplicateID", err)
	}

	if err := o.AddLabel(&Label{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("AddLabel(empty) error = %v, want ErrEmptyID", err)
	}
	mustAddLabel(t, o, &Label{ID: "l"})
	if err := o.AddLabel(&Label{ID: "l"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("AddLabel(dup) error = %v, want ErrDuplicateID", err)
	}
}

func TestMoveZoneTranslatesAndPinsNodes(t *testing.T) {
	o, st := newOverlayWithNodes(t, "n1", "n2")
	mustAddZone(t, o, &Zone{ID: "z", X: 5, Y: 5, Attached: Attachments{Nodes: []string{"n1", "n2"}}})

	moved := o.MoveZone("z", 7, -3)

	if got := o.Zone("z"); got.X != 12 || got.Y != 2 {
		t.Errorf("zone at (%v, %v), want (12, 2)", got.X, got.Y)
	}
	n1, n2 := st.Node("n1"), st.Node("n2")
	if n1.X != 7 || n1.Y != -3 {
		t.Errorf("n1 at (%v, %v), want (7, -3)", n1.X, n1.Y)
	}
	if n2.X != 17 || n2.Y != 7 {
		t.Errorf("n2 at (%v, %v), want (17, 7)", n2.X, n2.Y)
	}
	for _, n := range []*sim.Node{n1, n2} {
		if !n.Pinned() {
			t.Errorf("node %s not pinned after zone move", n.ID)
		}
		if *n.FX != n.X || *n.FY != n.Y {
			t.Errorf("node %s pinned at (%v, %v), want its position (%v, %v)", n.ID, *n.FX, *n.FY, n.X, n.Y)
		}
	}

	if len(moved.Nodes) != 2 || len(moved.Zones) != 1 {
		t.Errorf("moved = %+v, want 1 zone and 2 nodes", moved)
	}
}

func TestMoveZoneRecursesSubZones(t *testing.T) {
	o, st := newOverlayWithNodes(t, "leaf")
	mustAddZone(t, o, &Zone{ID: "inner", X: 10, Y: 10, Attached: Attachments{Nodes: []string{"leaf"}}})
	mustAddZone(t, o, &Zone{ID: "outer", Attached: Attachments{Zones: []string{"inner"}}})
	mustAddLabel(t, o, &Label{ID: "title", X: 1, Y: 1})
	o.Zone("inner").Attached.Labels = []string{"title"}

	o.MoveZone("outer", 5, 5)

	if got := o.Zone("inner"); got.X != 15 || got.Y != 15 {
		t.Errorf("sub-zone at (%v, %v), want (15, 15)", got.X, got.Y)
	}
	if n := st.Node("leaf"); n.X != 5 || n.Y != 5 {
		t.Errorf("leaf node at (%v, %v), want (5, 5)", n.X, n.Y)
	}
	if l := o.Label("title"); l.X != 6 || l.Y != 6 {
		t.Errorf("label at (%v, %v), want (6, 6)", l.X, l.Y)
	}
}

func TestMoveZonesDiamondMovesLeafOnce(t *testing.T) {
	o, st := newOverlayWithNodes(t, "shared")
	mustAddZone(t, o, &Zone{ID: "childA", Attached: Attachments{Nodes: []string{"shared"}}})
	mustAddZone(t, o, &Zone{ID: "childB", Attached: Attachments{Nodes: []string{"shared"}}})
	mustAddZone(t, o, &Zone{ID: "parentA", Attached: Attachments{Zones: []string{"childA"}}})
	mustAddZone(t, o, &Zone{ID: "parentB", Attached: Attachments{Zones: []string{"childB"}}})

	moved := o.MoveZones([]string{"parentA", "parentB"}, 10, 0)

	if n := st.Node("shared"); n.X != 10 {
		t.Errorf("shared leaf at x=%v, want 10 (moved exactly once)", n.X)
	}
	count := 0
	for _, id := range moved.Nodes {
		if id == "shared" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared leaf reported %d times, want 1", count)
	}
}

func TestMoveZonesSharedSubZoneMovesOnce(t *testing.T) {
	o, _ := newOverlayWithNodes(t)
	mustAddZone(t, o, &Zone{ID: "shared", X: 0, Y: 0})
	mustAddZone(t, o, &Zone{ID: "a", Attached: Attachments{Zones: []string{"shared"}}})
	mustAddZone(t, o, &Zone{ID: "b", Attached: Attachments{Zones: []string{"shared"}}})

	o.MoveZones([]string{"a", "b"}, 4, 4)

	if z := o.Zone("shared"); z.X != 4 || z.Y != 4 {
		t.Errorf("shared zone at (%v, %v), want (4, 4)", z.X, z.Y)
	}
}

func TestMoveZoneCycleTerminates(t *testing.T) {
	o, _ := newOverlayWithNodes(t)
	mustAddZone(t, o, &Zone{ID: "a", Attached: Attachments{Zones: []string{"b"}}})
	mustAddZone(t, o, &Zone{ID: "b", Attached: Attachments{Zones: []string{"a"}}})

	moved := o.MoveZone("a", 1, 1)

	if o.Zone("a").X != 1 || o.Zone("b").X != 1 {
		t.Error("cycle members not each translated exactly once")
	}
	if len(moved.Zones) != 2 {
		t.Errorf("moved %d zones, want 2", len(moved.Zones))
	}
}

func TestMoveZoneLockedAndMissing(t *testing.T) {
	o, st := newOverlayWithNodes(t, "n")
	mustAddZone(t, o, &Zone{ID: "locked", Locked: true, Attached: Attachments{Nodes: []string{"n"}}})

	if moved := o.MoveZone("locked", 5, 5); !moved.Empty() {
		t.Errorf("moving a locked zone touched %+v, want nothing", moved)
	}
	if n := st.Node("n"); n.X != 0 || n.Pinned() {
		t.Error("locked zone's attachment moved")
	}

	if moved := o.MoveZone("nope", 5, 5); !moved.Empty() {
		t.Errorf("moving a missing zone touched %+v, want nothing", moved)
	}
}

func TestMoveZoneLockedSubZoneStillFollowsParent(t *testing.T) {
	o, _ := newOverlayWithNodes(t)
	mustAddZone(t, o, &Zone{ID: "inner", Locked: true})
	mustAddZone(t, o, &Zone{ID: "outer", Attached: Attachments{Zones: []string{"inner"}}})

	o.MoveZone("outer", 2, 2)
	if z := o.Zone("inner"); z.X != 2 || z.Y != 2 {
		t.Errorf("locked sub-zone at (%v, %v), want (2, 2): lock only guards direct drags", z.X, z.Y)
	}
}

func TestMoveZoneSkipsDanglingAttachments(t *testing.T) {
	o, _ := newOverlayWithNodes(t, "n")
	mustAddZone(t, o, &Zone{ID: "z", Attached: Attachments{
		Nodes:  []string{"ghost-node", "n"},
		Zones:  []string{"ghost-zone"},
		Labels: []string{"ghost-label"},
	}})

	moved := o.MoveZone("z", 1, 1)
	if len(moved.Nodes) != 1 || moved.Nodes[0] != "n" {
		t.Errorf("moved nodes = %v, want [n]", moved.Nodes)
	}
	if len(moved.Zones) != 1 || len(moved.Labels) != 0 {
		t.Errorf("moved = %+v, want only zone z and node n", moved)
	}
}

func TestMoveLabelDegenerate(t *testing.T) {
	o, _ := newOverlayWithNodes(t)
	mustAddLabel(t, o, &Label{ID: "l", X: 3, Y: 4})

	moved := o.MoveLabel("l", -1, 2)
	if l := o.Label("l"); l.X != 2 || l.Y != 6 {
		t.Errorf("label at (%v, %v), want (2, 6)", l.X, l.Y)
	}
	if len(moved.Labels) != 1 {
		t.Errorf("moved = %+v, want exactly the label", moved)
	}

	if moved := o.MoveLabel("ghost", 1, 1); !moved.Empty() {
		t.Errorf("moving a missing label touched %+v, want nothing", moved)
	}
}

func TestOverlayRemove(t *testing.T) {
	o, _ := newOverlayWithNodes(t)
	mustAddZone(t, o, &Zone{ID: "keep"})
	mustAddZone(t, o, &Zone{ID: "drop", X: 1})
	mustAddZone(t, o, &Zone{ID: "parent", Attached: Attachments{Zones: []string{"drop", "keep"}}})

	o.RemoveZone("drop")
	if o.Zone("drop") != nil {
		t.Fatal("zone still present after RemoveZone")
	}
	if got := len(o.Zones()); got != 2 {
		t.Errorf("Zones() = %d entries, want 2", got)
	}

	// The dangling reference from parent is skipped, not a fault.
	moved := o.MoveZone("parent", 1, 1)
	if len(moved.Zones) != 2 {
		t.Errorf("moved %d zones, want 2 (parent and keep)", len(moved.Zones))
	}

	mustAddLabel(t, o, &Label{ID: "l"})
	o.RemoveLabel("l")
	if o.Label("l") != nil || len(o.Labels()) != 0 {
		t.Error("label still present after RemoveLabel")
	}
}
