package style

import (
	"testing"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
)

func fptr(v float64) *float64 { return &v }

func testTheme() Theme {
	return Theme{
		NodeStyles: map[string]NodeStyle{
			"loading": {Fill: "#fbbf24", Badge: "…"},
			"success": {Fill: "#16a34a", Stroke: "#064e3b", StrokeWidth: fptr(2)},
			"error":   {Fill: "#dc2626", Radius: fptr(14)},
		},
		LinkStyles: map[string]LinkStyle{
			"secure": {
				Color: "#0ea5e9",
				Width: fptr(2.5),
				Animation: &LinkAnimation{
					PacketColor:    "#0ea5e9",
					TravelDuration: fptr(0.5),
				},
			},
			"busy": {Opacity: fptr(1), OutlineColor: "#f59e0b", OutlineWidth: fptr(4)},
		},
	}
}

func TestPaletteColor(t *testing.T) {
	tests := []struct {
		group int
		want  string
	}{
		{0, Palette[0]},
		{3, Palette[3]},
		{len(Palette), Palette[0]},
		{len(Palette) + 2, Palette[2]},
		{-1, Palette[len(Palette)-1]},
	}
	for _, tt := range tests {
		if got := PaletteColor(tt.group); got != tt.want {
			t.Errorf("PaletteColor(%d) = %q, want %q", tt.group, got, tt.want)
		}
	}
}

func TestResolveNodeBase(t *testing.T) {
	v := ResolveNode(&sim.Node{ID: "a", Group: 2}, testTheme(), Interaction{})

	if v.Fill != Palette[2] {
		t.Errorf("Fill = %q, want palette color %q", v.Fill, Palette[2])
	}
	if v.Stroke != DefaultNodeStroke || v.StrokeWidth != DefaultNodeStrokeWidth {
		t.Errorf("base stroke = %q/%v, want defaults", v.Stroke, v.StrokeWidth)
	}
	if v.Radius != DefaultNodeRadius {
		t.Errorf("Radius = %v, want %v", v.Radius, DefaultNodeRadius)
	}
}

func TestResolveNodeCustomOverride(t *testing.T) {
	n := &sim.Node{ID: "a", Meta: map[string]any{"fill": "#123456", "stroke": "#654321"}}
	v := ResolveNode(n, testTheme(), Interaction{})
	if v.Fill != "#123456" || v.Stroke != "#654321" {
		t.Errorf("custom override ignored: fill=%q stroke=%q", v.Fill, v.Stroke)
	}

	// Active tags still beat the author-set base override.
	n.AddState("success")
	v = ResolveNode(n, testTheme(), Interaction{})
	if v.Fill != "#16a34a" {
		t.Errorf("Fill = %q, want tag fill to override custom base", v.Fill)
	}
}

func TestResolveNodeTagOrder(t *testing.T) {
	n := &sim.Node{ID: "a"}
	n.AddState("loading")
	n.AddState("error")
	v := ResolveNode(n, testTheme(), Interaction{})

	// Later tags win per property; properties the later tag leaves unset
	// survive from earlier tags.
	if v.Fill != "#dc2626" {
		t.Errorf("Fill = %q, want later tag's %q", v.Fill, "#dc2626")
	}
	if v.Radius != 14 {
		t.Errorf("Radius = %v, want 14", v.Radius)
	}
	if v.Badge != "…" {
		t.Errorf("Badge = %q, want earlier tag's badge to survive", v.Badge)
	}
}

func TestResolveNodeUnknownTagIgnored(t *testing.T) {
	n := &sim.Node{ID: "a", Group: 1}
	n.AddState("nonexistent")
	v := ResolveNode(n, testTheme(), Interaction{})
	if v.Fill != Palette[1] {
		t.Errorf("Fill = %q, want base palette color (unknown tag ignored)", v.Fill)
	}
}

func TestResolveNodeInteraction(t *testing.T) {
	n := &sim.Node{ID: "a"}
	n.AddState("success")

	sel := ResolveNode(n, testTheme(), Interaction{SelectedNodeID: "a"})
	if sel.Stroke != SelectColor {
		t.Errorf("selected stroke = %q, want %q", sel.Stroke, SelectColor)
	}
	if sel.StrokeWidth < highlightStrokeWidth {
		t.Errorf("selected stroke width = %v, want at least %v", sel.StrokeWidth, highlightStrokeWidth)
	}
	if sel.Fill != "#16a34a" {
		t.Errorf("selection must not replace theme fill, got %q", sel.Fill)
	}

	// Delete confirmation wins over (and suppresses) selection.
	del := ResolveNode(n, testTheme(), Interaction{SelectedNodeID: "a", DeleteConfirmNodeID: "a"})
	if del.Stroke != DeleteConfirmColor {
		t.Errorf("delete-confirm stroke = %q, want %q", del.Stroke, DeleteConfirmColor)
	}

	link := ResolveNode(n, testTheme(), Interaction{LinkingSourceID: "a"})
	if link.Stroke != LinkingColor {
		t.Errorf("linking-source stroke = %q, want %q", link.Stroke, LinkingColor)
	}

	other := ResolveNode(n, testTheme(), Interaction{SelectedNodeID: "b"})
	if other.Stroke == SelectColor {
		t.Error("selection highlight leaked onto a non-selected node")
	}
}

func TestResolveLink(t *testing.T) {
	st := sim.NewState()
	for _, id := range []string{"a", "b"} {
		if err := st.AddNode(&sim.Node{ID: id}); err != nil {
			t.Fatalf("AddNode() error = %v", err)
		}
	}
	l, err := st.AddLink("a", "b", nil)
	if err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}

	base := ResolveLink(l, testTheme(), Interaction{})
	if base.Color != DefaultLinkColor || base.Width != DefaultLinkWidth || base.Opacity != DefaultLinkOpacity {
		t.Errorf("base link visual = %+v, want defaults", base)
	}

	l.AddState("secure")
	l.AddState("busy")
	v := ResolveLink(l, testTheme(), Interaction{})
	if v.Color != "#0ea5e9" {
		t.Errorf("Color = %q, want secure color to survive", v.Color)
	}
	if v.Opacity != 1 || v.OutlineColor != "#f59e0b" || v.OutlineWidth != 4 {
		t.Errorf("later tag properties not applied: %+v", v)
	}

	sel := ResolveLink(l, testTheme(), Interaction{SelectedFrom: "b", SelectedTo: "a"})
	if sel.Color != SelectColor {
		t.Errorf("selected link color = %q, want %q (either endpoint order)", sel.Color, SelectColor)
	}

	del := ResolveLink(l, testTheme(), Interaction{
		SelectedFrom: "a", SelectedTo: "b",
		DeleteConfirmFrom: "a", DeleteConfirmTo: "b",
	})
	if del.Color != DeleteConfirmColor {
		t.Errorf("delete-confirm link color = %q, want %q", del.Color, DeleteConfirmColor)
	}
}

func TestResolvePure(t *testing.T) {
	n := &sim.Node{ID: "a", Group: 1}
	n.AddState("loading")
	theme := testTheme()

	first := ResolveNode(n, theme, Interaction{})
	for range 5 {
		if got := ResolveNode(n, theme, Interaction{}); got != first {
			t.Fatalf("ResolveNode() = %+v, want stable %+v", got, first)
		}
	}
}

func TestThemeTravelDuration(t *testing.T) {
	theme := testTheme()

	if d, ok := theme.TravelDuration("secure"); !ok || d != 0.5 {
		t.Errorf("TravelDuration(secure) = %v, %v; want 0.5, true", d, ok)
	}
	if _, ok := theme.TravelDuration("busy"); ok {
		t.Error("TravelDuration(busy) = true, want false (no animation)")
	}
	if _, ok := theme.TravelDuration("missing"); ok {
		t.Error("TravelDuration(missing) = true, want false")
	}
}
