package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/pulsegraph/pkg/core/style"
	"github.com/matzehuels/pulsegraph/pkg/core/zone"
	"github.com/matzehuels/pulsegraph/pkg/graph"
)

func fptr(v float64) *float64 { return &v }

func testSnapshot() graph.Snapshot {
	return graph.Snapshot{
		Nodes: []graph.SnapshotNode{
			{ID: "gw", Label: "Gateway", X: 144, Y: 72},
			{ID: "db", X: 288, Y: 144, States: []string{"busy"}},
		},
		Links: []graph.SnapshotLink{
			{Source: "gw", Target: "db", States: []string{"secure"}},
		},
	}
}

func TestToDOTBasic(t *testing.T) {
	out := ToDOT(testSnapshot(), Options{})

	for _, want := range []string{
		"digraph pulsegraph {",
		`layout="dot";`,
		`"gw" [label="Gateway"`,
		`"db" [label="db"`,
		`"gw" -> "db" [color=`,
		`fillcolor=`,
		`penwidth=1.50`,
		"width=0.28",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "pos=") {
		t.Errorf("dot engine should not pin positions:\n%s", out)
	}
}

func TestToDOTNeatoPinsPositions(t *testing.T) {
	out := ToDOT(testSnapshot(), Options{Engine: EngineNeato})

	if !strings.Contains(out, `layout="neato";`) {
		t.Errorf("missing neato layout attribute:\n%s", out)
	}
	// 144px right, 72px down becomes 2in right, 1in up.
	if !strings.Contains(out, `pos="2.000,-1.000!"`) {
		t.Errorf("missing pinned position:\n%s", out)
	}
}

func TestToDOTThemedStates(t *testing.T) {
	theme := style.Theme{
		NodeStyles: map[string]style.NodeStyle{
			"busy": {Fill: "#ff0000", Badge: "!"},
		},
		LinkStyles: map[string]style.LinkStyle{
			"secure": {Color: "#00ff00", Opacity: fptr(0.5)},
		},
	}

	out := ToDOT(testSnapshot(), Options{Theme: theme})

	if !strings.Contains(out, `fillcolor="#ff0000"`) {
		t.Errorf("themed fill not applied:\n%s", out)
	}
	if !strings.Contains(out, `label="db\n!"`) {
		t.Errorf("badge not appended to label:\n%s", out)
	}
	if !strings.Contains(out, `color="#00ff0080"`) {
		t.Errorf("link opacity not encoded as alpha suffix:\n%s", out)
	}
}

func TestToDOTClusters(t *testing.T) {
	overlay := graph.OverlayData{
		Zones: []zone.Zone{
			{ID: "edge", Label: "Edge", Attached: zone.Attachments{Nodes: []string{"gw", "missing"}}},
			{ID: "empty", Attached: zone.Attachments{Nodes: []string{"nope"}}},
		},
	}

	out := ToDOT(testSnapshot(), Options{Overlay: overlay})

	if !strings.Contains(out, `subgraph "cluster_edge" {`) {
		t.Fatalf("missing zone cluster:\n%s", out)
	}
	if !strings.Contains(out, `label="Edge";`) {
		t.Errorf("missing cluster label:\n%s", out)
	}
	if strings.Contains(out, "cluster_empty") {
		t.Errorf("zone without known members should be skipped:\n%s", out)
	}
	if strings.Contains(out, `"missing"`) {
		t.Errorf("unknown attached id leaked into cluster:\n%s", out)
	}
	// Membership requires the bare id before the attributed node line.
	if bare, attr := strings.Index(out, `"gw";`), strings.Index(out, `"gw" [`); bare < 0 || bare > attr {
		t.Errorf("cluster member must be declared before node attributes (bare=%d attr=%d)", bare, attr)
	}

	// Neato ignores clusters, so they are not emitted at all.
	out = ToDOT(testSnapshot(), Options{Overlay: overlay, Engine: EngineNeato})
	if strings.Contains(out, "subgraph") {
		t.Errorf("neato output should not contain clusters:\n%s", out)
	}
}

func TestToDOTFloatingLabels(t *testing.T) {
	overlay := graph.OverlayData{
		Labels: []zone.Label{
			{ID: "t1", Text: "us-east", X: 72, Y: 72, Color: "#333333", FontSize: 14},
		},
	}

	out := ToDOT(testSnapshot(), Options{Overlay: overlay, Engine: EngineNeato})

	for _, want := range []string{
		`"label_t1" [label="us-east"`,
		"shape=plaintext",
		`fontcolor="#333333"`,
		"fontsize=14",
		`pos="1.000,-1.000!"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestWithOpacity(t *testing.T) {
	tests := []struct {
		color   string
		opacity float64
		want    string
	}{
		{"#00ff00", 1.0, "#00ff00"},
		{"#00ff00", 0.5, "#00ff0080"},
		{"#00ff00", 0.0, "#00ff0000"},
		{"#00ff00", -1, "#00ff00"},
		{"red", 0.5, "red"},
		{"#0f0", 0.5, "#0f0"},
	}
	for _, tt := range tests {
		if got := withOpacity(tt.color, tt.opacity); got != tt.want {
			t.Errorf("withOpacity(%q, %v) = %q, want %q", tt.color, tt.opacity, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="134pt" height="90pt" viewBox="36.00 72.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not moved to origin: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}

	plain := []byte(`<svg xmlns="http://www.w3.org/2000/svg">`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox should pass through, got %s", got)
	}
}
