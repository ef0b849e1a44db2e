package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
	"github.com/matzehuels/pulsegraph/pkg/core/style"
	"github.com/matzehuels/pulsegraph/pkg/graph"
)

// Graphviz layout engines supported by [ToDOT].
const (
	EngineDot   = "dot"
	EngineNeato = "neato"
)

// pointsPerInch converts pixel coordinates to Graphviz position units.
const pointsPerInch = 72.0

// Options configures snapshot rendering.
type Options struct {
	// Theme supplies the style cascade used to color nodes and links.
	Theme style.Theme

	// Overlay adds zone clusters and free-floating labels.
	Overlay graph.OverlayData

	// Engine selects the Graphviz layout engine. EngineDot produces a
	// hierarchical flow layout with zone clusters; EngineNeato pins
	// nodes at their simulated positions.
	Engine string
}

// ToDOT converts a snapshot to Graphviz DOT format. The resulting source
// can be rendered with [RenderSVG] or [RenderPNG], or fed to external
// Graphviz tools.
func ToDOT(snap graph.Snapshot, opts Options) string {
	engine := opts.Engine
	if engine == "" {
		engine = EngineDot
	}

	var buf bytes.Buffer
	buf.WriteString("digraph pulsegraph {\n")
	fmt.Fprintf(&buf, "  layout=%q;\n", engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=11];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	// Clusters must come first: a node belongs to the subgraph where it
	// is first mentioned.
	if engine == EngineDot {
		writeClusters(&buf, snap, opts.Overlay)
	}

	for _, sn := range snap.Nodes {
		attrs := nodeAttrs(sn, opts.Theme, engine)
		fmt.Fprintf(&buf, "  %q [%s];\n", sn.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, sl := range snap.Links {
		attrs := linkAttrs(sl, opts.Theme)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", sl.Source, sl.Target, strings.Join(attrs, ", "))
	}

	writeFloatingLabels(&buf, opts.Overlay, engine)

	buf.WriteString("}\n")
	return buf.String()
}

// nodeAttrs resolves one node's visual and formats it as DOT attributes.
func nodeAttrs(sn graph.SnapshotNode, theme style.Theme, engine string) []string {
	n := &sim.Node{ID: sn.ID, Label: sn.Label, Group: sn.Group, States: sn.States, Meta: sn.Meta}
	v := style.ResolveNode(n, theme, style.Interaction{})

	label := n.DisplayLabel()
	if v.Badge != "" {
		label += "\n" + v.Badge
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", v.Fill),
		fmt.Sprintf("color=%q", v.Stroke),
		fmt.Sprintf("penwidth=%.2f", v.StrokeWidth),
		fmt.Sprintf("width=%.2f", v.Radius*2/pointsPerInch),
	}
	if engine == EngineNeato {
		// Graphviz positions grow upward, the simulation grows downward.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.3f,%.3f!\"", sn.X/pointsPerInch, -sn.Y/pointsPerInch))
	}
	return attrs
}

// linkAttrs resolves one link's visual and formats it as DOT attributes.
func linkAttrs(sl graph.SnapshotLink, theme style.Theme) []string {
	l := &sim.Link{
		Source: &sim.Node{ID: sl.Source},
		Target: &sim.Node{ID: sl.Target},
		States: sl.States,
	}
	v := style.ResolveLink(l, theme, style.Interaction{})

	return []string{
		fmt.Sprintf("color=%q", withOpacity(v.Color, v.Opacity)),
		fmt.Sprintf("penwidth=%.2f", v.Width),
	}
}

// writeClusters emits one cluster subgraph per zone, listing the attached
// node ids that exist in the snapshot. Zones attached to other zones are
// flattened: Graphviz clusters nest by containment, which a free-form
// attachment graph cannot guarantee.
func writeClusters(buf *bytes.Buffer, snap graph.Snapshot, overlay graph.OverlayData) {
	known := make(map[string]bool, len(snap.Nodes))
	for _, sn := range snap.Nodes {
		known[sn.ID] = true
	}

	for _, z := range overlay.Zones {
		members := make([]string, 0, len(z.Attached.Nodes))
		for _, id := range z.Attached.Nodes {
			if known[id] {
				members = append(members, id)
			}
		}
		if len(members) == 0 {
			continue
		}

		fmt.Fprintf(buf, "  subgraph %q {\n", "cluster_"+z.ID)
		if z.Label != "" {
			fmt.Fprintf(buf, "    label=%q;\n", z.Label)
		}
		buf.WriteString("    style=\"rounded,dashed\";\n")
		buf.WriteString("    color=\"#999999\";\n")
		for _, id := range members {
			fmt.Fprintf(buf, "    %q;\n", id)
		}
		buf.WriteString("  }\n")
	}
	buf.WriteString("\n")
}

// writeFloatingLabels emits overlay text labels as borderless nodes.
func writeFloatingLabels(buf *bytes.Buffer, overlay graph.OverlayData, engine string) {
	if len(overlay.Labels) == 0 {
		return
	}

	buf.WriteString("\n")
	for _, l := range overlay.Labels {
		attrs := []string{
			fmt.Sprintf("label=%q", l.Text),
			"shape=plaintext",
			"style=\"\"",
		}
		if l.Color != "" {
			attrs = append(attrs, fmt.Sprintf("fontcolor=%q", l.Color))
		}
		if l.FontSize > 0 {
			attrs = append(attrs, fmt.Sprintf("fontsize=%.0f", l.FontSize))
		}
		if engine == EngineNeato {
			attrs = append(attrs, fmt.Sprintf("pos=\"%.3f,%.3f!\"", l.X/pointsPerInch, -l.Y/pointsPerInch))
		}
		fmt.Fprintf(buf, "  %q [%s];\n", "label_"+l.ID, strings.Join(attrs, ", "))
	}
}

// withOpacity appends an alpha channel to a #RRGGBB color. Colors in any
// other form, and fully opaque values, pass through unchanged.
func withOpacity(color string, opacity float64) string {
	if opacity >= 1 || opacity < 0 || len(color) != 7 || color[0] != '#' {
		return color
	}
	return fmt.Sprintf("%s%02x", color, int(opacity*255+0.5))
}
