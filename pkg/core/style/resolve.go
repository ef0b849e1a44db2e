package style

import "github.com/matzehuels/pulsegraph/pkg/core/sim"

// Palette is the base node color cycle indexed by group number. Groups
// beyond the palette wrap around.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Base visuals before any theme tag or interaction applies.
const (
	DefaultNodeStroke      = "#ffffff"
	DefaultNodeStrokeWidth = 1.5
	DefaultNodeRadius      = 10.0

	DefaultLinkColor   = "#999999"
	DefaultLinkWidth   = 1.5
	DefaultLinkOpacity = 0.6
)

// Interaction highlight colors and widths.
const (
	SelectColor        = "#2563eb"
	DeleteConfirmColor = "#ef4444"
	LinkingColor       = "#22c55e"

	highlightStrokeWidth = 3.0
)

// Interaction is the transient UI context fed into resolution. The zero
// value means no interaction is in progress.
type Interaction struct {
	SelectedNodeID string // node carrying the selection highlight
	SelectedFrom   string // selected link endpoints, by node id
	SelectedTo     string

	DeleteConfirmNodeID string // node awaiting delete confirmation
	DeleteConfirmFrom   string // link awaiting delete confirmation
	DeleteConfirmTo     string

	LinkingSourceID string // source node while link-mode is armed
}

// NodeVisual is the resolved render record for one node.
type NodeVisual struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Radius      float64
	Badge       string
}

// LinkVisual is the resolved render record for one link.
type LinkVisual struct {
	Color        string
	Width        float64
	Opacity      float64
	OutlineColor string
	OutlineWidth float64
}

// PaletteColor returns the base color for a group number, wrapping modulo
// the palette size. Negative groups wrap the same way.
func PaletteColor(group int) string {
	i := group % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

// ResolveNode computes the final visual for a node from its snapshot, the
// theme, and the interaction context. Pure: same inputs, same output.
func ResolveNode(n *sim.Node, theme Theme, ictx Interaction) NodeVisual {
	v := NodeVisual{
		Fill:        PaletteColor(n.Group),
		Stroke:      DefaultNodeStroke,
		StrokeWidth: DefaultNodeStrokeWidth,
		Radius:      DefaultNodeRadius,
	}

	// Author-set overrides live in node metadata and replace the base
	// layer only; active tags and interactions still win over them.
	if fill, ok := metaString(n.Meta, "fill"); ok {
		v.Fill = fill
	}
	if stroke, ok := metaString(n.Meta, "stroke"); ok {
		v.Stroke = stroke
	}

	for _, tag := range n.States {
		s, ok := theme.NodeStyle(tag)
		if !ok {
			continue
		}
		if s.Fill != "" {
			v.Fill = s.Fill
		}
		if s.Stroke != "" {
			v.Stroke = s.Stroke
		}
		if s.StrokeWidth != nil {
			v.StrokeWidth = *s.StrokeWidth
		}
		if s.Radius != nil {
			v.Radius = *s.Radius
		}
		if s.Badge != "" {
			v.Badge = s.Badge
		}
	}

	switch {
	case ictx.DeleteConfirmNodeID == n.ID:
		// Pending deletion suppresses the selection highlight.
		v.Stroke = DeleteConfirmColor
		v.StrokeWidth = max(v.StrokeWidth, highlightStrokeWidth)
	case ictx.SelectedNodeID == n.ID:
		v.Stroke = SelectColor
		v.StrokeWidth = max(v.StrokeWidth, highlightStrokeWidth)
	case ictx.LinkingSourceID == n.ID:
		v.Stroke = LinkingColor
		v.StrokeWidth = max(v.StrokeWidth, highlightStrokeWidth)
	}

	return v
}

// ResolveLink computes the final visual for a link. Pure, like ResolveNode.
func ResolveLink(l *sim.Link, theme Theme, ictx Interaction) LinkVisual {
	v := LinkVisual{
		Color:   DefaultLinkColor,
		Width:   DefaultLinkWidth,
		Opacity: DefaultLinkOpacity,
	}

	for _, tag := range l.States {
		s, ok := theme.LinkStyle(tag)
		if !ok {
			continue
		}
		if s.Color != "" {
			v.Color = s.Color
		}
		if s.Width != nil {
			v.Width = *s.Width
		}
		if s.Opacity != nil {
			v.Opacity = *s.Opacity
		}
		if s.OutlineColor != "" {
			v.OutlineColor = s.OutlineColor
		}
		if s.OutlineWidth != nil {
			v.OutlineWidth = *s.OutlineWidth
		}
	}

	switch {
	case l.Connects(ictx.DeleteConfirmFrom, ictx.DeleteConfirmTo) && ictx.DeleteConfirmFrom != "":
		v.Color = DeleteConfirmColor
		v.Width = max(v.Width, highlightStrokeWidth)
		v.Opacity = 1
	case l.Connects(ictx.SelectedFrom, ictx.SelectedTo) && ictx.SelectedFrom != "":
		v.Color = SelectColor
		v.Width = max(v.Width, highlightStrokeWidth)
		v.Opacity = 1
	}

	return v
}

func metaString(meta map[string]any, key string) (string, bool) {
	if meta == nil {
		return "", false
	}
	s, ok := meta[key].(string)
	return s, ok && s != ""
}
