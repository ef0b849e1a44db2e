package style

// Theme maps active-state tag names to their visual definitions. Themes
// are immutable inputs supplied fresh per run; the engine never mutates
// them. The JSON field names form the wire contract with the external
// editing collaborator.
type Theme struct {
	NodeStyles map[string]NodeStyle `json:"nodeStyles,omitempty"`
	LinkStyles map[string]LinkStyle `json:"linkStyles,omitempty"`
}

// NodeStyle is the visual definition for one node tag: persistent
// properties applied while the tag is active, plus cosmetic animation
// properties consumed by the rendering surface. Unset properties (nil or
// empty) leave the underlying layer untouched during resolution.
type NodeStyle struct {
	Fill        string   `json:"fill,omitempty"`
	Stroke      string   `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Radius      *float64 `json:"radius,omitempty"`
	Badge       string   `json:"badge,omitempty"`

	Animation *NodeAnimation `json:"animation,omitempty"`
}

// NodeAnimation describes the pulse effect played when a packet arrives
// at a node carrying this tag. Purely cosmetic; it never gates mutation
// timing.
type NodeAnimation struct {
	PulseScale    *float64 `json:"pulseScale,omitempty"`
	PulseDuration *float64 `json:"pulseDuration,omitempty"`
}

// LinkStyle is the visual definition for one link tag.
type LinkStyle struct {
	Color        string   `json:"color,omitempty"`
	Width        *float64 `json:"width,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty"`
	OutlineColor string   `json:"outlineColor,omitempty"`
	OutlineWidth *float64 `json:"outlineWidth,omitempty"`

	Animation *LinkAnimation `json:"animation,omitempty"`
}

// LinkAnimation describes the packet visual for signals traveling along a
// link styled with this tag.
type LinkAnimation struct {
	PacketColor    string   `json:"packetColor,omitempty"`
	PacketRadius   *float64 `json:"packetRadius,omitempty"`
	TravelDuration *float64 `json:"travelDuration,omitempty"`
}

// NodeStyle returns the definition for tag, reporting whether it exists.
func (t Theme) NodeStyle(tag string) (NodeStyle, bool) {
	s, ok := t.NodeStyles[tag]
	return s, ok
}

// LinkStyle returns the definition for tag, reporting whether it exists.
func (t Theme) LinkStyle(tag string) (LinkStyle, bool) {
	s, ok := t.LinkStyles[tag]
	return s, ok
}

// TravelDuration returns the packet travel duration configured for the
// given link tag, reporting whether one is set. Used by the timeline
// compiler when a step does not fix its own duration.
func (t Theme) TravelDuration(tag string) (float64, bool) {
	s, ok := t.LinkStyles[tag]
	if !ok || s.Animation == nil || s.Animation.TravelDuration == nil {
		return 0, false
	}
	return *s.Animation.TravelDuration, true
}
