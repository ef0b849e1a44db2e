package sim

import (
	"errors"
	"fmt"
)

// Sentinel errors for state construction and mutation.
var (
	// ErrEmptyNodeID indicates a node was added with an empty identifier.
	ErrEmptyNodeID = errors.New("node id cannot be empty")
	// ErrDuplicateNode indicates a node with the same identifier already exists.
	ErrDuplicateNode = errors.New("node already exists")
	// ErrUnknownNode indicates a link endpoint references a node not in the state.
	ErrUnknownNode = errors.New("unknown node")
)

// Node is the live record for a single graph node. The layout engine owns
// the kinematic fields (X, Y, VX, VY), the timeline scheduler appends to
// States, and everything else is descriptive input carried over from the
// ingested graph data.
type Node struct {
	// ID uniquely identifies the node within its state.
	ID string
	// Label is the display text. Defaults to ID when empty.
	Label string
	// Group selects the palette bucket for base coloring.
	Group int

	// X, Y is the current position in layout space.
	X, Y float64
	// VX, VY is the current velocity, decayed each tick.
	VX, VY float64
	// FX, FY pin the node when non-nil: each tick snaps the position to
	// the pinned coordinate and zeroes the velocity on that axis.
	FX, FY *float64

	// States is the ordered, duplicate-free list of active-state tags.
	States []string

	// Meta carries renderer-facing annotations (badges, tooltips) that the
	// engine itself never interprets.
	Meta map[string]any
}

// DisplayLabel returns the label to render, falling back to the ID.
func (n *Node) DisplayLabel() string {
	if n.Label == "" {
		return n.ID
	}
	return n.Label
}

// Pinned reports whether the node is excluded from force updates.
func (n *Node) Pinned() bool {
	return n.FX != nil || n.FY != nil
}

// Pin fixes the node at (x, y). Subsequent ticks keep it there until Unpin.
func (n *Node) Pin(x, y float64) {
	n.X, n.Y = x, y
	fx, fy := x, y
	n.FX, n.FY = &fx, &fy
}

// Unpin releases a pinned node back to the force simulation. The node keeps
// its current position and re-enters the next tick with zero velocity.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
	n.VX, n.VY = 0, 0
}

// AddState appends tag to the node's active states, preserving insertion
// order. It reports whether the tag was newly added; appending a tag that
// is already present is a no-op.
func (n *Node) AddState(tag string) bool {
	if hasTag(n.States, tag) {
		return false
	}
	n.States = append(n.States, tag)
	return true
}

// HasState reports whether tag is among the node's active states.
func (n *Node) HasState(tag string) bool {
	return hasTag(n.States, tag)
}

// Link is the live record for a directed connection between two nodes. Both
// endpoints are resolved pointers into the owning state, so layout forces
// and style lookups never chase identifiers at tick time.
type Link struct {
	// Source and Target are the resolved endpoint nodes.
	Source, Target *Node
	// States is the ordered, duplicate-free list of active-state tags.
	States []string
}

// AddState appends tag to the link's active states, preserving insertion
// order. It reports whether the tag was newly added.
func (l *Link) AddState(tag string) bool {
	if hasTag(l.States, tag) {
		return false
	}
	l.States = append(l.States, tag)
	return true
}

// HasState reports whether tag is among the link's active states.
func (l *Link) HasState(tag string) bool {
	return hasTag(l.States, tag)
}

// Connects reports whether the link joins from and to in either direction.
func (l *Link) Connects(from, to string) bool {
	return (l.Source.ID == from && l.Target.ID == to) ||
		(l.Source.ID == to && l.Target.ID == from)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// State is the complete live simulation state for one loaded diagram:
// every node and link exactly once, with an identifier index for O(1)
// lookup. The zero value is not usable; construct with [NewState].
type State struct {
	nodes []*Node
	links []*Link
	byID  map[string]*Node
}

// NewState returns an empty simulation state.
func NewState() *State {
	return &State{byID: make(map[string]*Node)}
}

// AddNode inserts n into the state. The node's identifier must be non-empty
// and unique.
func (s *State) AddNode(n *Node) error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if _, ok := s.byID[n.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
	}
	s.nodes = append(s.nodes, n)
	s.byID[n.ID] = n
	return nil
}

// AddLink inserts a link between the named nodes, which must both exist.
func (s *State) AddLink(source, target string, states []string) (*Link, error) {
	src, ok := s.byID[source]
	if !ok {
		return nil, fmt.Errorf("%w: link source %q", ErrUnknownNode, source)
	}
	tgt, ok := s.byID[target]
	if !ok {
		return nil, fmt.Errorf("%w: link target %q", ErrUnknownNode, target)
	}
	l := &Link{Source: src, Target: tgt, States: states}
	s.links = append(s.links, l)
	return l, nil
}

// Node returns the node with the given identifier, or nil when absent.
func (s *State) Node(id string) *Node {
	return s.byID[id]
}

// Link returns the first link connecting from and to. Links matching the
// requested direction win over reversed ones; nil when no link connects
// the pair.
func (s *State) Link(from, to string) *Link {
	var reversed *Link
	for _, l := range s.links {
		if l.Source.ID == from && l.Target.ID == to {
			return l
		}
		if reversed == nil && l.Source.ID == to && l.Target.ID == from {
			reversed = l
		}
	}
	return reversed
}

// Nodes returns the live node records in insertion order. The slice is
// shared with the state; callers must not reorder or resize it.
func (s *State) Nodes() []*Node {
	return s.nodes
}

// Links returns the live link records in insertion order. The slice is
// shared with the state; callers must not reorder or resize it.
func (s *State) Links() []*Link {
	return s.links
}

// NodeCount returns the number of nodes.
func (s *State) NodeCount() int { return len(s.nodes) }

// LinkCount returns the number of links.
func (s *State) LinkCount() int { return len(s.links) }

// Degree returns the number of links touching the node with the given
// identifier, counting both directions.
func (s *State) Degree(id string) int {
	d := 0
	for _, l := range s.links {
		if l.Source.ID == id || l.Target.ID == id {
			d++
		}
	}
	return d
}

// Reset forgets all nodes and links. Node records handed out earlier stay
// valid for their holders but are no longer part of the state; ingestion
// uses this to rebuild topology while carrying live records over.
func (s *State) Reset() {
	s.nodes = nil
	s.links = nil
	s.byID = make(map[string]*Node)
}

// ClearStates empties the active-state lists of every node and link. Runs
// call this once at start so each playback begins from a clean record.
func (s *State) ClearStates() {
	for _, n := range s.nodes {
		n.States = nil
	}
	for _, l := range s.links {
		l.States = nil
	}
}
