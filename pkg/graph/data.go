package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
)

// =============================================================================
// Data - Wire Graph Topology
// =============================================================================

// Node is the wire shape of one graph node. Coordinates are optional:
// a node without x/y is placed by the layout engine, and a node whose id
// matches a live record keeps that record's position regardless of what
// the wire carries.
type Node struct {
	ID     string         `json:"id"`
	Label  string         `json:"label,omitempty"`
	Group  int            `json:"group,omitempty"`
	X      *float64       `json:"x,omitempty"`
	Y      *float64       `json:"y,omitempty"`
	FX     *float64       `json:"fx,omitempty"`
	FY     *float64       `json:"fy,omitempty"`
	States []string       `json:"activeStates,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Link is the wire shape of one link, referencing nodes by id string.
type Link struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	States []string `json:"activeStates,omitempty"`
}

// Data is the graph topology supplied by the external editing
// collaborator.
type Data struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links,omitempty"`
}

// =============================================================================
// Ingestion
// =============================================================================

// Apply rebuilds st from d, carrying live records over: a node whose id
// matches a prior in-memory record keeps its live position, velocity, and
// pinned coordinates; everything descriptive (label, group, states, meta)
// comes from the wire. New nodes without wire coordinates are marked
// unplaced (NaN) for the layout engine to position. Links are re-resolved
// against the new node set; a link referencing a missing id is skipped
// silently, as are duplicate node ids.
func Apply(st *sim.State, d Data) {
	prior := make(map[string]*sim.Node, st.NodeCount())
	for _, n := range st.Nodes() {
		prior[n.ID] = n
	}
	st.Reset()

	for _, wn := range d.Nodes {
		if wn.ID == "" {
			continue
		}
		n := prior[wn.ID]
		if n == nil {
			n = &sim.Node{ID: wn.ID, X: math.NaN(), Y: math.NaN()}
			if wn.X != nil {
				n.X = *wn.X
			}
			if wn.Y != nil {
				n.Y = *wn.Y
			}
			if wn.FX != nil {
				fx := *wn.FX
				n.FX = &fx
				n.X = fx
			}
			if wn.FY != nil {
				fy := *wn.FY
				n.FY = &fy
				n.Y = fy
			}
		}

		n.Label = wn.Label
		n.Group = wn.Group
		n.Meta = wn.Meta
		n.States = nil
		for _, tag := range wn.States {
			n.AddState(tag)
		}

		// Duplicate wire ids: first occurrence wins.
		_ = st.AddNode(n)
	}

	for _, wl := range d.Links {
		states := make([]string, 0, len(wl.States))
		for _, tag := range wl.States {
			if !contains(states, tag) {
				states = append(states, tag)
			}
		}
		if len(states) == 0 {
			states = nil
		}
		_, _ = st.AddLink(wl.Source, wl.Target, states)
	}
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalData serializes wire data to pretty-printed JSON bytes.
func MarshalData(d Data) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalData deserializes JSON bytes into wire data.
func UnmarshalData(data []byte) (Data, error) {
	var d Data
	if err := json.Unmarshal(data, &d); err != nil {
		return Data{}, fmt.Errorf("unmarshal graph data: %w", err)
	}
	return d, nil
}

// ReadDataFile reads wire data from a JSON file.
func ReadDataFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalData(raw)
}

// WriteDataFile writes wire data to a JSON file.
func WriteDataFile(d Data, path string) error {
	raw, err := MarshalData(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}
