package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
)

// =============================================================================
// Snapshot - Flattened Output Shape
// =============================================================================

// SnapshotNode is the flattened record for one node: position and active
// states, with the transient velocity and pin bookkeeping stripped.
type SnapshotNode struct {
	ID     string         `json:"id" bson:"id"`
	Label  string         `json:"label,omitempty" bson:"label,omitempty"`
	Group  int            `json:"group,omitempty" bson:"group,omitempty"`
	X      float64        `json:"x" bson:"x"`
	Y      float64        `json:"y" bson:"y"`
	States []string       `json:"activeStates,omitempty" bson:"active_states,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// SnapshotLink is the flattened record for one link, endpoints by id
// rather than object reference.
type SnapshotLink struct {
	Source string   `json:"source" bson:"source"`
	Target string   `json:"target" bson:"target"`
	States []string `json:"activeStates,omitempty" bson:"active_states,omitempty"`
}

// Snapshot is the engine's output: the shape the external collaborator
// persists, produced on run completion and on every drag end.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes" bson:"nodes"`
	Links []SnapshotLink `json:"links,omitempty" bson:"links,omitempty"`
}

// TakeSnapshot flattens the live state. Unplaced coordinates collapse to
// zero so the output is always plain JSON numbers.
func TakeSnapshot(st *sim.State) Snapshot {
	snap := Snapshot{
		Nodes: make([]SnapshotNode, 0, st.NodeCount()),
		Links: make([]SnapshotLink, 0, st.LinkCount()),
	}
	for _, n := range st.Nodes() {
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			ID:     n.ID,
			Label:  n.Label,
			Group:  n.Group,
			X:      finite(n.X),
			Y:      finite(n.Y),
			States: append([]string(nil), n.States...),
			Meta:   n.Meta,
		})
	}
	for _, l := range st.Links() {
		snap.Links = append(snap.Links, SnapshotLink{
			Source: l.Source.ID,
			Target: l.Target.ID,
			States: append([]string(nil), l.States...),
		})
	}
	return snap
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalSnapshot serializes a snapshot to pretty-printed JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot deserializes JSON bytes into a snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	raw, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// ReadSnapshotFile reads a snapshot from a JSON file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalSnapshot(raw)
}
