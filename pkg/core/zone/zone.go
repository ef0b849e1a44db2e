package zone

import (
	"errors"
	"fmt"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
)

// Sentinel errors for overlay mutation.
var (
	// ErrEmptyID indicates a zone or label was added without an identifier.
	ErrEmptyID = errors.New("id cannot be empty")
	// ErrDuplicateID indicates a zone or label with the same id exists.
	ErrDuplicateID = errors.New("id already exists")
)

// Attachments declares what moves together with a zone, by id. Sets may
// reference any entity, including other zones; missing ids are skipped
// silently when moving.
type Attachments struct {
	Nodes  []string `json:"nodes,omitempty"`
	Zones  []string `json:"zones,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

// Zone is a rectangular spatial region grouping diagram entities. The
// JSON field names form the wire contract with the external editing
// collaborator.
type Zone struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label,omitempty"`

	// Locked zones refuse to be dragged directly; they still move when a
	// zone they are attached to moves.
	Locked bool `json:"locked,omitempty"`

	Attached Attachments `json:"attachedElementIds"`
}

// Label is free-floating text positioned on the canvas.
type Label struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Overlay is the registry of zones and labels over one simulation state.
// Like the state it decorates, it is owned by the single cooperative
// thread and not safe for concurrent use.
type Overlay struct {
	st *sim.State

	zones    map[string]*Zone
	labels   map[string]*Label
	zoneIDs  []string
	labelIDs []string
}

// NewOverlay builds an empty overlay over st.
func NewOverlay(st *sim.State) *Overlay {
	return &Overlay{
		st:     st,
		zones:  make(map[string]*Zone),
		labels: make(map[string]*Label),
	}
}

// AddZone registers a zone. The id must be non-empty and unique among
// zones.
func (o *Overlay) AddZone(z *Zone) error {
	if z.ID == "" {
		return fmt.Errorf("zone: %w", ErrEmptyID)
	}
	if _, ok := o.zones[z.ID]; ok {
		return fmt.Errorf("zone %q: %w", z.ID, ErrDuplicateID)
	}
	o.zones[z.ID] = z
	o.zoneIDs = append(o.zoneIDs, z.ID)
	return nil
}

// AddLabel registers a label. The id must be non-empty and unique among
// labels.
func (o *Overlay) AddLabel(l *Label) error {
	if l.ID == "" {
		return fmt.Errorf("label: %w", ErrEmptyID)
	}
	if _, ok := o.labels[l.ID]; ok {
		return fmt.Errorf("label %q: %w", l.ID, ErrDuplicateID)
	}
	o.labels[l.ID] = l
	o.labelIDs = append(o.labelIDs, l.ID)
	return nil
}

// RemoveZone deletes a zone. References to it from other zones'
// attachment sets become dangling and are skipped when moving.
func (o *Overlay) RemoveZone(id string) {
	if _, ok := o.zones[id]; !ok {
		return
	}
	delete(o.zones, id)
	o.zoneIDs = remove(o.zoneIDs, id)
}

// RemoveLabel deletes a label.
func (o *Overlay) RemoveLabel(id string) {
	if _, ok := o.labels[id]; !ok {
		return
	}
	delete(o.labels, id)
	o.labelIDs = remove(o.labelIDs, id)
}

// Zone returns the zone with the given id, or nil.
func (o *Overlay) Zone(id string) *Zone { return o.zones[id] }

// Label returns the label with the given id, or nil.
func (o *Overlay) Label(id string) *Label { return o.labels[id] }

// Zones returns all zones in registration order.
func (o *Overlay) Zones() []*Zone {
	out := make([]*Zone, 0, len(o.zoneIDs))
	for _, id := range o.zoneIDs {
		out = append(out, o.zones[id])
	}
	return out
}

// Labels returns all labels in registration order.
func (o *Overlay) Labels() []*Label {
	out := make([]*Label, 0, len(o.labelIDs))
	for _, id := range o.labelIDs {
		out = append(out, o.labels[id])
	}
	return out
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
