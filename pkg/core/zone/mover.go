package zone

// Moved is the set of entities one drag operation touched, in traversal
// order. The caller persists their final positions on drag end.
type Moved struct {
	Zones  []string
	Nodes  []string
	Labels []string
}

// Empty reports whether the drag touched nothing.
func (m Moved) Empty() bool {
	return len(m.Zones) == 0 && len(m.Nodes) == 0 && len(m.Labels) == 0
}

// MoveZone translates the zone and everything attached to it, recursively,
// by (dx, dy). Moved nodes are pinned at their new position. A missing or
// locked zone id is a silent no-op.
func (o *Overlay) MoveZone(id string, dx, dy float64) Moved {
	return o.MoveZones([]string{id}, dx, dy)
}

// MoveZones translates several zones as one drag operation. Shared
// descendants reachable from more than one of the dragged zones are
// translated exactly once. Missing and locked ids are skipped.
func (o *Overlay) MoveZones(ids []string, dx, dy float64) Moved {
	m := &mover{o: o, dx: dx, dy: dy,
		zonesSeen:  make(map[string]bool),
		nodesSeen:  make(map[string]bool),
		labelsSeen: make(map[string]bool),
	}
	for _, id := range ids {
		z := o.zones[id]
		if z == nil || z.Locked {
			continue
		}
		m.moveZone(z)
	}
	return m.moved
}

// MoveLabel translates a single free label, the degenerate case of a drag
// with no attachments. A missing id is a silent no-op.
func (o *Overlay) MoveLabel(id string, dx, dy float64) Moved {
	l := o.labels[id]
	if l == nil {
		return Moved{}
	}
	l.X += dx
	l.Y += dy
	return Moved{Labels: []string{id}}
}

// mover carries one drag operation's delta and visited tracking. Every
// entity kind is deduplicated so diamonds in the attachment graph never
// double-translate, and zone cycles terminate.
type mover struct {
	o      *Overlay
	dx, dy float64

	zonesSeen  map[string]bool
	nodesSeen  map[string]bool
	labelsSeen map[string]bool

	moved Moved
}

func (m *mover) moveZone(z *Zone) {
	if m.zonesSeen[z.ID] {
		return
	}
	m.zonesSeen[z.ID] = true

	z.X += m.dx
	z.Y += m.dy
	m.moved.Zones = append(m.moved.Zones, z.ID)

	for _, id := range z.Attached.Nodes {
		m.moveNode(id)
	}
	for _, id := range z.Attached.Labels {
		m.moveLabel(id)
	}
	for _, id := range z.Attached.Zones {
		if sub := m.o.zones[id]; sub != nil {
			m.moveZone(sub)
		}
	}
}

func (m *mover) moveNode(id string) {
	if m.nodesSeen[id] {
		return
	}
	n := m.o.st.Node(id)
	if n == nil {
		return
	}
	m.nodesSeen[id] = true
	// Pin so the layout engine keeps the node where the zone put it.
	n.Pin(n.X+m.dx, n.Y+m.dy)
	m.moved.Nodes = append(m.moved.Nodes, id)
}

func (m *mover) moveLabel(id string) {
	if m.labelsSeen[id] {
		return
	}
	l := m.o.labels[id]
	if l == nil {
		return
	}
	m.labelsSeen[id] = true
	l.X += m.dx
	l.Y += m.dy
	m.moved.Labels = append(m.moved.Labels, id)
}
