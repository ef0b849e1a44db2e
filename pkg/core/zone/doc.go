// Package zone implements spatial overlay entities and the attachment
// mover that keeps them moving together.
//
// # Overview
//
// Zones are rectangular regions drawn under the graph; labels are
// free-floating text. A zone declares attachments: node ids, label ids,
// and other zone ids that belong to it spatially. Dragging a zone by a
// delta translates everything attached to it, recursively through
// sub-zones, so grouped regions hold their shape.
//
// # At-Most-Once Translation
//
// Attachment graphs may share descendants: two zones can both reach the
// same node, label, or sub-zone (a diamond). The mover tracks every
// entity it has touched during one drag operation and applies the delta
// at most once per entity, no matter how many paths reach it. Moving
// several zones as one drag shares the same tracking, so a leaf reachable
// from both moves once, not twice. Visited tracking on zones also makes
// the recursion terminate if the collaborator wires a zone cycle.
//
// # Commit Semantics
//
// Translation applies immediately so dependent rendering stays in sync
// during the drag. Moved nodes are pinned at their new position, keeping
// the layout engine from pulling them back. [Overlay.MoveZone] returns
// the full set of touched entities; on drag end the caller persists their
// final positions.
package zone
