// Package style computes final render attributes for nodes and links.
//
// # Overview
//
// A diagram's look is driven by a [Theme]: two mappings from active-state
// tag names to style definitions, one for nodes and one for links. The
// resolver combines the theme with an entity's current active-state list
// and the transient interaction context into a flat visual record the
// rendering surface can draw directly. The resolver returns data, never
// drawing commands, so any backend can consume it.
//
// # Resolution Order
//
// Later layers override earlier ones, per property:
//
//  1. base palette color indexed by the node's group, modulo palette size
//  2. entity-level custom override (author-set fill/stroke in node
//     metadata), applied to the base layer only
//  3. each tag in the entity's active-state list, in list order; later
//     tags win on a per-property basis
//  4. interaction overrides (selection, delete-confirmation, link-mode
//     source), which beat all theme-driven properties; an active
//     delete confirmation suppresses the selection highlight
//
// # Purity
//
// [ResolveNode] and [ResolveLink] are pure: the same entity snapshot,
// theme, and interaction context always produce the same visual record,
// regardless of call order. Tags with no theme entry are skipped, not an
// error.
package style
