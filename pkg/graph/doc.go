// Package graph defines the engine's wire contract with the external
// editing collaborator: the JSON structures it consumes, the flattened
// snapshot it returns, and the ingestion merge between the two worlds.
//
// # Wire Structures
//
// Four inputs arrive from the collaborator, immutable per run:
//
//   - [Data]: the diagram topology, nodes and id-referencing links
//   - a [style.Theme]: tag name to style definition mappings
//   - a [timeline.Sequence]: the declarative animation script
//   - [OverlayData]: spatial zones and free labels, optional
//
// One output goes back: [Snapshot], the flattened node/link records
// (ids instead of object references, positions and active states,
// velocity and pin bookkeeping stripped) produced on run completion and
// on drag end. The snapshot is what the collaborator persists.
//
// # Ingestion
//
// [Apply] resolves wire links into live object references and merges new
// data into a running state. A node whose id matches a prior in-memory
// record keeps its live position, velocity, and pins (carry-over merge,
// not an overwrite); descriptive fields come from the wire. Nodes absent
// from the new data are dropped, and links referencing unknown ids are
// skipped silently.
//
// # Validation
//
// Structural validation is the collaborator's duty, before data reaches
// the engine. [ValidateData], [ValidateSequence], and [ValidateTheme]
// implement that duty for the CLI and the HTTP API; the core packages
// assume structurally valid inputs and never re-validate.
package graph
