// Package sim holds the live simulation state shared by the layout engine,
// the style resolver, and the timeline scheduler.
//
// # Overview
//
// Pulsegraph animates signal flow across a node-and-edge diagram. While a
// diagram is loaded, every node and link exists exactly once as a live
// record in a [State]. The layout engine writes positions and velocities
// into these records, and the timeline scheduler appends the active-state
// tags that the style resolver reads back. The state is passed explicitly
// rather than captured in shared globals.
//
// # Active States
//
// Nodes and links carry an ordered list of active-state tags. A tag names a
// style key in the theme ("loading", "secure", "compromised") and doubles as
// a record of the events that touched the entity during a playback run.
// Insertion keeps list order and is idempotent: appending a tag that is
// already present is a no-op. Lists are append-only while a run is playing
// and are cleared only when a new run starts.
//
// # Pinning
//
// A node with a pinned position ([Node.FX]/[Node.FY] non-nil) is excluded
// from layout force updates but still anchors the forces acting on its
// neighbors. Drags and zone moves pin nodes; [Node.Unpin] releases them.
//
// # Concurrency
//
// State is not safe for concurrent use. The engine runs a single-threaded
// cooperative schedule bound to frame boundaries; callers that drive it
// from multiple goroutines must serialize access themselves.
package sim
