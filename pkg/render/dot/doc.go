// Package dot renders graph snapshots as Graphviz diagrams.
//
// # Overview
//
// This package turns a flattened [graph.Snapshot] into DOT source and renders
// it to SVG or PNG in process. Node and link appearance goes through the
// style resolver, so exports match what an interactive client would draw for
// the same state tags and theme.
//
// # Usage
//
// Convert a snapshot to DOT format, then render to SVG:
//
//	src := dot.ToDOT(snap, dot.Options{Theme: theme})
//	svg, err := dot.RenderSVG(ctx, src)
//
// For PNG output:
//
//	png, err := dot.RenderPNG(ctx, src)
//
// # Engines
//
// The Engine option selects the Graphviz layout engine via the graph's
// layout attribute:
//
//   - "dot" (default): hierarchical flow layout; zones render as clusters
//   - "neato": honors the simulated positions carried by the snapshot
//
// Cluster subgraphs are only emitted for the dot engine; neato does not
// draw them.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering, so no external Graphviz installation is required.
package dot
