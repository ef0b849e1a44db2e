// Package pkg provides the core libraries for Pulsegraph graph animation.
//
// # Overview
//
// Pulsegraph turns declarative graph descriptions into animated node-link
// visualizations: nodes settle under a force simulation, sequences move
// packets along links and flip visual states, and the final picture exports
// to JSON, DOT, SVG, or PNG. The pkg directory is organized into five main
// areas:
//
//  1. [core] - Domain logic (force simulation, layout, styles, timeline, zones)
//  2. [graph] - Serialization types for graph inputs and snapshots
//  3. [playback] - Orchestration (build → layout → run → export)
//  4. [render/dot] - Output rendering (DOT generation, Graphviz rasterization)
//  5. [cache] - Result caching (file, memory, Redis)
//
// # Architecture
//
// The typical data flow through Pulsegraph:
//
//	Graph JSON (+ theme, sequence, overlay)
//	         ↓
//	    [graph] package (parse + validate + apply)
//	         ↓
//	    [core/sim] + [core/layout] (force-directed positions)
//	         ↓
//	    [core/timeline] (compile sequence → schedule events)
//	         ↓
//	    [render/dot] package (DOT → SVG/PNG via Graphviz)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
// Run a full pipeline from a graph file to rendered artifacts:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pulsegraph/pkg/graph"
//	    "github.com/matzehuels/pulsegraph/pkg/playback"
//	)
//
//	// 1. Load the graph description
//	data, _ := graph.ReadDataFile("service-map.json")
//
//	// 2. Configure the run
//	opts := playback.Options{
//	    Data:    data,
//	    Formats: []string{"svg"},
//	}
//
//	// 3. Execute build → layout → run → export
//	runner := playback.NewRunner(nil, nil, nil)
//	defer runner.Close()
//	res, _ := runner.Execute(context.Background(), opts)
//
//	// 4. Collect artifacts by format
//	svg := res.Artifacts["svg"]
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/sim] - Simulation state: nodes with kinematic fields, links, state
// tags, pinning. The mutable working representation every other core package
// operates on.
//
// [core/layout] - Force-directed position solver. Link springs, many-body
// charge, centering, and collision forces integrated with alpha decay until
// the arrangement settles.
//
// [core/style] - Cascading style resolution. Base theme values, group
// palettes, per-node overrides, active state styles, and interaction
// highlights collapse into one concrete visual per element.
//
// [core/timeline] - Sequence playback. Compiles declarative steps into a
// time-indexed program of mutations, packet flights, and pulses, then
// schedules it on a virtual clock.
//
// [core/zone] - Overlay zones and floating labels that group nodes
// spatially and move them together.
//
// ## Serialization
//
// [graph] - JSON types for graph data, themes, sequences, overlays, and
// flattened snapshots, with validation and file readers.
//
// ## Orchestration
//
// [playback] - Complete pipeline (build → layout → run → export) used by
// CLI and server. Ensures consistent behavior across all entry points.
//
// ## Visualization
//
// [render/dot] - DOT source generation from snapshots plus Graphviz
// rasterization to SVG and PNG.
//
// ## Infrastructure
//
// [cache] - Content-addressed result cache keyed on input hashes, with
// file, memory, Redis, and null backends. Layout positions, final
// snapshots, and rendered artifacts are cached per stage.
//
// [errors] - Structured error codes shared by the CLI and the HTTP API.
//
// [httputil] - HTTP fetching for remote graph inputs with retry on
// transient failures.
//
// [observability] - Hook interfaces for instrumenting runs, cache access,
// and HTTP handling without binding the libraries to a metrics backend.
//
// # Common Workflows
//
// Compute a layout without playback:
//
//	st, _ := runner.Build(opts)
//	_ = runner.ComputeLayout(ctx, st, opts)
//
// Play a sequence step by step on a virtual clock:
//
//	player := timeline.NewPlayer(st, theme)
//	player.Play(seq)
//	for player.Playing() {
//	    player.Advance(0.1)
//	}
//
// Resolve the visual for one node:
//
//	visual := style.ResolveNode(node, theme, style.Interaction{})
//
// Generate DOT and rasterize it:
//
//	src := dot.ToDOT(snap, dot.Options{Theme: theme})
//	svg, _ := dot.RenderSVG(ctx, src)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/core/sim/...  # Specific package
//	go test -run Example        # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/core
// [core/sim]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/core/sim
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/core/layout
// [core/style]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/core/style
// [core/timeline]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/core/timeline
// [core/zone]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/core/zone
// [graph]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/graph
// [playback]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/playback
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/render/dot
// [cache]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/pulsegraph/pkg/observability
package pkg
