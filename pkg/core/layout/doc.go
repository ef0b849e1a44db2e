// Package layout implements the iterative force-directed position solver
// for pulsegraph diagrams.
//
// # Overview
//
// The [Engine] continuously refines the (x, y) position of every node in a
// [sim.State] so that connected nodes cluster, unconnected nodes repel,
// links tend toward a rest length, and nodes keep a readable separation.
// The solver is not physically accurate and does not try to be; it only
// has to settle into stable, non-overlapping positions.
//
// # Forces
//
// Four forces compose additively each iteration:
//
//   - pairwise repulsion between all node pairs, with inverse-square
//     distance falloff
//   - per-link attraction toward a configured rest length, biased by the
//     degree of each endpoint so hubs move less than leaves
//   - centering of the mean position toward the viewport anchor
//   - pairwise collision resolution enforcing a minimum separation of
//     twice the render radius
//
// # Cooling
//
// The simulation carries a temperature alpha that decays toward a target
// each tick. Force magnitudes scale with alpha, so the layout converges
// and eventually settles cold: once alpha drops below [Config.AlphaMin]
// (and no interaction holds the target up), [Engine.Tick] becomes a no-op.
// Interactions reheat the simulation by raising the target temporarily.
//
// # Pinning
//
// Nodes with a pinned position are never moved by forces but still anchor
// the forces acting on their neighbors. [Engine.DragStart] pins a node and
// reheats, [Engine.DragMove] follows the pointer, and [Engine.DragEnd]
// either releases the pin or keeps it, depending on the editing mode.
//
// # Frozen Mode
//
// For non-interactive thumbnails, [Engine.RunFrozen] runs a fixed number
// of iterations up front, permanently stops the simulation, and auto-fits
// the resulting bounding box into the viewport. A degenerate bounding box
// (zero nodes, or all nodes coincident) falls back to a minimum span
// instead of dividing by zero.
package layout
