// Package timeline turns a declarative event sequence into precisely
// timed state mutations and packet-travel visuals.
//
// # Overview
//
// A [Sequence] scripts an animation over a diagram: an ordered list of
// steps, each either an atomic signal from one node to another or a
// parallel group of steps. The package compiles the step tree into a flat
// [Program] of (absolute offset, mutation callback) pairs plus cosmetic
// flight and pulse specs, and a [Scheduler] replays the program on a
// virtual clock. No animation runtime is involved; timing semantics are
// plain arithmetic and fully testable.
//
// # Compilation
//
// Each action compiles to a sub-timeline whose local clock starts at its
// delay after the parent's start:
//
//   - An atomic step emits a packet flight from source to target over its
//     travel duration. The travel duration is the step's explicit
//     duration if set, else the travel duration configured on the link
//     style's animation, else [DefaultTravelDuration]. At travel time the
//     primary mutation commits atomically: the link-style tag is appended
//     to the traversed link and the target-state tag to the target node.
//     Optional processing and final stages commit one stage duration
//     apiece after that, each defaulting to [DefaultStageDuration].
//   - A parallel group starts every child at the same local time; its
//     span is the maximum child span.
//   - Top-level steps run back-to-back: step k+1 starts exactly when step
//     k's full sub-timeline, delay and staged phases included, completes.
//
// An atomic step whose source or target id is absent from the state
// compiles to nothing: no mutation, no visual, zero span. The sequence
// around it proceeds untouched.
//
// # Scheduling
//
// [Scheduler.Advance] moves the virtual clock forward and fires every
// due callback in offset order, each exactly once, no matter how coarse
// or uneven the advance steps are. Frame rate and rendering backpressure
// therefore cannot skip or double-apply a mutation. Flight and pulse
// specs never gate mutations; they exist only for rendering surfaces to
// interpolate.
//
// # Playback
//
// [Player] owns at most one full-sequence run over a state. Starting a
// new run supersedes a run in progress: pending callbacks are discarded,
// every node and link active-state list is cleared, and the new
// sequence's init tags are applied before its first frame.
// [Player.Preview] compiles a single action in isolation on an
// independent scheduler, without touching the main run.
package timeline
