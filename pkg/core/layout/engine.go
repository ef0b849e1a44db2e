package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
)

// Phyllotaxis placement constants for nodes that arrive without coordinates.
// Spiraling new nodes outward from the anchor gives the solver a
// deterministic, collision-free starting arrangement.
const initialRadius = 10.0

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Engine is the force-directed position solver. It owns the kinematic
// fields of every node in its state and refines them one discrete
// integration step per Tick.
//
// Engine is not safe for concurrent use; all calls must come from the
// single cooperative thread that owns the simulation state.
type Engine struct {
	st  *sim.State
	cfg Config

	alpha       float64
	alphaTarget float64
	frozen      bool

	// cx, cy is the centering anchor, kept at the viewport midpoint.
	cx, cy        float64
	width, height float64

	rng       *rand.Rand
	degrees   map[string]int
	consumers []func(*sim.State)
}

// New builds an engine over st, applies cfg defaults, and places any node
// without coordinates (NaN position) on a deterministic phyllotaxis spiral
// around the viewport anchor.
func New(st *sim.State, cfg Config) (*Engine, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	e := &Engine{
		st:          st,
		cfg:         cfg,
		alpha:       cfg.Alpha,
		alphaTarget: cfg.AlphaTarget,
		width:       cfg.Width,
		height:      cfg.Height,
		cx:          cfg.Width / 2,
		cy:          cfg.Height / 2,
		rng:         rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xdeadbeef)),
	}
	e.placeUnplaced()
	return e, nil
}

// OnTick registers a consumer invoked with the state after every applied
// tick, for redraw and for the zone/label overlay.
func (e *Engine) OnTick(fn func(*sim.State)) {
	e.consumers = append(e.consumers, fn)
}

// Alpha returns the current simulation temperature.
func (e *Engine) Alpha() float64 { return e.alpha }

// Settled reports whether the simulation has cooled below AlphaMin and no
// interaction is holding the target temperature up.
func (e *Engine) Settled() bool {
	return e.alpha < e.cfg.AlphaMin && e.alphaTarget < e.cfg.AlphaMin
}

// Frozen reports whether the engine has permanently stopped.
func (e *Engine) Frozen() bool { return e.frozen }

// Reheat raises the simulation temperature so the layout re-converges
// after an external topology change. A frozen engine stays frozen.
func (e *Engine) Reheat(alpha float64) {
	e.alpha = math.Max(e.alpha, math.Min(alpha, 1))
}

// Tick applies one discrete integration step of the accumulated forces to
// all unpinned nodes and emits the updated state to registered consumers.
// It reports whether the step ran; a settled or frozen engine returns
// false without touching any position, so calling it repeatedly is
// harmless.
func (e *Engine) Tick() bool {
	if e.frozen || e.Settled() {
		return false
	}
	e.placeUnplaced()
	e.buildDegrees()

	e.alpha += (e.alphaTarget - e.alpha) * e.cfg.AlphaDecay

	e.applyRepulsion()
	e.applyLinks()
	e.applyCenter()
	e.applyCollision()
	e.integrate()

	e.emit()
	return true
}

// TickN runs up to n ticks, stopping early once settled.
func (e *Engine) TickN(n int) {
	for range n {
		if !e.Tick() {
			return
		}
	}
}

// RunFrozen runs the configured number of up-front iterations, permanently
// stops the simulation, and fits the result into the viewport. Used for
// non-interactive thumbnails.
func (e *Engine) RunFrozen() {
	e.TickN(e.cfg.FrozenTicks)
	e.frozen = true
	e.FitToViewport()
}

// Resize updates the viewport and recenters the centering force's target.
// Pinned positions are never discarded.
func (e *Engine) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
	e.cx, e.cy = width/2, height/2
}

// DragStart pins the node at its current position and reheats the
// simulation so neighbors keep adjusting around the pointer. It reports
// whether the node exists; dragging an unknown id is a no-op.
func (e *Engine) DragStart(id string) bool {
	n := e.st.Node(id)
	if n == nil {
		return false
	}
	n.Pin(n.X, n.Y)
	e.alphaTarget = e.cfg.DragAlphaTarget
	e.Reheat(e.cfg.DragAlphaTarget)
	return true
}

// DragMove re-pins the dragged node to the pointer position.
func (e *Engine) DragMove(id string, x, y float64) {
	if n := e.st.Node(id); n != nil {
		n.Pin(x, y)
	}
}

// DragEnd finishes a drag and lets the simulation cool back down. When
// keepPinned is false the node is released to the forces; when true the
// pin set during the drag is retained.
func (e *Engine) DragEnd(id string, keepPinned bool) {
	e.alphaTarget = e.cfg.AlphaTarget
	n := e.st.Node(id)
	if n == nil {
		return
	}
	if !keepPinned {
		n.Unpin()
	}
}

// integrate advances positions by the decayed velocities. Pinned nodes
// snap to their pinned coordinate with zero velocity.
func (e *Engine) integrate() {
	retain := 1 - e.cfg.VelocityDecay
	for _, n := range e.st.Nodes() {
		if n.FX != nil {
			n.X = *n.FX
			n.VX = 0
		} else {
			n.VX *= retain
			n.X += n.VX
		}
		if n.FY != nil {
			n.Y = *n.FY
			n.VY = 0
		} else {
			n.VY *= retain
			n.Y += n.VY
		}
	}
}

func (e *Engine) emit() {
	for _, fn := range e.consumers {
		fn(e.st)
	}
}

// placeUnplaced assigns spiral positions to nodes whose coordinates are
// NaN, the marker for "no position supplied on ingestion".
func (e *Engine) placeUnplaced() {
	for i, n := range e.st.Nodes() {
		if !math.IsNaN(n.X) && !math.IsNaN(n.Y) {
			continue
		}
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		n.X = e.cx + radius*math.Cos(angle)
		n.Y = e.cy + radius*math.Sin(angle)
		n.VX, n.VY = 0, 0
	}
}

// buildDegrees refreshes the per-node link counts used by the degree bias
// of the link force. Recomputed every tick because the external editing
// collaborator may change topology between ticks.
func (e *Engine) buildDegrees() {
	e.degrees = make(map[string]int, e.st.NodeCount())
	for _, l := range e.st.Links() {
		e.degrees[l.Source.ID]++
		e.degrees[l.Target.ID]++
	}
}

// jiggle returns a tiny deterministic offset used to separate exactly
// coincident points before computing a direction between them.
func (e *Engine) jiggle() float64 {
	return (e.rng.Float64() - 0.5) * 1e-6
}
