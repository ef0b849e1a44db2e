package layout

import (
	"math"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
)

// Auto-fit tuning.
const (
	// FitMargin is the padding kept between the fitted graph and the
	// viewport edge.
	FitMargin = 40.0

	// MinFitSpan substitutes for a degenerate (zero-size) bounding box
	// axis so fitting never divides by zero.
	MinFitSpan = 1.0

	// MaxFitScale caps how far a small graph is blown up to fill the
	// viewport.
	MaxFitScale = 2.0
)

// Rect is an axis-aligned bounding box in layout space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the box midpoint.
func (r Rect) Center() (x, y float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Bounds computes the bounding box of the given nodes, skipping unplaced
// (NaN) positions. ok is false when no placed node exists.
func Bounds(nodes []*sim.Node) (r Rect, ok bool) {
	r = Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			continue
		}
		r.MinX = math.Min(r.MinX, n.X)
		r.MinY = math.Min(r.MinY, n.Y)
		r.MaxX = math.Max(r.MaxX, n.X)
		r.MaxY = math.Max(r.MaxY, n.Y)
		ok = true
	}
	return r, ok
}

// FitToViewport translates and uniformly scales all node positions so the
// graph's bounding box is centered in the viewport with a margin. Pinned
// coordinates are transformed along with the positions they mirror. An
// empty state is left untouched; a zero-size bounding box falls back to
// [MinFitSpan] per axis.
func (e *Engine) FitToViewport() {
	nodes := e.st.Nodes()
	box, ok := Bounds(nodes)
	if !ok {
		return
	}

	w := math.Max(box.Width(), MinFitSpan)
	h := math.Max(box.Height(), MinFitSpan)
	scale := math.Min((e.width-2*FitMargin)/w, (e.height-2*FitMargin)/h)
	scale = math.Min(math.Max(scale, 0), MaxFitScale)

	bx, by := box.Center()
	for _, n := range nodes {
		n.X = (n.X-bx)*scale + e.cx
		n.Y = (n.Y-by)*scale + e.cy
		if n.FX != nil {
			fx := (*n.FX-bx)*scale + e.cx
			n.FX = &fx
		}
		if n.FY != nil {
			fy := (*n.FY-by)*scale + e.cy
			n.FY = &fy
		}
	}
}
