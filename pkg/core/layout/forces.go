package layout

import "math"

// applyRepulsion pushes every node pair apart with inverse-square falloff.
// O(n²) over node pairs; diagrams this engine targets stay well below the
// size where an approximation tree would pay off.
func (e *Engine) applyRepulsion() {
	nodes := e.st.Nodes()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			l2 := dx*dx + dy*dy
			if l2 == 0 {
				dx, dy = e.jiggle(), e.jiggle()
				l2 = dx*dx + dy*dy
			}
			w := e.cfg.Repulsion * e.alpha / l2
			b.VX += dx * w
			b.VY += dy * w
			a.VX -= dx * w
			a.VY -= dy * w
		}
	}
}

// applyLinks pulls each link toward its rest length. The correction is
// split between the endpoints in proportion to their degrees, so hubs
// stay put and leaves swing toward them.
func (e *Engine) applyLinks() {
	for _, l := range e.st.Links() {
		src, tgt := l.Source, l.Target
		dx := tgt.X + tgt.VX - src.X - src.VX
		dy := tgt.Y + tgt.VY - src.Y - src.VY
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			dx, dy = e.jiggle(), e.jiggle()
			dist = math.Sqrt(dx*dx + dy*dy)
		}

		ds := float64(max(e.degrees[src.ID], 1))
		dt := float64(max(e.degrees[tgt.ID], 1))
		strength := 1 / math.Min(ds, dt)

		w := (dist - e.cfg.LinkDistance) / dist * e.alpha * strength
		dx *= w
		dy *= w

		bias := ds / (ds + dt)
		tgt.VX -= dx * bias
		tgt.VY -= dy * bias
		src.VX += dx * (1 - bias)
		src.VY += dy * (1 - bias)
	}
}

// applyCenter shifts the unpinned nodes so the mean position drifts toward
// the viewport anchor. Pinned nodes contribute to the mean but are never
// moved.
func (e *Engine) applyCenter() {
	nodes := e.st.Nodes()
	if len(nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	sx = (sx/float64(len(nodes)) - e.cx) * e.cfg.CenterStrength
	sy = (sy/float64(len(nodes)) - e.cy) * e.cfg.CenterStrength
	for _, n := range nodes {
		if n.Pinned() {
			continue
		}
		n.X -= sx
		n.Y -= sy
	}
}

// applyCollision resolves pairwise overlaps, enforcing a minimum
// separation of twice the render radius between node centers. The
// correction is split evenly because all nodes share one radius.
func (e *Engine) applyCollision() {
	nodes := e.st.Nodes()
	minSep := 2 * e.cfg.NodeRadius
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			dx := (b.X + b.VX) - (a.X + a.VX)
			dy := (b.Y + b.VY) - (a.Y + a.VY)
			l2 := dx*dx + dy*dy
			if l2 >= minSep*minSep {
				continue
			}
			dist := math.Sqrt(l2)
			if dist == 0 {
				dx, dy = e.jiggle(), e.jiggle()
				dist = math.Sqrt(dx*dx + dy*dy)
			}
			push := (minSep - dist) / dist * e.cfg.CollideStrength
			dx *= push / 2
			dy *= push / 2
			b.VX += dx
			b.VY += dy
			a.VX -= dx
			a.VY -= dy
		}
	}
}
