package layout

import "fmt"

// Default force and cooling parameters. These are deliberately close to the
// values interactive force-graph tools have converged on; they produce
// readable layouts for diagrams up to a few hundred nodes.
const (
	// DefaultAlpha is the initial simulation temperature.
	DefaultAlpha = 1.0

	// DefaultAlphaMin is the temperature below which the simulation is
	// considered settled.
	DefaultAlphaMin = 0.001

	// DefaultAlphaDecay moves alpha toward its target each tick. At this
	// rate a fresh simulation cools to AlphaMin in roughly 300 ticks.
	DefaultAlphaDecay = 0.0228

	// DefaultVelocityDecay is the fraction of velocity shed each tick.
	DefaultVelocityDecay = 0.4

	// DefaultRepulsion is the magnitude of the pairwise repulsion force.
	DefaultRepulsion = 30.0

	// DefaultLinkDistance is the rest length links are pulled toward.
	DefaultLinkDistance = 30.0

	// DefaultCenterStrength scales the per-tick correction of the mean
	// position toward the viewport anchor.
	DefaultCenterStrength = 1.0

	// DefaultNodeRadius is the render radius used for collision; the
	// enforced minimum separation between two nodes is twice this value.
	DefaultNodeRadius = 10.0

	// DefaultCollideStrength scales how much of an overlap is corrected
	// per tick.
	DefaultCollideStrength = 1.0

	// DefaultDragAlphaTarget is the temperature target held while a drag
	// is in progress, keeping the layout responsive around the pointer.
	DefaultDragAlphaTarget = 0.3

	// DefaultFrozenTicks is the number of up-front iterations for frozen
	// (thumbnail) layouts.
	DefaultFrozenTicks = 300

	// DefaultWidth is the default viewport width.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height.
	DefaultHeight = 600.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// Config tunes the force simulation. The zero value is usable: New replaces
// unset fields with the package defaults.
type Config struct {
	Alpha           float64 `json:"alpha,omitempty" toml:"alpha"`
	AlphaMin        float64 `json:"alpha_min,omitempty" toml:"alpha_min"`
	AlphaDecay      float64 `json:"alpha_decay,omitempty" toml:"alpha_decay"`
	AlphaTarget     float64 `json:"alpha_target,omitempty" toml:"alpha_target"`
	VelocityDecay   float64 `json:"velocity_decay,omitempty" toml:"velocity_decay"`
	Repulsion       float64 `json:"repulsion,omitempty" toml:"repulsion"`
	LinkDistance    float64 `json:"link_distance,omitempty" toml:"link_distance"`
	CenterStrength  float64 `json:"center_strength,omitempty" toml:"center_strength"`
	NodeRadius      float64 `json:"node_radius,omitempty" toml:"node_radius"`
	CollideStrength float64 `json:"collide_strength,omitempty" toml:"collide_strength"`
	DragAlphaTarget float64 `json:"drag_alpha_target,omitempty" toml:"drag_alpha_target"`
	FrozenTicks     int     `json:"frozen_ticks,omitempty" toml:"frozen_ticks"`
	Width           float64 `json:"width,omitempty" toml:"width"`
	Height          float64 `json:"height,omitempty" toml:"height"`
	Seed            uint64  `json:"seed,omitempty" toml:"seed"`
}

// ValidateAndSetDefaults checks bounds and applies defaults for unset fields.
// This method is idempotent.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Alpha == 0 {
		c.Alpha = DefaultAlpha
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = DefaultAlphaMin
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = DefaultAlphaDecay
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = DefaultVelocityDecay
	}
	if c.Repulsion == 0 {
		c.Repulsion = DefaultRepulsion
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = DefaultLinkDistance
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = DefaultCenterStrength
	}
	if c.NodeRadius == 0 {
		c.NodeRadius = DefaultNodeRadius
	}
	if c.CollideStrength == 0 {
		c.CollideStrength = DefaultCollideStrength
	}
	if c.DragAlphaTarget == 0 {
		c.DragAlphaTarget = DefaultDragAlphaTarget
	}
	if c.FrozenTicks == 0 {
		c.FrozenTicks = DefaultFrozenTicks
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}

	if c.AlphaDecay < 0 || c.AlphaDecay > 1 {
		return fmt.Errorf("alpha_decay must be in [0, 1], got %v", c.AlphaDecay)
	}
	if c.VelocityDecay < 0 || c.VelocityDecay > 1 {
		return fmt.Errorf("velocity_decay must be in [0, 1], got %v", c.VelocityDecay)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("viewport dimensions must be positive, got %vx%v", c.Width, c.Height)
	}
	return nil
}
