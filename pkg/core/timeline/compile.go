package timeline

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
	"github.com/matzehuels/pulsegraph/pkg/core/style"
)

// Packet and pulse defaults used when the theme does not override them.
const (
	DefaultPacketColor  = "#60a5fa"
	DefaultPacketRadius = 4.0

	DefaultPulseScale    = 1.5
	DefaultPulseDuration = 0.3
)

// Event is one timed mutation: Apply commits an active-state append at
// absolute offset At from the program start.
type Event struct {
	At    float64
	Label string
	Apply func()
}

// Flight is the cosmetic packet visual for one atomic step: a marker
// leaving the source node at Start and reaching the target at
// Start+Duration. Rendering surfaces interpolate it; it carries no state.
type Flight struct {
	From      string
	To        string
	Start     float64
	Duration  float64
	Color     string
	Radius    float64
	LinkStyle string
	Label     string
}

// Pulse is the cosmetic scale effect on a node when a packet departs or
// arrives.
type Pulse struct {
	NodeID   string
	At       float64
	Scale    float64
	Duration float64
}

// Program is a compiled sequence: mutation events sorted by offset, the
// cosmetic flight and pulse specs, and the total span.
type Program struct {
	Events  []Event
	Flights []Flight
	Pulses  []Pulse
	Total   float64
}

// Compile flattens a sequence over the given state and theme into a
// Program. Resolution happens now: steps referencing ids absent from the
// state contribute nothing, and captured node/link records are committed
// against directly when events fire.
func Compile(st *sim.State, theme style.Theme, seq Sequence) *Program {
	p := &Program{}
	at := 0.0
	for _, step := range seq.Steps {
		at += compileAction(p, st, theme, step, at)
	}
	p.Total = at
	slices.SortStableFunc(p.Events, func(a, b Event) int {
		return cmp.Compare(a.At, b.At)
	})
	return p
}

// CompileOne compiles a single action in isolation, started immediately.
// Used for single-step preview.
func CompileOne(st *sim.State, theme style.Theme, a Action) *Program {
	return Compile(st, theme, Sequence{Steps: []Action{a}})
}

// compileAction appends the action's events to p, with the action's
// sub-timeline starting delay units after start. It returns the action's
// full span including its own delay.
func compileAction(p *Program, st *sim.State, theme style.Theme, a Action, start float64) float64 {
	t0 := start + a.Delay
	if a.IsParallel() {
		span := 0.0
		for _, child := range a.Steps {
			span = max(span, compileAction(p, st, theme, child, t0))
		}
		return a.Delay + span
	}
	return a.Delay + compileAtomic(p, st, theme, a, t0)
}

// compileAtomic appends one atomic step's flight, pulses, and staged
// mutations. It returns the step's span from t0: travel alone, or travel
// plus the staged processing/final offsets when those mutations exist.
func compileAtomic(p *Program, st *sim.State, theme style.Theme, a Action, t0 float64) float64 {
	src, tgt := st.Node(a.From), st.Node(a.To)
	if src == nil || tgt == nil {
		// Unresolvable endpoints make the whole unit a silent no-op.
		return 0
	}
	link := st.Link(a.From, a.To)
	dur := travelDuration(a, theme)

	p.Flights = append(p.Flights, buildFlight(a, theme, t0, dur))
	p.Pulses = append(p.Pulses,
		Pulse{NodeID: a.From, At: t0, Scale: DefaultPulseScale, Duration: DefaultPulseDuration},
		buildArrivalPulse(a, theme, t0+dur),
	)

	linkTag, targetTag := a.LinkStyle, a.TargetNodeState
	p.Events = append(p.Events, Event{
		At:    t0 + dur,
		Label: fmt.Sprintf("%s -> %s arrive", a.From, a.To),
		Apply: func() {
			if linkTag != "" && link != nil {
				link.AddState(linkTag)
			}
			if targetTag != "" {
				tgt.AddState(targetTag)
			}
		},
	})

	span := dur
	if a.ProcessingNodeState == "" && a.FinalNodeState == "" {
		return span
	}

	// The processing stage offsets the final one even when it commits no
	// tag of its own.
	dp := orDefault(a.DurationProcessing, DefaultStageDuration)
	if tag := a.ProcessingNodeState; tag != "" {
		p.Events = append(p.Events, Event{
			At:    t0 + dur + dp,
			Label: fmt.Sprintf("%s -> %s processing", a.From, a.To),
			Apply: func() { tgt.AddState(tag) },
		})
		span = dur + dp
	}
	if tag := a.FinalNodeState; tag != "" {
		df := orDefault(a.DurationFinal, DefaultStageDuration)
		p.Events = append(p.Events, Event{
			At:    t0 + dur + dp + df,
			Label: fmt.Sprintf("%s -> %s final", a.From, a.To),
			Apply: func() { tgt.AddState(tag) },
		})
		span = dur + dp + df
	}
	return span
}

// travelDuration picks the packet travel time: the step's explicit
// duration wins, then the link style's configured travel duration, then
// the package default.
func travelDuration(a Action, theme style.Theme) float64 {
	if a.Duration != nil {
		return *a.Duration
	}
	if a.LinkStyle != "" {
		if d, ok := theme.TravelDuration(a.LinkStyle); ok {
			return d
		}
	}
	return DefaultTravelDuration
}

func buildFlight(a Action, theme style.Theme, start, dur float64) Flight {
	f := Flight{
		From:      a.From,
		To:        a.To,
		Start:     start,
		Duration:  dur,
		Color:     DefaultPacketColor,
		Radius:    DefaultPacketRadius,
		LinkStyle: a.LinkStyle,
		Label:     a.Label,
	}
	if a.LinkStyle != "" {
		if s, ok := theme.LinkStyle(a.LinkStyle); ok && s.Animation != nil {
			if s.Animation.PacketColor != "" {
				f.Color = s.Animation.PacketColor
			}
			if s.Animation.PacketRadius != nil {
				f.Radius = *s.Animation.PacketRadius
			}
		}
	}
	return f
}

func buildArrivalPulse(a Action, theme style.Theme, at float64) Pulse {
	p := Pulse{NodeID: a.To, At: at, Scale: DefaultPulseScale, Duration: DefaultPulseDuration}
	if a.TargetNodeState != "" {
		if s, ok := theme.NodeStyle(a.TargetNodeState); ok && s.Animation != nil {
			if s.Animation.PulseScale != nil {
				p.Scale = *s.Animation.PulseScale
			}
			if s.Animation.PulseDuration != nil {
				p.Duration = *s.Animation.PulseDuration
			}
		}
	}
	return p
}
