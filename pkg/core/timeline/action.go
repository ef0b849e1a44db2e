package timeline

// TypeParallel marks an action as a parallel group in the wire format.
// Any other value (conventionally empty or "atomic") means atomic.
const TypeParallel = "parallel"

// Default stage timings, in timeline time units.
const (
	// DefaultTravelDuration is the packet travel time when neither the
	// step nor the link style fixes one.
	DefaultTravelDuration = 1.0

	// DefaultStageDuration is the default spacing of the processing and
	// final mutation stages after arrival.
	DefaultStageDuration = 0.4
)

// Action is one step of an event sequence: a tagged union of an atomic
// signal and a parallel group, discriminated by Type. The JSON field
// names form the wire contract with the external editing collaborator.
type Action struct {
	// Type discriminates the union; TypeParallel selects the parallel
	// fields, anything else the atomic ones.
	Type string `json:"type,omitempty"`

	// Atomic: signal endpoints by node id.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// Label annotates the step for display and logging.
	Label string `json:"label,omitempty"`

	// LinkStyle is the tag appended to the traversed link on arrival,
	// and the key whose animation may supply the travel duration.
	LinkStyle string `json:"linkStyle,omitempty"`

	// Node-state tags appended at the arrival, processing, and final
	// stages. Empty tags skip their stage's mutation.
	TargetNodeState     string `json:"targetNodeState,omitempty"`
	ProcessingNodeState string `json:"processingNodeState,omitempty"`
	FinalNodeState      string `json:"finalNodeState,omitempty"`

	// Stage durations. Nil selects the default for that stage; an
	// explicit zero commits instantly.
	Duration           *float64 `json:"duration,omitempty"`
	DurationProcessing *float64 `json:"durationProcessing,omitempty"`
	DurationFinal      *float64 `json:"durationFinal,omitempty"`

	// Delay postpones this action's sub-timeline relative to its
	// parent's start.
	Delay float64 `json:"delay,omitempty"`

	// Parallel: child actions sharing this group's start time.
	Steps []Action `json:"steps,omitempty"`
}

// IsParallel reports whether the action is a parallel group.
func (a Action) IsParallel() bool { return a.Type == TypeParallel }

// InitNode seeds one node with a tag before playback starts.
type InitNode struct {
	ID    string `json:"id"`
	State string `json:"nodeState"`
}

// Sequence is the declarative animation script: optional init tags plus
// an ordered list of steps that run back-to-back.
type Sequence struct {
	Name      string     `json:"name"`
	InitNodes []InitNode `json:"initNodes,omitempty"`
	Steps     []Action   `json:"steps"`
}

// orDefault returns *p when set, def otherwise.
func orDefault(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}
