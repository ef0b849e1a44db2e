package graph

import (
	"fmt"

	"github.com/matzehuels/pulsegraph/pkg/core/style"
	"github.com/matzehuels/pulsegraph/pkg/core/timeline"
	apperrors "github.com/matzehuels/pulsegraph/pkg/errors"
)

// =============================================================================
// Structural Validation - Collaborator Duty
// =============================================================================
//
// The engine's precondition is structurally valid input; these checks run
// in the CLI and the HTTP API before anything reaches the core packages.
// Failures carry INVALID_* codes so the API can map them to client errors.

// ValidateData checks wire graph data: node ids must be non-empty and
// unique, and link endpoints must reference declared nodes.
func ValidateData(d Data) error {
	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := apperrors.ValidateID(n.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidData, err, "node %d", i)
		}
		if seen[n.ID] {
			return apperrors.New(apperrors.ErrCodeInvalidData, "node %d: duplicate id %q", i, n.ID)
		}
		seen[n.ID] = true
	}
	for i, l := range d.Links {
		if l.Source == "" || l.Target == "" {
			return apperrors.New(apperrors.ErrCodeInvalidData, "link %d: source and target are required", i)
		}
		if !seen[l.Source] {
			return apperrors.New(apperrors.ErrCodeInvalidData, "link %d: unknown source %q", i, l.Source)
		}
		if !seen[l.Target] {
			return apperrors.New(apperrors.ErrCodeInvalidData, "link %d: unknown target %q", i, l.Target)
		}
	}
	return nil
}

// ValidateSequence checks an event sequence: atomic steps need both
// endpoints, parallel groups need children, and durations cannot be
// negative. Whether the referenced ids exist is not checked here; missing
// ids degrade to silent no-ops at run time.
func ValidateSequence(seq timeline.Sequence) error {
	if seq.Name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidSequence, "sequence name is required")
	}
	for i, init := range seq.InitNodes {
		if init.ID == "" {
			return apperrors.New(apperrors.ErrCodeInvalidSequence, "initNodes[%d]: id is required", i)
		}
		if init.State == "" {
			return apperrors.New(apperrors.ErrCodeInvalidSequence, "initNodes[%d]: nodeState is required", i)
		}
	}
	for i, a := range seq.Steps {
		if err := validateAction(a, fmt.Sprintf("steps[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateAction(a timeline.Action, path string) error {
	if a.Delay < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidSequence, "%s: delay cannot be negative", path)
	}
	if a.IsParallel() {
		if len(a.Steps) == 0 {
			return apperrors.New(apperrors.ErrCodeInvalidSequence, "%s: parallel step needs children", path)
		}
		for i, child := range a.Steps {
			if err := validateAction(child, fmt.Sprintf("%s.steps[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	}

	if a.From == "" || a.To == "" {
		return apperrors.New(apperrors.ErrCodeInvalidSequence, "%s: from and to are required", path)
	}
	for name, d := range map[string]*float64{
		"duration":           a.Duration,
		"durationProcessing": a.DurationProcessing,
		"durationFinal":      a.DurationFinal,
	} {
		if d != nil && *d < 0 {
			return apperrors.New(apperrors.ErrCodeInvalidSequence, "%s: %s cannot be negative", path, name)
		}
	}
	return nil
}

// ValidateTheme checks style definitions for out-of-range numerics.
// Unknown tag names are never an error; tags are an open set.
func ValidateTheme(t style.Theme) error {
	for tag, s := range t.NodeStyles {
		if s.Radius != nil && *s.Radius <= 0 {
			return apperrors.New(apperrors.ErrCodeInvalidTheme, "nodeStyles[%s]: radius must be positive", tag)
		}
		if s.StrokeWidth != nil && *s.StrokeWidth < 0 {
			return apperrors.New(apperrors.ErrCodeInvalidTheme, "nodeStyles[%s]: strokeWidth cannot be negative", tag)
		}
		if a := s.Animation; a != nil {
			if a.PulseDuration != nil && *a.PulseDuration < 0 {
				return apperrors.New(apperrors.ErrCodeInvalidTheme, "nodeStyles[%s]: pulseDuration cannot be negative", tag)
			}
		}
	}
	for tag, s := range t.LinkStyles {
		if s.Width != nil && *s.Width < 0 {
			return apperrors.New(apperrors.ErrCodeInvalidTheme, "linkStyles[%s]: width cannot be negative", tag)
		}
		if s.Opacity != nil && (*s.Opacity < 0 || *s.Opacity > 1) {
			return apperrors.New(apperrors.ErrCodeInvalidTheme, "linkStyles[%s]: opacity must be in [0, 1]", tag)
		}
		if a := s.Animation; a != nil {
			if a.PacketRadius != nil && *a.PacketRadius <= 0 {
				return apperrors.New(apperrors.ErrCodeInvalidTheme, "linkStyles[%s]: packetRadius must be positive", tag)
			}
			if a.TravelDuration != nil && *a.TravelDuration < 0 {
				return apperrors.New(apperrors.ErrCodeInvalidTheme, "linkStyles[%s]: travelDuration cannot be negative", tag)
			}
		}
	}
	return nil
}
