package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/pulsegraph/pkg/core/style"
	"github.com/matzehuels/pulsegraph/pkg/core/timeline"
	"github.com/matzehuels/pulsegraph/pkg/core/zone"
)

// =============================================================================
// Theme and Sequence Inputs
// =============================================================================

// UnmarshalTheme deserializes JSON bytes into a theme.
func UnmarshalTheme(data []byte) (style.Theme, error) {
	var t style.Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return style.Theme{}, fmt.Errorf("unmarshal theme: %w", err)
	}
	return t, nil
}

// ReadThemeFile reads a theme from a JSON file.
func ReadThemeFile(path string) (style.Theme, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return style.Theme{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalTheme(raw)
}

// UnmarshalSequence deserializes JSON bytes into an event sequence.
func UnmarshalSequence(data []byte) (timeline.Sequence, error) {
	var seq timeline.Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return timeline.Sequence{}, fmt.Errorf("unmarshal sequence: %w", err)
	}
	return seq, nil
}

// ReadSequenceFile reads an event sequence from a JSON file.
func ReadSequenceFile(path string) (timeline.Sequence, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return timeline.Sequence{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalSequence(raw)
}

// =============================================================================
// Overlay Input (zones and labels)
// =============================================================================

// OverlayData is the wire shape for the spatial overlay: zones and free
// labels.
type OverlayData struct {
	Zones  []zone.Zone  `json:"zones,omitempty"`
	Labels []zone.Label `json:"labels,omitempty"`
}

// ApplyOverlay registers the wire zones and labels on an overlay.
// Duplicate ids are skipped silently, first occurrence wins.
func ApplyOverlay(o *zone.Overlay, d OverlayData) {
	for i := range d.Zones {
		z := d.Zones[i]
		_ = o.AddZone(&z)
	}
	for i := range d.Labels {
		l := d.Labels[i]
		_ = o.AddLabel(&l)
	}
}

// UnmarshalOverlay deserializes JSON bytes into overlay data.
func UnmarshalOverlay(data []byte) (OverlayData, error) {
	var d OverlayData
	if err := json.Unmarshal(data, &d); err != nil {
		return OverlayData{}, fmt.Errorf("unmarshal overlay: %w", err)
	}
	return d, nil
}

// ReadOverlayFile reads overlay data from a JSON file.
func ReadOverlayFile(path string) (OverlayData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return OverlayData{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalOverlay(raw)
}
