// Package playback provides the batch pipeline for Pulsegraph.
//
// This package implements the complete build → layout → run → export
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Build: Validate the wire graph and materialize simulation state
//  2. Layout: Compute node positions with the force simulation
//  3. Run: Compile the event sequence and play it on a virtual clock
//  4. Export: Generate output in various formats (JSON, DOT, SVG, PNG)
//
// The run and export stages are optional: without a sequence the result is
// the laid-out graph, and without formats no artifacts are produced beyond
// the snapshot.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := playback.NewRunner(cache, nil, logger)
//	opts := playback.Options{
//	    Data:     data,
//	    Theme:    &theme,
//	    Sequence: &seq,
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package playback

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pulsegraph/pkg/cache"
	"github.com/matzehuels/pulsegraph/pkg/core/layout"
	"github.com/matzehuels/pulsegraph/pkg/core/style"
	"github.com/matzehuels/pulsegraph/pkg/core/timeline"
	apperrors "github.com/matzehuels/pulsegraph/pkg/errors"
	"github.com/matzehuels/pulsegraph/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = layout.DefaultSeed

	// DefaultTicks is the default number of layout iterations for the
	// batch (frozen) layout.
	DefaultTicks = layout.DefaultFrozenTicks

	// DefaultStep is the default virtual clock increment in seconds.
	// Sixty steps per playback second matches the interactive frame rate.
	DefaultStep = 1.0 / 60.0

	// DefaultEngine is the default Graphviz layout engine for exports.
	DefaultEngine = "dot"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidEngines is the set of supported Graphviz layout engines.
// "dot" draws zones as clusters; "neato" honors simulated positions.
var ValidEngines = map[string]bool{
	"dot":   true,
	"neato": true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the playback pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options
	Data     graph.Data         `json:"data"`
	Theme    *style.Theme       `json:"theme,omitempty"`
	Sequence *timeline.Sequence `json:"sequence,omitempty"`
	Overlay  *graph.OverlayData `json:"overlay,omitempty"`

	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Seed   uint64  `json:"seed,omitempty"`
	Ticks  int     `json:"ticks,omitempty"`

	// Playback options
	Step    float64 `json:"step,omitempty"`
	Refresh bool    `json:"refresh,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`
	Engine  string   `json:"engine,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger `json:"-"`
	Realtime bool        `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Snapshot is the flattened final state after layout and playback.
	Snapshot graph.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LinkCount  int
	Events     int
	LayoutTime time.Duration
	RunTime    time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout positions came from cache
	RunHit    bool // Whether the final snapshot came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a Graphviz layout engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return apperrors.New(apperrors.ErrCodeInvalidEngine, "invalid engine: %q (must be one of: dot, neato)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all inputs and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetPlaybackDefaults()
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks the wire inputs: graph data, theme, sequence, and
// overlay references.
func (o *Options) ValidateForBuild() error {
	if err := graph.ValidateData(o.Data); err != nil {
		return err
	}
	if o.Theme != nil {
		if err := graph.ValidateTheme(*o.Theme); err != nil {
			return err
		}
	}
	if o.Sequence != nil {
		if err := graph.ValidateSequence(*o.Sequence); err != nil {
			return err
		}
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Ticks == 0 {
		o.Ticks = DefaultTicks
	}
}

// SetPlaybackDefaults sets default values for the virtual clock.
func (o *Options) SetPlaybackDefaults() {
	if o.Step <= 0 {
		o.Step = DefaultStep
	}
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateEngine(o.Engine)
}

// HasSequence returns true if a sequence should be played.
func (o *Options) HasSequence() bool {
	return o.Sequence != nil && len(o.Sequence.Steps) > 0
}

// ThemeOrEmpty returns the configured theme, or an empty theme when none
// was supplied.
func (o *Options) ThemeOrEmpty() style.Theme {
	if o.Theme != nil {
		return *o.Theme
	}
	return style.Theme{}
}

// LayoutConfig returns the force simulation configuration for these options.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		Width:       o.Width,
		Height:      o.Height,
		Seed:        o.Seed,
		FrozenTicks: o.Ticks,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Seed:   o.Seed,
		Ticks:  o.Ticks,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Engine: o.Engine,
	}
}
