package playback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pulsegraph/pkg/cache"
	"github.com/matzehuels/pulsegraph/pkg/core/layout"
	"github.com/matzehuels/pulsegraph/pkg/core/sim"
	"github.com/matzehuels/pulsegraph/pkg/core/timeline"
	"github.com/matzehuels/pulsegraph/pkg/graph"
	"github.com/matzehuels/pulsegraph/pkg/observability"
	"github.com/matzehuels/pulsegraph/pkg/render/dot"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, each call working on its own state.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → run → export pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	st, err := r.Build(opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Stats.NodeCount = st.NodeCount()
	result.Stats.LinkCount = st.LinkCount()

	r.Logger.Info("built graph state",
		"run", result.RunID,
		"nodes", st.NodeCount(),
		"links", st.LinkCount())

	// Stage 2: Layout
	layoutStart := time.Now()
	layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, st, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"ticks", opts.Ticks,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Run (optional)
	if opts.HasSequence() {
		runStart := time.Now()
		snap, events, runHit, err := r.PlaySequenceWithCacheInfo(ctx, st, opts)
		if err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}
		result.Snapshot = snap
		result.Stats.Events = events
		result.Stats.RunTime = time.Since(runStart)
		result.CacheInfo.RunHit = runHit

		r.Logger.Info("played sequence",
			"sequence", opts.Sequence.Name,
			"events", events,
			"cached", runHit,
			"duration", result.Stats.RunTime)
	} else {
		result.Snapshot = graph.TakeSnapshot(st)
	}

	// Stage 4: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, result.Snapshot, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"cached", exportHit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Build validates the wire inputs and materializes simulation state.
func (r *Runner) Build(opts Options) (*sim.State, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	st := sim.NewState()
	graph.Apply(st, opts.Data)
	return st, nil
}

// ComputeLayoutWithCacheInfo positions the nodes of st, preferring cached
// positions, and reports whether the cache was hit.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, st *sim.State, opts Options) (bool, error) {
	opts.SetLayoutDefaults()

	start := time.Now()
	observability.Playback().OnLayoutStart(ctx, st.NodeCount())

	// Compute cache key from the wire data
	graphData, err := graph.MarshalData(opts.Data)
	if err != nil {
		return false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalSnapshot(data); err == nil {
				applyPositions(st, cached)
				observability.Cache().OnCacheHit(ctx, "layout")
				observability.Playback().OnLayoutComplete(ctx, st.NodeCount(), time.Since(start), nil)
				return true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Run the force simulation to rest
	eng, err := layout.New(st, opts.LayoutConfig())
	if err != nil {
		observability.Playback().OnLayoutComplete(ctx, st.NodeCount(), time.Since(start), err)
		return false, err
	}
	eng.RunFrozen()

	// Cache the resulting positions
	if data, err := graph.MarshalSnapshot(graph.TakeSnapshot(st)); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	observability.Playback().OnLayoutComplete(ctx, st.NodeCount(), time.Since(start), nil)
	return false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, st *sim.State, opts Options) error {
	_, err := r.ComputeLayoutWithCacheInfo(ctx, st, opts)
	return err
}

// PlaySequenceWithCacheInfo compiles and plays the configured sequence on a
// virtual clock, returning the final snapshot, the number of fired events,
// and whether the snapshot came from cache.
//
// Realtime runs bypass the cache on read: the point of a realtime run is to
// observe events as they fire.
func (r *Runner) PlaySequenceWithCacheInfo(ctx context.Context, st *sim.State, opts Options) (graph.Snapshot, int, bool, error) {
	if opts.Sequence == nil {
		return graph.TakeSnapshot(st), 0, false, nil
	}
	opts.SetPlaybackDefaults()
	if opts.Logger != nil {
		warnMissingEndpoints(opts.Logger, st, opts.Sequence.Steps)
	}
	theme := opts.ThemeOrEmpty()

	start := time.Now()
	observability.Playback().OnRunStart(ctx, opts.Sequence.Name, st.NodeCount())

	// The run key covers the laid-out positions, the theme, and the
	// sequence: identical triples produce identical snapshots.
	layoutData, err := graph.MarshalSnapshot(graph.TakeSnapshot(st))
	if err != nil {
		return graph.Snapshot{}, 0, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	themeData, _ := json.Marshal(theme)
	seqData, _ := json.Marshal(opts.Sequence)
	cacheKey := r.Keyer.RunKey(cache.Hash(layoutData), cache.Hash(themeData), cache.Hash(seqData))

	if !opts.Refresh && !opts.Realtime {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalSnapshot(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "run")
				observability.Playback().OnRunComplete(ctx, opts.Sequence.Name, 0, time.Since(start), nil)
				return cached, 0, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "run")
	}

	player := timeline.NewPlayer(st, theme)
	events := 0
	player.OnEvent(func(timeline.Event) { events++ })
	program := player.Play(*opts.Sequence)

	if opts.Realtime {
		if err := r.driveRealtime(ctx, player, opts.Step); err != nil {
			observability.Playback().OnRunComplete(ctx, opts.Sequence.Name, events, time.Since(start), err)
			return graph.Snapshot{}, events, false, err
		}
	} else {
		// A few extra steps absorb float accumulation at the boundary.
		maxSteps := int(program.Total/opts.Step) + 8
		for i := 0; i < maxSteps && player.Playing(); i++ {
			player.Advance(opts.Step)
		}
	}

	snap := graph.TakeSnapshot(st)
	if data, err := graph.MarshalSnapshot(snap); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLRun)
		observability.Cache().OnCacheSet(ctx, "run", len(data))
	}

	observability.Playback().OnRunComplete(ctx, opts.Sequence.Name, events, time.Since(start), nil)
	return snap, events, false, nil
}

// PlaySequence is a convenience wrapper that calls PlaySequenceWithCacheInfo
// and discards the cache hit info.
func (r *Runner) PlaySequence(ctx context.Context, st *sim.State, opts Options) (graph.Snapshot, int, error) {
	snap, events, _, err := r.PlaySequenceWithCacheInfo(ctx, st, opts)
	return snap, events, err
}

// ExportWithCacheInfo renders artifacts for snap with caching and returns
// cache hit info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	snapData, err := graph.MarshalSnapshot(snap)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	snapHash := cache.Hash(snapData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := r.renderFormats(ctx, snap, snapData, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Export(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// renderFormats produces every requested format from the snapshot.
func (r *Runner) renderFormats(ctx context.Context, snap graph.Snapshot, snapData []byte, opts Options) (map[string][]byte, error) {
	dotOpts := dot.Options{
		Theme:  opts.ThemeOrEmpty(),
		Engine: opts.Engine,
	}
	if opts.Overlay != nil {
		dotOpts.Overlay = *opts.Overlay
	}

	var dotStr string
	needsDOT := false
	for _, format := range opts.Formats {
		if format != FormatJSON {
			needsDOT = true
		}
	}
	if needsDOT {
		dotStr = dot.ToDOT(snap, dotOpts)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Playback().OnExportStart(ctx, format)

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data = snapData
		case FormatDOT:
			data = []byte(dotStr)
		case FormatSVG:
			data, err = dot.RenderSVG(ctx, dotStr)
		case FormatPNG:
			data, err = dot.RenderPNG(ctx, dotStr)
		}

		observability.Playback().OnExportComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// driveRealtime advances the player on a wall clock ticker until the run
// completes or the context is cancelled.
func (r *Runner) driveRealtime(ctx context.Context, p *timeline.Player, step float64) error {
	ticker := time.NewTicker(time.Duration(step * float64(time.Second)))
	defer ticker.Stop()

	for p.Playing() {
		select {
		case <-ctx.Done():
			p.Stop()
			return ctx.Err()
		case <-ticker.C:
			p.Advance(step)
		}
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// warnMissingEndpoints logs sequence steps that reference nodes absent from
// the graph. The compiler turns such steps into no-ops; the warning exists
// so sequence authors find the typo.
func warnMissingEndpoints(logger *log.Logger, st *sim.State, steps []timeline.Action) {
	for _, a := range steps {
		if a.IsParallel() {
			warnMissingEndpoints(logger, st, a.Steps)
			continue
		}
		if a.From != "" && st.Node(a.From) == nil {
			logger.Warn("sequence step references unknown node", "id", a.From)
		}
		if a.To != "" && st.Node(a.To) == nil {
			logger.Warn("sequence step references unknown node", "id", a.To)
		}
	}
}

// applyPositions copies cached coordinates onto matching live nodes and
// zeroes their velocity.
func applyPositions(st *sim.State, snap graph.Snapshot) {
	for _, sn := range snap.Nodes {
		if n := st.Node(sn.ID); n != nil {
			n.X, n.Y = sn.X, sn.Y
			n.VX, n.VY = 0, 0
		}
	}
}
