// Package cli implements the pulsegraph command-line interface.
//
// This package provides commands for laying out graphs, playing event
// sequences over them, exporting the results as JSON, DOT, SVG, or PNG,
// watching a playback interactively in the terminal, and serving the
// pipeline over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - play: Run the full layout, playback, and export pipeline
//   - layout: Compute node positions only and write a snapshot
//   - export: Render a stored snapshot to DOT, SVG, or PNG
//   - preview: Compile a sequence and print its event timetable
//   - watch: Play a sequence interactively with zone dragging
//   - serve: Expose the pipeline as an HTTP API
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pulsegraph/pkg/buildinfo"
	"github.com/matzehuels/pulsegraph/pkg/cache"
	"github.com/matzehuels/pulsegraph/pkg/graph"
	"github.com/matzehuels/pulsegraph/pkg/httputil"
	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// appName is the application name used for directories and display.
const appName = "pulsegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pulsegraph",
		Short:        "Pulsegraph animates event flows over force-directed graphs",
		Long:         `Pulsegraph lays out node-link graphs with a force simulation and plays declarative event sequences over them: packets travel along links, states accumulate on nodes, and the result exports to JSON, DOT, SVG, or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.playCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a playback runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*playback.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return playback.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pulsegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// inputFlags holds the optional input references shared by the pipeline
// commands. Each reference is a local path or an http(s) URL.
type inputFlags struct {
	theme    string
	sequence string
	overlay  string
}

// register adds the shared input flags to cmd.
func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.theme, "theme", "", "theme with node and link styles (JSON file or URL)")
	cmd.Flags().StringVar(&f.sequence, "sequence", "", "event sequence to play (JSON file or URL)")
	cmd.Flags().StringVar(&f.overlay, "overlay", "", "overlay with zones and labels (JSON file or URL)")
}

// apply loads the referenced inputs into opts.
func (f *inputFlags) apply(ctx context.Context, opts *playback.Options) error {
	if f.theme != "" {
		raw, err := readInput(ctx, f.theme)
		if err != nil {
			return err
		}
		theme, err := graph.UnmarshalTheme(raw)
		if err != nil {
			return err
		}
		opts.Theme = &theme
	}
	if f.sequence != "" {
		raw, err := readInput(ctx, f.sequence)
		if err != nil {
			return err
		}
		seq, err := graph.UnmarshalSequence(raw)
		if err != nil {
			return err
		}
		opts.Sequence = &seq
	}
	if f.overlay != "" {
		raw, err := readInput(ctx, f.overlay)
		if err != nil {
			return err
		}
		ov, err := graph.UnmarshalOverlay(raw)
		if err != nil {
			return err
		}
		opts.Overlay = &ov
	}
	return nil
}

// readInput resolves an input reference to raw bytes, fetching URLs over
// HTTP and reading everything else from disk.
func readInput(ctx context.Context, ref string) ([]byte, error) {
	if httputil.IsURL(ref) {
		return httputil.Fetch(ctx, nil, ref)
	}
	return os.ReadFile(ref)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{playback.FormatSVG}
	}
	return strings.Split(s, ",")
}
