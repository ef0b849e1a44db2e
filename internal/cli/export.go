package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pulsegraph/pkg/graph"
	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// exportCommand creates the export command for rendering stored snapshots.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		inputs     inputFlags
		formatsStr string
		output     string
		noCache    bool
	)
	opts := playback.Options{}

	cmd := &cobra.Command{
		Use:   "export [snapshot.json]",
		Short: "Render a stored snapshot to DOT, SVG, or PNG",
		Long: `Render a stored snapshot to DOT, SVG, or PNG.

The export command takes a snapshot file (produced by 'layout' or by 'play'
with -f json) and renders it without recomputing anything. The theme cascade
resolves every node and link visual the same way the other surfaces do, so
exports always match what an interactive session shows.

Use 'play' to go directly from graph.json to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := playback.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := inputs.apply(cmd.Context(), &opts); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	inputs.register(cmd)

	// Export flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().StringVar(&opts.Engine, "engine", opts.Engine, "Graphviz engine: dot (default), neato")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render, ignoring cached artifacts")

	return cmd
}

// runExport loads the snapshot and renders it.
func (c *CLI) runExport(ctx context.Context, input string, opts playback.Options, output string, noCache bool) error {
	raw, err := readInput(ctx, input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	snap, err := graph.UnmarshalSnapshot(raw)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering snapshot...")
	spinner.Start()

	artifacts, cacheHit, err := runner.ExportWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return fmt.Errorf("export: %w", err)
	}
	spinner.Stop()

	printSuccess("Export complete")
	if err := writeArtifacts(artifacts, opts.Formats, basePath(output, input), output); err != nil {
		return err
	}
	printStats(len(snap.Nodes), len(snap.Links), 0, cacheHit)
	return nil
}
