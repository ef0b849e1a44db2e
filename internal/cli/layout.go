package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pulsegraph/pkg/graph"
	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := playback.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a graph",
		Long: `Compute node positions for a graph.

The layout command runs the force simulation to rest and writes the resulting
snapshot: every node with its final coordinates, ready for 'export' or for an
interactive surface. No sequence is played.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for the initial node placement")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", opts.Ticks, "number of simulation ticks for the batch layout")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute the layout, ignoring cached positions")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes the snapshot.
func (c *CLI) runLayout(ctx context.Context, input string, opts playback.Options, output string, noCache bool) error {
	raw, err := readInput(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	data, err := graph.UnmarshalData(raw)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	opts.Data = data
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := runner.Build(opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, st, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}

	if err := graph.WriteSnapshotFile(graph.TakeSnapshot(st), outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(st.NodeCount(), st.LinkCount(), 0, cacheHit)
	printNewline()
	printNextStep("Render", "pulsegraph export "+outputPath)

	return nil
}
