package cli

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pulsegraph/pkg/graph"
	"github.com/matzehuels/pulsegraph/pkg/httputil"
	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// playCommand creates the play command for running the full pipeline.
func (c *CLI) playCommand() *cobra.Command {
	var (
		inputs     inputFlags
		formatsStr string
		output     string
		noCache    bool
	)
	opts := playback.Options{}

	cmd := &cobra.Command{
		Use:   "play [graph.json]",
		Short: "Lay out a graph, play a sequence over it, and export the result",
		Long: `Lay out a graph, play a sequence over it, and export the result.

The play command runs the complete pipeline: it positions the nodes with the
force simulation, plays the event sequence on a virtual clock so every state
mutation commits, and renders the final state in the requested formats.

Without --sequence the command exports the laid-out graph unchanged. With
--realtime the sequence is driven by the wall clock instead of the virtual
one, so events fire at their actual offsets.

The graph argument and the input flags accept local paths or http(s) URLs.
Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := playback.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := inputs.apply(cmd.Context(), &opts); err != nil {
				return err
			}
			return c.runPlay(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	inputs.register(cmd)

	// Layout flags
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for the initial node placement")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", opts.Ticks, "number of simulation ticks for the batch layout")

	// Playback flags
	cmd.Flags().Float64Var(&opts.Step, "step", opts.Step, "virtual clock increment in seconds")
	cmd.Flags().BoolVar(&opts.Realtime, "realtime", false, "drive the sequence on the wall clock")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute every stage, ignoring cached results")

	// Export flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().StringVar(&opts.Engine, "engine", opts.Engine, "Graphviz engine: dot (default), neato")

	return cmd
}

// runPlay loads the graph, executes the pipeline, and writes artifacts.
func (c *CLI) runPlay(ctx context.Context, input string, opts playback.Options, output string, noCache bool) error {
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

	label := "Laying out graph..."
	if opts.HasSequence() {
		label = fmt.Sprintf("Playing %s...", opts.Sequence.Name)
	}
	spinner := newSpinnerWithContext(ctx, label)
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Playback failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Playback complete")
	if err := writeArtifacts(result.Artifacts, opts.Formats, basePath(output, input), output); err != nil {
		return err
	}
	printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.Stats.Events, result.CacheInfo.RunHit)
	return nil
}

// basePath derives the output base path: an explicit output wins, otherwise
// the input filename without its extension. URL inputs keep only the last
// path segment so artifacts land in the working directory.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if httputil.IsURL(input) {
		input = path.Base(input)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// writeArtifacts writes each rendered format to disk. A single format with
// an explicit output path goes exactly there; everything else derives
// base.format names.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}

		path := fmt.Sprintf("%s.%s", base, format)
		if output != "" && len(formats) == 1 {
			path = output
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
