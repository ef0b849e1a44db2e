package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
	"github.com/matzehuels/pulsegraph/pkg/core/style"
	"github.com/matzehuels/pulsegraph/pkg/core/timeline"
	"github.com/matzehuels/pulsegraph/pkg/graph"
)

// previewCommand creates the preview command for inspecting compiled
// sequences.
func (c *CLI) previewCommand() *cobra.Command {
	var inputs inputFlags

	cmd := &cobra.Command{
		Use:   "preview [graph.json]",
		Short: "Compile a sequence and print its event timetable",
		Long: `Compile a sequence and print its event timetable.

The preview command flattens the sequence against the graph without playing
it: every scheduled mutation is listed with its offset, along with the packet
flights and pulses the playback would show. Steps referencing unknown node
ids compile to nothing, which makes preview the quickest way to spot a typo
in a sequence file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputs.sequence == "" {
				return fmt.Errorf("preview requires --sequence")
			}
			opts := playbackInputs{}
			if err := c.loadPreviewInputs(cmd.Context(), args[0], inputs, &opts); err != nil {
				return err
			}
			return c.runPreview(opts)
		},
	}

	inputs.register(cmd)
	return cmd
}

// playbackInputs bundles the resolved preview inputs.
type playbackInputs struct {
	data  graph.Data
	theme style.Theme
	seq   timeline.Sequence
}

func (c *CLI) loadPreviewInputs(ctx context.Context, input string, inputs inputFlags, out *playbackInputs) error {
	raw, err := readInput(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	data, err := graph.UnmarshalData(raw)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if err := graph.ValidateData(data); err != nil {
		return err
	}
	out.data = data

	raw, err = readInput(ctx, inputs.sequence)
	if err != nil {
		return fmt.Errorf("load sequence %s: %w", inputs.sequence, err)
	}
	seq, err := graph.UnmarshalSequence(raw)
	if err != nil {
		return fmt.Errorf("load sequence %s: %w", inputs.sequence, err)
	}
	if err := graph.ValidateSequence(seq); err != nil {
		return err
	}
	out.seq = seq

	if inputs.theme != "" {
		raw, err = readInput(ctx, inputs.theme)
		if err != nil {
			return fmt.Errorf("load theme %s: %w", inputs.theme, err)
		}
		theme, err := graph.UnmarshalTheme(raw)
		if err != nil {
			return fmt.Errorf("load theme %s: %w", inputs.theme, err)
		}
		out.theme = theme
	}
	return nil
}

// runPreview compiles the sequence and prints the timetable.
func (c *CLI) runPreview(in playbackInputs) error {
	st := sim.NewState()
	graph.Apply(st, in.data)

	program := timeline.Compile(st, in.theme, in.seq)

	fmt.Println(StyleTitle.Render("Sequence " + in.seq.Name))
	printKeyValue("total", fmt.Sprintf("%.2fs", program.Total))
	printKeyValue("events", fmt.Sprintf("%d", len(program.Events)))
	printKeyValue("flights", fmt.Sprintf("%d", len(program.Flights)))
	printKeyValue("pulses", fmt.Sprintf("%d", len(program.Pulses)))
	printNewline()

	if len(program.Events) == 0 {
		printInfo("No events compiled; check that step ids exist in the graph")
		return nil
	}

	rows := make([][]string, 0, len(program.Events))
	for _, e := range program.Events {
		rows = append(rows, []string{fmt.Sprintf("%7.2fs", e.At), e.Label})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Offset", "Event").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(t.Render())
	return nil
}
