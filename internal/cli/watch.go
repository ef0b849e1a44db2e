package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pulsegraph/pkg/core/sim"
	"github.com/matzehuels/pulsegraph/pkg/core/timeline"
	"github.com/matzehuels/pulsegraph/pkg/core/zone"
	"github.com/matzehuels/pulsegraph/pkg/graph"
	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// watchCommand creates the watch command for interactive playback.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		inputs  inputFlags
		output  string
		noCache bool
	)
	opts := playback.Options{}

	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Play a sequence interactively in the terminal",
		Long: `Play a sequence interactively in the terminal.

The watch command lays out the graph, then opens a terminal session that
drives the sequence frame by frame: the clock, fired events, and packet
flights update live. Zones from the overlay can be selected and dragged
with the arrow keys; dragged nodes are pinned at their new positions.

Press 'q' to leave the session. With --output the final snapshot, including
any dragged positions, is written on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inputs.apply(cmd.Context(), &opts); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final snapshot on exit")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	inputs.register(cmd)

	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for the initial node placement")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", opts.Ticks, "number of simulation ticks for the batch layout")
	cmd.Flags().Float64Var(&opts.Step, "step", opts.Step, "clock increment per frame in seconds")

	return cmd
}

// runWatch builds the state, computes the layout, and hands control to the
// terminal session.
func (c *CLI) runWatch(ctx context.Context, input string, opts playback.Options, output string, noCache bool) error {
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
	opts.SetPlaybackDefaults()

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := runner.Build(opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	if err := runner.ComputeLayout(ctx, st, opts); err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	overlay := zone.NewOverlay(st)
	if opts.Overlay != nil {
		graph.ApplyOverlay(overlay, *opts.Overlay)
	}

	model := newWatchModel(st, overlay, opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch session: %w", err)
	}

	if output != "" {
		if err := graph.WriteSnapshotFile(graph.TakeSnapshot(st), output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Snapshot saved")
		printFile(output)
	}
	return nil
}

// =============================================================================
// WatchModel - Interactive playback session
// =============================================================================

// zoneStep is how far one arrow key press drags the selected zone, in
// layout pixels.
const zoneStep = 10.0

// eventLog collects fired events across frames. The model value is copied
// on every update, so the log lives behind a pointer.
type eventLog struct {
	entries []string
	count   int
}

func (l *eventLog) add(label string) {
	l.count++
	l.entries = append(l.entries, label)
	if len(l.entries) > 8 {
		l.entries = l.entries[len(l.entries)-8:]
	}
}

// frameMsg advances the session by one frame.
type frameMsg struct{}

// WatchModel is the bubbletea model for the interactive session.
type WatchModel struct {
	st      *sim.State
	overlay *zone.Overlay
	player  *timeline.Player
	seq     *timeline.Sequence
	log     *eventLog

	step   float64
	paused bool
	cursor int
	width  int
}

// newWatchModel assembles the session model and starts the sequence.
func newWatchModel(st *sim.State, overlay *zone.Overlay, opts playback.Options) WatchModel {
	m := WatchModel{
		st:      st,
		overlay: overlay,
		player:  timeline.NewPlayer(st, opts.ThemeOrEmpty()),
		log:     &eventLog{},
		step:    opts.Step,
	}
	m.player.OnEvent(func(e timeline.Event) { m.log.add(e.Label) })
	if opts.HasSequence() {
		m.seq = opts.Sequence
		m.player.Play(*m.seq)
	}
	return m
}

func (m WatchModel) Init() tea.Cmd {
	return m.tick()
}

// tick schedules the next frame. The frame rate follows the configured
// clock step so one frame advances one step.
func (m WatchModel) tick() tea.Cmd {
	interval := time.Duration(m.step * float64(time.Second))
	if interval <= 0 {
		interval = time.Second / 60
	}
	return tea.Tick(interval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if n := len(m.overlay.Zones()); n > 0 {
				m.cursor = (m.cursor + 1) % n
			}
		case "shift+tab":
			if n := len(m.overlay.Zones()); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
			}
		case "up", "k":
			m.moveSelected(0, -zoneStep)
		case "down", "j":
			m.moveSelected(0, zoneStep)
		case "left", "h":
			m.moveSelected(-zoneStep, 0)
		case "right", "l":
			m.moveSelected(zoneStep, 0)
		case " ":
			m.paused = !m.paused
		case "r":
			if m.seq != nil {
				m.log.entries = nil
				m.log.count = 0
				m.player.Play(*m.seq)
			}
		}
	case frameMsg:
		if !m.paused && m.player.Playing() {
			m.player.Advance(m.step)
		}
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// moveSelected drags the zone under the cursor, carrying its attachments.
func (m *WatchModel) moveSelected(dx, dy float64) {
	zones := m.overlay.Zones()
	if m.cursor >= len(zones) {
		return
	}
	m.overlay.MoveZone(zones[m.cursor].ID, dx, dy)
}

func (m WatchModel) View() string {
	var b strings.Builder

	title := "Pulsegraph"
	if m.seq != nil {
		title += "  ·  " + m.seq.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab select zone  ←↑↓→ move  space pause  r restart  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.progressBar())
	b.WriteString("\n\n")

	if zones := m.overlay.Zones(); len(zones) > 0 {
		b.WriteString(m.zoneTable(zones))
		b.WriteString("\n\n")
	}

	if len(m.log.entries) > 0 {
		b.WriteString(StyleDim.Render("Recent events"))
		b.WriteString("\n")
		for _, e := range m.log.entries {
			b.WriteString("  " + StyleValue.Render(e) + "\n")
		}
	}

	return b.String()
}

// statusLine reports the clock, the run state, and the event count.
func (m WatchModel) statusLine() string {
	state := StyleDim.Render("idle")
	switch {
	case m.seq == nil:
	case m.paused:
		state = StyleWarning.Render("paused")
	case m.player.Playing():
		state = StyleHighlight.Render("playing")
	default:
		state = StyleSuccess.Render("done")
	}

	clock := fmt.Sprintf("%6.2fs / %.2fs", m.player.Now(), m.player.Total())
	flights := len(m.player.ActiveFlights())

	return fmt.Sprintf("  %s   %s   %s",
		StyleValue.Render(clock),
		state,
		StyleDim.Render(fmt.Sprintf("%d events · %d in flight", m.log.count, flights)))
}

// progressBar renders the virtual clock position as a fixed-width bar.
func (m WatchModel) progressBar() string {
	const barWidth = 40
	total := m.player.Total()
	filled := 0
	if total > 0 {
		filled = int(m.player.Now() / total * barWidth)
		if filled > barWidth {
			filled = barWidth
		}
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return "  " + StyleHighlight.Render(bar)
}

// zoneTable lists the overlay zones with the cursor on the selected one.
func (m WatchModel) zoneTable(zones []*zone.Zone) string {
	rows := make([][]string, 0, len(zones))
	for i, z := range zones {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		locked := ""
		if z.Locked {
			locked = "locked"
		}
		rows = append(rows, []string{
			cursor,
			z.ID,
			fmt.Sprintf("%.0f, %.0f", z.X, z.Y),
			fmt.Sprintf("%d nodes", len(z.Attached.Nodes)),
			locked,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Zone", "Position", "Attached", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}
