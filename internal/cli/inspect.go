package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/pipeline"
)

// inspectCommand creates the inspect command, a terminal view of a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags layoutFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Browse the computed layout of a graph in the terminal",
		Long: `Browse the computed layout of a graph in the terminal.

Shows every node with its level, lane, flow and position, and for the node
under the cursor its incoming and outgoing edges with their routing style.
With --plain the table is printed once, followed by the merge points,
crossings and any edges removed to break cycles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Diagnostics = true
			return c.runInspect(cmd.Context(), args[0], opts, flags.noCache, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of starting the interactive browser")
	addLayoutFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, noCache, plain bool) error {
	g, err := c.readGraph(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, err := runner.Layout(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if plain {
		printLayoutSummary(l)
		return nil
	}

	_, err = tea.NewProgram(NewInspectModel(l), tea.WithContext(ctx)).Run()
	return err
}

// printLayoutSummary prints the node table and the layout diagnostics.
func printLayoutSummary(l graph.Layout) {
	fmt.Fprintln(out, levelTable(l))
	printNewline()
	printKeyValue("levels", fmt.Sprint(l.MaxLevel+1))
	printKeyValue("extent", fmt.Sprintf("%.0f × %.0f", l.Width, l.Height))

	d := l.Diagnostics
	if d == nil {
		return
	}
	printKeyValue("sources", fmt.Sprint(len(d.Sources)))
	printKeyValue("merge points", fmt.Sprint(len(d.MergePoints)))
	for _, mp := range d.MergePoints {
		printDetail("%s ← %v", mp.Node, mp.Flows)
	}
	printKeyValue("crossings", fmt.Sprint(d.Crossings))
	if len(d.RemovedEdges) > 0 {
		printWarning("Removed %d edges to break cycles", len(d.RemovedEdges))
		for _, e := range d.RemovedEdges {
			printDetail("%s → %s", e[0], e[1])
		}
	}
}
