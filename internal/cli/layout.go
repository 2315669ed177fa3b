package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dfdlayout/pkg/dag/transform"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/layout"
	"github.com/matzehuels/dfdlayout/pkg/pipeline"
)

// layoutFlags are the layout settings shared by layout, render and inspect.
// Flags left at their default fall back to the config file.
type layoutFlags struct {
	hs          float64
	vs          float64
	gap         float64
	outputLabel string
	cycles      string
	collation   string
	diagnostics bool
	refresh     bool
	noCache     bool
}

func addLayoutFlags(cmd *cobra.Command, f *layoutFlags) {
	def := layout.DefaultOptions()
	fs := cmd.Flags()
	fs.Float64Var(&f.hs, "hs", def.HorizontalSpacing, "horizontal spacing between levels")
	fs.Float64Var(&f.vs, "vs", def.VerticalSpacing, "vertical spacing between lanes")
	fs.Float64Var(&f.gap, "gap", def.GapRatio, "minimum gap between nodes of a level, as a fraction of --vs")
	fs.StringVar(&f.outputLabel, "output-label", def.OutputLabel, "label of the query output node")
	fs.StringVar(&f.cycles, "cycles", def.CyclePolicy.String(), "cycle policy: reject, tolerate, break")
	fs.StringVar(&f.collation, "collation", "", "order labels by the collation of a BCP 47 language (e.g. de, sv)")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// pipelineOptions merges the config file's layout section with the flags
// set on the command line.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *layoutFlags) (pipeline.Options, error) {
	lo := c.Config.Layout.Options()
	fs := cmd.Flags()
	if fs.Changed("hs") {
		lo.HorizontalSpacing = f.hs
	}
	if fs.Changed("vs") {
		lo.VerticalSpacing = f.vs
	}
	if fs.Changed("gap") {
		lo.GapRatio = f.gap
	}
	if fs.Changed("output-label") {
		lo.OutputLabel = f.outputLabel
	}
	if fs.Changed("cycles") {
		p, err := transform.ParseCyclePolicy(f.cycles)
		if err != nil {
			return pipeline.Options{}, err
		}
		lo.CyclePolicy = p
	}
	if fs.Changed("collation") {
		lo.Collation = f.collation
	}
	if err := lo.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Layout:      lo,
		Diagnostics: f.diagnostics,
		Refresh:     f.refresh,
		Logger:      c.Logger,
	}, nil
}

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a diagram layout from a parser graph",
		Long: `Compute a diagram layout from a parser graph.

The layout command takes a graph.json file ({nodes, edges} as emitted by the
SQL parser, or "-" for stdin) and computes node positions and edge routing.
The output is a layout.json file that can be rendered with 'visualize'.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: <input>.layout.json)`)
	cmd.Flags().BoolVar(&flags.diagnostics, "diagnostics", false, "include lanes, flows and merge points in the output")
	addLayoutFlags(cmd, &flags)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := c.readGraph(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
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
		outputPath = stdoutPath
		if input != stdoutPath {
			outputPath = basePath("", input) + ".layout.json"
		}
	}

	data, err := graph.MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == stdoutPath {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.Edges), cacheHit)
	if l.Diagnostics != nil && len(l.Diagnostics.RemovedEdges) > 0 {
		printWarning("Removed %d edges to break cycles", len(l.Diagnostics.RemovedEdges))
	}
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// readGraph reads a parser graph from a file, or from stdin for "-".
func (c *CLI) readGraph(input string) (dfd.Graph, error) {
	prog := newProgress(c.Logger)
	var (
		g   dfd.Graph
		err error
	)
	if input == stdoutPath {
		g, err = graph.ReadGraph(os.Stdin)
	} else {
		g, err = graph.ReadGraphFile(input)
	}
	if err != nil {
		return dfd.Graph{}, fmt.Errorf("load graph %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("read graph: %d nodes, %d edges", len(g.Nodes), len(g.Edges)))
	return g, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips ".json" and a ".layout" marker from input.
// If output ends in a format extension (.svg, .graphviz.svg, ...), that
// extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	for _, f := range pipeline.Formats {
		if ext := "." + pipeline.Extension(f); strings.HasSuffix(output, ext) && f != pipeline.FormatSVG {
			return strings.TrimSuffix(output, ext)
		}
	}
	return strings.TrimSuffix(output, "."+pipeline.FormatSVG)
}
