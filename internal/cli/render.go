package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/pipeline"
)

// renderFlags control the rendered artifacts.
type renderFlags struct {
	formats        string
	output         string
	hideColumns    bool
	hideEdgeLabels bool
	interactive    bool
	scale          float64
}

func addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, dot, graphviz, png, pdf (comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", `output file (single format, "-" for stdout) or base path (multiple)`)
	fs.BoolVar(&f.hideColumns, "no-columns", false, "omit column lists from table nodes")
	fs.BoolVar(&f.hideEdgeLabels, "no-edge-labels", false, "omit edge labels")
	fs.BoolVar(&f.interactive, "interactive", false, "highlight connected edges on hover (svg)")
	fs.Float64Var(&f.scale, "scale", 2.0, "raster scale (png)")
}

func (f *renderFlags) apply(opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	opts.HideColumns = f.hideColumns
	opts.HideEdgeLabels = f.hideEdgeLabels
	opts.Interactive = f.interactive
	opts.Scale = f.scale
	return opts.ValidateForRender()
}

// renderCommand creates the render command: graph in, artifacts out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf layoutFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Lay out a parser graph and render it",
		Long: `Lay out a parser graph and render it.

This is 'layout' followed by 'visualize' in one step. Each requested format
is written next to the input (graph.svg, graph.dot, ...) unless --output is
given. Layouts and artifacts are cached separately, so asking for a new
format reuses a cached layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &lf)
			if err != nil {
				return err
			}
			if err := rf.apply(&opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, rf.output, lf.noCache)
		},
	}

	addRenderFlags(cmd, &rf)
	addLayoutFlags(cmd, &lf)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	l, layoutHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	spinner.Update("Rendering " + strings.Join(opts.Formats, ", ") + "...")
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  layoutHit && renderHit,
		nodes:     len(g.Nodes),
		edges:     len(g.Edges),
	})
}

// visualizeCommand creates the visualize command for rendering a stored layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		rf      renderFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it. The layout holds all positions and routing, so this step is
purely about drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			if err := rf.apply(&opts); err != nil {
				return err
			}
			opts.Logger = c.Logger
			return c.runVisualize(cmd.Context(), args[0], opts, rf.output, noCache)
		},
	}

	addRenderFlags(cmd, &rf)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
		nodes:     len(l.Nodes),
		edges:     len(l.Edges),
	})
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
	nodes     int
	edges     int
}

// writeArtifacts writes each artifact to its own file. A single format is
// written to output verbatim when given; otherwise files are named
// <base>.<ext>.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.output == stdoutPath {
		return writeOutput(stdoutPath, p.artifacts[p.formats[0]])
	}

	base := basePath(p.output, p.input)
	if p.output == "" && p.input == stdoutPath {
		base = "graph"
	}
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		path := base + "." + pipeline.Extension(format)
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := writeOutput(path, p.artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.nodes, p.edges, p.cacheHit)
	return nil
}
