package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/render"
	"github.com/matzehuels/dfdlayout/pkg/render/styles"
)

// Options configures DOT generation.
type Options struct {
	// Columns lists table columns under the table name.
	Columns bool
	// EdgeLabels draws edge labels (join keys, union branches).
	EdgeLabels bool
}

// DefaultOptions enables columns and edge labels.
func DefaultOptions() Options { return Options{Columns: true, EdgeLabels: true} }

// ToDOT converts a positioned diagram to Graphviz DOT.
//
// Every node is pinned at its layout position (pos="x,y!"), so neato draws
// the diagram as computed instead of laying it out again. Graphviz's y axis
// points up, so y coordinates are negated. Positions are node centres in
// points.
func ToDOT(d dfd.Diagram, opts Options) string {
	splines := "line"
	for _, e := range d.Edges {
		if e.Style == dfd.RouteStep {
			splines = "polyline"
			break
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph dfd {\n")
	fmt.Fprintf(&buf, "  graph [layout=neato, inputscale=72, splines=%s, overlap=true, bgcolor=\"transparent\", outputorder=edgesfirst];\n", splines)
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  edge [color=\"#78909c\", arrowsize=0.7, fontname=\"Helvetica\", fontsize=9];\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		attrs := []string{fmt.Sprintf("id=%q", e.ID), fmt.Sprintf("class=%q", "edge-"+string(e.Style))}
		if e.Style == dfd.RouteStep {
			attrs = append(attrs, "penwidth=1.5")
		}
		if opts.EdgeLabels && e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func styleNode(n dfd.PlacedNode, columns bool) styles.Node {
	kind := styles.KindTable
	switch {
	case n.IsLogic():
		kind = styles.KindLogic
	case n.IsOutput:
		kind = styles.KindOutput
	case n.IsSource:
		kind = styles.KindSource
	}
	sn := styles.Node{ID: n.ID, Label: n.Label, Kind: kind, LogicType: string(n.LogicType)}
	if columns && !n.IsLogic() {
		sn.Columns = n.Columns
	}
	sn.W, sn.H = styles.NodeSize(sn.Label, sn.Columns)
	sn.X, sn.Y = n.Position.X, n.Position.Y
	return sn
}

func nodeAttrs(n dfd.PlacedNode, opts Options) []string {
	sn := styleNode(n, opts.Columns)
	fill, stroke, text := styles.Palette(sn)
	cx, cy := sn.X+sn.W/2, -(sn.Y + sn.H/2)

	attrs := []string{
		fmt.Sprintf("pos=\"%.1f,%.1f!\"", cx, cy),
		fmt.Sprintf("class=%q", "node-"+string(sn.Kind)),
	}
	if n.IsLogic() {
		return append(attrs,
			"shape=box", "style=\"rounded,filled\"",
			fmt.Sprintf("fillcolor=%q, color=%q, fontcolor=%q", fill, stroke, text),
			fmt.Sprintf("label=%q", n.Label),
		)
	}
	return append(attrs, "shape=plain", "label="+tableLabel(sn, fill, stroke, text))
}

// tableLabel builds an HTML-like label: the table name in bold, then one
// row per column.
func tableLabel(n styles.Node, fill, stroke, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<<TABLE BORDER="1" CELLBORDER="0" CELLSPACING="0" CELLPADDING="4" STYLE="ROUNDED" BGCOLOR="%s" COLOR="%s">`, fill, stroke)
	lines := styles.Lines(n.Label)
	for i, l := range lines {
		lines[i] = styles.EscapeXML(l)
	}
	fmt.Fprintf(&b, `<TR><TD><FONT COLOR="%s"><B>%s</B></FONT></TD></TR>`, text, strings.Join(lines, "<BR/>"))
	for _, col := range n.Columns {
		if styles.IsSeparator(col) {
			fmt.Fprintf(&b, `<TR><TD ALIGN="LEFT"><FONT COLOR="%s">&#8212; &#8212; &#8212;</FONT></TD></TR>`, stroke)
			continue
		}
		fmt.Fprintf(&b, `<TR><TD ALIGN="LEFT"><FONT FACE="Courier" COLOR="%s">%s</FONT></TD></TR>`, text, styles.EscapeXML(col))
	}
	b.WriteString("</TABLE>>")
	return b.String()
}

// RenderSVG renders DOT to SVG with the embedded Graphviz (neato engine).
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag, which carries pt units,
// with one sized in plain pixels so browsers scale it like the native SVG.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT to PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT to PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
