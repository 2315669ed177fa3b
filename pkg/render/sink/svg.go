package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/render/styles"
)

const interactionCSS = `
    .node rect { transition: stroke-width 0.2s ease; }
    .node.highlight rect { stroke-width: 3; }
    .edge.highlight { stroke: #37474f; stroke-width: 2.5; }`

const interactionJS = `
    document.querySelectorAll('.node').forEach(n => {
      const id = n.id.replace('node-', '');
      const edges = () => document.querySelectorAll('[data-from="' + id + '"], [data-to="' + id + '"]');
      n.addEventListener('mouseenter', () => { n.classList.add('highlight'); edges().forEach(e => e.classList.add('highlight')); });
      n.addEventListener('mouseleave', () => { n.classList.remove('highlight'); edges().forEach(e => e.classList.remove('highlight')); });
    });`

// DefaultMargin is the blank border around the drawing.
const DefaultMargin = 40.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	columns     bool
	edgeLabels  bool
	interactive bool
	margin      float64
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithColumns(on bool) SVGOption      { return func(r *svgRenderer) { r.columns = on } }
func WithEdgeLabels(on bool) SVGOption   { return func(r *svgRenderer) { r.edgeLabels = on } }
func WithInteraction() SVGOption         { return func(r *svgRenderer) { r.interactive = true } }
func WithMargin(m float64) SVGOption     { return func(r *svgRenderer) { r.margin = max(0, m) } }

// RenderSVG draws a positioned diagram as a standalone SVG document.
//
// Node positions are the top-left corners of the boxes, as a canvas would
// place them. Edges leave the right side of the source box and enter the
// left side of the target box; step edges turn halfway between the two.
func RenderSVG(d dfd.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}, columns: true, edgeLabels: true, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	nodes := buildNodes(d, r.columns)
	edges := buildEdges(d, nodes, r.edgeLabels)
	w, h := extent(nodes)
	w += 2 * r.margin
	h += 2 * r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f,%.1f)">`+"\n", r.margin, r.margin)
	for _, e := range edges {
		r.style.RenderEdge(&buf, e)
	}
	for _, id := range nodeOrder(d) {
		r.style.RenderNode(&buf, nodes[id])
	}
	buf.WriteString("  </g>\n")
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func nodeOrder(d dfd.Diagram) []string {
	ids := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func kindOf(n dfd.PlacedNode) styles.Kind {
	switch {
	case n.IsLogic():
		return styles.KindLogic
	case n.IsOutput:
		return styles.KindOutput
	case n.IsSource:
		return styles.KindSource
	default:
		return styles.KindTable
	}
}

func buildNodes(d dfd.Diagram, withColumns bool) map[string]styles.Node {
	nodes := make(map[string]styles.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		var cols []string
		if withColumns {
			cols = n.Columns
		}
		w, h := styles.NodeSize(n.Label, cols)
		nodes[n.ID] = styles.Node{
			ID:        n.ID,
			Label:     n.Label,
			Kind:      kindOf(n),
			LogicType: string(n.LogicType),
			Columns:   cols,
			X:         n.Position.X,
			Y:         n.Position.Y,
			W:         w,
			H:         h,
		}
	}
	return nodes
}

func buildEdges(d dfd.Diagram, nodes map[string]styles.Node, withLabels bool) []styles.Edge {
	edges := make([]styles.Edge, 0, len(d.Edges))
	for _, e := range d.Edges {
		src, okS := nodes[e.Source]
		dst, okD := nodes[e.Target]
		if !okS || !okD {
			continue
		}
		se := styles.Edge{
			ID:     e.ID,
			FromID: e.Source,
			ToID:   e.Target,
			Step:   e.Style == dfd.RouteStep,
			X1:     src.X + src.W,
			Y1:     src.Y + src.H/2,
			X2:     dst.X,
			Y2:     dst.Y + dst.H/2,
		}
		if withLabels {
			se.Label = e.Label
		}
		edges = append(edges, se)
	}
	return edges
}

func extent(nodes map[string]styles.Node) (w, h float64) {
	for _, n := range nodes {
		w = max(w, n.X+n.W)
		h = max(h, n.Y+n.H)
	}
	return w, h
}
