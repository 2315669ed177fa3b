package styles

import (
	"bytes"
	"fmt"
)

// Geometry shared by the simple style and the sinks that size node boxes.
const (
	FontSize     = 13.0
	CharWidth    = FontSize * 0.6
	LineHeight   = 18.0
	RowHeight    = 18.0
	NodePadding  = 10.0
	NodeWidth    = 200.0
	CornerRadius = 6.0
)

type palette struct{ fill, stroke, text string }

var kindPalette = map[Kind]palette{
	KindSource: {"#e8f5e9", "#2e7d32", "#1b5e20"},
	KindTable:  {"#e3f2fd", "#1565c0", "#0d47a1"},
	KindOutput: {"#f3e5f5", "#6a1b9a", "#4a148c"},
}

var logicPalette = map[string]palette{
	"where":   {"#fff8e1", "#f9a825", "#6d4c00"},
	"join":    {"#e0f7fa", "#00838f", "#004d40"},
	"groupby": {"#fce4ec", "#ad1457", "#560027"},
	"union":   {"#ede7f6", "#4527a0", "#1a0066"},
	"case":    {"#efebe9", "#4e342e", "#3e2723"},
}

var defaultLogic = palette{"#fafafa", "#616161", "#212121"}

func colors(n Node) palette {
	if n.Kind == KindLogic {
		if p, ok := logicPalette[n.LogicType]; ok {
			return p
		}
		return defaultLogic
	}
	if p, ok := kindPalette[n.Kind]; ok {
		return p
	}
	return kindPalette[KindTable]
}

// Palette returns the fill, stroke and text colours for a node.
func Palette(n Node) (fill, stroke, text string) {
	p := colors(n)
	return p.fill, p.stroke, p.text
}

// Simple draws flat rounded boxes coloured by node kind and logic type.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">
      <path d="M0,0 L10,5 L0,10 z" fill="#78909c"/>
    </marker>
  </defs>
`)
}

func (Simple) RenderNode(buf *bytes.Buffer, n Node) {
	p := colors(n)
	id := EscapeXML(n.ID)
	fmt.Fprintf(buf, `  <g id="node-%s" class="node node-%s">`+"\n", id, n.Kind)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		n.X, n.Y, n.W, n.H, CornerRadius, p.fill, p.stroke)

	maxChars := int((n.W - 2*NodePadding) / CharWidth)
	y := n.Y + NodePadding + FontSize
	for _, line := range Lines(n.Label) {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			n.X+NodePadding, y, FontSize, p.text, EscapeXML(Truncate(line, maxChars)))
		y += LineHeight
	}

	if len(n.Columns) > 0 {
		top := y - FontSize + 4
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", n.X, top, n.X+n.W, top, p.stroke)
		y = top + RowHeight - 4
		for _, col := range n.Columns {
			if IsSeparator(col) {
				mid := y - FontSize/3
				fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="3,3"/>`+"\n",
					n.X+NodePadding, mid, n.X+n.W-NodePadding, mid, p.stroke)
			} else {
				fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`+"\n",
					n.X+NodePadding, y, FontSize-2, p.text, EscapeXML(Truncate(col, maxChars)))
			}
			y += RowHeight
		}
	}
	buf.WriteString("  </g>\n")
}

func (Simple) RenderEdge(buf *bytes.Buffer, e Edge) {
	class := "edge edge-straight"
	if e.Step {
		class = "edge edge-step"
	}
	fmt.Fprintf(buf, `  <path id="link-%s" class="%s" data-from="%s" data-to="%s" d="%s" fill="none" stroke="#78909c" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
		EscapeXML(e.ID), class, EscapeXML(e.FromID), EscapeXML(e.ToID), e.Path())
	if e.Label != "" {
		x, y := e.LabelPoint()
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="%.0f" fill="#455a64" class="edge-label">%s</text>`+"\n",
			x, y-4, FontSize-2, EscapeXML(e.Label))
	}
}

var _ Style = Simple{}

// NodeSize returns the box size for a label and column list drawn by
// [Simple]. Width is fixed; height grows with label lines and columns.
func NodeSize(label string, columns []string) (w, h float64) {
	h = 2*NodePadding + float64(len(Lines(label)))*LineHeight
	if len(columns) > 0 {
		h += float64(len(columns))*RowHeight + 4
	}
	return NodeWidth, h
}
