package styles

import "bytes"

// Style defines the visual appearance of a rendered diagram.
// Implementations control how nodes and edges are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (markers, filters).
	RenderDefs(buf *bytes.Buffer)
	// RenderNode writes the SVG for a single node box including its text.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderEdge writes the SVG for a data-flow edge.
	RenderEdge(buf *bytes.Buffer, e Edge)
}

// Kind selects the colour scheme of a node.
type Kind string

const (
	KindSource Kind = "source"
	KindTable  Kind = "table"
	KindOutput Kind = "output"
	KindLogic  Kind = "logic"
)

// Node contains all data needed to render a single node box.
type Node struct {
	ID         string   // Node identifier
	Label      string   // Header text (may span lines)
	Kind       Kind     // Colour scheme
	LogicType  string   // Logic subtype, only for KindLogic
	Columns    []string // Column rows below the header, may be empty
	X, Y, W, H float64  // Top-left corner and size
}

// Edge contains the endpoints of a data-flow edge. (X1, Y1) is the right
// handle of the source box, (X2, Y2) the left handle of the target box.
type Edge struct {
	ID, FromID, ToID string
	Label            string
	Step             bool // orthogonal connector instead of a straight line
	X1, Y1, X2, Y2   float64
}

// StepPath returns the SVG path data of an orthogonal connector that turns
// halfway between the two x coordinates.
func (e Edge) StepPath() string {
	mx := (e.X1 + e.X2) / 2
	return fmtPath("M%.1f,%.1f H%.1f V%.1f H%.1f", e.X1, e.Y1, mx, e.Y2, e.X2)
}

// StraightPath returns the SVG path data of a direct line.
func (e Edge) StraightPath() string {
	return fmtPath("M%.1f,%.1f L%.1f,%.1f", e.X1, e.Y1, e.X2, e.Y2)
}

// Path returns StepPath or StraightPath depending on Step.
func (e Edge) Path() string {
	if e.Step {
		return e.StepPath()
	}
	return e.StraightPath()
}

// LabelPoint is where an edge label is anchored: the middle of the
// connector's vertical run for step edges, the midpoint otherwise.
func (e Edge) LabelPoint() (x, y float64) {
	return (e.X1 + e.X2) / 2, (e.Y1 + e.Y2) / 2
}
