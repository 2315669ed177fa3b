package dfd

import (
	"fmt"
	"slices"
)

// OutputLabel is the label the SQL parser gives the node holding the final
// SELECT. A node carrying it in the last column is flagged as the output.
const OutputLabel = "OUTPUT"

// NodeType distinguishes tables (sources, CTEs, the output) from logic
// operators inserted between them.
type NodeType string

const (
	NodeTable NodeType = "table"
	NodeLogic NodeType = "logic"
)

// LogicType tags logic nodes with the SQL clause they represent.
type LogicType string

const (
	LogicWhere   LogicType = "where"
	LogicJoin    LogicType = "join"
	LogicGroupBy LogicType = "groupby"
	LogicUnion   LogicType = "union"
	LogicCase    LogicType = "case"
)

var validLogicTypes = []LogicType{LogicWhere, LogicJoin, LogicGroupBy, LogicUnion, LogicCase}

// Valid reports whether t is one of the known logic subtypes.
func (t LogicType) Valid() bool { return slices.Contains(validLogicTypes, t) }

// RouteStyle is the rendering hint attached to every edge.
type RouteStyle string

const (
	// RouteStraight draws a direct line from source to target.
	RouteStraight RouteStyle = "straight"
	// RouteStep draws an orthogonal (step) connector. Used for edges into
	// merge points so converging lines do not cross the merged node.
	RouteStep RouteStyle = "step"
)

// Node is a table or logic operator as emitted by the SQL parser.
type Node struct {
	ID        string    `json:"id"`
	Type      NodeType  `json:"type"`
	Label     string    `json:"label"`
	Columns   []string  `json:"columns,omitempty"`
	LogicType LogicType `json:"logicType,omitempty"`
}

// IsLogic reports whether the node is a logic operator.
func (n Node) IsLogic() bool { return n.Type == NodeLogic }

// Edge is a directed data-flow relation between two node ids.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Graph is the parser output consumed by the layout engine. The order of
// Nodes and Edges is significant: it is the tie-break order for every
// layout decision not settled by labels.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is a 2-D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlacedNode is a node annotated with its computed layout.
type PlacedNode struct {
	Node
	Position Position `json:"position"`
	Level    int      `json:"level"`
	// Lane is the lane of the node's flow, or -1 for nodes outside any
	// traced flow (merge points and their descendants).
	Lane     int    `json:"lane"`
	FlowID   string `json:"flowId,omitempty"`
	IsSource bool   `json:"isSource"`
	IsOutput bool   `json:"isOutput"`
}

// RoutedEdge is an edge annotated with its routing style.
type RoutedEdge struct {
	Edge
	Style RouteStyle `json:"type"`
}

// Diagram is the positioned graph handed to a canvas or renderer.
type Diagram struct {
	Nodes    []PlacedNode `json:"nodes"`
	Edges    []RoutedEdge `json:"edges"`
	MaxLevel int          `json:"maxLevel"`
	// Width and Height are the extent of node anchor points, not including
	// node boxes.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node returns the placed node with the given id.
func (d Diagram) Node(id string) (PlacedNode, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// NormalizeEdgeIDs assigns "edge-N" ids (1-based, in edge order) to edges
// that arrive without one, the scheme the parser itself uses.
func (g *Graph) NormalizeEdgeIDs() {
	for i := range g.Edges {
		if g.Edges[i].ID == "" {
			g.Edges[i].ID = fmt.Sprintf("edge-%d", i+1)
		}
	}
}
