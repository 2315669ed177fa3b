package layout

import (
	"github.com/matzehuels/dfdlayout/pkg/dag"
	"github.com/matzehuels/dfdlayout/pkg/dag/transform"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
)

// Result is a computed layout together with the intermediate structure
// that produced it.
type Result struct {
	Diagram dfd.Diagram

	// Levels maps node ID to column index.
	Levels map[string]int
	// Sources lists level-0 nodes in label order, the order flows are traced.
	Sources []string
	// Flows maps node ID to the source ID of the flow that owns it. Merge
	// points and nodes reached only through them are absent.
	Flows map[string]string
	// MergePoints lists nodes where several flows converge, in input order.
	MergePoints []MergePoint
	// Groups lists the lane groups in lane order.
	Groups [][]string
	// Lanes maps flow (source) ID to lane index.
	Lanes map[string]int
	// RemovedEdges lists the back edges ignored under [transform.CycleBreak].
	RemovedEdges [][2]string
	// Crossings counts edge crossings between adjacent levels.
	Crossings int
}

// Compute lays out a parser graph with the default options adjusted by opts.
//
// An edge referencing an unknown node fails with a DANGLING_EDGE error, a
// cycle with CYCLIC_GRAPH unless another policy is selected. A graph
// without nodes or edges yields an empty diagram.
func Compute(g dfd.Graph, opts ...Option) (dfd.Diagram, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return dfd.Diagram{}, err
	}
	d, err := dag.FromDFD(g)
	if err != nil {
		return dfd.Diagram{}, err
	}
	res, err := ComputeDAG(d, o)
	if err != nil {
		return dfd.Diagram{}, err
	}
	return res.Diagram, nil
}

// ComputeDAG lays out an indexed graph. g is not modified: levels and
// broken cycles are applied to a private copy.
func ComputeDAG(g *dag.DAG, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Diagram: dfd.Diagram{Nodes: []dfd.PlacedNode{}, Edges: []dfd.RoutedEdge{}},
		Levels:  map[string]int{},
		Flows:   map[string]string{},
		Lanes:   map[string]int{},
	}
	if g.NodeCount() == 0 {
		return res, nil
	}

	work := g.Clone()
	if opts.CyclePolicy == transform.CycleBreak {
		res.RemovedEdges = transform.BreakCycles(work)
	}
	levels, err := transform.AssignLevels(work, opts.CyclePolicy)
	if err != nil {
		return nil, err
	}
	res.Levels = levels

	order := newLabelOrder(opts.Collation)
	res.Sources = sortedSources(work, order)
	res.Flows = traceFlows(work, res.Sources)
	res.MergePoints = findMergePoints(work, res.Flows)
	res.Groups, res.Lanes = assignLanes(work, res.MergePoints, res.Sources, order)

	positions, orders := resolvePositions(work, res.Flows, res.Lanes, opts)
	res.Crossings = dag.CountCrossings(work, orders)

	res.Diagram = buildDiagram(g, work.MaxLevel(), res, positions, opts)
	return res, nil
}

func buildDiagram(g *dag.DAG, maxLevel int, res *Result, positions map[string]dfd.Position, opts Options) dfd.Diagram {
	d := dfd.Diagram{
		Nodes:    make([]dfd.PlacedNode, 0, g.NodeCount()),
		Edges:    make([]dfd.RoutedEdge, 0, g.EdgeCount()),
		MaxLevel: maxLevel,
	}

	for _, n := range g.Nodes() {
		level := res.Levels[n.ID]
		p := dfd.PlacedNode{
			Node:     toDFDNode(n),
			Position: positions[n.ID],
			Level:    level,
			Lane:     -1,
			IsSource: level == 0,
			IsOutput: level == maxLevel && n.Label == opts.OutputLabel,
		}
		if flow, ok := res.Flows[n.ID]; ok {
			p.FlowID = flow
			p.Lane = res.Lanes[flow]
		}
		d.Width = max(d.Width, p.Position.X)
		d.Height = max(d.Height, p.Position.Y)
		d.Nodes = append(d.Nodes, p)
	}

	styles := classifyEdges(g)
	for i, e := range g.Edges() {
		d.Edges = append(d.Edges, dfd.RoutedEdge{
			Edge:  dfd.Edge{ID: e.ID, Source: e.From, Target: e.To, Label: e.Label},
			Style: styles[i],
		})
	}
	return d
}

func toDFDNode(n *dag.Node) dfd.Node {
	out := dfd.Node{ID: n.ID, Label: n.Label}
	if t, ok := n.Meta[dag.MetaNodeType].(dfd.NodeType); ok {
		out.Type = t
	}
	if t, ok := n.Meta[dag.MetaLogicType].(dfd.LogicType); ok {
		out.LogicType = t
	}
	if cols, ok := n.Meta[dag.MetaColumns].([]string); ok {
		out.Columns = cols
	}
	return out
}
