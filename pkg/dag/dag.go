package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. Metadata maps are never nil once stored in a DAG.
type Metadata map[string]any

// Node is a vertex of the data-flow graph.
//
// Level is derived: it is zero until [DAG.SetLevels] records the result of
// a level assignment.
type Node struct {
	ID    string   // Unique identifier
	Label string   // Display label, also the tie-break key for ordering
	Level int      // Topological depth (0 = source)
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// DisplayLabel returns Label, falling back to ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed data-flow relation. Several edges may share the same
// endpoints; multiplicity is preserved in the adjacency lists.
type Edge struct {
	ID    string   // Edge identifier (may be empty)
	From  string   // Source node ID
	To    string   // Target node ID
	Label string   // Optional label (e.g. a join key)
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a directed graph indexed for layered layout: every node knows its
// predecessors (incoming) and successors (outgoing), in edge order.
//
// Unlike a plain map-backed graph, a DAG remembers node insertion order and
// every accessor that returns nodes returns them in that order. Layout
// results are only deterministic because of this.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	levels   map[int][]*Node     // level -> nodes at that level
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		levels:   make(map[int][]*Node),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode appends a node to the graph. Returns ErrInvalidNodeID if the ID is
// empty or ErrDuplicateNodeID if it is already taken.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	d.levels[node.Level] = append(d.levels[node.Level], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist, or
// ErrUnknownTargetNode if the To node doesn't exist.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the first edge from→to if it exists.
func (d *DAG) RemoveEdge(from, to string) {
	if i := slices.IndexFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to }); i >= 0 {
		d.edges = slices.Delete(d.edges, i, i+1)
	}
	if i := slices.Index(d.outgoing[from], to); i >= 0 {
		d.outgoing[from] = slices.Delete(d.outgoing[from], i, i+1)
	}
	if i := slices.Index(d.incoming[to], from); i >= 0 {
		d.incoming[to] = slices.Delete(d.incoming[to], i, i+1)
	}
}

// SetLevels updates level assignments and rebuilds the level index.
// Nodes absent from levels keep their current level.
func (d *DAG) SetLevels(levels map[string]int) {
	d.levels = make(map[int][]*Node)
	for _, id := range d.order {
		n := d.nodes[id]
		if lvl, ok := levels[id]; ok {
			n.Level = lvl
		}
		d.levels[n.Level] = append(d.levels[n.Level], n)
	}
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// nodes stored in the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (d *DAG) NodeIDs() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the successors of the node in edge order.
// The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the predecessors of the node in edge order.
// The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// NodesAtLevel returns the nodes at the given level in insertion order.
func (d *DAG) NodesAtLevel(level int) []*Node { return d.levels[level] }

// LevelCount returns the number of distinct levels.
func (d *DAG) LevelCount() int { return len(d.levels) }

// MaxLevel returns the highest level, or 0 if the graph is empty.
func (d *DAG) MaxLevel() int {
	if len(d.levels) == 0 {
		return 0
	}
	return slices.Max(slices.Collect(maps.Keys(d.levels)))
}

// Sources returns nodes with no incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			sinks = append(sinks, d.nodes[id])
		}
	}
	return sinks
}

// Clone returns a deep copy of the graph structure. Metadata maps are
// copied shallowly.
func (d *DAG) Clone() *DAG {
	c := New(maps.Clone(d.meta))
	for _, n := range d.Nodes() {
		cp := *n
		cp.Meta = maps.Clone(n.Meta)
		_ = c.AddNode(cp)
	}
	for _, e := range d.edges {
		e.Meta = maps.Clone(e.Meta)
		_ = c.AddEdge(e)
	}
	return c
}

// Validate checks that all edges connect existing nodes and that the graph
// is acyclic. Returns ErrInvalidEdgeEndpoint or ErrGraphHasCycle.
//
// Cycle detection is an iterative white/gray/black depth-first search, so
// deep chains do not grow the goroutine stack.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		_, okS := d.nodes[e.From]
		_, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
	}
	if d.FindCycle() != nil {
		return ErrGraphHasCycle
	}
	return nil
}

// FindCycle returns the node IDs of one directed cycle (first node
// repeated at the end), or nil if the graph is acyclic. Roots are tried in
// insertion order, so the reported cycle is stable.
func (d *DAG) FindCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	for _, root := range d.order {
		if color[root] != white {
			continue
		}
		stack := []dfsFrame{{id: root}}
		color[root] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := d.outgoing[top.id]
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, dfsFrame{id: child})
			case gray:
				return cycleFrom(stack, child)
			}
		}
	}
	return nil
}

// dfsFrame is one entry of an explicit depth-first stack: the node and the
// index of the next child to visit.
type dfsFrame struct {
	id   string
	next int
}

func cycleFrom(stack []dfsFrame, start string) []string {
	var cycle []string
	for i := len(stack) - 1; i >= 0; i-- {
		cycle = append(cycle, stack[i].id)
		if stack[i].id == start {
			break
		}
	}
	slices.Reverse(cycle)
	return append(cycle, start)
}
