package transform

import "github.com/matzehuels/dfdlayout/pkg/dag"

// BreakCycles removes back edges from g until it is acyclic and returns the
// removed edges as (from, to) pairs in the order they were found.
//
// BreakCycles runs a white/gray/black depth-first search over successors.
// Roots are the sources in insertion order, then any node not yet reached
// (cycles with no source, such as a↔b alone). An edge into a gray node
// closes a cycle and is removed.
//
// The traversal keeps an explicit stack, so arbitrarily long chains are
// handled without recursion.
//
// The choice of edges is deterministic but not a minimum feedback arc set.
// If g is empty or acyclic, BreakCycles returns nil and leaves g unchanged.
func BreakCycles(g *dag.DAG) [][2]string {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int
	}

	color := make(map[string]int, g.NodeCount())
	var back [][2]string

	visit := func(root string) {
		if color[root] != white {
			return
		}
		color[root] = gray
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
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
				stack = append(stack, frame{id: child})
			case gray:
				back = append(back, [2]string{top.id, child})
			}
		}
	}

	for _, n := range g.Sources() {
		visit(n.ID)
	}
	for _, id := range g.NodeIDs() {
		visit(id)
	}

	for _, e := range back {
		g.RemoveEdge(e[0], e[1])
	}
	return back
}
