package layout

import (
	"slices"

	"github.com/matzehuels/dfdlayout/pkg/dag"
)

// sortedSources returns the level-0 nodes ordered by label. Equal labels
// keep insertion order.
func sortedSources(g *dag.DAG, order labelOrder) []string {
	nodes := slices.Clone(g.NodesAtLevel(0))
	slices.SortStableFunc(nodes, func(a, b *dag.Node) int {
		return order(a.Label, b.Label)
	})
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// traceFlows assigns every node reachable from a source through
// single-parent children to that source's flow. Sources are processed in
// the given order and the first flow to reach a node keeps it.
//
// The walk is a depth-first search on an explicit stack. A child is only
// pushed when it has exactly one parent, so merge points end the walk and
// stay unassigned.
func traceFlows(g *dag.DAG, sources []string) map[string]string {
	flows := make(map[string]string, g.NodeCount())
	for _, src := range sources {
		stack := []string{src}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, done := flows[id]; done {
				continue
			}
			if g.InDegree(id) <= 1 {
				flows[id] = src
			}
			for _, child := range g.Children(id) {
				if g.InDegree(child) == 1 {
					stack = append(stack, child)
				}
			}
		}
	}
	return flows
}
