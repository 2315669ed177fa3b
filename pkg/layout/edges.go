package layout

import (
	"github.com/matzehuels/dfdlayout/pkg/dag"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
)

// classifyEdges returns the route style of every edge, in edge order:
// step when the target has two or more incoming edges, straight otherwise.
func classifyEdges(g *dag.DAG) []dfd.RouteStyle {
	edges := g.Edges()
	styles := make([]dfd.RouteStyle, len(edges))
	for i, e := range edges {
		styles[i] = RouteFor(g.InDegree(e.To))
	}
	return styles
}

// RouteFor returns the route style for an edge whose target has the given
// in-degree.
func RouteFor(inDegree int) dfd.RouteStyle {
	if inDegree >= 2 {
		return dfd.RouteStep
	}
	return dfd.RouteStraight
}
