package pipeline

import (
	"github.com/matzehuels/dfdlayout/pkg/dag"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/layout"
)

// GenerateLayout computes the serializable layout of a parser graph
// without caching. opts must have been validated for layout.
func GenerateLayout(g dfd.Graph, opts Options) (graph.Layout, error) {
	d, err := dag.FromDFD(g)
	if err != nil {
		return graph.Layout{}, err
	}
	res, err := layout.ComputeDAG(d, opts.Layout)
	if err != nil {
		return graph.Layout{}, err
	}
	if opts.Diagnostics {
		return graph.FromResult(res, opts.Layout), nil
	}
	return graph.FromDiagram(res.Diagram, opts.Layout), nil
}
