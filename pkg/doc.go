// Package pkg provides the core libraries for dfdlayout data-flow diagrams.
//
// # Overview
//
// dfdlayout turns the {nodes, edges} graph a SQL parser emits for a query
// into a positioned diagram: source tables on the left, the query output
// on the right, one horizontal lane per flow and step connectors into the
// JOIN and UNION nodes where flows meet. The pkg directory is organized
// into four main areas:
//
//  1. [dfd] - Domain types (parser graph, placed nodes, routed edges)
//  2. [dag] and [layout] - Graph indexing and the layout engine
//  3. [render] - SVG, DOT, Graphviz, PNG and PDF output
//  4. [pipeline] - Orchestration (layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	graph.json (parser output)
//	         ↓
//	    [graph] package (decode, validate, normalize edge ids)
//	         ↓
//	    [dag] package (index nodes and adjacency, detect cycles)
//	         ↓
//	    [layout] package (levels, flows, lanes, positions, routing)
//	         ↓
//	    [render/sink] and [render/nodelink] packages
//	         ↓
//	    layout.json / SVG / DOT / PNG / PDF
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/dfdlayout/pkg/graph"
//	    "github.com/matzehuels/dfdlayout/pkg/layout"
//	    "github.com/matzehuels/dfdlayout/pkg/render/sink"
//	)
//
//	g, _ := graph.ReadGraphFile("report.json")
//	d, _ := layout.Compute(g, layout.WithSpacing(300, 150))
//	svg := sink.RenderSVG(d, sink.WithEdgeLabels(true))
//
// # Main Packages
//
// [dfd] - Parser graph ([dfd.Graph]) and diagram ([dfd.Diagram]) types,
// edge id normalization and structural validation.
//
// [dag] - Indexed directed graph with insertion order, adjacency, levels,
// cycle search and crossing counts.
//
// [dag/transform] - Level assignment by longest path and the cycle
// policies (reject, tolerate, break).
//
// [layout] - The layout engine. [layout.Compute] for callers that only
// need the diagram, [layout.ComputeDAG] for flows, lanes, merge points and
// crossings as well.
//
// [render/sink] - Native SVG renderer; PNG and PDF go through [render].
//
// [render/nodelink] - DOT export and Graphviz rendering via go-graphviz.
//
// [render/styles] - Node and edge drawing, palettes and text helpers.
//
// [graph] - JSON wire format for graphs and layouts.
//
// ## Infrastructure
//
// [pipeline] - Layout and render with caching, shared by the CLI and the
// HTTP API.
//
// [cache] - File, Redis and MongoDB caches behind one interface, plus the
// key scheme.
//
// [observability] - Hooks for layout, render, cache and HTTP events.
//
// [errors] - Coded errors and their HTTP status mapping.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//	go test -run Example         # Examples only
//
// [dfd]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/dfd
// [dag]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/render/nodelink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/render/styles
// [graph]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/dfdlayout/pkg/errors
package pkg
