// Package dag indexes a data-flow graph for layered layout.
//
// # Overview
//
// The SQL parser hands over an ordered list of nodes (tables and logic
// operators) and an ordered list of directed edges. Every layout step needs
// the same two views of it: the predecessors of a node and its successors.
// [DAG] keeps both adjacency lists, preserves edge multiplicity, and
// remembers node insertion order so that any iteration over nodes is
// deterministic.
//
// # Basic Usage
//
// Build an index straight from parser output with [FromDFD], or by hand:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "orders", Label: "orders"})
//	g.AddNode(dag.Node{ID: "where_1", Label: "WHERE"})
//	g.AddEdge(dag.Edge{From: "orders", To: "where_1"})
//
// [FromDFD] fails fast on edges that reference unknown nodes, returning a
// DANGLING_EDGE error that names the edge and the missing id.
//
// # Levels
//
// A node's level is its longest-path depth from any source. Levels are
// computed by the transform subpackage and stored back with
// [DAG.SetLevels]; [DAG.NodesAtLevel] then returns the nodes of one layout
// column in insertion order.
//
// # Crossings
//
// [CountCrossings] and [CountLayerCrossings] count edge crossings between
// adjacent columns for a given vertical order, using a Fenwick tree. The
// layout engine reports the count for diagnostics.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Read-only queries on a
// graph that is no longer modified may run in parallel.
//
// [transform]: github.com/matzehuels/dfdlayout/pkg/dag/transform
package dag
