// Package layout computes initial positions for data-flow diagrams.
//
// # Overview
//
// The engine is a pure function from a parser graph to a positioned
// diagram. Columns come from topological depth, rows from "flows": chains
// of single-parent nodes hanging off one source table. Flows that later
// converge at a JOIN or UNION are placed in adjacent lanes so the lines
// into the merge stay short.
//
//	d, err := layout.Compute(g)
//	d, err := layout.Compute(g, layout.WithSpacing(300, 150))
//
// # Pipeline
//
//  1. Index the graph ([dag.FromDFD]); dangling edges fail fast.
//  2. Assign levels ([transform.AssignLevels]); x = level * HorizontalSpacing.
//  3. Trace flows from every source, in label order, through single-parent
//     children. The first flow to reach a node owns it.
//  4. Find merge points: nodes with two or more parents whose parents carry
//     more than one distinct flow.
//  5. Assign lanes. Flows meeting at a merge point are grouped first, then
//     each remaining flow gets its own group. Lanes count up across groups.
//  6. Resolve y level by level. Sources sit on their lane, single-parent
//     nodes on their parent's row, merges halfway between their outermost
//     parents. Nodes of a level are then swept top to bottom so that
//     neighbours are at least GapRatio * VerticalSpacing apart. Finally all
//     rows shift so the smallest y is 0.
//  7. Route edges: "step" into nodes with two or more incoming edges,
//     "straight" otherwise.
//
// # Determinism
//
// Identical input yields identical output. Every iteration runs over
// slices in input order, and every sort is stable, with labels compared
// byte-wise unless a collation language is configured.
//
// # Concurrency
//
// Compute and ComputeDAG share no state between calls and may run
// concurrently. ComputeDAG does not modify its graph argument.
//
// [dag.FromDFD]: github.com/matzehuels/dfdlayout/pkg/dag.FromDFD
// [transform.AssignLevels]: github.com/matzehuels/dfdlayout/pkg/dag/transform.AssignLevels
package layout
