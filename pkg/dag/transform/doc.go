// Package transform computes derived graph structure for layout.
//
// # Levels
//
// [AssignLevels] gives every node its longest-path depth from a source:
// sources sit at level 0, and every other node one column to the right of
// its deepest predecessor. The level becomes the node's x coordinate.
//
// # Cycles
//
// SQL CTE structures are acyclic, so cyclic input is a contract violation.
// [CyclePolicy] makes the handling explicit:
//
//   - [CycleReject] (default) returns a CYCLIC_GRAPH error naming the cycle
//   - [CycleTolerate] counts an in-progress predecessor as level 0, keeping
//     layouts of slightly broken graphs usable
//   - [CycleBreak] removes back edges with [BreakCycles] first
//
// Both algorithms are iterative and run in O(V + E).
package transform
