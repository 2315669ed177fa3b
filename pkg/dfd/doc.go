// Package dfd defines the data-flow diagram model shared by every dfdlayout
// package: the parser graph that comes in and the positioned diagram that
// goes out.
//
// Nodes are tables (sources, CTEs, the final OUTPUT) or logic operators
// (WHERE, JOIN, GROUP BY, UNION, CASE). Edges carry data from source to
// target and may have a label such as a join key.
package dfd
