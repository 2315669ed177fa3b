package dfd

import (
	"strconv"

	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

// Validate checks the structural contract the layout engine relies on:
// unique non-empty node ids, known node and logic types, and edges whose
// endpoints exist. It returns the first violation found, in input order.
//
// Cycles are not checked here; they are a property of the level assignment
// and are reported (or tolerated) there.
func (g Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if err := apperr.ValidateNodeID(n.ID); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidGraph, err, "node #%d", i)
		}
		if _, dup := seen[n.ID]; dup {
			return apperr.New(apperr.ErrCodeDuplicateNode, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}

		switch n.Type {
		case NodeTable, NodeLogic:
		default:
			return apperr.New(apperr.ErrCodeInvalidGraph, "node %q: unknown type %q", n.ID, n.Type)
		}
		if n.LogicType != "" && !n.LogicType.Valid() {
			return apperr.New(apperr.ErrCodeInvalidGraph, "node %q: unknown logic type %q", n.ID, n.LogicType)
		}
		if err := apperr.ValidateLabel(n.Label); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}
	}

	for i, e := range g.Edges {
		if _, ok := seen[e.Source]; !ok {
			return apperr.New(apperr.ErrCodeDanglingEdge, "edge %s: unknown source node %q", edgeName(e, i), e.Source)
		}
		if _, ok := seen[e.Target]; !ok {
			return apperr.New(apperr.ErrCodeDanglingEdge, "edge %s: unknown target node %q", edgeName(e, i), e.Target)
		}
	}
	return nil
}

func edgeName(e Edge, i int) string {
	if e.ID != "" {
		return e.ID
	}
	return "#" + strconv.Itoa(i)
}
