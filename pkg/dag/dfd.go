package dag

import (
	"errors"
	"strconv"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

// Metadata keys set by [FromDFD].
const (
	MetaNodeType  = "type"
	MetaLogicType = "logicType"
	MetaColumns   = "columns"
)

// FromDFD indexes a parser graph. Nodes keep their input order and edges
// keep theirs, so parent and child lists follow the edge list.
//
// Any edge naming a node that is not in g.Nodes fails the whole call with a
// DANGLING_EDGE error naming the edge and the missing endpoint. Duplicate
// node ids fail with DUPLICATE_NODE. Cycles are not checked here; see
// [DAG.Validate] and the transform package.
func FromDFD(g dfd.Graph) (*DAG, error) {
	d := New(nil)
	for _, n := range g.Nodes {
		meta := Metadata{MetaNodeType: n.Type}
		if n.LogicType != "" {
			meta[MetaLogicType] = n.LogicType
		}
		if len(n.Columns) > 0 {
			meta[MetaColumns] = n.Columns
		}
		err := d.AddNode(Node{ID: n.ID, Label: n.Label, Meta: meta})
		switch {
		case errors.Is(err, ErrDuplicateNodeID):
			return nil, apperr.Wrap(apperr.ErrCodeDuplicateNode, err, "node %q", n.ID)
		case err != nil:
			return nil, apperr.Wrap(apperr.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}
	}
	for i, e := range g.Edges {
		err := d.AddEdge(Edge{ID: e.ID, From: e.Source, To: e.Target, Label: e.Label})
		switch {
		case errors.Is(err, ErrUnknownSourceNode):
			return nil, apperr.Wrap(apperr.ErrCodeDanglingEdge, err, "edge %s references source %q", edgeRef(e.ID, i), e.Source)
		case errors.Is(err, ErrUnknownTargetNode):
			return nil, apperr.Wrap(apperr.ErrCodeDanglingEdge, err, "edge %s references target %q", edgeRef(e.ID, i), e.Target)
		case err != nil:
			return nil, err
		}
	}
	return d, nil
}

func edgeRef(id string, i int) string {
	if id != "" {
		return id
	}
	return "#" + strconv.Itoa(i)
}
