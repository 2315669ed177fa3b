package dfd

import (
	"encoding/json"
	"strings"
	"testing"

	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

func TestGraph_Validate(t *testing.T) {
	orders := Node{ID: "t1", Type: NodeTable, Label: "orders", Columns: []string{"id"}}
	where := Node{ID: "l1", Type: NodeLogic, Label: "WHERE\nstatus = 'paid'", LogicType: LogicWhere}

	tests := []struct {
		name  string
		graph Graph
		code  apperr.Code
		msg   string
	}{
		{
			name:  "valid",
			graph: Graph{Nodes: []Node{orders, where}, Edges: []Edge{{ID: "edge-1", Source: "t1", Target: "l1"}}},
		},
		{
			name: "empty",
		},
		{
			name:  "empty id",
			graph: Graph{Nodes: []Node{{Type: NodeTable}}},
			code:  apperr.ErrCodeInvalidGraph,
		},
		{
			name:  "duplicate id",
			graph: Graph{Nodes: []Node{orders, orders}},
			code:  apperr.ErrCodeDuplicateNode,
			msg:   `duplicate node id "t1"`,
		},
		{
			name:  "unknown type",
			graph: Graph{Nodes: []Node{{ID: "x", Type: "view"}}},
			code:  apperr.ErrCodeInvalidGraph,
			msg:   `unknown type "view"`,
		},
		{
			name:  "unknown logic type",
			graph: Graph{Nodes: []Node{{ID: "x", Type: NodeLogic, LogicType: "having"}}},
			code:  apperr.ErrCodeInvalidGraph,
			msg:   `unknown logic type "having"`,
		},
		{
			name:  "control character in label",
			graph: Graph{Nodes: []Node{{ID: "x", Type: NodeTable, Label: "a\x00b"}}},
			code:  apperr.ErrCodeInvalidGraph,
		},
		{
			name:  "dangling target",
			graph: Graph{Nodes: []Node{orders}, Edges: []Edge{{ID: "edge-3", Source: "t1", Target: "gone"}}},
			code:  apperr.ErrCodeDanglingEdge,
			msg:   `edge edge-3: unknown target node "gone"`,
		},
		{
			name:  "dangling source without id",
			graph: Graph{Nodes: []Node{orders}, Edges: []Edge{{Source: "gone", Target: "t1"}}},
			code:  apperr.ErrCodeDanglingEdge,
			msg:   `edge #0: unknown source node "gone"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !apperr.Is(err, tt.code) {
				t.Fatalf("Validate() = %v, want code %s", err, tt.code)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("Validate() = %q, want it to contain %q", err, tt.msg)
			}
		})
	}
}

func TestGraph_NormalizeEdgeIDs(t *testing.T) {
	g := Graph{Edges: []Edge{{Source: "a", Target: "b"}, {ID: "keep", Source: "b", Target: "c"}, {Source: "c", Target: "d"}}}
	g.NormalizeEdgeIDs()

	want := []string{"edge-1", "keep", "edge-3"}
	for i, e := range g.Edges {
		if e.ID != want[i] {
			t.Errorf("edge %d id = %q, want %q", i, e.ID, want[i])
		}
	}
}

func TestLogicType_Valid(t *testing.T) {
	for _, lt := range []LogicType{LogicWhere, LogicJoin, LogicGroupBy, LogicUnion, LogicCase} {
		if !lt.Valid() {
			t.Errorf("%q should be valid", lt)
		}
	}
	if LogicType("order").Valid() {
		t.Error(`"order" should not be valid`)
	}
}

func TestPlacedNode_JSON(t *testing.T) {
	p := PlacedNode{
		Node:     Node{ID: "l1", Type: NodeLogic, Label: "JOIN", LogicType: LogicJoin},
		Position: Position{X: 350, Y: 90},
		Level:    1,
		Lane:     -1,
		IsSource: false,
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"l1","type":"logic","label":"JOIN","logicType":"join","position":{"x":350,"y":90},"level":1,"lane":-1,"isSource":false,"isOutput":false}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}

	e, _ := json.Marshal(RoutedEdge{Edge: Edge{ID: "edge-1", Source: "a", Target: "l1"}, Style: RouteStep})
	if got := string(e); got != `{"id":"edge-1","source":"a","target":"l1","type":"step"}` {
		t.Errorf("edge json = %s", got)
	}
}

func TestDiagram_Node(t *testing.T) {
	d := Diagram{Nodes: []PlacedNode{{Node: Node{ID: "a"}}, {Node: Node{ID: "b"}, Level: 1}}}
	if n, ok := d.Node("b"); !ok || n.Level != 1 {
		t.Errorf("Node(b) = %+v, %v", n, ok)
	}
	if _, ok := d.Node("c"); ok {
		t.Error("Node(c) should not be found")
	}
}
