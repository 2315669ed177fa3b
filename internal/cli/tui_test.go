package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/pipeline"
)

const joinGraphJSON = `{
  "nodes": [
    {"id": "orders", "type": "table", "label": "orders", "columns": ["id", "customer_id"]},
    {"id": "customers", "type": "table", "label": "customers", "columns": ["id", "name"]},
    {"id": "join_1", "type": "logic", "label": "JOIN", "logicType": "join"},
    {"id": "output", "type": "table", "label": "OUTPUT"}
  ],
  "edges": [
    {"id": "edge-1", "source": "orders", "target": "join_1", "label": "customer_id"},
    {"id": "edge-2", "source": "customers", "target": "join_1"},
    {"id": "edge-3", "source": "join_1", "target": "output"}
  ]
}`

func testLayout(t *testing.T) graph.Layout {
	t.Helper()
	g, err := graph.UnmarshalGraph([]byte(joinGraphJSON))
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	r := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	l, err := r.Layout(context.Background(), g, pipeline.Options{Diagnostics: true})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return l
}

func TestLevelTable(t *testing.T) {
	out := levelTable(testLayout(t))

	for _, want := range []string{"Level", "Flags", "orders", "customers", "join_1", "logic/join", "source", "merge", "output"} {
		if !strings.Contains(out, want) {
			t.Errorf("levelTable() missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(out, "\n")
	// Top border, header, separator, four rows, bottom border.
	if len(lines) != 8 {
		t.Errorf("levelTable() has %d lines, want 8:\n%s", len(lines), out)
	}
}

func TestNodeIndexOrder(t *testing.T) {
	idx := newNodeIndex(testLayout(t))

	if len(idx.rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(idx.rows))
	}
	for i := 1; i < len(idx.rows); i++ {
		a, b := idx.rows[i-1], idx.rows[i]
		if a.Level > b.Level || (a.Level == b.Level && a.Position.Y > b.Position.Y) {
			t.Errorf("rows %d and %d out of order: %+v, %+v", i-1, i, a, b)
		}
	}
	if got := idx.flags(idx.rows[3]); got != "output" {
		t.Errorf("flags(output) = %q, want %q", got, "output")
	}
	if len(idx.incoming["join_1"]) != 2 || len(idx.outgoing["join_1"]) != 1 {
		t.Errorf("join_1 adjacency = %d in, %d out", len(idx.incoming["join_1"]), len(idx.outgoing["join_1"]))
	}
}

func TestInspectModelNavigation(t *testing.T) {
	key := func(s string) tea.Msg {
		switch s {
		case "up":
			return tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "end":
			return tea.KeyMsg{Type: tea.KeyEnd}
		case "home":
			return tea.KeyMsg{Type: tea.KeyHome}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	tests := []struct {
		name   string
		keys   []string
		cursor int
	}{
		{"start", nil, 0},
		{"down", []string{"down"}, 1},
		{"vim keys", []string{"j", "j", "k"}, 1},
		{"clamped at top", []string{"up", "up"}, 0},
		{"clamped at bottom", []string{"down", "down", "down", "down", "down"}, 3},
		{"end", []string{"end"}, 3},
		{"home", []string{"end", "home"}, 0},
	}

	l := testLayout(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = NewInspectModel(l)
			for _, k := range tt.keys {
				m, _ = m.Update(key(k))
			}
			if got := m.(InspectModel).Cursor; got != tt.cursor {
				t.Errorf("Cursor = %d, want %d", got, tt.cursor)
			}
		})
	}
}

func TestInspectModelScroll(t *testing.T) {
	var m tea.Model = NewInspectModel(testLayout(t))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})

	im := m.(InspectModel)
	if im.Height != 5 {
		t.Fatalf("Height = %d, want 5", im.Height)
	}

	im.Height = 2
	im.moveTo(3)
	if im.Offset != 2 {
		t.Errorf("Offset = %d, want 2", im.Offset)
	}
	im.moveTo(0)
	if im.Offset != 0 {
		t.Errorf("Offset = %d, want 0", im.Offset)
	}
}

func TestInspectModelQuit(t *testing.T) {
	m := NewInspectModel(testLayout(t))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestInspectModelView(t *testing.T) {
	m := NewInspectModel(testLayout(t))
	m.Cursor = 3

	view := m.View()
	for _, want := range []string{"4 nodes", "3 edges", "3 levels", "[4/4]", "OUTPUT", "from", "join_1"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m.Cursor = 0
	if first := m.View(); !strings.Contains(first, "source") {
		t.Errorf("View() of a source node should flag it:\n%s", first)
	}
}

func TestInspectModelEmpty(t *testing.T) {
	m := NewInspectModel(graph.Layout{})
	if _, ok := m.Current(); ok {
		t.Error("Current() on an empty layout should report false")
	}
	if view := m.View(); !strings.Contains(view, "empty graph") {
		t.Errorf("View() = %q", view)
	}
}

func TestPrintLayoutSummary(t *testing.T) {
	var buf bytes.Buffer
	out = &buf
	t.Cleanup(func() { out = os.Stdout })

	printLayoutSummary(testLayout(t))

	for _, want := range []string{"join_1", "levels", "merge points", "crossings", "join_1 ← "} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}
}

func TestKindStyle(t *testing.T) {
	tests := []struct {
		node dfd.Node
		want string
	}{
		{dfd.Node{Type: dfd.NodeTable}, string(dfd.NodeTable)},
		{dfd.Node{Type: dfd.NodeLogic, LogicType: dfd.LogicJoin}, string(dfd.LogicJoin)},
		{dfd.Node{Type: dfd.NodeLogic, LogicType: dfd.LogicUnion}, string(dfd.LogicUnion)},
	}
	for _, tt := range tests {
		if got, want := kindStyle(tt.node).GetForeground(), kindStyles[tt.want].GetForeground(); got != want {
			t.Errorf("kindStyle(%s) foreground = %v, want %v", tt.want, got, want)
		}
	}

	fallback := kindStyle(dfd.Node{Type: dfd.NodeLogic, LogicType: dfd.LogicCase}).GetForeground()
	if fallback != colorGray {
		t.Errorf("kindStyle(case) foreground = %v, want %v", fallback, colorGray)
	}
}
