package layout

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"slices"
	"sort"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/matzehuels/dfdlayout/pkg/dag"
	"github.com/matzehuels/dfdlayout/pkg/dag/transform"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

func table(id, label string) dfd.Node { return dfd.Node{ID: id, Type: dfd.NodeTable, Label: label} }

func logic(id, label string, t dfd.LogicType) dfd.Node {
	return dfd.Node{ID: id, Type: dfd.NodeLogic, Label: label, LogicType: t}
}

func edges(pairs ...string) []dfd.Edge {
	var out []dfd.Edge
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, dfd.Edge{ID: fmt.Sprintf("edge-%d", i/2+1), Source: pairs[i], Target: pairs[i+1]})
	}
	return out
}

func mustCompute(t *testing.T, g dfd.Graph, opts ...Option) dfd.Diagram {
	t.Helper()
	d, err := Compute(g, opts...)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return d
}

func node(t *testing.T, d dfd.Diagram, id string) dfd.PlacedNode {
	t.Helper()
	n, ok := d.Node(id)
	if !ok {
		t.Fatalf("node %q missing from diagram", id)
	}
	return n
}

func TestCompute_SingleEdge(t *testing.T) {
	d := mustCompute(t, dfd.Graph{
		Nodes: []dfd.Node{table("S", "S"), table("T", "T")},
		Edges: edges("S", "T"),
	})

	s, tt := node(t, d, "S"), node(t, d, "T")
	if s.Level != 0 || tt.Level != 1 {
		t.Errorf("levels = {S:%d T:%d}, want {S:0 T:1}", s.Level, tt.Level)
	}
	if s.Position != (dfd.Position{X: 0, Y: 0}) {
		t.Errorf("S position = %+v", s.Position)
	}
	if tt.Position != (dfd.Position{X: DefaultHorizontalSpacing, Y: 0}) {
		t.Errorf("T position = %+v", tt.Position)
	}
	if d.Edges[0].Style != dfd.RouteStraight {
		t.Errorf("edge style = %s, want straight", d.Edges[0].Style)
	}
}

func TestCompute_Merge(t *testing.T) {
	d := mustCompute(t, dfd.Graph{
		Nodes: []dfd.Node{table("A", "A"), table("B", "B"), logic("M", "JOIN", dfd.LogicJoin)},
		Edges: edges("A", "M", "B", "M"),
	})

	a, b, m := node(t, d, "A"), node(t, d, "B"), node(t, d, "M")
	if m.Level != 1 {
		t.Errorf("level(M) = %d, want 1", m.Level)
	}
	if want := (a.Position.Y + b.Position.Y) / 2; m.Position.Y != want {
		t.Errorf("y(M) = %v, want %v", m.Position.Y, want)
	}
	if a.Position.Y != 0 || b.Position.Y != DefaultVerticalSpacing {
		t.Errorf("y(A), y(B) = %v, %v; want adjacent lanes 0, 180", a.Position.Y, b.Position.Y)
	}
	for _, e := range d.Edges {
		if e.Style != dfd.RouteStep {
			t.Errorf("edge %s style = %s, want step", e.ID, e.Style)
		}
	}
	if m.Lane != -1 || m.FlowID != "" {
		t.Errorf("merge node has lane %d flow %q, want none", m.Lane, m.FlowID)
	}
}

func TestCompute_Chain(t *testing.T) {
	d := mustCompute(t, dfd.Graph{
		Nodes: []dfd.Node{table("A", "A"), logic("B", "WHERE", dfd.LogicWhere), table("C", "OUTPUT")},
		Edges: edges("A", "B", "B", "C"),
	})

	for i, id := range []string{"A", "B", "C"} {
		n := node(t, d, id)
		if n.Level != i {
			t.Errorf("level(%s) = %d, want %d", id, n.Level, i)
		}
		if n.Position.Y != 0 {
			t.Errorf("y(%s) = %v, want 0", id, n.Position.Y)
		}
		if n.FlowID != "A" || n.Lane != 0 {
			t.Errorf("%s flow %q lane %d, want A/0", id, n.FlowID, n.Lane)
		}
	}
	if !node(t, d, "C").IsOutput {
		t.Error("C should be the output")
	}
}

func TestCompute_DanglingEdge(t *testing.T) {
	tests := []struct {
		name string
		edge dfd.Edge
		want string
	}{
		{"missing target", dfd.Edge{ID: "edge-7", Source: "A", Target: "X"}, `edge edge-7 references target "X"`},
		{"missing source", dfd.Edge{ID: "edge-8", Source: "X", Target: "A"}, `edge edge-8 references source "X"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(dfd.Graph{Nodes: []dfd.Node{table("A", "A")}, Edges: []dfd.Edge{tt.edge}})
			if !apperr.Is(err, apperr.ErrCodeDanglingEdge) {
				t.Fatalf("Compute() error = %v, want DANGLING_EDGE", err)
			}
			if msg := apperr.UserMessage(err); !strings.HasPrefix(msg, tt.want) {
				t.Errorf("message = %q, want prefix %q", msg, tt.want)
			}
		})
	}
}

func TestCompute_Empty(t *testing.T) {
	d := mustCompute(t, dfd.Graph{})
	if d.Nodes == nil || d.Edges == nil {
		t.Error("empty diagram should have non-nil slices")
	}
	if len(d.Nodes) != 0 || len(d.Edges) != 0 || d.MaxLevel != 0 {
		t.Errorf("Compute(empty) = %+v", d)
	}
}

// sqlGraph is a typical query: orders filtered then joined with customers,
// then unioned with products into the output.
func sqlGraph() dfd.Graph {
	return dfd.Graph{
		Nodes: []dfd.Node{
			table("o", "orders"),
			table("c", "customers"),
			table("p", "products"),
			logic("w", "WHERE", dfd.LogicWhere),
			logic("j", "JOIN", dfd.LogicJoin),
			table("out", "OUTPUT"),
		},
		Edges: edges("o", "w", "w", "j", "c", "j", "j", "out", "p", "out"),
	}
}

func TestComputeDAG_Pipeline(t *testing.T) {
	g, err := dag.FromDFD(sqlGraph())
	if err != nil {
		t.Fatal(err)
	}
	res, err := ComputeDAG(g, DefaultOptions())
	if err != nil {
		t.Fatalf("ComputeDAG() error = %v", err)
	}

	wantLevels := map[string]int{"o": 0, "c": 0, "p": 0, "w": 1, "j": 2, "out": 3}
	if !reflect.DeepEqual(res.Levels, wantLevels) {
		t.Errorf("Levels = %v, want %v", res.Levels, wantLevels)
	}
	if want := []string{"c", "o", "p"}; !slices.Equal(res.Sources, want) {
		t.Errorf("Sources = %v, want %v", res.Sources, want)
	}
	wantFlows := map[string]string{"c": "c", "o": "o", "w": "o", "p": "p"}
	if !reflect.DeepEqual(res.Flows, wantFlows) {
		t.Errorf("Flows = %v, want %v", res.Flows, wantFlows)
	}
	wantMerges := []MergePoint{{Node: "j", Flows: []string{"o", "c"}}}
	if !reflect.DeepEqual(res.MergePoints, wantMerges) {
		t.Errorf("MergePoints = %v, want %v", res.MergePoints, wantMerges)
	}
	if want := [][]string{{"c", "o"}, {"p"}}; !reflect.DeepEqual(res.Groups, want) {
		t.Errorf("Groups = %v, want %v", res.Groups, want)
	}
	if want := map[string]int{"c": 0, "o": 1, "p": 2}; !reflect.DeepEqual(res.Lanes, want) {
		t.Errorf("Lanes = %v, want %v", res.Lanes, want)
	}

	wantPos := map[string]dfd.Position{
		"c":   {X: 0, Y: 0},
		"o":   {X: 0, Y: 180},
		"p":   {X: 0, Y: 360},
		"w":   {X: 350, Y: 180},
		"j":   {X: 700, Y: 90},
		"out": {X: 1050, Y: 225},
	}
	for id, want := range wantPos {
		if got := node(t, res.Diagram, id).Position; got != want {
			t.Errorf("position(%s) = %+v, want %+v", id, got, want)
		}
	}

	wantStyles := []dfd.RouteStyle{dfd.RouteStraight, dfd.RouteStep, dfd.RouteStep, dfd.RouteStep, dfd.RouteStep}
	for i, e := range res.Diagram.Edges {
		if e.Style != wantStyles[i] {
			t.Errorf("edge %s→%s style = %s, want %s", e.Source, e.Target, e.Style, wantStyles[i])
		}
	}

	if res.Diagram.MaxLevel != 3 || res.Diagram.Width != 1050 || res.Diagram.Height != 360 {
		t.Errorf("extent = level %d, %vx%v", res.Diagram.MaxLevel, res.Diagram.Width, res.Diagram.Height)
	}
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}
	if n := node(t, res.Diagram, "out"); !n.IsOutput || n.Lane != -1 {
		t.Errorf("out = %+v", n)
	}
	if n := node(t, res.Diagram, "w"); n.Type != dfd.NodeLogic || n.LogicType != dfd.LogicWhere {
		t.Errorf("w lost its node data: %+v", n.Node)
	}
}

func TestCompute_GapSweep(t *testing.T) {
	// Three single-parent children all target y(S) = 0.
	d := mustCompute(t, dfd.Graph{
		Nodes: []dfd.Node{table("S", "S"), table("a", "a"), table("b", "b"), table("c", "c")},
		Edges: edges("S", "a", "S", "b", "S", "c"),
	})
	gap := DefaultVerticalSpacing * DefaultGapRatio
	for i, id := range []string{"a", "b", "c"} {
		if got, want := node(t, d, id).Position.Y, float64(i)*gap; got != want {
			t.Errorf("y(%s) = %v, want %v", id, got, want)
		}
	}
}

func TestCompute_Flags(t *testing.T) {
	d := mustCompute(t, dfd.Graph{
		Nodes: []dfd.Node{table("a", "a"), table("x", "OUTPUT"), table("b", "b"), table("end", "end")},
		Edges: edges("a", "x", "a", "b", "b", "end"),
	})
	// x is labelled OUTPUT but sits at level 1 of 2.
	if node(t, d, "x").IsOutput {
		t.Error("x is not at the max level and must not be the output")
	}
	if !node(t, d, "a").IsSource || node(t, d, "b").IsSource {
		t.Error("only a is a source")
	}

	d = mustCompute(t, dfd.Graph{
		Nodes: []dfd.Node{table("a", "a"), table("r", "RESULT")},
		Edges: edges("a", "r"),
	}, WithOutputLabel("RESULT"))
	if !node(t, d, "r").IsOutput {
		t.Error("custom output label not honoured")
	}
}

func TestCompute_Spacing(t *testing.T) {
	d := mustCompute(t, dfd.Graph{
		Nodes: []dfd.Node{table("A", "A"), table("B", "B"), table("M", "M")},
		Edges: edges("A", "M", "B", "M"),
	}, WithSpacing(100, 50))
	if got := node(t, d, "M").Position; got != (dfd.Position{X: 100, Y: 25}) {
		t.Errorf("M position = %+v, want {100 25}", got)
	}
}

func TestCompute_CyclePolicies(t *testing.T) {
	g := dfd.Graph{
		Nodes: []dfd.Node{table("a", "a"), table("b", "b"), table("c", "c")},
		Edges: edges("a", "b", "b", "c", "c", "b"),
	}

	t.Run("reject", func(t *testing.T) {
		_, err := Compute(g)
		if !apperr.Is(err, apperr.ErrCodeCyclicGraph) {
			t.Fatalf("Compute() error = %v, want CYCLIC_GRAPH", err)
		}
	})

	t.Run("tolerate", func(t *testing.T) {
		d := mustCompute(t, g, WithCyclePolicy(transform.CycleTolerate))
		want := map[string]dfd.Position{"a": {X: 0}, "c": {X: 350}, "b": {X: 700}}
		for id, p := range want {
			if got := node(t, d, id).Position; got != p {
				t.Errorf("position(%s) = %+v, want %+v", id, got, p)
			}
		}
		styles := []dfd.RouteStyle{dfd.RouteStep, dfd.RouteStraight, dfd.RouteStep}
		for i, e := range d.Edges {
			if e.Style != styles[i] {
				t.Errorf("edge %d style = %s, want %s", i, e.Style, styles[i])
			}
		}
	})

	t.Run("break", func(t *testing.T) {
		d, err := dag.FromDFD(g)
		if err != nil {
			t.Fatal(err)
		}
		opts := DefaultOptions()
		opts.CyclePolicy = transform.CycleBreak
		res, err := ComputeDAG(d, opts)
		if err != nil {
			t.Fatalf("ComputeDAG() error = %v", err)
		}
		if want := [][2]string{{"c", "b"}}; !reflect.DeepEqual(res.RemovedEdges, want) {
			t.Errorf("RemovedEdges = %v, want %v", res.RemovedEdges, want)
		}
		if d.EdgeCount() != 3 {
			t.Errorf("input graph was modified")
		}
		if len(res.Diagram.Edges) != 3 {
			t.Errorf("diagram has %d edges, want all 3", len(res.Diagram.Edges))
		}
		if got := res.Levels; got["a"] != 0 || got["b"] != 1 || got["c"] != 2 {
			t.Errorf("Levels = %v", got)
		}
	})
}

func TestCompute_Collation(t *testing.T) {
	g := dfd.Graph{Nodes: []dfd.Node{table("z", "zeta"), table("e", "étude"), table("f", "fact")}}

	lanes := func(d dfd.Diagram) []string {
		ids := []string{"z", "e", "f"}
		sort.SliceStable(ids, func(i, j int) bool { return node(t, d, ids[i]).Lane < node(t, d, ids[j]).Lane })
		return ids
	}

	if got := lanes(mustCompute(t, g)); !slices.Equal(got, []string{"f", "z", "e"}) {
		t.Errorf("byte-wise lane order = %v, want [f z e]", got)
	}
	if got := lanes(mustCompute(t, g, WithCollator(language.French))); !slices.Equal(got, []string{"e", "f", "z"}) {
		t.Errorf("collated lane order = %v, want [e f z]", got)
	}
}

func TestCompute_EqualLabelsKeepInputOrder(t *testing.T) {
	d := mustCompute(t, dfd.Graph{Nodes: []dfd.Node{table("second", "t"), table("first", "t")}})
	if node(t, d, "second").Lane != 0 || node(t, d, "first").Lane != 1 {
		t.Error("equal labels should keep input order")
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name string
		mod  Option
	}{
		{"zero horizontal", WithSpacing(0, 180)},
		{"negative vertical", WithSpacing(350, -1)},
		{"zero gap", WithGapRatio(0)},
		{"bad policy", WithCyclePolicy(transform.CyclePolicy(9))},
		{"bad collation", func(o *Options) { o.Collation = "not a tag!" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(dfd.Graph{}, tt.mod)
			if !apperr.Is(err, apperr.ErrCodeInvalidOption) {
				t.Errorf("Compute() error = %v, want INVALID_OPTION", err)
			}
		})
	}
}

// randomGraph builds an acyclic graph whose edges run from lower to higher
// index, with nodes inserted in shuffled order.
func randomGraph(rng *rand.Rand, n int, density float64) dfd.Graph {
	var g dfd.Graph
	for _, i := range rng.Perm(n) {
		label := string(rune('a' + rng.Intn(6)))
		g.Nodes = append(g.Nodes, table(fmt.Sprintf("n%d", i), label))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < density {
				g.Edges = append(g.Edges, dfd.Edge{
					ID:     fmt.Sprintf("edge-%d", len(g.Edges)+1),
					Source: fmt.Sprintf("n%d", i),
					Target: fmt.Sprintf("n%d", j),
				})
			}
		}
	}
	return g
}

func TestCompute_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	minGap := DefaultVerticalSpacing * DefaultGapRatio

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(25)
		g := randomGraph(rng, n, 0.05+rng.Float64()*0.3)
		d := mustCompute(t, g)

		// Longest path from any source, computed in index order.
		longest := make(map[string]int)
		inDegree := make(map[string]int)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("n%d", i)
			for _, e := range g.Edges {
				if e.Target == id {
					longest[id] = max(longest[id], longest[e.Source]+1)
					inDegree[id]++
				}
			}
		}

		byLevel := make(map[int][]float64)
		for _, p := range d.Nodes {
			if p.Level != longest[p.ID] {
				t.Fatalf("iter %d: level(%s) = %d, want %d", iter, p.ID, p.Level, longest[p.ID])
			}
			if p.IsSource != (inDegree[p.ID] == 0) {
				t.Fatalf("iter %d: %s IsSource = %v with in-degree %d", iter, p.ID, p.IsSource, inDegree[p.ID])
			}
			if p.Position.X != float64(p.Level)*DefaultHorizontalSpacing {
				t.Fatalf("iter %d: x(%s) = %v", iter, p.ID, p.Position.X)
			}
			byLevel[p.Level] = append(byLevel[p.Level], p.Position.Y)
		}

		top := math.Inf(1)
		for _, ys := range byLevel {
			slices.Sort(ys)
			top = min(top, ys[0])
			for i := 1; i < len(ys); i++ {
				if ys[i]-ys[i-1] < minGap-1e-9 {
					t.Fatalf("iter %d: gap %v < %v", iter, ys[i]-ys[i-1], minGap)
				}
			}
		}
		if top != 0 {
			t.Fatalf("iter %d: min y = %v, want 0", iter, top)
		}

		for _, e := range d.Edges {
			if want := inDegree[e.Target] >= 2; (e.Style == dfd.RouteStep) != want {
				t.Fatalf("iter %d: edge %s style %s with target in-degree %d", iter, e.ID, e.Style, inDegree[e.Target])
			}
		}

		again := mustCompute(t, g)
		if !reflect.DeepEqual(d, again) {
			t.Fatalf("iter %d: layout is not deterministic", iter)
		}
	}
}
