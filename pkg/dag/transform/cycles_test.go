package transform

import (
	"slices"
	"testing"
)

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name        string
		nodes       []string
		edges       [][2]string
		wantRemoved [][2]string
	}{
		{
			name:  "no cycles",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
		},
		{
			name:        "simple cycle",
			nodes:       []string{"a", "b"},
			edges:       [][2]string{{"a", "b"}, {"b", "a"}},
			wantRemoved: [][2]string{{"b", "a"}},
		},
		{
			name:        "triangle",
			nodes:       []string{"a", "b", "c"},
			edges:       [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			wantRemoved: [][2]string{{"c", "a"}},
		},
		{
			name:        "cycle below source",
			nodes:       []string{"s", "b", "c"},
			edges:       [][2]string{{"s", "b"}, {"b", "c"}, {"c", "b"}},
			wantRemoved: [][2]string{{"c", "b"}},
		},
		{
			name:        "self loop",
			nodes:       []string{"a"},
			edges:       [][2]string{{"a", "a"}},
			wantRemoved: [][2]string{{"a", "a"}},
		},
		{
			name:        "two cycles",
			nodes:       []string{"a", "b", "c", "d"},
			edges:       [][2]string{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}},
			wantRemoved: [][2]string{{"b", "a"}, {"d", "c"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(tt.nodes, tt.edges)
			removed := BreakCycles(g)

			if !slices.Equal(removed, tt.wantRemoved) {
				t.Errorf("BreakCycles() = %v, want %v", removed, tt.wantRemoved)
			}
			if got, want := g.EdgeCount(), len(tt.edges)-len(tt.wantRemoved); got != want {
				t.Errorf("EdgeCount() = %d, want %d", got, want)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() after BreakCycles = %v", err)
			}
		})
	}
}
