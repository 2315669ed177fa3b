package layout

import (
	"slices"

	"github.com/matzehuels/dfdlayout/pkg/dag"
)

// assignLanes groups flows that meet so they land in adjacent lanes.
//
// Each merge point, in order, contributes a group of its flows not yet
// grouped (if any). Every flow still ungrouped afterwards forms a group of
// its own, in source order. Within a group flows are ordered by their
// source's label, then lanes are numbered consecutively across groups.
func assignLanes(g *dag.DAG, merges []MergePoint, sources []string, order labelOrder) ([][]string, map[string]int) {
	grouped := make(map[string]bool, len(sources))
	var groups [][]string

	for _, m := range merges {
		var fresh []string
		for _, f := range m.Flows {
			if !grouped[f] {
				fresh = append(fresh, f)
				grouped[f] = true
			}
		}
		if len(fresh) > 0 {
			groups = append(groups, fresh)
		}
	}
	for _, src := range sources {
		if !grouped[src] {
			groups = append(groups, []string{src})
			grouped[src] = true
		}
	}

	label := func(id string) string {
		if n, ok := g.Node(id); ok {
			return n.Label
		}
		return ""
	}

	lanes := make(map[string]int, len(sources))
	lane := 0
	for _, group := range groups {
		slices.SortStableFunc(group, func(a, b string) int {
			return order(label(a), label(b))
		})
		for _, f := range group {
			lanes[f] = lane
			lane++
		}
	}
	return groups, lanes
}
