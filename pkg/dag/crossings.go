package dag

import (
	"maps"
	"slices"
)

// PosMap maps each ID in order to its index.
func PosMap(order []string) map[string]int {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	return pos
}

// CountCrossings sums the edge crossings between every pair of consecutive
// levels. orders holds the top-to-bottom node order of each level; missing
// levels count as empty.
//
// Only edges spanning exactly one level are considered. Longer edges are
// drawn across intermediate columns and their crossings depend on routing.
func CountCrossings(g *DAG, orders map[int][]string) int {
	levels := slices.Sorted(maps.Keys(orders))
	total := 0
	for _, lvl := range levels {
		if next, ok := orders[lvl+1]; ok {
			total += CountLayerCrossings(g, orders[lvl], next)
		}
	}
	return total
}

// CountLayerCrossings counts crossings between edges running from the upper
// order into the lower order.
//
// Edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and pos(v1) > pos(v2),
// so the count is the number of inversions in the target positions once the
// edges are sorted by source position. A Fenwick tree counts them in
// O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type span struct{ from, to int }
	spans := make([]span, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if p, ok := lowerPos[child]; ok {
				spans = append(spans, span{i, p})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}

	slices.SortFunc(spans, func(a, b span) int {
		if a.from != b.from {
			return a.from - b.from
		}
		return a.to - b.to
	})

	tree := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, s := range spans {
		atMost := 0
		for q := s.to + 1; q > 0; q -= q & -q {
			atMost += tree[q]
		}
		crossings += seen - atMost

		seen++
		for q := s.to + 1; q < len(tree); q += q & -q {
			tree[q]++
		}
	}
	return crossings
}
