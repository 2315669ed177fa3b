package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/dfdlayout/pkg/dag"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
)

// resolvePositions places the nodes of every level, lowest level first, and
// returns the positions along with each level's top-to-bottom order.
//
// Within a level, nodes are stably sorted by their target y and swept once
// top to bottom, pushing a node down whenever it would sit closer than
// MinGap to the node above. Afterwards every y is shifted so the smallest
// is 0.
func resolvePositions(g *dag.DAG, flows map[string]string, lanes map[string]int, opts Options) (map[string]dfd.Position, map[int][]string) {
	positions := make(map[string]dfd.Position, g.NodeCount())
	orders := make(map[int][]string, g.LevelCount())
	minGap := opts.MinGap()

	for level := 0; level <= g.MaxLevel(); level++ {
		nodes := g.NodesAtLevel(level)
		ids := make([]string, len(nodes))
		targets := make(map[string]float64, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
			targets[n.ID] = targetY(g, n.ID, positions, flows, lanes, opts.VerticalSpacing)
		}

		slices.SortStableFunc(ids, func(a, b string) int {
			return cmp.Compare(targets[a], targets[b])
		})

		x := float64(level) * opts.HorizontalSpacing
		for i, id := range ids {
			y := targets[id]
			if i > 0 {
				if last := positions[ids[i-1]].Y; y-last < minGap {
					y = last + minGap
				}
			}
			positions[id] = dfd.Position{X: x, Y: y}
		}
		orders[level] = ids
	}

	top := math.Inf(1)
	for _, p := range positions {
		top = min(top, p.Y)
	}
	for id, p := range positions {
		p.Y -= top
		positions[id] = p
	}
	return positions, orders
}

// targetY is where a node would sit if it had its level to itself.
//
//   - a source sits on its own lane
//   - a single-parent node continues its parent's row; if the parent is
//     not placed yet (only possible with tolerated cycles) it falls back
//     to its flow's lane
//   - a merge sits halfway between its highest and lowest placed parent
func targetY(g *dag.DAG, id string, positions map[string]dfd.Position, flows map[string]string, lanes map[string]int, spacing float64) float64 {
	parents := g.Parents(id)
	switch len(parents) {
	case 0:
		return float64(lanes[id]) * spacing
	case 1:
		if p, ok := positions[parents[0]]; ok {
			return p.Y
		}
		if f, ok := flows[id]; ok {
			return float64(lanes[f]) * spacing
		}
		return 0
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range parents {
		if pos, ok := positions[p]; ok {
			lo = min(lo, pos.Y)
			hi = max(hi, pos.Y)
		}
	}
	if math.IsInf(lo, 1) {
		return 0
	}
	return (lo + hi) / 2
}
