package layout

import (
	"slices"

	"github.com/matzehuels/dfdlayout/pkg/dag"
)

// MergePoint is a node where two or more flows converge.
type MergePoint struct {
	Node  string   `json:"node"`
	Flows []string `json:"flows"`
}

// findMergePoints walks nodes in input order and records every node with
// at least two parents whose parents belong to more than one distinct flow.
// Flows are listed in the order their first parent appears; parents
// without a flow are ignored.
func findMergePoints(g *dag.DAG, flows map[string]string) []MergePoint {
	var merges []MergePoint
	for _, id := range g.NodeIDs() {
		parents := g.Parents(id)
		if len(parents) < 2 {
			continue
		}
		var distinct []string
		for _, p := range parents {
			if f, ok := flows[p]; ok && !slices.Contains(distinct, f) {
				distinct = append(distinct, f)
			}
		}
		if len(distinct) > 1 {
			merges = append(merges, MergePoint{Node: id, Flows: distinct})
		}
	}
	return merges
}
