package transform

import (
	"fmt"
	"strings"

	"github.com/matzehuels/dfdlayout/pkg/dag"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

// CyclePolicy selects how [AssignLevels] treats cyclic input.
type CyclePolicy int

const (
	// CycleReject fails with a CYCLIC_GRAPH error naming the cycle.
	CycleReject CyclePolicy = iota
	// CycleTolerate lets a predecessor that is still being computed count
	// as level 0. Levels on a cycle are then not a true topological order,
	// but every node still gets one.
	CycleTolerate
	// CycleBreak removes back edges with [BreakCycles] before computing.
	CycleBreak
)

var cyclePolicyNames = map[CyclePolicy]string{
	CycleReject:   "reject",
	CycleTolerate: "tolerate",
	CycleBreak:    "break",
}

func (p CyclePolicy) String() string {
	if s, ok := cyclePolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("CyclePolicy(%d)", int(p))
}

// ParseCyclePolicy parses "reject", "tolerate" or "break". The empty string
// selects [CycleReject].
func ParseCyclePolicy(s string) (CyclePolicy, error) {
	if s == "" {
		return CycleReject, nil
	}
	for p, name := range cyclePolicyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return CycleReject, apperr.New(apperr.ErrCodeInvalidOption, "invalid cycle policy %q (must be one of: reject, tolerate, break)", s)
}

// AssignLevels computes the level of every node and records it with
// [dag.DAG.SetLevels].
//
// A node without predecessors is at level 0; any other node is one more
// than the highest level among its predecessors, i.e. the length of the
// longest path from a source. Nodes are visited in insertion order and
// predecessors in edge order, with every result memoised.
//
// The descent keeps an explicit stack of (node, next predecessor) frames.
// A predecessor found on that stack closes a cycle, which policy decides
// how to handle. With [CycleBreak], g is modified: its back edges are
// removed first.
func AssignLevels(g *dag.DAG, policy CyclePolicy) (map[string]int, error) {
	if policy == CycleBreak {
		BreakCycles(g)
		policy = CycleReject
	}

	levels := make(map[string]int, g.NodeCount())
	onStack := make(map[string]bool)

	for _, root := range g.NodeIDs() {
		if _, done := levels[root]; done {
			continue
		}
		onStack[root] = true
		stack := []levelFrame{{id: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			parents := g.Parents(top.id)

			if top.next == len(parents) {
				lvl := 0
				if len(parents) > 0 {
					lvl = top.max + 1
				}
				levels[top.id] = lvl
				delete(onStack, top.id)
				stack = stack[:len(stack)-1]
				if len(stack) > 0 {
					caller := &stack[len(stack)-1]
					caller.max = max(caller.max, lvl)
					caller.next++
				}
				continue
			}

			p := parents[top.next]
			if lvl, done := levels[p]; done {
				top.max = max(top.max, lvl)
				top.next++
				continue
			}
			if onStack[p] {
				if policy == CycleReject {
					return nil, cycleError(stack, p)
				}
				// Tolerated: the in-progress predecessor counts as 0.
				top.next++
				continue
			}
			onStack[p] = true
			stack = append(stack, levelFrame{id: p})
		}
	}

	g.SetLevels(levels)
	return levels, nil
}

// levelFrame is a node whose level is being computed: next indexes its
// next unvisited predecessor and max is the highest level seen so far.
type levelFrame struct {
	id   string
	next int
	max  int
}

// cycleError describes the cycle closed by predecessor p. The stack runs
// from a node to its predecessors, so the cycle is read back to front.
func cycleError(stack []levelFrame, p string) error {
	path := []string{p}
	for i := len(stack) - 1; i >= 0; i-- {
		path = append(path, stack[i].id)
		if stack[i].id == p {
			break
		}
	}
	return apperr.Wrap(apperr.ErrCodeCyclicGraph, dag.ErrGraphHasCycle,
		"cycle through node %q: %s", p, strings.Join(path, " -> "))
}

// MarshalText encodes the policy by name.
func (p CyclePolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText accepts the names understood by [ParseCyclePolicy].
func (p *CyclePolicy) UnmarshalText(text []byte) error {
	v, err := ParseCyclePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
