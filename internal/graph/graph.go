// Package graph validates task dependency graphs for structural correctness.
//
// Validation is a pure function over a node set and a directed edge list.
// It rejects edges with unknown endpoints, self-dependencies, duplicate
// edges, and cycles. All traversal orders are deterministic: nodes are
// visited in the order the caller supplies them and outgoing edges in the
// order they appear in the edge list, so the reported offending edge is
// stable across runs with identical input.
package graph

import "github.com/twiced-technology-gmbh/planwright/internal/clierr"

// Edge is a directed dependency: From cannot start until To is complete.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Result is the outcome of validating a dependency graph.
// On failure, Reason holds one of the clierr graph codes and Edge points
// at the specific offending pair (nil for whole-graph issues).
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Edge   *Edge  `json:"edge,omitempty"`
}

// node traversal states for cycle detection.
const (
	stateUnvisited = iota
	stateVisiting
	stateDone
)

// Validate checks a dependency graph for structural errors.
//
// Checks run in order: unknown endpoints, self-dependencies, and duplicate
// edges are detected per edge in edge-list order; cycles are detected last
// via depth-first traversal seeded from nodes in caller order. The first
// back-edge discovered is reported.
func Validate(nodes []string, edges []Edge) Result {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n] = true
	}

	seen := make(map[Edge]bool, len(edges))
	for i := range edges {
		e := edges[i]
		if !known[e.From] || !known[e.To] {
			return fail(clierr.UnknownNode, &e)
		}
		if e.From == e.To {
			return fail(clierr.SelfDependency, &e)
		}
		if seen[e] {
			return fail(clierr.DuplicateEdge, &e)
		}
		seen[e] = true
	}

	if back := findBackEdge(nodes, edges); back != nil {
		return fail(clierr.Cycle, back)
	}

	return Result{OK: true}
}

func fail(reason string, e *Edge) Result {
	// Copy so the result does not alias the caller's slice backing array.
	edge := *e
	return Result{OK: false, Reason: reason, Edge: &edge}
}

// frame is one level of the explicit DFS stack: a node and the index of the
// next outgoing edge to explore. An explicit stack avoids recursion depth
// limits on large graphs.
type frame struct {
	node string
	next int
}

// findBackEdge runs an iterative depth-first search and returns the first
// edge that points at a node currently on the traversal stack.
func findBackEdge(nodes []string, edges []Edge) *Edge {
	// Adjacency lists preserve the supplied edge order per node.
	out := make(map[string][]Edge, len(nodes))
	for _, e := range edges {
		out[e.From] = append(out[e.From], e)
	}

	state := make(map[string]int, len(nodes))

	for _, root := range nodes {
		if state[root] != stateUnvisited {
			continue
		}

		stack := []frame{{node: root}}
		state[root] = stateVisiting

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			adj := out[top.node]

			if top.next >= len(adj) {
				state[top.node] = stateDone
				stack = stack[:len(stack)-1]
				continue
			}

			e := adj[top.next]
			top.next++

			switch state[e.To] {
			case stateVisiting:
				return &e
			case stateUnvisited:
				state[e.To] = stateVisiting
				stack = append(stack, frame{node: e.To})
			}
		}
	}

	return nil
}
