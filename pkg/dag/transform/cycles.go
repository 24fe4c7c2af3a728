package transform

import (
	"maps"

	"github.com/matzehuels/strata/pkg/dag"
)

// MetaReversed is the edge metadata key set by [BreakCycles] on every edge it
// reversed. Layout code uses it to restore the caller's edge direction.
const MetaReversed = "reversed"

// BreakCycles reverses back-edges so that the graph becomes a valid directed
// acyclic graph (DAG).
//
// BreakCycles uses depth-first search with white/gray/black coloring to detect
// cycles. When a gray node is encountered (indicating a back-edge that would
// complete a cycle), that edge is marked. After the search every marked edge
// is replaced by its reverse, keeping its metadata and position in the edge
// list and setting Meta[MetaReversed] to true. The function returns the
// number of edges reversed.
//
// Reversing instead of removing keeps every input edge in the drawing: the
// reversed edge points downward in the layering and is flipped back when
// routes are produced.
//
// # Algorithm
//
// The DFS starts from all source nodes (nodes with in-degree 0) in insertion
// order, then visits any remaining unvisited nodes. A node is:
//   - white: not yet visited
//   - gray: currently being visited (on the DFS stack)
//   - black: fully processed (all descendants visited)
//
// Reversing all back-edges of one DFS always yields an acyclic graph. The set
// is deterministic but not a minimum feedback arc set.
//
// # Self-Loops
//
// A self-loop is its own back-edge and reversing it changes nothing, so
// callers remove self-loops first with [RemoveSelfLoops].
//
// # Performance
//
// Time complexity is O(V + E·B) where B is the number of back-edges, as each
// reversal looks up the edge by endpoints.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{node, child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, be := range backEdges {
		reverseEdge(g, be[0], be[1])
	}
	return len(backEdges)
}

func reverseEdge(g *dag.DAG, from, to string) {
	for _, e := range g.Edges() {
		if e.From != from || e.To != to {
			continue
		}
		meta := maps.Clone(e.Meta)
		meta[MetaReversed] = true
		g.ReplaceEdge(e, dag.Edge{From: to, To: from, Meta: meta})
		return
	}
}

// RemoveSelfLoops deletes every edge whose endpoints coincide and returns
// them in input order.
func RemoveSelfLoops(g *dag.DAG) []dag.Edge {
	var loops []dag.Edge
	for _, e := range g.Edges() {
		if e.From == e.To {
			loops = append(loops, e)
		}
	}
	for _, e := range loops {
		g.RemoveEdge(e.From, e.To)
	}
	return loops
}
