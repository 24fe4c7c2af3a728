package transform

import "github.com/matzehuels/strata/pkg/dag"

// TransitiveReduction removes redundant edges from the graph and returns the
// number removed.
//
// TransitiveReduction removes any edge (u, v) where there exists an alternate
// path from u to v through at least one intermediate node. For example, if
// edges A→B, B→C, and A→C all exist, then A→C is redundant and is removed
// because A reaches C via B.
//
// [CoffmanGraham] runs on a reduced copy of the graph: redundant edges would
// otherwise force vertices into needlessly distant layers.
//
// # Algorithm
//
// TransitiveReduction computes full transitive closure using DFS-based
// reachability, then removes any edge (u, v) where u can reach v through an
// intermediate node w (where u→w and w reaches v).
//
// # Performance
//
// Time complexity is O(V²·E) in the worst case, where V is the number of nodes
// and E is the number of edges. Space complexity is O(V²) for the
// reachability matrix.
//
// # Edge Metadata
//
// TransitiveReduction preserves edge metadata for all non-redundant edges.
// Metadata on removed edges is discarded.
func TransitiveReduction(g *dag.DAG) int {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}

	nodeIndex := dag.NodePosMap(nodes)
	adjacency := make([][]int, len(nodes))
	for _, e := range g.Edges() {
		adjacency[nodeIndex[e.From]] = append(adjacency[nodeIndex[e.From]], nodeIndex[e.To])
	}

	reachability := computeReachability(adjacency)

	removed := 0
	for _, e := range g.Edges() {
		src, dst := nodeIndex[e.From], nodeIndex[e.To]
		for _, intermediate := range adjacency[src] {
			if intermediate != dst && reachability[intermediate][dst] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
