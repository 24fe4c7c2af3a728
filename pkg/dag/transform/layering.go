package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/strata/pkg/dag"
)

// AssignLayers assigns nodes to horizontal rows (layers) based on their depth
// in the graph, with every source at the top.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm) to compute row assignments. Each node is placed at one plus the
// maximum row of any of its parents, ensuring that:
//   - Source nodes (no incoming edges) are at row 0
//   - All parents are strictly above their children
//   - Each node is pushed as deep as necessary to avoid parent conflicts
//
// Existing row assignments in the DAG are overwritten.
//
// # Cycles
//
// AssignLayers assumes the graph is acyclic. If cycles exist, nodes in the
// cycle will never reach zero in-degree and will remain at row 0 (their
// default). Run [BreakCycles] first to ensure correct layering.
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		rows[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}

// LongestPath assigns rows so that every sink sits on the bottom row and each
// other node sits one row above its deepest-reaching child. This is the
// classic longest-path layering: it uses the minimum number of rows and
// keeps edges into sinks short.
//
// Like [AssignLayers] it assumes an acyclic graph and runs in O(V + E).
func LongestPath(g *dag.DAG) {
	nodes := g.Nodes()
	outDegree := make(map[string]int, len(nodes))
	height := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		outDegree[n.ID] = g.OutDegree(n.ID)
	}
	for _, n := range g.Sinks() {
		queue = append(queue, n.ID)
	}

	maxHeight := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		maxHeight = max(maxHeight, height[curr])

		for _, parent := range g.Parents(curr) {
			if h := height[curr] + 1; h > height[parent] {
				height[parent] = h
			}
			outDegree[parent]--
			if outDegree[parent] == 0 {
				queue = append(queue, parent)
			}
		}
	}

	rows := make(map[string]int, len(nodes))
	for _, n := range nodes {
		rows[n.ID] = maxHeight - height[n.ID]
	}
	g.SetRows(rows)
}

// CoffmanGraham assigns rows with at most width nodes per row, counting only
// original nodes (synthetic nodes are inserted later). A width of zero or
// less means unbounded.
//
// The layering is computed on a transitively reduced copy of g, so g itself
// keeps all of its edges. Nodes are first labeled in Coffman–Graham order:
// repeatedly label the node, among those whose parents are all labeled, whose
// descending list of parent labels is lexicographically smallest. Rows are
// then filled bottom-up, taking the highest-labeled node whose children are
// all placed in rows strictly below the current one.
//
// Runs in O(V² + V·E), which is fine for the graph sizes layered drawing is
// useful for.
func CoffmanGraham(g *dag.DAG, width int) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return
	}
	if width <= 0 {
		width = len(nodes)
	}

	reduced := g.Clone()
	TransitiveReduction(reduced)

	label := coffmanGrahamLabels(reduced)

	// layer 0 is the bottom row while filling
	layerOf := make(map[string]int, len(nodes))
	placed := 0
	layer, inLayer := 0, 0
	for placed < len(nodes) {
		best := ""
		for _, n := range nodes {
			if _, done := layerOf[n.ID]; done {
				continue
			}
			ready := true
			for _, c := range reduced.Children(n.ID) {
				if _, ok := layerOf[c]; !ok {
					ready = false
					break
				}
			}
			if ready && (best == "" || label[n.ID] > label[best]) {
				best = n.ID
			}
		}
		if best == "" {
			// cycle: place the remaining nodes on top
			break
		}

		fits := inLayer < width
		for _, c := range reduced.Children(best) {
			if layerOf[c] >= layer {
				fits = false
				break
			}
		}
		if !fits {
			layer++
			inLayer = 0
		}
		layerOf[best] = layer
		inLayer++
		placed++
	}

	rows := make(map[string]int, len(nodes))
	for _, n := range nodes {
		l, ok := layerOf[n.ID]
		if !ok {
			l = layer + 1
		}
		rows[n.ID] = l
	}
	top := 0
	for _, l := range rows {
		top = max(top, l)
	}
	for id, l := range rows {
		rows[id] = top - l
	}
	g.SetRows(rows)
}

func coffmanGrahamLabels(g *dag.DAG) map[string]int {
	nodes := g.Nodes()
	label := make(map[string]int, len(nodes))
	parentLabels := func(id string) []int {
		ls := make([]int, 0, g.InDegree(id))
		for _, p := range g.Parents(id) {
			ls = append(ls, label[p])
		}
		slices.SortFunc(ls, func(a, b int) int { return cmp.Compare(b, a) })
		return ls
	}

	for next := 1; next <= len(nodes); next++ {
		best := ""
		var bestLabels []int
		for _, n := range nodes {
			if _, done := label[n.ID]; done {
				continue
			}
			ready := true
			for _, p := range g.Parents(n.ID) {
				if _, ok := label[p]; !ok {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			ls := parentLabels(n.ID)
			if best == "" || slices.Compare(ls, bestLabels) < 0 {
				best, bestLabels = n.ID, ls
			}
		}
		if best == "" {
			break
		}
		label[best] = next
	}
	return label
}
