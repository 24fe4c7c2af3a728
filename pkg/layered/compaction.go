package layered

import (
	"slices"

	"github.com/matzehuels/strata/pkg/errors"
)

// NodeRef names a node of a [CompactionGraph]: a vertex, or a segment
// standing for all of its slots (P and Q included).
type NodeRef struct {
	Segment bool
	ID      int
}

// CompactionGraph records the final order of one sweep pass: per rank, the
// left-to-right sequence of vertices and segments, plus the "left of"
// relation between neighbours in a row.
type CompactionGraph struct {
	rows  [][]NodeRef
	edges [][2]NodeRef
	seen  map[[2]NodeRef]struct{}
}

func newCompactionGraph(ranks int) *CompactionGraph {
	return &CompactionGraph{
		rows: make([][]NodeRef, ranks),
		seen: make(map[[2]NodeRef]struct{}),
	}
}

// Ranks returns the number of rows.
func (cg *CompactionGraph) Ranks() int { return len(cg.rows) }

// Row returns the left-to-right sequence of rank r.
func (cg *CompactionGraph) Row(r int) []NodeRef { return cg.rows[r] }

// Edges returns the left-of edges in insertion order, without duplicates.
func (cg *CompactionGraph) Edges() [][2]NodeRef { return cg.edges }

func (cg *CompactionGraph) setRow(r int, row []NodeRef) {
	cg.rows[r] = row
	for i := 1; i < len(row); i++ {
		e := [2]NodeRef{row[i-1], row[i]}
		if _, ok := cg.seen[e]; ok {
			continue
		}
		cg.seen[e] = struct{}{}
		cg.edges = append(cg.edges, e)
	}
}

// Clone returns a deep copy.
func (cg *CompactionGraph) Clone() *CompactionGraph {
	c := &CompactionGraph{
		rows:  make([][]NodeRef, len(cg.rows)),
		edges: slices.Clone(cg.edges),
		seen:  make(map[[2]NodeRef]struct{}, len(cg.seen)),
	}
	for i, row := range cg.rows {
		c.rows[i] = slices.Clone(row)
	}
	for e := range cg.seen {
		c.seen[e] = struct{}{}
	}
	return c
}

// TopologicalOrder orders all nodes so that every left-of edge points
// forward. A cycle means the sweep produced inconsistent rows and is
// reported as a structural violation.
func (cg *CompactionGraph) TopologicalOrder() ([]NodeRef, error) {
	var nodes []NodeRef
	known := make(map[NodeRef]struct{})
	for _, row := range cg.rows {
		for _, ref := range row {
			if _, ok := known[ref]; !ok {
				known[ref] = struct{}{}
				nodes = append(nodes, ref)
			}
		}
	}

	inDegree := make(map[NodeRef]int, len(nodes))
	out := make(map[NodeRef][]NodeRef, len(nodes))
	for _, e := range cg.edges {
		out[e[0]] = append(out[e[0]], e[1])
		inDegree[e[1]]++
	}

	queue := make([]NodeRef, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	order := make([]NodeRef, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, m := range out[n] {
			inDegree[m]--
			if inDegree[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	if len(order) != len(nodes) {
		return nil, errors.Structural("compaction graph has a cycle (%d of %d nodes ordered)", len(order), len(nodes))
	}
	return order, nil
}
