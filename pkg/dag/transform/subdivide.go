package transform

import (
	"fmt"

	"github.com/matzehuels/strata/pkg/dag"
)

// Chain records how one edge of the layered graph is routed after
// [Subdivide]: Nodes runs from the edge's source to its target through the
// synthetic nodes inserted for it.
type Chain struct {
	Edge  dag.Edge
	Nodes []string
}

// Synthetic reports the synthetic nodes of the chain.
func (c Chain) Synthetic() []string {
	if len(c.Nodes) <= 2 {
		return nil
	}
	return c.Nodes[1 : len(c.Nodes)-1]
}

// Subdivide breaks edges that span multiple rows so that every edge joins
// consecutive rows or is a segment edge.
//
// An edge spanning two rows gets one [dag.NodeKindSubdivider] node in the
// row between. An edge spanning three or more rows gets a
// [dag.NodeKindSegmentTop] node (P) one row below its source and a
// [dag.NodeKindSegmentBottom] node (Q) one row above its target, joined by a
// single segment edge:
//
//	Before: app (row 0) → core (row 4)
//	After:  app → app_p_1 ⇒ app_q_3 → core
//
// The rows strictly between P and Q are not materialized; the crossing
// minimizer treats the segment as occupying them.
//
// Synthetic nodes keep a MasterID linking back to the edge's source node.
// IDs have the form "master_sub_row", "master_p_row" or "master_q_row" with
// a numeric suffix on collision.
//
// Subdivide returns one [Chain] per edge, in edge order, including edges that
// needed no subdivision. The edge's metadata is kept on the final edge of its
// chain.
//
// Time complexity is O(V + E) plus the cost of removing replaced edges.
func Subdivide(g *dag.DAG) []Chain {
	gen := newIDGen(g.Nodes())
	edges := g.Edges()
	chains := make([]Chain, 0, len(edges))

	var toRemove []dag.Edge
	for _, e := range edges {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			chains = append(chains, Chain{Edge: e, Nodes: []string{e.From, e.To}})
			continue
		}

		toRemove = append(toRemove, e)
		path := []string{src.ID}
		if dst.Row == src.Row+2 {
			path = append(path, addSynthetic(g, gen, src.ID, src.ID, "sub", src.Row+1, dag.NodeKindSubdivider))
		} else {
			p := addSynthetic(g, gen, src.ID, src.ID, "p", src.Row+1, dag.NodeKindSegmentTop)
			q := addSynthetic(g, gen, p, src.ID, "q", dst.Row-1, dag.NodeKindSegmentBottom)
			path = append(path, p, q)
		}
		if err := g.AddEdge(dag.Edge{From: path[len(path)-1], To: dst.ID, Meta: e.Meta}); err != nil {
			panic(err)
		}
		chains = append(chains, Chain{Edge: e, Nodes: append(path, dst.ID)})
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.From, e.To)
	}
	return chains
}

func addSynthetic(g *dag.DAG, gen *idGen, from, master, tag string, row int, kind dag.NodeKind) string {
	id := gen.next(master, tag, row)
	if err := g.AddNode(dag.Node{
		ID:       id,
		Row:      row,
		Kind:     kind,
		MasterID: master,
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base, tag string, row int) string {
	prefix := fmt.Sprintf("%s_%s_%d", base, tag, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
