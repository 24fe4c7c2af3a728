package layered

import (
	"slices"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
)

// Graph is a proper layered graph: vertices on ranks, edges between
// consecutive ranks, and segments for the middle of long edges.
//
// Segment edges are not part of the layered adjacency; a P vertex has no
// successors and a Q vertex no predecessors.
type Graph struct {
	vertices []*Vertex
	segments []Segment
	layers   [][]VertexID
	preds    [][]VertexID
	succs    [][]VertexID
	byNode   map[string]VertexID
	edges    int
}

// Build converts a subdivided DAG into a layered graph. Ranks come from
// node rows and the initial order within a rank from row insertion order.
//
// Every edge must join consecutive rows, except edges from a segment top to a
// segment bottom, which become segments. Each segment endpoint must have
// exactly one segment edge.
func Build(d *dag.DAG) (*Graph, error) {
	g := &Graph{byNode: make(map[string]VertexID, d.NodeCount())}
	if d.NodeCount() == 0 {
		return g, nil
	}
	for _, n := range d.Nodes() {
		if n.Row < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q has negative row %d", n.ID, n.Row)
		}
	}
	ranks := d.MaxRow() + 1
	g.layers = make([][]VertexID, ranks)

	for rank := range ranks {
		for i, n := range d.NodesInRow(rank) {
			id := VertexID(len(g.vertices))
			g.vertices = append(g.vertices, &Vertex{
				id:      id,
				kind:    kindOf(n.Kind),
				node:    n.ID,
				segment: NoSegment,
				meta:    Meta{Rank: rank, Index: i, Pos: i, Measure: Unmeasured},
			})
			g.byNode[n.ID] = id
			g.layers[rank] = append(g.layers[rank], id)
		}
	}
	g.preds = make([][]VertexID, len(g.vertices))
	g.succs = make([][]VertexID, len(g.vertices))

	for _, e := range d.Edges() {
		src, ok := g.byNode[e.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge from unknown node %q", e.From)
		}
		dst, ok := g.byNode[e.To]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge to unknown node %q", e.To)
		}
		u, v := g.vertices[src], g.vertices[dst]

		if u.kind == KindP && v.kind == KindQ {
			if u.segment != NoSegment || v.segment != NoSegment {
				return nil, errors.Structural("segment endpoint %q or %q has two segment edges", e.From, e.To)
			}
			if v.Rank() <= u.Rank() {
				return nil, errors.New(errors.ErrCodeInvalidInput, "segment %s->%s does not point down", e.From, e.To)
			}
			s := SegmentID(len(g.segments))
			g.segments = append(g.segments, Segment{ID: s, P: src, Q: dst, Top: u.Rank(), Bottom: v.Rank()})
			u.segment, v.segment = s, s
			continue
		}
		if v.Rank() != u.Rank()+1 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"edge %s->%s joins rows %d and %d", e.From, e.To, u.Rank(), v.Rank())
		}
		g.succs[src] = append(g.succs[src], dst)
		g.preds[dst] = append(g.preds[dst], src)
		g.edges++
	}

	for _, v := range g.vertices {
		if v.IsEndpoint() && v.segment == NoSegment {
			return nil, errors.Structural("segment endpoint %q has no segment edge", v.node)
		}
	}
	return g, nil
}

func kindOf(k dag.NodeKind) Kind {
	switch k {
	case dag.NodeKindSubdivider:
		return KindSynthetic
	case dag.NodeKindSegmentTop:
		return KindP
	case dag.NodeKindSegmentBottom:
		return KindQ
	default:
		return KindReal
	}
}

// Vertices returns every vertex, indexed by [VertexID].
func (g *Graph) Vertices() []*Vertex { return g.vertices }

// Vertex returns the vertex with the given ID.
func (g *Graph) Vertex(id VertexID) *Vertex { return g.vertices[id] }

// VertexByNode finds the vertex built from a DAG node.
func (g *Graph) VertexByNode(nodeID string) (*Vertex, bool) {
	id, ok := g.byNode[nodeID]
	if !ok {
		return nil, false
	}
	return g.vertices[id], true
}

// Segments returns every segment, indexed by [SegmentID].
func (g *Graph) Segments() []Segment { return g.segments }

// Segment returns the segment with the given handle.
func (g *Graph) Segment(id SegmentID) Segment { return g.segments[id] }

// Ranks returns the number of ranks.
func (g *Graph) Ranks() int { return len(g.layers) }

// Layer returns the vertices of rank ordered by index.
func (g *Graph) Layer(rank int) []*Vertex {
	if rank < 0 || rank >= len(g.layers) {
		return nil
	}
	out := make([]*Vertex, len(g.layers[rank]))
	for i, id := range g.layers[rank] {
		out[i] = g.vertices[id]
	}
	return out
}

// Preds returns the predecessors of a vertex on the rank above.
func (g *Graph) Preds(id VertexID) []VertexID { return g.preds[id] }

// Succs returns the successors of a vertex on the rank below.
func (g *Graph) Succs(id VertexID) []VertexID { return g.succs[id] }

// EdgeCount returns the number of layered edges, segments excluded.
func (g *Graph) EdgeCount() int { return g.edges }

func (g *Graph) commit(meta []Meta) {
	for i, v := range g.vertices {
		v.meta = meta[i]
	}
	for _, layer := range g.layers {
		slices.SortFunc(layer, func(a, b VertexID) int {
			return g.vertices[a].meta.Index - g.vertices[b].meta.Index
		})
	}
}

func (g *Graph) snapshot() []Meta {
	meta := make([]Meta, len(g.vertices))
	for i, v := range g.vertices {
		meta[i] = v.meta
	}
	return meta
}

// ref returns the compaction node of a vertex: its segment for endpoints.
func (g *Graph) ref(id VertexID) NodeRef {
	if v := g.vertices[id]; v.IsEndpoint() {
		return NodeRef{Segment: true, ID: int(v.segment)}
	}
	return NodeRef{ID: int(id)}
}

// Crossings counts edge crossings of the drawing described by cg, with a
// segment counting as one edge between each pair of ranks it spans.
func (g *Graph) Crossings(cg *CompactionGraph) int {
	total := 0
	for r := 0; r+1 < cg.Ranks(); r++ {
		upper := posIndex(cg.Row(r))
		lower := posIndex(cg.Row(r + 1))
		var links []dag.WeightedLink
		link := func(from NodeRef, to VertexID) {
			links = append(links, dag.WeightedLink{Upper: upper[from], Lower: lower[g.ref(to)], Weight: 1})
		}
		for _, ref := range cg.Row(r) {
			if !ref.Segment {
				for _, w := range g.succs[ref.ID] {
					link(ref, w)
				}
				continue
			}
			s := g.segments[ref.ID]
			if s.Bottom > r {
				links = append(links, dag.WeightedLink{Upper: upper[ref], Lower: lower[ref], Weight: 1})
				continue
			}
			for _, w := range g.succs[s.Q] {
				link(ref, w)
			}
		}
		total += dag.CountWeightedCrossings(links, len(cg.Row(r+1)))
	}
	return total
}

func posIndex(row []NodeRef) map[NodeRef]int {
	m := make(map[NodeRef]int, len(row))
	for i, ref := range row {
		m[ref] = i
	}
	return m
}
