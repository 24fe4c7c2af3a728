package layered

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/seqtree"
)

// Direction is the direction of a sweep pass.
type Direction int

const (
	// Forward sweeps top to bottom, ordering each rank against the rank above.
	Forward Direction = iota
	// Backward sweeps bottom to top, ordering each rank against the rank below.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// entry is one element of an alternating layer: a vertex or a container.
type entry struct {
	v VertexID
	c *Container
}

func (e entry) size() int {
	if e.c != nil {
		return e.c.Size()
	}
	return 1
}

// weighted is an edge end in the fixed layer.
type weighted struct {
	pos, w int
}

// sweeper runs passes over a working copy of the vertex metadata. Nothing
// it does is visible on the graph's vertices.
type sweeper struct {
	g         *Graph
	meta      []Meta
	order     [][]VertexID
	transpose bool

	dir   Direction
	arena *seqtree.Arena[SegmentID]
	cg    *CompactionGraph
}

func newSweeper(g *Graph, transpose bool) *sweeper {
	s := &sweeper{
		g:         g,
		meta:      g.snapshot(),
		order:     make([][]VertexID, len(g.layers)),
		transpose: transpose,
	}
	for r, layer := range g.layers {
		s.order[r] = slices.Clone(layer)
	}
	return s
}

func (s *sweeper) neighbors(v VertexID) []VertexID {
	if s.dir == Forward {
		return s.g.preds[v]
	}
	return s.g.succs[v]
}

// collapsing endpoints start segments in the sweep direction
func (s *sweeper) collapsing(v VertexID) bool {
	k := s.g.vertices[v].kind
	return (s.dir == Forward && k == KindP) || (s.dir == Backward && k == KindQ)
}

// splitting endpoints end segments in the sweep direction
func (s *sweeper) splitting(v VertexID) bool {
	k := s.g.vertices[v].kind
	return (s.dir == Forward && k == KindQ) || (s.dir == Backward && k == KindP)
}

func (s *sweeper) rigid(e entry) bool { return e.c != nil || s.splitting(e.v) }

// pass runs one sweep and returns the total weighted crossing count between
// all pairs of adjacent ranks. The compaction graph of the pass is left in
// s.cg.
func (s *sweeper) pass(dir Direction) (int, error) {
	s.dir = dir
	s.arena = seqtree.NewArena[SegmentID]()
	s.cg = newCompactionGraph(len(s.order))
	if len(s.order) == 0 {
		return 0, nil
	}

	ranks := make([]int, len(s.order))
	for i := range ranks {
		ranks[i] = i
	}
	if dir == Backward {
		slices.Reverse(ranks)
	}

	first := ranks[0]
	alt := make([]entry, len(s.order[first]))
	for i, v := range s.order[first] {
		alt[i] = entry{v: v}
	}
	s.reindex(alt, first)
	s.cg.setRow(first, s.expand(alt))

	total := 0
	for _, r := range ranks[1:] {
		next, n, err := s.step(alt, r)
		if err != nil {
			return 0, err
		}
		alt = next
		total += n
	}
	return total, nil
}

// step orders rank r against the already ordered alternating layer fixed
// and returns the alternating layer of r together with the crossings
// between the two.
func (s *sweeper) step(fixed []entry, r int) ([]entry, int, error) {
	upper, byTree := s.collapse(fixed)

	sorted, err := s.measure(r, byTree)
	if err != nil {
		return nil, 0, err
	}
	alt, err := s.place(sorted, upper)
	if err != nil {
		return nil, 0, err
	}
	s.reindex(alt, r)

	ends := s.upperEnds(alt)
	if s.transpose {
		s.transposeLayer(alt, ends)
		s.reindex(alt, r)
	}
	crossings := s.count(alt, ends)

	return s.finalize(alt, r), crossings, nil
}

// collapse merges collapsing endpoints and the containers around them into
// single containers and assigns slot positions to the fixed layer.
func (s *sweeper) collapse(fixed []entry) ([]entry, map[*seqtree.Tree[SegmentID]]int) {
	out := make([]entry, 0, len(fixed))
	byTree := make(map[*seqtree.Tree[SegmentID]]int)
	var acc *Container
	pos := 0

	flush := func() {
		if acc != nil && acc.Size() > 0 {
			acc.meta.Pos = pos
			byTree[acc.tree] = pos
			out = append(out, entry{c: acc})
			pos += acc.Size()
		}
		acc = nil
	}

	for _, e := range fixed {
		switch {
		case e.c != nil:
			if acc == nil {
				acc = e.c
			} else {
				acc = joinContainers(acc, e.c)
			}
		case s.collapsing(e.v):
			if acc == nil {
				acc = newContainer(s.arena)
			}
			acc.append(s.g.vertices[e.v].segment)
		default:
			flush()
			s.meta[e.v].Pos = pos
			out = append(out, e)
			pos++
		}
	}
	flush()
	return out, byTree
}

// measure sets the measure of every vertex on rank r and returns the rank
// sorted by measure, ties kept in prior order.
func (s *sweeper) measure(r int, byTree map[*seqtree.Tree[SegmentID]]int) ([]VertexID, error) {
	layer := s.order[r]
	last := Unmeasured
	var positions []int
	for _, v := range layer {
		m := last
		if s.splitting(v) {
			seg := s.g.vertices[v].segment
			tree, idx, ok := s.arena.Locate(seg)
			if !ok {
				return nil, errors.Structural("segment %d of vertex %d is not in the fixed layer", seg, v)
			}
			base, ok := byTree[tree]
			if !ok {
				return nil, errors.Structural("segment %d is held by an unplaced container", seg)
			}
			m = float64(base + idx)
		} else if ns := s.neighbors(v); len(ns) > 0 {
			positions = positions[:0]
			for _, u := range ns {
				positions = append(positions, s.meta[u].Pos)
			}
			m = median(positions)
		}
		s.meta[v].Measure = m
		last = m
	}

	sorted := slices.Clone(layer)
	slices.SortStableFunc(sorted, func(a, b VertexID) int {
		return cmp.Compare(s.meta[a].Measure, s.meta[b].Measure)
	})
	return sorted, nil
}

func median(ps []int) float64 {
	slices.Sort(ps)
	n := len(ps)
	if n%2 == 1 {
		return float64(ps[n/2])
	}
	return float64(ps[n/2-1]+ps[n/2]) / 2
}

// place merges the sorted vertices with the containers of the fixed layer.
// A container straddling a vertex's measure is split there; a splitting
// endpoint takes its own segment out of the container it meets.
func (s *sweeper) place(sorted []VertexID, upper []entry) ([]entry, error) {
	var conts []*Container
	for _, e := range upper {
		if e.c != nil {
			conts = append(conts, e.c)
		}
	}

	out := make([]entry, 0, len(sorted)+len(conts))
	var cur *Container
	start, next := 0, 0
	advance := func() {
		cur = nil
		if next < len(conts) {
			cur = conts[next]
			start = cur.meta.Pos
			next++
		}
	}
	emit := func(c *Container, at int) {
		c.upper = at
		out = append(out, entry{c: c})
	}

	advance()
	for _, v := range sorted {
		m := s.meta[v].Measure
		for cur != nil && float64(start+cur.Size()-1) < m {
			emit(cur, start)
			advance()
		}
		if cur != nil && float64(start) < m {
			k := int(math.Ceil(m - float64(start)))
			left, right := cur.Split(k)
			emit(left, start)
			start += k
			cur = right
		}
		if s.splitting(v) {
			seg := s.g.vertices[v].segment
			if cur == nil {
				return nil, errors.Structural("segment %d of vertex %d not found in fixed containers", seg, v)
			}
			if first, ok := cur.First(); !ok || first != seg {
				return nil, errors.Structural("container at %d does not start with segment %d", start, seg)
			}
			_, cur = cur.Split(1)
			start++
			if cur.Size() == 0 {
				advance()
			}
		}
		out = append(out, entry{v: v})
	}
	for cur != nil {
		emit(cur, start)
		advance()
	}
	return out, nil
}

// reindex numbers vertices by index and every entry by slot position.
func (s *sweeper) reindex(alt []entry, r int) {
	idx, pos := 0, 0
	for _, e := range alt {
		if e.c != nil {
			e.c.meta.Rank = r
			e.c.meta.Index = idx
			e.c.meta.Pos = pos
			pos += e.c.Size()
			continue
		}
		s.meta[e.v].Index = idx
		s.meta[e.v].Pos = pos
		idx++
		pos++
	}
}

func (s *sweeper) entryPos(e entry) int {
	if e.c != nil {
		return e.c.meta.Pos
	}
	return s.meta[e.v].Pos
}

// upperEnds lists, per entry, the fixed-layer positions its edges end at.
func (s *sweeper) upperEnds(alt []entry) [][]weighted {
	ends := make([][]weighted, len(alt))
	for i, e := range alt {
		switch {
		case e.c != nil:
			ends[i] = []weighted{{e.c.upper, e.c.Size()}}
		case s.splitting(e.v):
			ends[i] = []weighted{{int(s.meta[e.v].Measure), 1}}
		default:
			ns := s.neighbors(e.v)
			ws := make([]weighted, len(ns))
			for j, u := range ns {
				ws[j] = weighted{s.meta[u].Pos, 1}
			}
			ends[i] = ws
		}
	}
	return ends
}

// pairCrossings counts crossings between the edges of a and b when a is
// placed left of b.
func pairCrossings(a, b []weighted) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if x.pos > y.pos {
				n += x.w * y.w
			}
		}
	}
	return n
}

// transposeLayer swaps adjacent entries while a swap strictly reduces
// crossings. Two rigid entries are never swapped.
func (s *sweeper) transposeLayer(alt []entry, ends [][]weighted) {
	for swapped := true; swapped; {
		swapped = false
		for i := 0; i+1 < len(alt); i++ {
			if s.rigid(alt[i]) && s.rigid(alt[i+1]) {
				continue
			}
			if pairCrossings(ends[i+1], ends[i]) < pairCrossings(ends[i], ends[i+1]) {
				alt[i], alt[i+1] = alt[i+1], alt[i]
				ends[i], ends[i+1] = ends[i+1], ends[i]
				swapped = true
			}
		}
	}
}

func (s *sweeper) count(alt []entry, ends [][]weighted) int {
	var links []dag.WeightedLink
	width := 0
	for i, e := range alt {
		lower := s.entryPos(e)
		for _, x := range ends[i] {
			links = append(links, dag.WeightedLink{Upper: x.pos, Lower: lower, Weight: x.w})
		}
		width += e.size()
	}
	return dag.CountWeightedCrossings(links, width)
}

// finalize joins adjacent containers, records the compaction row of rank r
// and stores the new vertex order.
func (s *sweeper) finalize(alt []entry, r int) []entry {
	out := make([]entry, 0, len(alt))
	for _, e := range alt {
		if e.c != nil {
			if e.c.Size() == 0 {
				continue
			}
			if n := len(out); n > 0 && out[n-1].c != nil {
				out[n-1].c = joinContainers(out[n-1].c, e.c)
				continue
			}
		}
		out = append(out, e)
	}
	s.reindex(out, r)
	s.cg.setRow(r, s.expand(out))

	order := s.order[r][:0]
	for _, e := range out {
		if e.c == nil {
			order = append(order, e.v)
		}
	}
	s.order[r] = order
	return out
}

func (s *sweeper) expand(alt []entry) []NodeRef {
	var row []NodeRef
	for _, e := range alt {
		if e.c == nil {
			row = append(row, s.g.ref(e.v))
			continue
		}
		for seg := range e.c.Segments() {
			row = append(row, NodeRef{Segment: true, ID: int(seg)})
		}
	}
	return row
}
