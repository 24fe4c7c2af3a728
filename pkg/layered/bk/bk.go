package bk

import (
	"math"
	"slices"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/layered"
)

// Direction is one of the four alignment directions.
type Direction int

const (
	// UpperLeft aligns with upper neighbours, sweeping ranks top-down and
	// positions left to right.
	UpperLeft Direction = iota
	// UpperRight aligns with upper neighbours, sweeping right to left.
	UpperRight
	// LowerLeft aligns with lower neighbours, sweeping ranks bottom-up and
	// positions left to right.
	LowerLeft
	// LowerRight aligns with lower neighbours, sweeping right to left.
	LowerRight
)

// Directions lists all four directions in balancing order.
var Directions = [4]Direction{UpperLeft, UpperRight, LowerLeft, LowerRight}

func (d Direction) String() string {
	switch d {
	case UpperLeft:
		return "upper-left"
	case UpperRight:
		return "upper-right"
	case LowerLeft:
		return "lower-left"
	case LowerRight:
		return "lower-right"
	default:
		return "unknown"
	}
}

func (d Direction) upper() bool { return d == UpperLeft || d == UpperRight }
func (d Direction) left() bool  { return d == UpperLeft || d == LowerLeft }

// Options configures [Assign].
type Options struct {
	// Spacing is the minimum horizontal distance between neighbours in a
	// rank.
	Spacing float64
	// Straighten moves each synthetic chain toward the line between its
	// outer endpoints after balancing.
	Straighten bool
}

// slot is one position of a rank: a vertex, or a segment passing through.
type slot struct {
	rank   int
	pos    int
	vertex layered.VertexID // -1 for pass-through slots
	seg    layered.SegmentID
	up     []int
	down   []int
}

type segRank struct {
	seg  layered.SegmentID
	rank int
}

// Result holds the horizontal coordinates computed by [Assign].
type Result struct {
	slots      []slot
	layers     [][]int
	x          []float64
	dirX       [4][]float64
	vertexSlot []int
	segSlot    map[segRank]int
}

// X returns the balanced x coordinate of a vertex.
func (r *Result) X(v layered.VertexID) float64 { return r.x[r.vertexSlot[v]] }

// PassX returns the x coordinate of a segment on rank, including its end
// ranks.
func (r *Result) PassX(seg layered.SegmentID, rank int) (float64, bool) {
	id, ok := r.segSlot[segRank{seg, rank}]
	if !ok {
		return 0, false
	}
	return r.x[id], true
}

// DirectionalX returns the x coordinate of a vertex in one direction, after
// alignment to the narrowest direction and before balancing.
func (r *Result) DirectionalX(d Direction, v layered.VertexID) float64 {
	return r.dirX[d][r.vertexSlot[v]]
}

// Assign computes horizontal coordinates for the order recorded in cg with
// the Brandes–Köpf method: vertical alignment in four directions, block
// compaction, and balancing by the mean of the two median candidates.
//
// Each segment occupies one slot on every rank it spans, and its slots are
// kept in a single block so that the middle of a long edge is vertical.
func Assign(g *layered.Graph, cg *layered.CompactionGraph, opts Options) (*Result, error) {
	if cg.Ranks() != g.Ranks() {
		return nil, errors.Structural("compaction graph has %d ranks, graph has %d", cg.Ranks(), g.Ranks())
	}
	r, err := buildSlots(g, cg)
	if err != nil {
		return nil, err
	}
	conflicts := r.markConflicts()

	var minX, maxX [4]float64
	for _, d := range Directions {
		root, _ := r.align(d, conflicts)
		xs, err := r.compact(d, root, opts.Spacing)
		if err != nil {
			return nil, err
		}
		r.dirX[d] = xs
		minX[d], maxX[d] = bounds(xs)
	}

	narrowest := UpperLeft
	for _, d := range Directions {
		if maxX[d]-minX[d] < maxX[narrowest]-minX[narrowest] {
			narrowest = d
		}
	}
	for _, d := range Directions {
		shift := minX[narrowest] - minX[d]
		if !d.left() {
			shift = maxX[narrowest] - maxX[d]
		}
		for i := range r.dirX[d] {
			r.dirX[d][i] += shift
		}
	}

	r.x = make([]float64, len(r.slots))
	var vals [4]float64
	for i := range r.slots {
		for d := range vals {
			vals[d] = r.dirX[d][i]
		}
		slices.Sort(vals[:])
		r.x[i] = (vals[1] + vals[2]) / 2
	}

	if opts.Straighten {
		r.straighten(g, opts.Spacing)
	}
	return r, nil
}

func buildSlots(g *layered.Graph, cg *layered.CompactionGraph) (*Result, error) {
	r := &Result{
		layers:     make([][]int, cg.Ranks()),
		vertexSlot: make([]int, len(g.Vertices())),
		segSlot:    make(map[segRank]int),
	}
	for i := range r.vertexSlot {
		r.vertexSlot[i] = -1
	}

	for rank := range cg.Ranks() {
		for pos, ref := range cg.Row(rank) {
			id := len(r.slots)
			sl := slot{rank: rank, pos: pos, vertex: -1, seg: layered.NoSegment}
			if ref.Segment {
				s := g.Segment(layered.SegmentID(ref.ID))
				if !s.Spans(rank) {
					return nil, errors.Structural("segment %d listed on rank %d outside [%d,%d]", s.ID, rank, s.Top, s.Bottom)
				}
				sl.seg = s.ID
				switch rank {
				case s.Top:
					sl.vertex = s.P
				case s.Bottom:
					sl.vertex = s.Q
				}
				r.segSlot[segRank{s.ID, rank}] = id
			} else {
				sl.vertex = layered.VertexID(ref.ID)
			}
			if sl.vertex >= 0 {
				r.vertexSlot[sl.vertex] = id
			}
			r.slots = append(r.slots, sl)
			r.layers[rank] = append(r.layers[rank], id)
		}
	}

	for v, id := range r.vertexSlot {
		if id < 0 {
			return nil, errors.Structural("vertex %d missing from compaction rows", v)
		}
	}
	for _, s := range g.Segments() {
		for rank := s.Top; rank <= s.Bottom; rank++ {
			if _, ok := r.segSlot[segRank{s.ID, rank}]; !ok {
				return nil, errors.Structural("segment %d missing from rank %d", s.ID, rank)
			}
		}
	}

	link := func(a, b int) {
		r.slots[a].down = append(r.slots[a].down, b)
		r.slots[b].up = append(r.slots[b].up, a)
	}
	for id := range r.slots {
		sl := r.slots[id]
		if sl.vertex >= 0 {
			for _, w := range g.Succs(sl.vertex) {
				link(id, r.vertexSlot[w])
			}
		}
		if sl.seg != layered.NoSegment {
			if next, ok := r.segSlot[segRank{sl.seg, sl.rank + 1}]; ok {
				link(id, next)
			}
		}
	}
	return r, nil
}

// inner reports whether a and b are consecutive slots of the same segment.
func (r *Result) inner(a, b int) bool {
	return r.slots[a].seg != layered.NoSegment && r.slots[a].seg == r.slots[b].seg
}

// markConflicts marks type 1 conflicts: non-inner edges crossing an inner
// segment edge. Keys are (upper slot, lower slot).
func (r *Result) markConflicts() map[[2]int]bool {
	conflicts := make(map[[2]int]bool)
	for i := 0; i+1 < len(r.layers); i++ {
		upper, lower := r.layers[i], r.layers[i+1]
		k0, l := 0, 0
		for l1, v := range lower {
			innerPos := -1
			for _, u := range r.slots[v].up {
				if r.inner(u, v) {
					innerPos = r.slots[u].pos
				}
			}
			if l1 != len(lower)-1 && innerPos < 0 {
				continue
			}
			k1 := len(upper) - 1
			if innerPos >= 0 {
				k1 = innerPos
			}
			for ; l <= l1; l++ {
				w := lower[l]
				for _, u := range r.slots[w].up {
					if r.inner(u, w) {
						continue
					}
					if k := r.slots[u].pos; k < k0 || k > k1 {
						conflicts[[2]int{u, w}] = true
					}
				}
			}
			k0 = k1
		}
	}
	return conflicts
}

// view returns the layers in processing order for d, each ordered left to
// right as seen from d, plus the mirrored positions.
func (r *Result) view(d Direction) ([][]int, []int) {
	layers := make([][]int, len(r.layers))
	for i, layer := range r.layers {
		l := slices.Clone(layer)
		if !d.left() {
			slices.Reverse(l)
		}
		layers[i] = l
	}
	if !d.upper() {
		slices.Reverse(layers)
	}
	pos := make([]int, len(r.slots))
	for _, layer := range layers {
		for i, id := range layer {
			pos[id] = i
		}
	}
	return layers, pos
}

// align builds the blocks of direction d. Every slot is aligned with at
// most one median neighbour in the previously processed rank.
func (r *Result) align(d Direction, conflicts map[[2]int]bool) (root, align []int) {
	layers, pos := r.view(d)
	root = make([]int, len(r.slots))
	align = make([]int, len(r.slots))
	for i := range r.slots {
		root[i], align[i] = i, i
	}

	for _, layer := range layers[min(1, len(layers)):] {
		guard := -1
		for _, v := range layer {
			ns := r.slots[v].up
			if !d.upper() {
				ns = r.slots[v].down
			}
			if len(ns) == 0 {
				continue
			}
			ns = slices.Clone(ns)
			slices.SortFunc(ns, func(a, b int) int { return pos[a] - pos[b] })

			n := len(ns)
			for _, m := range medians(n) {
				if align[v] != v {
					break
				}
				u := ns[m]
				if conflicts[[2]int{u, v}] || conflicts[[2]int{v, u}] {
					continue
				}
				if guard < pos[u] {
					align[u] = v
					root[v] = root[u]
					align[v] = root[v]
					guard = pos[u]
				}
			}
		}
	}
	return root, align
}

func medians(n int) []int {
	lo, hi := (n-1)/2, n/2
	if lo == hi {
		return []int{lo}
	}
	return []int{lo, hi}
}

// compact places blocks by longest path over the "block left of block"
// graph, each block Spacing right of every block directly to its left.
func (r *Result) compact(d Direction, root []int, spacing float64) ([]float64, error) {
	layers, _ := r.view(d)

	succ := make(map[int][]int)
	inDegree := make(map[int]int)
	var blocks []int
	for i := range r.slots {
		if root[i] == i {
			blocks = append(blocks, i)
		}
	}
	for _, layer := range layers {
		for i := 1; i < len(layer); i++ {
			a, b := root[layer[i-1]], root[layer[i]]
			succ[a] = append(succ[a], b)
			inDegree[b]++
		}
	}

	bx := make(map[int]float64, len(blocks))
	queue := make([]int, 0, len(blocks))
	for _, b := range blocks {
		if inDegree[b] == 0 {
			queue = append(queue, b)
		}
	}
	placed := 0
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		placed++
		for _, c := range succ[b] {
			bx[c] = max(bx[c], bx[b]+spacing)
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	if placed != len(blocks) {
		return nil, errors.Structural("%s blocks form a cycle", d)
	}

	xs := make([]float64, len(r.slots))
	for i := range xs {
		xs[i] = bx[root[i]]
		if !d.left() {
			xs[i] = -xs[i]
		}
	}
	return xs, nil
}

func bounds(xs []float64) (lo, hi float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return lo, hi
}

// straighten moves every synthetic chain to the mean x of its outer
// endpoints as far as its rank neighbours allow.
func (r *Result) straighten(g *layered.Graph, spacing float64) {
	move := func(chain []int, outer []layered.VertexID) {
		if len(outer) == 0 {
			return
		}
		target := 0.0
		for _, v := range outer {
			target += r.x[r.vertexSlot[v]]
		}
		target /= float64(len(outer))

		lo, hi := math.Inf(-1), math.Inf(1)
		for _, id := range chain {
			sl := r.slots[id]
			layer := r.layers[sl.rank]
			if sl.pos > 0 {
				lo = max(lo, r.x[layer[sl.pos-1]]+spacing)
			}
			if sl.pos+1 < len(layer) {
				hi = min(hi, r.x[layer[sl.pos+1]]-spacing)
			}
		}
		if lo > hi {
			return
		}
		x := min(max(target, lo), hi)
		for _, id := range chain {
			r.x[id] = x
		}
	}

	for _, s := range g.Segments() {
		chain := make([]int, 0, s.Bottom-s.Top+1)
		for rank := s.Top; rank <= s.Bottom; rank++ {
			chain = append(chain, r.segSlot[segRank{s.ID, rank}])
		}
		outer := append(slices.Clone(g.Preds(s.P)), g.Succs(s.Q)...)
		move(chain, outer)
	}
	for _, v := range g.Vertices() {
		if v.Kind() != layered.KindSynthetic {
			continue
		}
		outer := append(slices.Clone(g.Preds(v.ID())), g.Succs(v.ID())...)
		move([]int{r.vertexSlot[v.ID()]}, outer)
	}
}
