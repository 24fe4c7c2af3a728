package layered

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/strata/pkg/dag"
)

// twoLayer builds ranks 0 and 1 with edges given as (upper, lower) indices.
func twoLayer(t testing.TB, upper, lower int, edges [][2]int) *Graph {
	t.Helper()
	d := dag.New(nil)
	for i := range upper {
		require.NoError(t, d.AddNode(dag.Node{ID: "u" + strconv.Itoa(i), Row: 0}))
	}
	for i := range lower {
		require.NoError(t, d.AddNode(dag.Node{ID: "l" + strconv.Itoa(i), Row: 1}))
	}
	for _, e := range edges {
		require.NoError(t, d.AddEdge(dag.Edge{From: "u" + strconv.Itoa(e[0]), To: "l" + strconv.Itoa(e[1])}))
	}
	g, err := Build(d)
	require.NoError(t, err)
	return g
}

func nodeIDs(g *Graph, ids []VertexID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Vertex(id).NodeID()
	}
	return out
}

// independentCrossings counts crossings of the sweeper's current order
// between ranks 0 and 1 with the index-based counter.
func independentCrossings(g *Graph, s *sweeper) int {
	upper := len(g.layers[0])
	edges := make([][]int, upper)
	for u := range upper {
		for _, w := range g.Succs(VertexID(u)) {
			edges[u] = append(edges[u], int(w)-upper)
		}
	}
	upperPerm := make([]int, upper)
	for i, v := range s.order[0] {
		upperPerm[i] = int(v)
	}
	lowerPerm := make([]int, len(s.order[1]))
	for i, v := range s.order[1] {
		lowerPerm[i] = int(v) - upper
	}
	return dag.CountCrossingsIdx(edges, upperPerm, lowerPerm, dag.NewCrossingWorkspace(len(lowerPerm)))
}

func TestSweep_IdempotentOnPlanarLayers(t *testing.T) {
	g := twoLayer(t, 3, 3, [][2]int{{0, 0}, {1, 1}, {1, 2}, {2, 2}})

	for _, dir := range []Direction{Forward, Backward} {
		t.Run(dir.String(), func(t *testing.T) {
			s := newSweeper(g, true)

			crossings, err := s.pass(dir)
			require.NoError(t, err)

			assert.Equal(t, 0, crossings)
			assert.Equal(t, []string{"u0", "u1", "u2"}, nodeIDs(g, s.order[0]))
			assert.Equal(t, []string{"l0", "l1", "l2"}, nodeIDs(g, s.order[1]))
		})
	}
}

func TestSweep_RemovesCrossing(t *testing.T) {
	g := twoLayer(t, 2, 2, [][2]int{{0, 1}, {1, 0}})
	s := newSweeper(g, false)

	crossings, err := s.pass(Forward)
	require.NoError(t, err)

	assert.Equal(t, 0, crossings)
	assert.Equal(t, []string{"l1", "l0"}, nodeIDs(g, s.order[1]))
	assert.Equal(t, 0, s.meta[3].Index)
	assert.Equal(t, 1.0, s.meta[2].Measure)
	assert.Equal(t, 0.0, s.meta[3].Measure)
}

func TestSweep_MedianAndInheritedMeasure(t *testing.T) {
	// l0 has neighbours at 0 and 3, l1 none, l2 at 1
	g := twoLayer(t, 4, 3, [][2]int{{0, 0}, {3, 0}, {1, 2}})
	s := newSweeper(g, false)

	_, err := s.pass(Forward)
	require.NoError(t, err)

	assert.Equal(t, 1.5, s.meta[4].Measure)
	assert.Equal(t, 1.5, s.meta[5].Measure, "unconnected vertex inherits the previous measure")
	assert.Equal(t, 1.0, s.meta[6].Measure)
	assert.Equal(t, []string{"l2", "l0", "l1"}, nodeIDs(g, s.order[1]))
}

func TestSweep_Scenario(t *testing.T) {
	g := buildLayered(t, 5, scenarioEdges)
	s := newSweeper(g, true)

	crossings, err := s.pass(Forward)
	require.NoError(t, err)
	assert.Equal(t, 0, crossings)
	assert.Equal(t, 0, g.Crossings(s.cg))

	kinds := func(r int) []Kind {
		var out []Kind
		for _, v := range s.order[r] {
			out = append(out, g.Vertex(v).Kind())
		}
		return out
	}
	assert.Equal(t, []Kind{KindReal, KindP}, kinds(1))
	assert.Equal(t, []Kind{KindReal, KindSynthetic, KindP}, kinds(2))
	assert.Equal(t, []Kind{KindSynthetic, KindReal, KindQ, KindQ}, kinds(3))

	// rank 2 carries the first segment through as a container
	row := s.cg.Row(2)
	require.Len(t, row, 4)
	assert.True(t, row[2].Segment)
	assert.True(t, row[3].Segment)
	assert.NotEqual(t, row[2].ID, row[3].ID)

	_, err = s.cg.TopologicalOrder()
	assert.NoError(t, err)

	backward, err := s.pass(Backward)
	require.NoError(t, err)
	assert.Equal(t, 0, backward)
	assert.Equal(t, 0, g.Crossings(s.cg))
}

func TestTranspose_NeverWorse(t *testing.T) {
	// two upper vertices with tangled fans
	edges := [][2]int{{0, 1}, {0, 3}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}

	plain := twoLayer(t, 3, 4, edges)
	sp := newSweeper(plain, false)
	without, err := sp.pass(Forward)
	require.NoError(t, err)

	transposed := twoLayer(t, 3, 4, edges)
	st := newSweeper(transposed, true)
	with, err := st.pass(Forward)
	require.NoError(t, err)

	assert.LessOrEqual(t, with, without)
	assert.Equal(t, without, independentCrossings(plain, sp))
	assert.Equal(t, with, independentCrossings(transposed, st))
}

func TestPairCrossings(t *testing.T) {
	a := []weighted{{pos: 2, w: 1}, {pos: 5, w: 2}}
	b := []weighted{{pos: 1, w: 3}, {pos: 4, w: 1}}

	// a left of b: (2>1)*3 + (5>1)*6 + (5>4)*2
	assert.Equal(t, 3+6+2, pairCrossings(a, b))
	// b left of a: (4>2)*1
	assert.Equal(t, 1, pairCrossings(b, a))
	assert.Equal(t, 0, pairCrossings(nil, b))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]int{5, 2, 0}))
	assert.Equal(t, 2.5, median([]int{4, 2, 3, 0}))
	assert.Equal(t, 7.0, median([]int{7}))
}
