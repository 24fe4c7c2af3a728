package layered

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/dag/transform"
	"github.com/matzehuels/strata/pkg/errors"
)

// scenarioEdges is a five-node chain with shortcuts spanning two to four
// ranks.
var scenarioEdges = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4}, {2, 4}, {1, 3}, {1, 4}}

func normalized(t testing.TB, n int, edges [][2]int) *dag.DAG {
	t.Helper()
	d := dag.New(nil)
	for i := range n {
		require.NoError(t, d.AddNode(dag.Node{ID: strconv.Itoa(i)}))
	}
	for _, e := range edges {
		require.NoError(t, d.AddEdge(dag.Edge{From: strconv.Itoa(e[0]), To: strconv.Itoa(e[1])}))
	}
	_, err := transform.Normalize(d, transform.Options{})
	require.NoError(t, err)
	return d
}

func buildLayered(t testing.TB, n int, edges [][2]int) *Graph {
	t.Helper()
	g, err := Build(normalized(t, n, edges))
	require.NoError(t, err)
	return g
}

func kindCounts(layer []*Vertex) map[Kind]int {
	m := make(map[Kind]int)
	for _, v := range layer {
		m[v.Kind()]++
	}
	return m
}

func TestBuild_Scenario(t *testing.T) {
	g := buildLayered(t, 5, scenarioEdges)

	require.Equal(t, 5, g.Ranks())
	sizes := make([]int, g.Ranks())
	for r := range sizes {
		sizes[r] = len(g.Layer(r))
	}
	assert.Equal(t, []int{1, 2, 3, 4, 1}, sizes)

	assert.Equal(t, map[Kind]int{KindReal: 1, KindP: 1}, kindCounts(g.Layer(1)))
	assert.Equal(t, map[Kind]int{KindReal: 1, KindSynthetic: 1, KindP: 1}, kindCounts(g.Layer(2)))
	assert.Equal(t, map[Kind]int{KindReal: 1, KindSynthetic: 1, KindQ: 2}, kindCounts(g.Layer(3)))

	require.Len(t, g.Segments(), 2)
	for _, s := range g.Segments() {
		assert.Equal(t, KindP, g.Vertex(s.P).Kind())
		assert.Equal(t, KindQ, g.Vertex(s.Q).Kind())
		assert.Equal(t, s.ID, g.Vertex(s.P).Segment())
		assert.Equal(t, s.ID, g.Vertex(s.Q).Segment())
		assert.Equal(t, 3, s.Bottom)
		assert.Empty(t, g.Succs(s.P), "P has no layered successors")
		assert.Empty(t, g.Preds(s.Q), "Q has no layered predecessors")
	}
	// 8 input edges: 4 direct, 2 subdivided into 2 edges, 2 segments with 2 edges each
	assert.Equal(t, 4+2*2+2*2, g.EdgeCount())
}

func TestBuild_InitialMeta(t *testing.T) {
	g := buildLayered(t, 5, scenarioEdges)

	for r := range g.Ranks() {
		for i, v := range g.Layer(r) {
			assert.Equal(t, r, v.Rank())
			assert.Equal(t, i, v.Index())
			assert.Equal(t, i, v.Pos())
			assert.Equal(t, Unmeasured, v.Measure())
			assert.False(t, v.HasPoint())
		}
	}
	v, ok := g.VertexByNode("3")
	require.True(t, ok)
	assert.Equal(t, KindReal, v.Kind())
	assert.Equal(t, "3", v.NodeID())
	assert.Equal(t, NoSegment, v.Segment())
}

func TestBuild_Errors(t *testing.T) {
	t.Run("non-consecutive edge", func(t *testing.T) {
		d := dag.New(nil)
		_ = d.AddNode(dag.Node{ID: "a", Row: 0})
		_ = d.AddNode(dag.Node{ID: "b", Row: 2})
		_ = d.AddEdge(dag.Edge{From: "a", To: "b"})

		_, err := Build(d)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
	})

	t.Run("dangling segment endpoint", func(t *testing.T) {
		d := dag.New(nil)
		_ = d.AddNode(dag.Node{ID: "a", Row: 0})
		_ = d.AddNode(dag.Node{ID: "p", Row: 1, Kind: dag.NodeKindSegmentTop})
		_ = d.AddEdge(dag.Edge{From: "a", To: "p"})

		_, err := Build(d)
		assert.True(t, errors.Is(err, errors.ErrCodeStructural), "got %v", err)
	})

	t.Run("empty", func(t *testing.T) {
		g, err := Build(dag.New(nil))
		require.NoError(t, err)
		assert.Equal(t, 0, g.Ranks())
		assert.Nil(t, g.Layer(0))
	})
}

func TestGraph_Crossings(t *testing.T) {
	d := dag.New(nil)
	for _, id := range []string{"a", "b"} {
		_ = d.AddNode(dag.Node{ID: id, Row: 0})
	}
	for _, id := range []string{"x", "y"} {
		_ = d.AddNode(dag.Node{ID: id, Row: 1})
	}
	_ = d.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = d.AddEdge(dag.Edge{From: "b", To: "x"})
	g, err := Build(d)
	require.NoError(t, err)

	cg := newCompactionGraph(2)
	cg.setRow(0, []NodeRef{{ID: 0}, {ID: 1}})
	cg.setRow(1, []NodeRef{{ID: 2}, {ID: 3}})
	assert.Equal(t, 1, g.Crossings(cg))

	cg = newCompactionGraph(2)
	cg.setRow(0, []NodeRef{{ID: 0}, {ID: 1}})
	cg.setRow(1, []NodeRef{{ID: 3}, {ID: 2}})
	assert.Equal(t, 0, g.Crossings(cg))
}
