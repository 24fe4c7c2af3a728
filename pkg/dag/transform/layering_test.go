package transform

import (
	"testing"

	"github.com/matzehuels/strata/pkg/dag"
)

func rowsOf(g *dag.DAG) map[string]int {
	rows := make(map[string]int)
	for _, n := range g.Nodes() {
		rows[n.ID] = n.Row
	}
	return rows
}

func assertDownward(t *testing.T, g *dag.DAG) {
	t.Helper()
	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if dst.Row <= src.Row {
			t.Errorf("edge %s->%s goes from row %d to row %d", e.From, e.To, src.Row, dst.Row)
		}
	}
}

func TestLayering_SourcesVersusSinks(t *testing.T) {
	// a -> b -> c, d -> c: d is a short branch
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"d", "c"}, {"a", "e"}}

	tests := []struct {
		name   string
		assign func(*dag.DAG)
		want   map[string]int
	}{
		{"top-down", AssignLayers, map[string]int{"a": 0, "b": 1, "c": 2, "d": 0, "e": 1}},
		{"longest-path", LongestPath, map[string]int{"a": 0, "b": 1, "c": 2, "d": 1, "e": 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, []string{"a", "b", "c", "d", "e"}, edges)

			tt.assign(g)

			got := rowsOf(g)
			for id, row := range tt.want {
				if got[id] != row {
					t.Errorf("row(%s) = %d, want %d", id, got[id], row)
				}
			}
			assertDownward(t, g)
		})
	}
}

func TestLongestPath_Chain(t *testing.T) {
	// chain 0..4 plus shortcuts
	g := buildGraph(t, []string{"0", "1", "2", "3", "4"}, [][2]string{
		{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"},
		{"0", "4"}, {"2", "4"}, {"1", "3"}, {"1", "4"},
	})

	LongestPath(g)

	for i, id := range []string{"0", "1", "2", "3", "4"} {
		n, _ := g.Node(id)
		if n.Row != i {
			t.Errorf("row(%s) = %d, want %d", id, n.Row, i)
		}
	}
}

func TestCoffmanGraham_Width(t *testing.T) {
	// one root fanning out to six leaves
	ids := []string{"r", "l1", "l2", "l3", "l4", "l5", "l6"}
	var edges [][2]string
	for _, id := range ids[1:] {
		edges = append(edges, [2]string{"r", id})
	}

	tests := []struct {
		width    int
		wantRows int
	}{
		{0, 2},
		{6, 2},
		{3, 3},
		{2, 4},
		{1, 7},
	}
	for _, tt := range tests {
		g := buildGraph(t, ids, edges)

		CoffmanGraham(g, tt.width)

		assertDownward(t, g)
		if got := g.RowCount(); got != tt.wantRows {
			t.Errorf("width %d: RowCount() = %d, want %d", tt.width, got, tt.wantRows)
		}
		limit := tt.width
		if limit <= 0 {
			limit = len(ids)
		}
		for _, row := range g.RowIDs() {
			if n := len(g.NodesInRow(row)); n > limit {
				t.Errorf("width %d: row %d has %d nodes", tt.width, row, n)
			}
		}
		if r, _ := g.Node("r"); r.Row != 0 {
			t.Errorf("width %d: root row = %d, want 0", tt.width, r.Row)
		}
	}
}

func TestCoffmanGraham_KeepsEdges(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})

	CoffmanGraham(g, 1)

	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	assertDownward(t, g)
}

func TestLongestPath_AllSinksOnBottomRow(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d", "e", "f"}, [][2]string{
		{"a", "b"}, {"b", "c"}, {"e", "f"},
	})

	LongestPath(g)

	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 2, "e": 1, "f": 2}
	got := rowsOf(g)
	for id, row := range want {
		if got[id] != row {
			t.Errorf("row(%s) = %d, want %d", id, got[id], row)
		}
	}
}
