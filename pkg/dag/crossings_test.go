package dag

import "testing"

func TestCountLayerCrossings(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id, Row: 0})
	}
	for _, id := range []string{"x", "y", "z"} {
		_ = g.AddNode(Node{ID: id, Row: 1})
	}
	_ = g.AddEdge(Edge{From: "a", To: "z"})
	_ = g.AddEdge(Edge{From: "b", To: "y"})
	_ = g.AddEdge(Edge{From: "c", To: "x"})

	tests := []struct {
		name         string
		upper, lower []string
		want         int
	}{
		{"fully crossed", []string{"a", "b", "c"}, []string{"x", "y", "z"}, 3},
		{"reversed lower", []string{"a", "b", "c"}, []string{"z", "y", "x"}, 0},
		{"one swap", []string{"b", "a", "c"}, []string{"z", "y", "x"}, 1},
		{"empty", nil, []string{"x"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLayerCrossings(g, tt.upper, tt.lower); got != tt.want {
				t.Errorf("CountLayerCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountCrossingsIdx_MatchesLayerCount(t *testing.T) {
	// upper i -> lower targets
	edges := [][]int{{2}, {1}, {0, 2}}
	ws := NewCrossingWorkspace(3)

	got := CountCrossingsIdx(edges, []int{0, 1, 2}, []int{0, 1, 2}, ws)
	// (0,2)x(1,1), (0,2)x(2,0), (1,1)x(2,0)
	if got != 3 {
		t.Errorf("CountCrossingsIdx() = %d, want 3", got)
	}
	if got := CountCrossingsIdx(edges, []int{2, 1, 0}, []int{0, 1, 2}, ws); got != 1 {
		t.Errorf("CountCrossingsIdx(reversed upper) = %d, want 1", got)
	}
}

func TestCountWeightedCrossings(t *testing.T) {
	tests := []struct {
		name  string
		links []WeightedLink
		width int
		want  int
	}{
		{"none", nil, 4, 0},
		{"single crossing", []WeightedLink{{0, 1, 1}, {1, 0, 1}}, 2, 1},
		{"bundle weight", []WeightedLink{{0, 3, 1}, {1, 0, 3}}, 4, 3},
		{"two bundles", []WeightedLink{{0, 2, 2}, {2, 0, 3}}, 3, 6},
		{"shared upper", []WeightedLink{{0, 0, 1}, {0, 1, 1}}, 2, 0},
		{"shared lower", []WeightedLink{{0, 1, 1}, {1, 1, 1}}, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWeightedCrossings(tt.links, tt.width); got != tt.want {
				t.Errorf("CountWeightedCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}
