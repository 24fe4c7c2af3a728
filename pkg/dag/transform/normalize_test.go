package transform

import (
	"testing"

	"github.com/matzehuels/strata/pkg/dag"
)

func TestNormalize(t *testing.T) {
	newGraph := func(t *testing.T) *dag.DAG {
		return buildGraph(t, []string{"0", "1", "2", "3", "4"}, [][2]string{
			{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"},
			{"0", "4"}, {"2", "4"}, {"1", "3"}, {"1", "4"},
			{"4", "0"}, {"2", "2"},
		})
	}

	for _, layering := range []Layering{"", LayeringLongestPath, LayeringTopDown, LayeringCoffmanGraham} {
		t.Run(string(layering), func(t *testing.T) {
			g := newGraph(t)

			res, err := Normalize(g, Options{Layering: layering})
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}

			if len(res.SelfLoops) != 1 {
				t.Errorf("SelfLoops = %v, want one", res.SelfLoops)
			}
			if res.CyclesReversed != 1 {
				t.Errorf("CyclesReversed = %d, want 1", res.CyclesReversed)
			}
			if len(res.Chains) != 9 {
				t.Errorf("len(Chains) = %d, want 9", len(res.Chains))
			}
			if res.MaxRow != 4 {
				t.Errorf("MaxRow = %d, want 4", res.MaxRow)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestNormalize_ScenarioRanks(t *testing.T) {
	g := buildGraph(t, []string{"0", "1", "2", "3", "4"}, [][2]string{
		{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"},
		{"0", "4"}, {"2", "4"}, {"1", "3"}, {"1", "4"},
	})

	res, err := Normalize(g, Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := []int{1, 2, 3, 4, 1}
	for row, n := range want {
		if got := len(g.NodesInRow(row)); got != n {
			t.Errorf("row %d has %d nodes, want %d", row, got, n)
		}
	}
	if res.Subdividers != 2 || res.Segments != 2 {
		t.Errorf("subdividers/segments = %d/%d, want 2/2", res.Subdividers, res.Segments)
	}
}

func TestNormalize_UnknownLayering(t *testing.T) {
	g := buildGraph(t, []string{"a"}, nil)
	if _, err := Normalize(g, Options{Layering: "network-simplex"}); err == nil {
		t.Error("Normalize() error = nil, want error")
	}
}
