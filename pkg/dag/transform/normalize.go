package transform

import (
	"fmt"

	"github.com/matzehuels/strata/pkg/dag"
)

// Layering selects the layer assignment used by [Normalize].
type Layering string

const (
	// LayeringLongestPath puts every sink on the bottom row ([LongestPath]).
	LayeringLongestPath Layering = "longest-path"
	// LayeringTopDown puts every source on the top row ([AssignLayers]).
	LayeringTopDown Layering = "top-down"
	// LayeringCoffmanGraham bounds the row width ([CoffmanGraham]).
	LayeringCoffmanGraham Layering = "coffman-graham"
)

// Options configures [Normalize]. The zero value uses longest-path layering.
type Options struct {
	Layering Layering
	// MaxWidth bounds the number of original nodes per row for
	// LayeringCoffmanGraham. Zero means unbounded.
	MaxWidth int
}

// Result describes what [Normalize] did to the graph.
type Result struct {
	// SelfLoops are the removed self-loop edges, in input order.
	SelfLoops []dag.Edge
	// CyclesReversed is the number of edges reversed to break cycles.
	CyclesReversed int
	// Chains maps every remaining edge to its route through synthetic nodes.
	Chains []Chain
	// Subdividers and Segments count the synthetic structures inserted.
	Subdividers int
	Segments    int
	// MaxRow is the index of the bottom row.
	MaxRow int
}

// Normalize prepares an arbitrary directed graph for layered layout, in place:
//  1. self-loops are removed ([RemoveSelfLoops])
//  2. cycles are broken by reversing back-edges ([BreakCycles])
//  3. rows are assigned with the selected layering
//  4. long edges are subdivided ([Subdivide])
//
// Afterwards g passes [dag.DAG.Validate].
func Normalize(g *dag.DAG, opts Options) (Result, error) {
	var res Result
	res.SelfLoops = RemoveSelfLoops(g)
	res.CyclesReversed = BreakCycles(g)

	switch opts.Layering {
	case LayeringLongestPath, "":
		LongestPath(g)
	case LayeringTopDown:
		AssignLayers(g)
	case LayeringCoffmanGraham:
		CoffmanGraham(g, opts.MaxWidth)
	default:
		return Result{}, fmt.Errorf("unknown layering %q", opts.Layering)
	}

	res.Chains = Subdivide(g)
	for _, c := range res.Chains {
		switch len(c.Nodes) {
		case 3:
			res.Subdividers++
		case 4:
			res.Segments++
		}
	}
	res.MaxRow = g.MaxRow()
	return res, nil
}
