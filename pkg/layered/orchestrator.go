package layered

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/strata/pkg/errors"
)

// Options configures [Minimize].
type Options struct {
	// MaxPasses is the number of sweep passes, alternating forward and
	// backward. Values below 1 run a single pass.
	MaxPasses int
	// Transpose enables adjacent-swap refinement after each sweep step.
	Transpose bool
	// EarlyStop ends the loop after two passes in a row without improvement
	// or once a pass has no crossings.
	EarlyStop bool
	// LargeGraphEdges is the layered edge count above which the number of
	// passes is capped by LargeGraphMaxPasses. Zero disables the cap.
	LargeGraphEdges     int
	LargeGraphMaxPasses int

	Logger *log.Logger
	// OnPass is called after every pass.
	OnPass func(pass int, dir Direction, crossings int, improved bool)
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxPasses:           24,
		Transpose:           true,
		LargeGraphEdges:     1000,
		LargeGraphMaxPasses: 4,
	}
}

// Result is the outcome of [Minimize].
type Result struct {
	// Crossings is the crossing count of the best pass.
	Crossings int
	// BestPass is the 0-based index of the best pass.
	BestPass int
	// Passes is the number of passes run.
	Passes int
	// Compaction is the left-of graph of the best pass.
	Compaction *CompactionGraph
}

// Minimize reorders every rank of g to reduce edge crossings.
//
// Passes alternate between forward (even) and backward (odd) sweeps and run
// on a working copy of the vertex metadata. The pass with the fewest
// crossings wins, the earliest on ties; only after the loop is its order
// written to the vertices and the layers re-sorted. On error or
// cancellation g is left untouched.
func Minimize(ctx context.Context, g *Graph, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	passes := max(opts.MaxPasses, 1)
	if opts.LargeGraphEdges > 0 && g.EdgeCount() > opts.LargeGraphEdges && opts.LargeGraphMaxPasses > 0 {
		if opts.LargeGraphMaxPasses < passes {
			logger.Debug("capping sweep passes", "edges", g.EdgeCount(), "passes", opts.LargeGraphMaxPasses)
			passes = opts.LargeGraphMaxPasses
		}
	}

	s := newSweeper(g, opts.Transpose)
	var (
		best       Result
		bestMeta   []Meta
		stagnation int
	)
	ran := 0
	for pass := range passes {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Cancelled(err, "during crossing minimization")
		}

		dir := Forward
		if pass%2 == 1 {
			dir = Backward
		}
		crossings, err := s.pass(dir)
		if err != nil {
			return Result{}, err
		}
		ran++

		improved := ran == 1 || crossings < best.Crossings
		if improved {
			best.Crossings = crossings
			best.BestPass = pass
			best.Compaction = s.cg.Clone()
			bestMeta = append(bestMeta[:0], s.meta...)
			stagnation = 0
		} else {
			stagnation++
		}
		logger.Debug("sweep pass", "pass", pass, "direction", dir, "crossings", crossings, "improved", improved)
		if opts.OnPass != nil {
			opts.OnPass(pass, dir, crossings, improved)
		}

		if opts.EarlyStop && (best.Crossings == 0 || stagnation >= 2) {
			break
		}
	}

	g.commit(bestMeta)
	best.Passes = ran
	return best, nil
}
