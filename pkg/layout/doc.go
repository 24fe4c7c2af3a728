// Package layout computes layered drawings of directed graphs.
//
// [Compute] is the entry point. It takes any [dag.DAG] and a [Config] and
// returns node positions and edge routes:
//
//	res, err := layout.Compute(ctx, g, layout.DefaultConfig())
//
// Internally the graph is copied, self-loops are set aside, cycles are
// broken by reversing edges, rows are assigned, and long edges are split
// into synthetic chains (package transform). Crossings are then reduced by
// layer sweeps (package layered) and x coordinates assigned with
// Brandes–Köpf (package bk). Each rank sits VerticalSpacing below the
// previous one.
//
// Every input edge gets a polyline in its original direction, including
// reversed edges and self-loops (a two-point path on the node). The long
// middle part of an edge spanning three or more ranks is a vertical
// segment.
//
// # Configuration
//
// [Config] is explicit and validated with go-playground/validator.
// [LoadConfig] reads it from TOML or YAML on top of [DefaultConfig].
package layout
