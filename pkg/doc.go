// Package pkg holds the libraries behind strata, a layered graph layout
// engine.
//
// # Overview
//
// Strata draws directed graphs in horizontal layers: every vertex gets a
// rank (its y), an order within the rank chosen to keep edge crossings low,
// and an x coordinate that keeps long edges straight and vertices balanced
// over their neighbors.
//
//	graph.json
//	     ↓  [graph]         decode and validate the document
//	  dag.DAG
//	     ↓  [dag/transform] break cycles, assign ranks, subdivide long edges
//	     ↓  [layered]       build the layered graph, minimize crossings
//	     ↓  [layered/bk]    assign horizontal coordinates
//	layout.Result
//	     ↓  [graph]         encode the layout document
//	layout.json
//
// [layout.Compute] runs the whole chain. [pipeline.Runner] wraps it with a
// result [cache] and bounded concurrency for the CLI and the HTTP service.
//
// # Packages
//
//   - [seqtree]: splay tree addressed by position, the sequence behind
//     segment containers
//   - [dag], [dag/transform]: directed graph and its preprocessing
//   - [layered]: vertices, segments, containers and the layer sweep
//   - [layered/bk]: Brandes-Köpf coordinate assignment
//   - [layout]: configuration and the end-to-end pipeline
//   - [graph]: JSON documents for graphs and layouts
//   - [cache], [pipeline]: cached, concurrent layout runs
//   - [errors], [observability], [buildinfo]: shared infrastructure
//
// # Example
//
//	d, err := graph.ReadGraphFile("deps.json")
//	if err != nil {
//	    return err
//	}
//	res, err := layout.Compute(ctx, d, layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	return graph.WriteLayoutFile(graph.FromResult(res, d), "deps.layout.json")
//
// [seqtree]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/seqtree
// [dag]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/dag/transform
// [layered]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/layered
// [layered/bk]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/layered/bk
// [layout]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/layout
// [layout.Compute]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/layout#Compute
// [graph]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/graph
// [cache]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/pipeline#Runner
// [errors]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/strata/pkg/buildinfo
package pkg
