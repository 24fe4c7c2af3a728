// Package transform provides graph transformations that prepare a directed
// graph for layered layout.
//
// # Overview
//
// Input graphs rarely arrive in a form the crossing minimizer can work with.
// This package turns an arbitrary directed graph into a proper layered DAG
// where:
//
//   - There are no self-loops and no cycles
//   - Every node has a row, and every edge points to a lower row
//   - Edges connect consecutive rows, except segment edges
//
// The [Normalize] function applies the complete pipeline in the correct order.
//
// # Cycle Breaking
//
// [BreakCycles] reverses the back-edges found by a depth-first search.
// Reversed edges keep their metadata and are marked with [MetaReversed] so
// the caller can draw them in their original direction. Self-loops are
// removed beforehand by [RemoveSelfLoops].
//
// # Layer Assignment
//
// Three layerings are available:
//
//   - [LongestPath]: sinks on the bottom row, fewest rows
//   - [AssignLayers]: sources on the top row
//   - [CoffmanGraham]: at most a given number of nodes per row
//
// # Transitive Reduction
//
// [TransitiveReduction] removes redundant edges that can be inferred through
// other paths. If A→B and B→C exist, then A→C is redundant and removed.
// [CoffmanGraham] uses it on a copy of the graph.
//
// # Edge Subdivision
//
// [Subdivide] splits long edges. An edge spanning two rows gets a single
// subdivider node; a longer edge gets a segment top (P) below its source and
// a segment bottom (Q) above its target, joined by one segment edge:
//
//	Before: app (row 0) → core (row 4)
//	After:  app → app_p_1 ⇒ app_q_3 → core
//
// Keeping the middle of a long edge as one segment keeps the layered graph
// linear in the size of the input.
//
// # Usage
//
//	res, err := transform.Normalize(g, transform.Options{
//		Layering: transform.LayeringLongestPath,
//	})
//
// For fine-grained control, apply transformations individually:
//
//	transform.RemoveSelfLoops(g)
//	transform.BreakCycles(g)
//	transform.LongestPath(g)
//	chains := transform.Subdivide(g)
package transform
