// Package dag provides a directed graph organized into rows, the working
// representation for layered graph layout.
//
// # Overview
//
// Layered (Sugiyama-style) drawing places every node on a horizontal row and
// draws edges downward between rows. This package holds the graph while the
// preprocessing steps run: cycle breaking reverses edges, layer assignment
// sets [Node.Row], and subdivision replaces long edges by chains of
// synthetic nodes so that every remaining edge joins consecutive rows.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "a"})
//	g.AddNode(dag.Node{ID: "b"})
//	g.AddEdge(dag.Edge{From: "a", To: "b"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.NodesInRow], and related methods. Nodes are always reported in
// insertion order. Use [DAG.Validate] once rows are final.
//
// # Node Types
//
//   - [NodeKindRegular]: original graph vertices
//   - [NodeKindSubdivider]: the one synthetic node of an edge spanning two rows
//   - [NodeKindSegmentTop]: upper end (P) of an edge spanning three rows or more
//   - [NodeKindSegmentBottom]: lower end (Q) of such an edge
//
// A segment top and its segment bottom are joined by a single segment edge
// that may skip rows; the layout engine treats the rows in between as
// implicitly occupied by the segment.
//
// # Edge Crossings
//
// [CountCrossings], [CountLayerCrossings] and [CountCrossingsIdx] count
// crossings between adjacent rows with a Fenwick tree (binary indexed tree)
// in O(E log V) time. [CountWeightedCrossings] does the same for edge
// bundles.
//
// # Metadata
//
// Nodes, edges and the graph itself carry [Metadata] maps. Maps are never
// nil after creation.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Counting crossings on a
// graph that nobody modifies is safe from multiple goroutines.
//
// # Related Packages
//
// The [transform] subpackage implements the preprocessing steps: cycle
// breaking, layer assignment, transitive reduction and subdivision.
//
// [transform]: github.com/matzehuels/strata/pkg/dag/transform
package dag
