// Package graph provides the JSON document formats for input graphs and
// computed layouts.
//
// # Graph Documents
//
// Graphs use a simple node-link format:
//
//	{
//	  "nodes": [{"id": "app", "label": "My App"}, {"id": "lib"}],
//	  "edges": [{"from": "app", "to": "lib"}]
//	}
//
// Cycles, self-loops and parallel edges are accepted; the layout engine
// deals with them. Node IDs must pass errors.ValidateNodeID and be unique.
//
//	g, _ := graph.ReadGraphFile("deps.json")    // File → DAG
//	data, _ := graph.MarshalGraph(g)            // DAG → []byte
//	doc, _ := graph.UnmarshalGraph(data)        // []byte → Graph
//	g, _ = graph.ToDAG(doc)                     // Graph → DAG
//
// # Layout Documents
//
// [FromResult] converts a layout.Result into a [Layout]: one entry per input
// node with its rank, index and coordinates, and one polyline per input
// edge in input order.
//
//	res, _ := layout.Compute(ctx, g, cfg)
//	_ = graph.WriteLayoutFile(graph.FromResult(res, g), "layout.json")
package graph
