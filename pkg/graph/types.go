package graph

import (
	"maps"

	"github.com/samber/lo"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
)

// metaLabel stores the display label in node metadata for round-trip
// fidelity.
const metaLabel = "_label"

// =============================================================================
// Graph - Input Document
// =============================================================================

// Graph is the canonical serialization format for input graphs. Node and
// edge order is significant: layouts report nodes and edges in the same
// order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a vertex of an input graph.
type Node struct {
	ID    string         `json:"id"`
	Label string         `json:"label,omitempty"` // Display label (defaults to ID)
	Meta  map[string]any `json:"meta,omitempty"`
}

// Edge is a directed edge of an input graph. Self-loops, parallel edges and
// cycles are allowed.
type Edge struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Meta map[string]any `json:"meta,omitempty"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a DAG to its serialization format, in insertion order.
// Synthetic nodes are left out along with the edges touching them.
func FromDAG(g *dag.DAG) Graph {
	nodes := lo.Filter(g.Nodes(), func(n *dag.Node, _ int) bool { return !n.IsSynthetic() })
	keep := lo.SliceToMap(nodes, func(n *dag.Node) (string, bool) { return n.ID, true })
	edges := lo.Filter(g.Edges(), func(e dag.Edge, _ int) bool { return keep[e.From] && keep[e.To] })

	return Graph{
		Nodes: lo.Map(nodes, func(n *dag.Node, _ int) Node { return nodeFromDAG(n) }),
		Edges: lo.Map(edges, func(e dag.Edge, _ int) Edge {
			return Edge{From: e.From, To: e.To, Meta: nilIfEmpty(maps.Clone(e.Meta))}
		}),
	}
}

// ToDAG converts a Graph to a DAG. Node IDs are validated with
// [errors.ValidateNodeID]; duplicate IDs and edges to unknown nodes are
// rejected with ErrCodeInvalidInput.
func ToDAG(gj Graph) (*dag.DAG, error) {
	if dups := lo.FindDuplicatesBy(gj.Nodes, func(n Node) string { return n.ID }); len(dups) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node ID %q", dups[0].ID)
	}

	d := dag.New(nil)
	for _, nj := range gj.Nodes {
		if err := errors.ValidateNodeID(nj.ID); err != nil {
			return nil, err
		}
		n := dag.Node{ID: nj.ID, Meta: maps.Clone(nj.Meta)}
		if n.Meta == nil {
			n.Meta = dag.Metadata{}
		}
		if nj.Label != "" {
			n.Meta[metaLabel] = nj.Label
		}
		if err := d.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "add node %s", nj.ID)
		}
	}

	for i, ej := range gj.Edges {
		if err := d.AddEdge(dag.Edge{From: ej.From, To: ej.To, Meta: maps.Clone(ej.Meta)}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %d (%s→%s)", i, ej.From, ej.To)
		}
	}
	return d, nil
}

// Label returns the display label of a DAG node: the label stored by
// [ToDAG], or the ID.
func Label(n *dag.Node) string {
	if label, ok := n.Meta[metaLabel].(string); ok && label != "" {
		return label
	}
	return n.ID
}

func nodeFromDAG(n *dag.Node) Node {
	node := Node{ID: n.ID, Meta: cleanMeta(n.Meta)}
	if label, ok := n.Meta[metaLabel].(string); ok {
		node.Label = label
	}
	return node
}

// cleanMeta returns a copy of metadata without internal keys, or nil if
// nothing is left.
func cleanMeta(m map[string]any) map[string]any {
	out := lo.OmitByKeys(m, []string{metaLabel})
	return nilIfEmpty(out)
}

func nilIfEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}
