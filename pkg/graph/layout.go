package graph

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/layered"
	"github.com/matzehuels/strata/pkg/layout"
)

// =============================================================================
// Layout - Output Document
// =============================================================================

// Layout is the serialization format of a computed layout. Nodes and edges
// follow the order of the input graph.
type Layout struct {
	Nodes     []LayoutNode `json:"nodes"`
	Edges     []LayoutEdge `json:"edges"`
	Crossings int          `json:"crossings"`
	Passes    int          `json:"passes"`
	Reversed  int          `json:"reversed,omitempty"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
}

// LayoutNode is a placed node.
type LayoutNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	Rank  int     `json:"rank"`
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// LayoutEdge is a routed edge. Points run from From to To.
type LayoutEdge struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Points   []Point `json:"points"`
	Reversed bool    `json:"reversed,omitempty"`
	SelfLoop bool    `json:"self_loop,omitempty"`
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FromResult converts a computed layout to its serialization format. g is
// the graph the layout was computed for; it supplies node labels.
func FromResult(res *layout.Result, g *dag.DAG) Layout {
	return Layout{
		Nodes: lo.Map(res.Nodes, func(n layout.Node, _ int) LayoutNode {
			ln := LayoutNode{ID: n.ID, Rank: n.Rank, Index: n.Index, X: n.X, Y: n.Y}
			if dn, ok := g.Node(n.ID); ok {
				if label := Label(dn); label != n.ID {
					ln.Label = label
				}
			}
			return ln
		}),
		Edges: lo.Map(res.Edges, func(e layout.Edge, _ int) LayoutEdge {
			return LayoutEdge{
				From:     e.From,
				To:       e.To,
				Reversed: e.Reversed,
				SelfLoop: e.SelfLoop,
				Points: lo.Map(e.Points, func(p layered.Point, _ int) Point {
					return Point{X: p.X, Y: p.Y}
				}),
			}
		}),
		Crossings: res.Crossings,
		Passes:    res.Passes,
		Reversed:  res.Reversed,
		Width:     res.Width,
		Height:    res.Height,
	}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that
// every edge endpoint names a node.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}

	ids := lo.SliceToMap(l.Nodes, func(n LayoutNode) (string, struct{}) { return n.ID, struct{}{} })
	for _, e := range l.Edges {
		if _, ok := ids[e.From]; !ok {
			return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout edge from unknown node %q", e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout edge to unknown node %q", e.To)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fileError(err, path)
	}
	return UnmarshalLayout(data)
}
