package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/layout"
)

func TestMarshalGraph(t *testing.T) {
	tests := []struct {
		name      string
		build     func() *dag.DAG
		wantNodes int
		wantEdges int
		check     func(t *testing.T, g Graph)
	}{
		{
			name:      "Empty",
			build:     func() *dag.DAG { return dag.New(nil) },
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name: "PreservesMetadata",
			build: func() *dag.DAG {
				g := dag.New(nil)
				g.AddNode(dag.Node{ID: "test", Meta: dag.Metadata{"version": "1.0", "_label": "Test"}})
				return g
			},
			wantNodes: 1,
			check: func(t *testing.T, g Graph) {
				n := g.Nodes[0]
				if n.Meta["version"] != "1.0" {
					t.Errorf("version = %v, want 1.0", n.Meta["version"])
				}
				if _, ok := n.Meta["_label"]; ok {
					t.Error("internal label key leaked into meta")
				}
				if n.Label != "Test" {
					t.Errorf("label = %q, want Test", n.Label)
				}
			},
		},
		{
			name: "InsertionOrder",
			build: func() *dag.DAG {
				g := dag.New(nil)
				g.AddNode(dag.Node{ID: "z"})
				g.AddNode(dag.Node{ID: "a"})
				g.AddEdge(dag.Edge{From: "z", To: "a"})
				g.AddEdge(dag.Edge{From: "a", To: "z"})
				return g
			},
			wantNodes: 2,
			wantEdges: 2,
			check: func(t *testing.T, g Graph) {
				if g.Nodes[0].ID != "z" {
					t.Errorf("first node = %s, want z", g.Nodes[0].ID)
				}
				if g.Edges[1].From != "a" {
					t.Errorf("second edge from = %s, want a", g.Edges[1].From)
				}
			},
		},
		{
			name: "SkipsSynthetic",
			build: func() *dag.DAG {
				g := dag.New(nil)
				g.AddNode(dag.Node{ID: "a"})
				g.AddNode(dag.Node{ID: "a_sub_1", Row: 1, Kind: dag.NodeKindSubdivider})
				g.AddNode(dag.Node{ID: "b", Row: 2})
				g.AddEdge(dag.Edge{From: "a", To: "a_sub_1"})
				g.AddEdge(dag.Edge{From: "a_sub_1", To: "b"})
				return g
			},
			wantNodes: 2,
			wantEdges: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalGraph(tt.build())
			if err != nil {
				t.Fatalf("MarshalGraph: %v", err)
			}

			var result Graph
			if err := json.Unmarshal(data, &result); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if got := len(result.Nodes); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := len(result.Edges); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if tt.check != nil {
				tt.check(t, result)
			}
		})
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantCode  errors.Code
	}{
		{
			name:      "Valid",
			input:     `{"nodes": [{"id": "A", "meta": {"version": "1.0"}}, {"id": "B"}], "edges": [{"from": "A", "to": "B"}]}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:      "CyclesAndSelfLoops",
			input:     `{"nodes": [{"id": "A"}, {"id": "B"}], "edges": [{"from": "A", "to": "B"}, {"from": "B", "to": "A"}, {"from": "A", "to": "A"}]}`,
			wantNodes: 2,
			wantEdges: 3,
		},
		{
			name:  "Empty",
			input: `{"nodes": [], "edges": []}`,
		},
		{
			name:     "InvalidJSON",
			input:    `{invalid json}`,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "DuplicateNode",
			input:    `{"nodes": [{"id": "A"}, {"id": "A"}]}`,
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "EmptyID",
			input:    `{"nodes": [{"id": ""}]}`,
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "UnknownEndpoint",
			input:    `{"nodes": [{"id": "A"}], "edges": [{"from": "A", "to": "X"}]}`,
			wantCode: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantCode != "" {
				if got := errors.GetCode(err); got != tt.wantCode {
					t.Fatalf("code = %q (%v), want %q", got, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if got := g.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
		})
	}
}

func TestGraphRoundTrip(t *testing.T) {
	in := Graph{
		Nodes: []Node{{ID: "a", Label: "Alpha", Meta: map[string]any{"k": "v"}}, {ID: "b"}},
		Edges: []Edge{{From: "a", To: "b", Meta: map[string]any{"weight": "2"}}},
	}
	d, err := ToDAG(in)
	if err != nil {
		t.Fatalf("ToDAG: %v", err)
	}
	out := FromDAG(d)

	a, _ := json.Marshal(in)
	b, _ := json.Marshal(out)
	if !bytes.Equal(a, b) {
		t.Errorf("round trip changed document:\n in: %s\nout: %s", a, b)
	}
}

func TestReadGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(path, []byte(`{"nodes": [{"id": "A"}], "edges": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("nodes = %d, want 1", g.NodeCount())
	}
}

func TestReadGraphFileNotFound(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nonexistent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLayoutDocument(t *testing.T) {
	d, err := ToDAG(Graph{
		Nodes: []Node{{ID: "a", Label: "A"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}, {From: "a", To: "a"}},
	})
	if err != nil {
		t.Fatalf("ToDAG: %v", err)
	}
	res, err := layout.Compute(context.Background(), d, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	doc := FromResult(res, d)
	if len(doc.Nodes) != 3 || len(doc.Edges) != 4 {
		t.Fatalf("got %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}
	if doc.Nodes[0].Label != "A" || doc.Nodes[1].Label != "" {
		t.Errorf("labels = %q, %q", doc.Nodes[0].Label, doc.Nodes[1].Label)
	}
	if doc.Reversed != 1 || !doc.Edges[2].Reversed {
		t.Errorf("reversed = %d, edge flag %v", doc.Reversed, doc.Edges[2].Reversed)
	}
	if !doc.Edges[3].SelfLoop {
		t.Error("self-loop not flagged")
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(doc, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if back.Height != doc.Height || len(back.Edges[0].Points) != len(doc.Edges[0].Points) {
		t.Errorf("layout changed on round trip: %+v", back)
	}
}

func TestUnmarshalLayout_UnknownNode(t *testing.T) {
	_, err := UnmarshalLayout([]byte(`{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b", "points": []}]}`))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}
