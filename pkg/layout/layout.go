package layout

import (
	"context"
	"io"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/dag/transform"
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/layered"
	"github.com/matzehuels/strata/pkg/layered/bk"
	"github.com/matzehuels/strata/pkg/observability"
)

// metaIndex tags every working edge with its position in the input.
const metaIndex = "_index"

// Node is the placement of one input node.
type Node struct {
	ID    string  `json:"id"`
	Rank  int     `json:"rank"`
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Edge is the route of one input edge, from its source to its target.
type Edge struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Points []layered.Point `json:"points"`
	// Reversed is set when the edge was turned around to break a cycle; the
	// points still run from From to To.
	Reversed bool `json:"reversed,omitempty"`
	SelfLoop bool `json:"self_loop,omitempty"`
}

// Result is a finished layout. Nodes and Edges follow input order.
type Result struct {
	Nodes     []Node  `json:"nodes"`
	Edges     []Edge  `json:"edges"`
	Crossings int     `json:"crossings"`
	Passes    int     `json:"passes"`
	BestPass  int     `json:"best_pass"`
	Reversed  int     `json:"reversed"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Option configures a single [Compute] call.
type Option func(*options)

type options struct {
	logger *log.Logger
	hooks  observability.LayoutHooks
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithHooks sets the hooks notified about the computation.
func WithHooks(h observability.LayoutHooks) Option { return func(o *options) { o.hooks = h } }

// Compute lays out d. The input graph is not modified; it may contain
// cycles, self-loops, parallel edges and edges of any length.
//
// ctx is checked after layering, between sweep passes and before
// coordinate assignment; a cancelled computation returns an
// ErrCodeCancelled error and no result.
func Compute(ctx context.Context, d *dag.DAG, cfg Config, opts ...Option) (res *Result, err error) {
	o := options{hooks: observability.NoopLayoutHooks{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	o.hooks.OnLayoutStart(ctx, d.NodeCount(), d.EdgeCount())
	defer func() {
		crossings := 0
		if res != nil {
			crossings = res.Crossings
		}
		o.hooks.OnLayoutComplete(ctx, crossings, time.Since(start), err)
	}()

	w, err := working(d)
	if err != nil {
		return nil, err
	}
	norm, err := transform.Normalize(w, transform.Options{
		Layering: transform.Layering(cfg.Layering),
		MaxWidth: cfg.MaxWidth,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "normalize graph")
	}
	o.logger.Debug("normalized graph",
		"ranks", norm.MaxRow+1,
		"reversed", norm.CyclesReversed,
		"self_loops", len(norm.SelfLoops),
		"subdividers", norm.Subdividers,
		"segments", norm.Segments)
	if err := ctx.Err(); err != nil {
		return nil, errors.Cancelled(err, "after layering")
	}

	g, err := layered.Build(w)
	if err != nil {
		return nil, err
	}
	sweep, err := layered.Minimize(ctx, g, layered.Options{
		MaxPasses:           cfg.MaxPasses,
		Transpose:           cfg.Transpose,
		EarlyStop:           cfg.EarlyStop,
		LargeGraphEdges:     cfg.LargeGraphEdges,
		LargeGraphMaxPasses: cfg.LargeGraphMaxPasses,
		Logger:              o.logger,
		OnPass: func(pass int, dir layered.Direction, crossings int, improved bool) {
			o.hooks.OnPass(ctx, pass, dir.String(), crossings, improved)
		},
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Cancelled(err, "before coordinate assignment")
	}

	xs, err := bk.Assign(g, sweep.Compaction, bk.Options{
		Spacing:    cfg.HorizontalSpacing,
		Straighten: cfg.PostStraighten,
	})
	if err != nil {
		return nil, err
	}

	res = assemble(g, xs, norm, d, cfg)
	res.Crossings = sweep.Crossings
	res.Passes = sweep.Passes
	res.BestPass = sweep.BestPass
	res.Reversed = norm.CyclesReversed
	o.logger.Debug("layout complete",
		"crossings", res.Crossings,
		"passes", res.Passes,
		"best_pass", res.BestPass,
		"width", res.Width,
		"height", res.Height)
	return res, nil
}

// working copies the nodes and edges of d into a fresh graph, tagging each
// edge with its input index.
func working(d *dag.DAG) (*dag.DAG, error) {
	w := dag.New(nil)
	for _, n := range d.Nodes() {
		if n.IsSynthetic() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %s: input nodes must be regular, got %s", n.ID, n.Kind)
		}
		if err := w.AddNode(dag.Node{ID: n.ID, Meta: maps.Clone(n.Meta)}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %s", n.ID)
		}
	}
	for i, e := range d.Edges() {
		meta := maps.Clone(e.Meta)
		if meta == nil {
			meta = dag.Metadata{}
		}
		meta[metaIndex] = i
		if err := w.AddEdge(dag.Edge{From: e.From, To: e.To, Meta: meta}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %s→%s", e.From, e.To)
		}
	}
	return w, nil
}

// assemble writes points onto the vertices of g and builds the result,
// shifted so that the leftmost coordinate is zero.
func assemble(g *layered.Graph, xs *bk.Result, norm transform.Result, d *dag.DAG, cfg Config) *Result {
	y := func(rank int) float64 { return float64(rank) * cfg.VerticalSpacing }

	minX := math.Inf(1)
	for _, v := range g.Vertices() {
		minX = min(minX, xs.X(v.ID()))
	}
	for _, s := range g.Segments() {
		for r := s.Top + 1; r < s.Bottom; r++ {
			if x, ok := xs.PassX(s.ID, r); ok {
				minX = min(minX, x)
			}
		}
	}
	if math.IsInf(minX, 1) {
		minX = 0
	}

	res := &Result{}
	for _, v := range g.Vertices() {
		v.SetPoint(layered.Point{X: xs.X(v.ID()) - minX, Y: y(v.Rank())})
		p, _ := v.Point()
		res.Width = max(res.Width, p.X)
		res.Height = max(res.Height, p.Y)
	}

	point := func(id string) layered.Point {
		v, _ := g.VertexByNode(id)
		p, _ := v.Point()
		return p
	}

	for _, n := range d.Nodes() {
		v, _ := g.VertexByNode(n.ID)
		p, _ := v.Point()
		res.Nodes = append(res.Nodes, Node{ID: n.ID, Rank: v.Rank(), Index: v.Index(), X: p.X, Y: p.Y})
	}

	res.Edges = make([]Edge, d.EdgeCount())
	for _, e := range norm.SelfLoops {
		p := point(e.From)
		res.Edges[edgeIndex(e)] = Edge{From: e.From, To: e.To, Points: []layered.Point{p, p}, SelfLoop: true}
	}
	for _, c := range norm.Chains {
		var pts []layered.Point
		for i, id := range c.Nodes {
			v, _ := g.VertexByNode(id)
			pts = append(pts, point(id))
			if v.Kind() != layered.KindP || i+1 >= len(c.Nodes) {
				continue
			}
			s := g.Segment(v.Segment())
			for r := s.Top + 1; r < s.Bottom; r++ {
				if x, ok := xs.PassX(s.ID, r); ok {
					pts = append(pts, layered.Point{X: x - minX, Y: y(r)})
				}
			}
		}
		e := Edge{From: c.Edge.From, To: c.Edge.To, Points: pts}
		if reversed, _ := c.Edge.Meta[transform.MetaReversed].(bool); reversed {
			e.From, e.To = e.To, e.From
			slices.Reverse(e.Points)
			e.Reversed = true
		}
		res.Edges[edgeIndex(c.Edge)] = e
	}
	return res
}

func edgeIndex(e dag.Edge) int {
	i, _ := e.Meta[metaIndex].(int)
	return i
}
