package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/strata/pkg/cache"
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout"
	"github.com/matzehuels/strata/pkg/observability"
)

const keyTypeLayout = "layout"

// Runner encapsulates layout execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Layout computes the layout of req.Graph, serving it from the cache when
// possible. Cache failures are logged and never fail the request.
func (r *Runner) Layout(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	graphData, err := json.Marshal(req.Graph)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode graph")
	}
	resp := &Response{Name: req.Name, GraphHash: cache.Hash(graphData)}
	key := r.Keyer.LayoutKey(resp.GraphHash, req.Config)

	if !req.Refresh {
		if cached, ok := r.lookup(ctx, key); ok {
			resp.Layout = cached
			resp.CacheHit = true
			resp.Duration = time.Since(start)
			r.Logger.Debug("layout cache hit", "name", req.Name, "graph", resp.GraphHash[:12])
			return resp, nil
		}
	}

	d, err := graph.ToDAG(req.Graph)
	if err != nil {
		return nil, err
	}
	res, err := layout.Compute(ctx, d, req.Config,
		layout.WithLogger(r.Logger),
		layout.WithHooks(observability.Layout()))
	if err != nil {
		return nil, err
	}
	resp.Layout = graph.FromResult(res, d)
	r.store(ctx, key, resp.Layout)

	resp.Duration = time.Since(start)
	r.Logger.Info("computed layout",
		"name", req.Name,
		"nodes", len(resp.Layout.Nodes),
		"edges", len(resp.Layout.Edges),
		"crossings", resp.Layout.Crossings,
		"passes", resp.Layout.Passes,
		"duration", resp.Duration)
	return resp, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (graph.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return graph.Layout{}, false
	}
	cached, err := graph.UnmarshalLayout(data)
	if err != nil {
		// Stale or corrupt entry: recompute and overwrite.
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return graph.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeLayout)
	return cached, true
}

func (r *Runner) store(ctx context.Context, key string, l graph.Layout) {
	data, err := graph.MarshalLayout(l)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
}

// LayoutAll runs every request with at most limit layouts in flight. A
// limit of zero or less uses DefaultConcurrency.
//
// The returned slice has one entry per request, in order; failed requests
// leave a nil entry and contribute to the joined error. Cancelling ctx stops
// the requests that have not started.
func (r *Runner) LayoutAll(ctx context.Context, reqs []Request, limit int) ([]*Response, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	out := make([]*Response, len(reqs))
	errs := make([]error, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = errors.Cancelled(err, "before start")
				return nil
			}
			resp, err := r.Layout(gctx, req)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", jobName(req, i), err)
				return nil
			}
			out[i] = resp
			return nil
		})
	}
	_ = g.Wait()
	return out, stderrors.Join(errs...)
}

func jobName(req Request, i int) string {
	if req.Name != "" {
		return req.Name
	}
	return fmt.Sprintf("job %d", i)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
