// Package pipeline runs layout computations with caching for the CLI and the
// HTTP service.
//
// # Usage
//
// Create a Runner and lay out a graph document:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	resp, err := runner.Layout(ctx, pipeline.Request{
//	    Graph:  doc,
//	    Config: layout.DefaultConfig(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Layout.Crossings, resp.CacheHit)
//
// Lay out several documents concurrently:
//
//	responses, err := runner.LayoutAll(ctx, requests, 4)
//
// Results are cached under a key built from the hash of the graph document
// and the configuration, so identical requests skip the layout engine.
package pipeline

import (
	"runtime"
	"time"

	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout"
)

// DefaultConcurrency is the LayoutAll limit used when none is given.
var DefaultConcurrency = runtime.GOMAXPROCS(0)

// Request is one layout job.
type Request struct {
	// Name identifies the job in logs and batch results (e.g. the input
	// file name). Optional.
	Name   string
	Graph  graph.Graph
	Config layout.Config
	// Refresh skips the cache lookup; the result is still stored.
	Refresh bool
}

// Response is the outcome of a layout job.
type Response struct {
	Name      string
	Layout    graph.Layout
	GraphHash string
	CacheHit  bool
	Duration  time.Duration
}
