// Package layered reduces edge crossings in a layered graph.
//
// # Model
//
// [Build] turns a normalized [dag.DAG] (rows assigned, every edge between
// consecutive rows except segment edges) into a [Graph] of vertices grouped
// by rank. Each vertex is one of:
//
//   - [KindReal]: a node of the input graph
//   - [KindSynthetic]: a subdivider on an edge spanning two ranks
//   - [KindP] and [KindQ]: the top and bottom endpoints of a [Segment], the
//     vertical middle part of an edge spanning three or more ranks
//
// Segments that pass through a rank are not vertices there. During a sweep
// they are grouped into a [Container], an ordered run of segments held in a
// splay tree (see package seqtree), so a rank with many long edges costs
// one entry instead of one per edge.
//
// # Crossing Minimization
//
// [Minimize] runs alternating forward and backward layer sweeps. Each sweep
// step places the free vertices of a rank by the median position of their
// neighbours in the fixed rank, splits containers around them, and
// optionally refines the result with adjacent swaps. Segments are never
// crossed by one another, so containers and segment endpoints stay rigid.
//
// The best pass is recorded as a [CompactionGraph]: per rank, the left to
// right order of vertices and passing segments, plus the left-of edges
// between them. The coordinate assignment in package bk reads it.
//
// Passes run on a working copy; the graph is only updated once the loop is
// over, so a cancelled or failed call leaves it untouched.
package layered
