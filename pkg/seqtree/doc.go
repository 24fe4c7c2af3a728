// Package seqtree provides an ordered sequence backed by a splay tree keyed
// by position rather than by value.
//
// # Overview
//
// A [Tree] stores keys in the order they were appended. There is no
// comparison on keys: the in-order sequence is the data. Splitting and
// joining move whole subsequences around in amortized O(log n) time, which
// is what the layered sweep needs to cut a run of long-edge segments at an
// arbitrary point and glue runs back together.
//
// # Arenas
//
// Nodes live in an [Arena] and are addressed by index; parent, left and
// right links are indices with -1 meaning "none". All trees produced from
// one arena by [Tree.Split], [Tree.SplitAt] and [Join] share that arena but
// never share nodes. Each key may appear at most once per arena, which lets
// [Arena.Locate] find the tree and position of a key without scanning.
//
// An arena is scratch state: create one per computation and drop it when
// done. Nodes are never freed individually.
//
// # Missing Keys and Positions
//
// Lookups of absent keys or out-of-range positions are not errors. They
// return the zero value and false, -1, or an empty tree, and callers are
// expected to treat that as an ordinary outcome.
//
// # Concurrency
//
// Trees are not safe for concurrent use. Every read splays, so even lookups
// mutate the tree.
package seqtree
