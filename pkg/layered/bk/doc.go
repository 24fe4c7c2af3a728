// Package bk assigns horizontal coordinates to a layered graph with the
// Brandes–Köpf method.
//
// [Assign] works on the order found by layered.Minimize. Every rank is a
// row of slots: one per vertex, plus one per segment passing through. The
// method then:
//
//  1. marks type-1 conflicts, where a non-inner edge crosses an inner
//     segment edge, so that segments always stay vertical
//  2. aligns every slot with a median neighbour into vertical blocks, once
//     for each of the four [Direction] values
//  3. compacts the blocks left (or right) as far as [Options.Spacing]
//     allows, by longest path over the block graph
//  4. shifts the four layouts onto the narrowest one and takes the mean of
//     the two middle values as the final x
//
// With [Options.Straighten], synthetic chains are then moved toward the
// line between their real endpoints where their neighbours leave room.
package bk
