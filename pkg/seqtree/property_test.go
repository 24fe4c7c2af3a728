package seqtree

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestTreeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("At returns keys in insertion order", prop.ForAll(
		func(n int) bool {
			tr := build(n)
			for i := range n {
				if k, ok := tr.At(i); !ok || k != i {
					return false
				}
			}
			return tr.Validate() == nil
		},
		gen.IntRange(0, 300),
	))

	properties.Property("SplitAt then Join restores the sequence", prop.ForAll(
		func(n, k int) bool {
			tr := build(n)
			left, right := tr.SplitAt(k)

			clamped := min(max(k, 0), n)
			if left.Len() != clamped || left.Len()+right.Len() != n {
				return false
			}
			if left.Validate() != nil || right.Validate() != nil {
				return false
			}
			joined := Join(left, right)
			return slices.Equal(joined.Keys(), seq(0, n)) && joined.Validate() == nil
		},
		gen.IntRange(0, 120),
		gen.IntRange(-20, 140),
	))

	properties.Property("Splay never changes the sequence", prop.ForAll(
		func(keys []int) bool {
			tr := build(64)
			for _, k := range keys {
				if !tr.Splay(k) {
					return false
				}
			}
			return slices.Equal(tr.Keys(), seq(0, 64)) && tr.Validate() == nil
		},
		gen.SliceOf(gen.IntRange(0, 63)),
	))

	properties.Property("repeated cuts keep every piece valid", prop.ForAll(
		func(cuts []int) bool {
			a := NewArena[int]()
			tr := a.New()
			for i := range 50 {
				tr.Append(i)
			}
			pieces := []*Tree[int]{tr}
			for _, c := range cuts {
				last := pieces[len(pieces)-1]
				l, r := last.SplitAt(c % (last.Len() + 1))
				pieces = append(pieces[:len(pieces)-1], l, r)
			}
			var got []int
			for _, p := range pieces {
				if p.Validate() != nil {
					return false
				}
				got = append(got, p.Keys()...)
			}
			if !slices.Equal(got, seq(0, 50)) {
				return false
			}
			for k := range 50 {
				owner, _, ok := a.Locate(k)
				if !ok || !owner.Contains(k) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 60)),
	))

	properties.TestingRun(t)
}
