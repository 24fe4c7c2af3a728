package seqtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(n int) *Tree[int] {
	t := New[int]()
	for i := range n {
		t.Append(i)
	}
	return t
}

func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

func TestAppend_PreservesOrder(t *testing.T) {
	tr := build(10)

	require.Equal(t, 10, tr.Len())
	for i := range 10 {
		got, ok := tr.At(i)
		require.True(t, ok)
		assert.Equal(t, i, got)
	}
	assert.Equal(t, seq(0, 10), tr.Keys())
	require.NoError(t, tr.Validate())
}

func TestAppend_DuplicatePanics(t *testing.T) {
	tr := build(3)
	assert.Panics(t, func() { tr.Append(1) })
}

func TestAt_OutOfRange(t *testing.T) {
	tr := build(3)

	for _, pos := range []int{-1, 3, 100} {
		_, ok := tr.At(pos)
		assert.False(t, ok, "At(%d)", pos)
	}

	empty := New[int]()
	_, ok := empty.First()
	assert.False(t, ok)
	_, ok = empty.Last()
	assert.False(t, ok)
}

func TestIndexOf(t *testing.T) {
	tr := build(8)

	assert.Equal(t, 5, tr.IndexOf(5))
	assert.Equal(t, 0, tr.IndexOf(0))
	assert.Equal(t, -1, tr.IndexOf(42))
	assert.True(t, tr.Contains(7))
	assert.False(t, tr.Contains(-3))
	require.NoError(t, tr.Validate())
}

func TestSplitAt(t *testing.T) {
	tests := []struct {
		name      string
		k         int
		wantLeft  []int
		wantRight []int
	}{
		{"negative", -2, nil, seq(0, 6)},
		{"zero", 0, nil, seq(0, 6)},
		{"middle", 2, seq(0, 2), seq(2, 6)},
		{"last", 5, seq(0, 5), seq(5, 6)},
		{"size", 6, seq(0, 6), nil},
		{"beyond", 9, seq(0, 6), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := build(6)
			left, right := tr.SplitAt(tt.k)

			assert.Equal(t, len(tt.wantLeft), left.Len())
			assert.Equal(t, len(tt.wantRight), right.Len())
			if len(tt.wantLeft) > 0 {
				assert.Equal(t, tt.wantLeft, left.Keys())
			}
			if len(tt.wantRight) > 0 {
				assert.Equal(t, tt.wantRight, right.Keys())
			}
			assert.Equal(t, 0, tr.Len(), "receiver is emptied")
			require.NoError(t, left.Validate())
			require.NoError(t, right.Validate())
		})
	}
}

func TestSplit_ByKey(t *testing.T) {
	tr := build(6)
	left, right := tr.Split(3)

	assert.Equal(t, []int{0, 1, 2}, left.Keys())
	assert.Equal(t, []int{3, 4, 5}, right.Keys())
	require.NoError(t, left.Validate())
	require.NoError(t, right.Validate())
}

func TestSplit_MissingKey(t *testing.T) {
	tr := build(4)
	left, right := tr.Split(99)

	assert.Equal(t, seq(0, 4), left.Keys())
	assert.Equal(t, 0, right.Len())
}

func TestSplit_KeyInOtherTree(t *testing.T) {
	a := NewArena[string]()
	x, y := a.New(), a.New()
	x.Append("a")
	x.Append("b")
	y.Append("c")

	left, right := x.Split("c")
	assert.Equal(t, []string{"a", "b"}, left.Keys())
	assert.Equal(t, 0, right.Len())
	assert.Equal(t, []string{"c"}, y.Keys())
}

func TestLookup_KeyInOtherTree(t *testing.T) {
	a := NewArena[int]()
	x, y := a.New(), a.New()
	for i := range 100 {
		x.Append(i)
	}
	y.Append(1000)

	for _, k := range []int{0, 50, 0, 99} {
		assert.False(t, y.Contains(k))
		assert.Equal(t, -1, y.IndexOf(k))
		assert.Equal(t, k, a.nodes[x.root].key, "foreign key splayed in its own tree")
	}
	assert.Equal(t, seq(0, 100), x.Keys())
	assert.Equal(t, []int{1000}, y.Keys())
	require.NoError(t, x.Validate())
	require.NoError(t, y.Validate())

	got, pos, ok := a.Locate(50)
	require.True(t, ok)
	assert.Same(t, x, got)
	assert.Equal(t, 50, pos)
}

func TestJoin(t *testing.T) {
	tr := build(10)
	left, right := tr.SplitAt(4)
	joined := Join(left, right)

	assert.Equal(t, seq(0, 10), joined.Keys())
	assert.Equal(t, 0, left.Len())
	assert.Equal(t, 0, right.Len())
	require.NoError(t, joined.Validate())
}

func TestJoin_Empty(t *testing.T) {
	a := NewArena[int]()
	full := a.New()
	full.Append(1)
	full.Append(2)

	got := Join(a.New(), full)
	assert.Equal(t, []int{1, 2}, got.Keys())

	got = Join(got, a.New())
	assert.Equal(t, []int{1, 2}, got.Keys())
	require.NoError(t, got.Validate())

	assert.Equal(t, 0, Join(a.New(), a.New()).Len())
}

func TestJoin_AcrossArenasPanics(t *testing.T) {
	assert.Panics(t, func() { Join(build(1), build(1)) })
}

func TestSplay_KeepsSequence(t *testing.T) {
	tr := build(16)
	for _, k := range []int{15, 0, 7, 3, 12, 7} {
		require.True(t, tr.Splay(k))
		assert.Equal(t, seq(0, 16), tr.Keys())
		require.NoError(t, tr.Validate())
	}
	assert.False(t, tr.Splay(16))
}

func TestLocate(t *testing.T) {
	a := NewArena[int]()
	x, y := a.New(), a.New()
	for i := range 5 {
		x.Append(i)
	}
	for i := 10; i < 13; i++ {
		y.Append(i)
	}

	got, pos, ok := a.Locate(3)
	require.True(t, ok)
	assert.Same(t, x, got)
	assert.Equal(t, 3, pos)

	got, pos, ok = a.Locate(12)
	require.True(t, ok)
	assert.Same(t, y, got)
	assert.Equal(t, 2, pos)

	_, _, ok = a.Locate(99)
	assert.False(t, ok)

	left, right := x.SplitAt(2)
	got, pos, ok = a.Locate(3)
	require.True(t, ok)
	assert.Same(t, right, got)
	assert.Equal(t, 1, pos)
	require.NoError(t, left.Validate())
}

func TestAll_Restartable(t *testing.T) {
	tr := build(5)
	seqFn := tr.All()

	var first, second []int
	for k := range seqFn {
		first = append(first, k)
	}
	for k := range seqFn {
		second = append(second, k)
	}
	assert.Equal(t, first, second)

	var prefix []int
	for k := range seqFn {
		if k == 2 {
			break
		}
		prefix = append(prefix, k)
	}
	assert.Equal(t, []int{0, 1}, prefix)
}

func TestValidate_DetectsCorruption(t *testing.T) {
	tr := build(4)
	tr.At(1)
	tr.arena.nodes[tr.root].size = 99

	require.Error(t, tr.Validate())
}
