package seqtree

import (
	"iter"
	"slices"

	"github.com/matzehuels/strata/pkg/errors"
)

const none = -1

type node[T comparable] struct {
	key    T
	size   int
	left   int
	right  int
	parent int
}

// Arena owns the nodes of every tree built from it.
type Arena[T comparable] struct {
	nodes []node[T]
	index map[T]int        // key -> node
	owner map[int]*Tree[T] // root node -> tree
}

// NewArena creates an empty arena.
func NewArena[T comparable]() *Arena[T] {
	return &Arena[T]{
		index: make(map[T]int),
		owner: make(map[int]*Tree[T]),
	}
}

// New returns an empty tree allocating from a.
func (a *Arena[T]) New() *Tree[T] {
	return &Tree[T]{arena: a, root: none}
}

// Len returns the number of nodes ever allocated in the arena.
func (a *Arena[T]) Len() int { return len(a.nodes) }

// Locate finds the tree currently holding key and the key's 0-based position
// in it. The node is splayed to the root of its tree.
func (a *Arena[T]) Locate(key T) (*Tree[T], int, bool) {
	n, ok := a.index[key]
	if !ok {
		return nil, -1, false
	}
	t := a.owner[a.rootOf(n)]
	if t == nil {
		return nil, -1, false
	}
	t.splayTo(n)
	return t, a.size(a.nodes[n].left), true
}

func (a *Arena[T]) size(n int) int {
	if n == none {
		return 0
	}
	return a.nodes[n].size
}

func (a *Arena[T]) update(n int) {
	nd := &a.nodes[n]
	nd.size = 1 + a.size(nd.left) + a.size(nd.right)
}

func (a *Arena[T]) rootOf(n int) int {
	for a.nodes[n].parent != none {
		n = a.nodes[n].parent
	}
	return n
}

// rotate lifts x above its parent.
func (a *Arena[T]) rotate(x int) {
	nodes := a.nodes
	p := nodes[x].parent
	g := nodes[p].parent
	if nodes[p].left == x {
		b := nodes[x].right
		nodes[p].left = b
		if b != none {
			nodes[b].parent = p
		}
		nodes[x].right = p
	} else {
		b := nodes[x].left
		nodes[p].right = b
		if b != none {
			nodes[b].parent = p
		}
		nodes[x].left = p
	}
	nodes[p].parent = x
	nodes[x].parent = g
	if g != none {
		if nodes[g].left == p {
			nodes[g].left = x
		} else {
			nodes[g].right = x
		}
	}
	a.update(p)
	a.update(x)
}

func (a *Arena[T]) splay(x int) {
	for {
		p := a.nodes[x].parent
		if p == none {
			return
		}
		if g := a.nodes[p].parent; g != none {
			if (a.nodes[g].left == p) == (a.nodes[p].left == x) {
				a.rotate(p) // zig-zig
			} else {
				a.rotate(x) // zig-zag
			}
		}
		a.rotate(x)
	}
}

func (a *Arena[T]) adopt(root int) *Tree[T] {
	t := a.New()
	t.setRoot(root)
	return t
}

// Tree is an ordered sequence of unique keys.
//
// The zero value is not usable; create trees with [New] or [Arena.New].
type Tree[T comparable] struct {
	arena *Arena[T]
	root  int
}

// New returns an empty tree with its own arena.
func New[T comparable]() *Tree[T] {
	return NewArena[T]().New()
}

// Arena returns the arena the tree allocates from.
func (t *Tree[T]) Arena() *Arena[T] { return t.arena }

// Len returns the number of keys in the tree.
func (t *Tree[T]) Len() int { return t.arena.size(t.root) }

func (t *Tree[T]) setRoot(n int) {
	a := t.arena
	if t.root != none && a.owner[t.root] == t {
		delete(a.owner, t.root)
	}
	t.root = n
	if n != none {
		a.nodes[n].parent = none
		a.owner[n] = t
	}
}

// take empties t and returns its former root.
func (t *Tree[T]) take() int {
	r := t.root
	t.setRoot(none)
	return r
}

func (t *Tree[T]) splayTo(n int) {
	t.arena.splay(n)
	t.setRoot(n)
}

// Append adds key at the end of the sequence.
// It panics if key is already present anywhere in the arena.
func (t *Tree[T]) Append(key T) {
	a := t.arena
	if _, dup := a.index[key]; dup {
		panic(errors.Structural("seqtree: duplicate key %v", key))
	}
	n := len(a.nodes)
	a.nodes = append(a.nodes, node[T]{key: key, size: 1, left: t.root, right: none, parent: none})
	a.index[key] = n
	if old := t.root; old != none {
		a.nodes[old].parent = n
		a.nodes[n].size += a.nodes[old].size
	}
	t.setRoot(n)
}

func (t *Tree[T]) nodeAt(pos int) int {
	if pos < 0 || pos >= t.Len() {
		return none
	}
	a := t.arena
	n := t.root
	for {
		ls := a.size(a.nodes[n].left)
		switch {
		case pos < ls:
			n = a.nodes[n].left
		case pos == ls:
			return n
		default:
			pos -= ls + 1
			n = a.nodes[n].right
		}
	}
}

// find returns the node holding key if it belongs to t. A key held by
// another tree of the arena is splayed to the root of that tree, so repeated
// lookups of it stay cheap.
func (t *Tree[T]) find(key T) int {
	a := t.arena
	n, ok := a.index[key]
	if !ok {
		return none
	}
	owner := a.owner[a.rootOf(n)]
	if owner != t {
		if owner != nil {
			owner.splayTo(n)
		}
		return none
	}
	return n
}

// At returns the key at the 0-based position pos.
func (t *Tree[T]) At(pos int) (T, bool) {
	n := t.nodeAt(pos)
	if n == none {
		var zero T
		return zero, false
	}
	t.splayTo(n)
	return t.arena.nodes[n].key, true
}

// First returns the first key in the sequence.
func (t *Tree[T]) First() (T, bool) { return t.At(0) }

// Last returns the last key in the sequence.
func (t *Tree[T]) Last() (T, bool) { return t.At(t.Len() - 1) }

// Contains reports whether key is in t, splaying it to the root if so.
func (t *Tree[T]) Contains(key T) bool {
	n := t.find(key)
	if n == none {
		return false
	}
	t.splayTo(n)
	return true
}

// Splay rotates key to the root. The sequence is unchanged.
// It reports false if key is not in t.
func (t *Tree[T]) Splay(key T) bool { return t.Contains(key) }

// IndexOf returns the 0-based position of key, or -1.
func (t *Tree[T]) IndexOf(key T) int {
	n := t.find(key)
	if n == none {
		return -1
	}
	t.splayTo(n)
	return t.arena.size(t.arena.nodes[n].left)
}

// SplitAt cuts the sequence before position k. The left tree holds the first
// k keys. k is clamped to [0, Len()]. t is left empty.
func (t *Tree[T]) SplitAt(k int) (left, right *Tree[T]) {
	a := t.arena
	switch {
	case k <= 0:
		return a.New(), a.adopt(t.take())
	case k >= t.Len():
		return a.adopt(t.take()), a.New()
	}
	x := t.nodeAt(k)
	t.splayTo(x)
	l := a.nodes[x].left
	a.nodes[x].left = none
	a.update(x)
	t.take()
	return a.adopt(l), a.adopt(x)
}

// Split cuts the sequence before key, so right starts with key. If key is not
// in t the whole sequence is returned as left. t is left empty.
func (t *Tree[T]) Split(key T) (left, right *Tree[T]) {
	n := t.find(key)
	if n == none {
		return t.arena.adopt(t.take()), t.arena.New()
	}
	t.splayTo(n)
	return t.SplitAt(t.arena.size(t.arena.nodes[n].left))
}

// Join concatenates left and right. Both must come from the same arena.
// The inputs are left empty.
func Join[T comparable](left, right *Tree[T]) *Tree[T] {
	if left.arena != right.arena {
		panic(errors.Structural("seqtree: join across arenas"))
	}
	a := left.arena
	l, r := left.take(), right.take()
	if l == none {
		return a.adopt(r)
	}
	if r == none {
		return a.adopt(l)
	}
	t := a.adopt(l)
	m := t.nodeAt(a.size(l) - 1)
	t.splayTo(m)
	a.nodes[m].right = r
	a.nodes[r].parent = m
	a.update(m)
	return t
}

// All yields the keys in order. The sequence can be ranged over repeatedly;
// it must not be used while t is modified.
func (t *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		a := t.arena
		var stack []int
		n := t.root
		for n != none || len(stack) > 0 {
			for n != none {
				stack = append(stack, n)
				n = a.nodes[n].left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(a.nodes[n].key) {
				return
			}
			n = a.nodes[n].right
		}
	}
}

// Keys returns the keys in order.
func (t *Tree[T]) Keys() []T { return slices.Collect(t.All()) }
