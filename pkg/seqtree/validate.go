package seqtree

import "github.com/matzehuels/strata/pkg/errors"

// Validate checks subtree sizes, parent/child reciprocity, key indexing and
// root ownership. It is meant for tests and debugging.
func (t *Tree[T]) Validate() error {
	a := t.arena
	if t.root == none {
		return nil
	}
	if a.nodes[t.root].parent != none {
		return errors.Structural("seqtree: root %d has parent %d", t.root, a.nodes[t.root].parent)
	}
	if a.owner[t.root] != t {
		return errors.Structural("seqtree: root %d is not owned by its tree", t.root)
	}

	visited := 0
	stack := []int{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited++; visited > len(a.nodes) {
			return errors.Structural("seqtree: cycle below root %d", t.root)
		}

		nd := a.nodes[n]
		for _, c := range [2]int{nd.left, nd.right} {
			if c == none {
				continue
			}
			if c < 0 || c >= len(a.nodes) {
				return errors.Structural("seqtree: node %d links to invalid node %d", n, c)
			}
			if a.nodes[c].parent != n {
				return errors.Structural("seqtree: node %d does not point back to parent %d", c, n)
			}
			stack = append(stack, c)
		}
		if want := 1 + a.size(nd.left) + a.size(nd.right); nd.size != want {
			return errors.Structural("seqtree: node %d has size %d, want %d", n, nd.size, want)
		}
		if idx, ok := a.index[nd.key]; !ok || idx != n {
			return errors.Structural("seqtree: key %v is not indexed at node %d", nd.key, n)
		}
	}
	if visited != a.nodes[t.root].size {
		return errors.Structural("seqtree: reached %d nodes, root size is %d", visited, a.nodes[t.root].size)
	}
	return nil
}
