package layered

import (
	"iter"

	"github.com/matzehuels/strata/pkg/seqtree"
)

// Container is a run of segments that a sweep treats as a single element.
// Containers live for one sweep pass and are built from the pass arena.
type Container struct {
	tree *seqtree.Tree[SegmentID]
	meta Meta
	// upper is the position of the first segment in the fixed layer of the
	// step that produced the container.
	upper int
}

func newContainer(a *seqtree.Arena[SegmentID]) *Container {
	return &Container{tree: a.New(), meta: Meta{Measure: Unmeasured}}
}

// Kind always returns [KindContainer].
func (c *Container) Kind() Kind { return KindContainer }

// Rank returns the layer the container sits in.
func (c *Container) Rank() int { return c.meta.Rank }

// Index returns the container's element index within its rank.
func (c *Container) Index() int { return c.meta.Index }

// Pos returns the position of the container's first segment within its rank.
func (c *Container) Pos() int { return c.meta.Pos }

// Measure returns the sort key assigned by the last sweep, or [Unmeasured].
func (c *Container) Measure() float64 { return c.meta.Measure }

// Size returns the number of segments in the container.
func (c *Container) Size() int { return c.tree.Len() }

// Segments yields the segments in order.
func (c *Container) Segments() iter.Seq[SegmentID] { return c.tree.All() }

// First returns the leftmost segment.
func (c *Container) First() (SegmentID, bool) { return c.tree.First() }

func (c *Container) append(s SegmentID) { c.tree.Append(s) }

// Split cuts the container after its first k segments. c is left empty.
func (c *Container) Split(k int) (left, right *Container) {
	l, r := c.tree.SplitAt(k)
	left = &Container{tree: l, meta: c.meta, upper: c.upper}
	right = &Container{tree: r, meta: c.meta, upper: c.upper + l.Len()}
	return left, right
}

// joinContainers concatenates a and b, leaving both empty.
func joinContainers(a, b *Container) *Container {
	return &Container{tree: seqtree.Join(a.tree, b.tree), meta: a.meta, upper: a.upper}
}

var (
	_ LV = (*Vertex)(nil)
	_ LV = (*Container)(nil)
)
