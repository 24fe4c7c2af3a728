package layered

// Segment is the middle part of an edge spanning three ranks or more: it
// starts at vertex P on rank Top and ends at vertex Q on rank Bottom, and
// occupies one slot on every rank in between.
type Segment struct {
	ID     SegmentID
	P      VertexID
	Q      VertexID
	Top    int
	Bottom int
}

// Spans reports whether the segment occupies a slot on rank.
func (s Segment) Spans(rank int) bool { return s.Top <= rank && rank <= s.Bottom }

// Passes reports whether the segment runs strictly through rank, without an
// endpoint there.
func (s Segment) Passes(rank int) bool { return s.Top < rank && rank < s.Bottom }
