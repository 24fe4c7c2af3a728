package layered

// Kind tags the variants of a layered-graph element.
type Kind int

const (
	// KindReal is an original graph node.
	KindReal Kind = iota
	// KindSynthetic is the single synthetic node of an edge spanning two ranks.
	KindSynthetic
	// KindP is the top endpoint of a segment.
	KindP
	// KindQ is the bottom endpoint of a segment.
	KindQ
	// KindContainer is only reported by [Container].
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindSynthetic:
		return "synthetic"
	case KindP:
		return "p"
	case KindQ:
		return "q"
	case KindContainer:
		return "container"
	default:
		return "unknown"
	}
}

// VertexID indexes [Graph.Vertices].
type VertexID int

// SegmentID is the handle of a [Segment]. Segments are compared by handle,
// never by their fields.
type SegmentID int

// NoSegment is the segment of vertices that are not segment endpoints.
const NoSegment SegmentID = -1

// Unmeasured is the measure of an element no sweep has measured yet.
const Unmeasured = -1.0

// Meta is the ordering state of an element within its rank. Pos counts
// container sizes, so it differs from Index once containers are present.
type Meta struct {
	Rank    int
	Index   int
	Pos     int
	Measure float64
}

// Point is a drawing coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LV is what the sweep needs from anything placed in a layer.
type LV interface {
	Kind() Kind
	Rank() int
	Index() int
	Pos() int
	Measure() float64
}

// Vertex is an element of a rank: a real node, a synthetic node, or a
// segment endpoint.
type Vertex struct {
	id      VertexID
	kind    Kind
	node    string
	segment SegmentID
	meta    Meta

	point    Point
	hasPoint bool
}

// ID returns the vertex's index in [Graph.Vertices].
func (v *Vertex) ID() VertexID { return v.id }

// Kind returns the vertex variant.
func (v *Vertex) Kind() Kind { return v.kind }

// NodeID returns the ID of the graph node the vertex was built from.
func (v *Vertex) NodeID() string { return v.node }

// Segment returns the segment a P or Q vertex belongs to, or [NoSegment].
func (v *Vertex) Segment() SegmentID { return v.segment }

// Rank returns the layer the vertex is placed in.
func (v *Vertex) Rank() int { return v.meta.Rank }

// Index returns the vertex's element index within its rank.
func (v *Vertex) Index() int { return v.meta.Index }

// Pos returns the vertex's position within its rank, counting each container
// by its size.
func (v *Vertex) Pos() int { return v.meta.Pos }

// Measure returns the sort key assigned by the last sweep, or [Unmeasured].
func (v *Vertex) Measure() float64 { return v.meta.Measure }

// Meta returns a copy of the vertex's ordering state.
func (v *Vertex) Meta() Meta { return v.meta }

// IsSynthetic reports whether the vertex was inserted for a long edge.
func (v *Vertex) IsSynthetic() bool { return v.kind != KindReal }

// IsEndpoint reports whether the vertex is a P or Q vertex.
func (v *Vertex) IsEndpoint() bool { return v.kind == KindP || v.kind == KindQ }

// Point returns the coordinate assigned to the vertex, if any.
func (v *Vertex) Point() (Point, bool) { return v.point, v.hasPoint }

// SetPoint assigns the vertex coordinate.
func (v *Vertex) SetPoint(p Point) {
	v.point = p
	v.hasPoint = true
}

// HasPoint reports whether a coordinate has been assigned.
func (v *Vertex) HasPoint() bool { return v.hasPoint }
