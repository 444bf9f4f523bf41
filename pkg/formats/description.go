package formats

import (
	"strconv"

	"github.com/Faultbox/obj2uncrz/pkg/math"
	"github.com/shopspring/decimal"
)

// SegmentKind distinguishes plain segments from blend segments.
type SegmentKind int

const (
	SegmentPlain SegmentKind = iota // "seg"
	SegmentBlend                    // "blend", carries a weight
)

// String returns the directive keyword for the kind.
func (k SegmentKind) String() string {
	if k == SegmentBlend {
		return "blend"
	}
	return "seg"
}

// SegmentID is a handle into DescriptionModel.Segments.
type SegmentID int

// NoSegment is the parent of root segments.
const NoSegment SegmentID = -1

// Segment is a node of a model's segment tree.
type Segment struct {
	Name     string
	Kind     SegmentKind
	Parent   SegmentID
	Children []SegmentID

	// Object is the geometry bound with "obj", nil when unbound.
	Object *ModelObject

	Origin math.Vec3

	// Match lists the segments this one may weld into.
	Match []string

	// Weight is the blend weight; zero for plain segments.
	Weight decimal.Decimal
}

// MatchesInto reports whether name is one of the segment's match targets.
func (s *Segment) MatchesInto(name string) bool {
	for _, m := range s.Match {
		if m == name {
			return true
		}
	}
	return false
}

// MatchMode selects what welding does to vertex ownership.
type MatchMode int

const (
	// MatchChangeOwner moves welded vertices to the segment that found them.
	MatchChangeOwner MatchMode = iota
	// MatchKeepOwner leaves ownership untouched.
	MatchKeepOwner
)

// ParseMatchMode maps a "matchmode" argument to a mode. The second result
// is false for unrecognised names, which select MatchKeepOwner.
func ParseMatchMode(s string) (MatchMode, bool) {
	switch s {
	case "changetti", "changeowner", "change":
		return MatchChangeOwner, true
	case "keepowner", "keep":
		return MatchKeepOwner, true
	default:
		return MatchKeepOwner, false
	}
}

// String returns the canonical "matchmode" argument.
func (m MatchMode) String() string {
	if m == MatchChangeOwner {
		return "changeowner"
	}
	return "keepowner"
}

// Section groups output faces by material.
type Section struct {
	Name string

	// Material filters which groups feed the section. Empty matches groups
	// that never set a material.
	Material string

	// Attributes are passthrough directive lines, tokens kept verbatim.
	Attributes [][]string

	// Faces index DescriptionModel.Vertices.
	Faces [][]int
}

// Vertex is a fully resolved output vertex.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Colour   math.Vec4
	TexCoord math.Vec2
	Segment  SegmentID
	Matched  bool
}

// Key snapshots the fields that make two vertices interchangeable:
// position, normal, colour, texcoord and owning segment. It is only
// meaningful at insertion time; welding later rewrites the owner.
func (v *Vertex) Key() string {
	return v.Position.Key() + "|" + v.Normal.Key() + "|" + v.Colour.Key() + "|" + v.TexCoord.Key() + "|" + segmentKey(v.Segment)
}

func segmentKey(id SegmentID) string {
	return strconv.Itoa(int(id))
}

// DescriptionModel is one "mdl" block: flags, segment tree, sections and
// the vertices resolved for them.
type DescriptionModel struct {
	Name string

	FlipZ         bool
	MatchMode     MatchMode
	MatchNormals  bool
	ManualNormals bool

	// Model is the geometry attached with "objfile".
	Model     *Model
	ModelPath string

	// Segments is the arena; Roots lists top-level segments in order.
	Segments []Segment
	Roots    []SegmentID

	Sections []*Section
	Vertices []Vertex

	byName map[string]SegmentID
}

// NewDescriptionModel creates an empty model with default flags.
func NewDescriptionModel(name string) *DescriptionModel {
	return &DescriptionModel{
		Name:      name,
		MatchMode: MatchChangeOwner,
	}
}

// AddSegment appends a segment under parent (NoSegment for a root) and
// returns its handle.
func (m *DescriptionModel) AddSegment(name string, kind SegmentKind, parent SegmentID) SegmentID {
	id := SegmentID(len(m.Segments))
	m.Segments = append(m.Segments, Segment{
		Name:   name,
		Kind:   kind,
		Parent: parent,
	})

	if parent == NoSegment {
		m.Roots = append(m.Roots, id)
	} else {
		m.Segments[parent].Children = append(m.Segments[parent].Children, id)
	}

	m.byName = nil
	return id
}

// Segment returns the segment for a handle. The pointer is invalidated
// by AddSegment.
func (m *DescriptionModel) Segment(id SegmentID) *Segment {
	return &m.Segments[id]
}

// SegmentByName looks a segment up by name. With duplicate names the
// first declared wins.
func (m *DescriptionModel) SegmentByName(name string) (SegmentID, bool) {
	if m.byName == nil {
		m.IndexSegments()
	}
	id, ok := m.byName[name]
	return id, ok
}

// IndexSegments builds the name index and returns names declared more
// than once.
func (m *DescriptionModel) IndexSegments() []string {
	m.byName = make(map[string]SegmentID, len(m.Segments))

	var dups []string
	for i, s := range m.Segments {
		if _, exists := m.byName[s.Name]; exists {
			dups = append(dups, s.Name)
			continue
		}
		m.byName[s.Name] = SegmentID(i)
	}
	return dups
}

// ParentOrigin returns the origin of id's parent, zero for roots.
func (m *DescriptionModel) ParentOrigin(id SegmentID) math.Vec3 {
	parent := m.Segments[id].Parent
	if parent == NoSegment {
		return math.Vec3{}
	}
	return m.Segments[parent].Origin
}

// Walk visits every segment depth-first in declaration order, parents
// before children.
func (m *DescriptionModel) Walk(fn func(id SegmentID, depth int)) {
	var visit func(id SegmentID, depth int)
	visit = func(id SegmentID, depth int) {
		fn(id, depth)
		for _, child := range m.Segments[id].Children {
			visit(child, depth+1)
		}
	}
	for _, root := range m.Roots {
		visit(root, 0)
	}
}

// FaceCount returns the number of faces across all sections.
func (m *DescriptionModel) FaceCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Faces)
	}
	return n
}

// Description is a parsed scene description file.
type Description struct {
	Name   string
	Models []*DescriptionModel
}
