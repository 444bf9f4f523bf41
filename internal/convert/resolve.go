// Package convert turns parsed scene descriptions into UNCRZ meshes:
// it resolves segment geometry into vertices, welds seams between
// adjacent segments, rebases coordinates and writes the result.
package convert

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/obj2uncrz/pkg/formats"
	"github.com/Faultbox/obj2uncrz/pkg/math"
)

// resolver holds the deduplication index for one model.
type resolver struct {
	m     *formats.DescriptionModel
	log   *zap.Logger
	index map[string]int

	// group materials seen, and which sections received faces
	materials map[string]bool
	fed       []bool
}

// Resolve walks m's segment tree parents first and appends the vertices
// and faces of every bound object. Identical vertices within a segment
// are stored once. Faces go to every section whose material equals the
// group's; faces whose material no section takes are dropped.
func Resolve(m *formats.DescriptionModel, diag *formats.Diagnostics, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	r := &resolver{
		m:         m,
		log:       log,
		index:     make(map[string]int, len(m.Vertices)),
		materials: make(map[string]bool),
		fed:       make([]bool, len(m.Sections)),
	}
	for i := range m.Vertices {
		k := m.Vertices[i].Key()
		if _, ok := r.index[k]; !ok {
			r.index[k] = i
		}
	}

	m.Walk(func(id formats.SegmentID, depth int) {
		start := time.Now()
		r.segment(id)
		log.Debug("processed segment",
			zap.String("segment", m.Segments[id].Name),
			zap.Int("depth", depth),
			zap.Duration("took", time.Since(start)))
	})

	r.reportUnmatched(diag)
}

func (r *resolver) segment(id formats.SegmentID) {
	obj := r.m.Segments[id].Object
	if obj == nil {
		return
	}
	geom := r.m.Model

	for _, group := range obj.Groups {
		r.materials[group.Material] = true

		for _, face := range group.Faces {
			indices := make([]int, len(face))
			for i, corner := range face {
				indices[i] = r.vertex(newVertex(geom.Resolve(corner), id))
			}

			for si, sec := range r.m.Sections {
				if sec.Material == group.Material {
					sec.Faces = append(sec.Faces, append([]int(nil), indices...))
					r.fed[si] = true
				}
			}
		}
	}
}

// vertex returns the index of an existing equal vertex, appending v when
// there is none.
func (r *resolver) vertex(v formats.Vertex) int {
	k := v.Key()
	if i, ok := r.index[k]; ok {
		return i
	}
	i := len(r.m.Vertices)
	r.m.Vertices = append(r.m.Vertices, v)
	r.index[k] = i
	return i
}

// newVertex fills absent attributes with defaults: zero position, zero
// normal, opaque white and zero texcoord.
func newVertex(a formats.Attributes, seg formats.SegmentID) formats.Vertex {
	v := formats.Vertex{
		Colour:  math.White,
		Segment: seg,
	}
	if a.Position != nil {
		v.Position = a.Position.XYZ()
	}
	if a.Normal != nil {
		v.Normal = *a.Normal
	}
	if a.Colour != nil {
		v.Colour = *a.Colour
	}
	if a.TexCoord != nil {
		v.TexCoord = math.Vec2{X: a.TexCoord.X, Y: a.TexCoord.Y}
	}
	return v
}

func (r *resolver) reportUnmatched(diag *formats.Diagnostics) {
	sectionMaterials := make(map[string]bool, len(r.m.Sections))
	for si, sec := range r.m.Sections {
		sectionMaterials[sec.Material] = true
		if !r.fed[si] {
			diag.Warnf(formats.ErrReference, "", 0, "mdl %q: section %q (material %q) matches no group", r.m.Name, sec.Name, sec.Material)
		}
	}

	for _, name := range sortedKeys(r.materials) {
		if !sectionMaterials[name] {
			diag.Warnf(formats.ErrReference, "", 0, "mdl %q: faces with material %q match no section and are dropped", r.m.Name, name)
		}
	}
}
