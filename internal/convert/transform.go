package convert

import "github.com/Faultbox/obj2uncrz/pkg/formats"

// Transform mirrors the model when FlipZ is set and then rebases every
// vertex to its segment's origin. Origins are given in unmirrored space and
// are subtracted as written, matching the offsets the serializer emits.
// It runs after Weld.
func Transform(m *formats.DescriptionModel) {
	if m.FlipZ {
		Mirror(m)
	}
	SubtractOrigins(m)
}

// SubtractOrigins subtracts the owning segment's origin from each vertex
// position, or the parent's origin for blend segments.
func SubtractOrigins(m *formats.DescriptionModel) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		seg := &m.Segments[v.Segment]

		origin := seg.Origin
		if seg.Kind == formats.SegmentBlend {
			origin = m.ParentOrigin(v.Segment)
		}
		v.Position = v.Position.Sub(origin)
	}
}

// Mirror negates Z of positions and normals, flips the V texture
// coordinate and reverses face winding by swapping corners 1 and 2.
func Mirror(m *formats.DescriptionModel) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = v.Position.NegZ()
		v.Normal = v.Normal.NegZ()
		v.TexCoord = v.TexCoord.FlipV()
	}

	for _, sec := range m.Sections {
		for _, face := range sec.Faces {
			if len(face) >= 3 {
				face[1], face[2] = face[2], face[1]
			}
		}
	}
}
