package convert

import (
	"testing"

	"github.com/Faultbox/obj2uncrz/pkg/formats"
	"github.com/Faultbox/obj2uncrz/pkg/math"
)

func parseGeometry(t *testing.T, src string) *formats.Model {
	t.Helper()
	m, err := formats.NewLoader("").ParseOBJ([]byte(src), "test.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	return m
}

// vertexAt builds a vertex at integer coordinates owned by seg.
func vertexAt(x, y, z int64, seg formats.SegmentID) formats.Vertex {
	return formats.Vertex{
		Position: math.NewVec3(x, y, z),
		Colour:   math.White,
		Segment:  seg,
	}
}
