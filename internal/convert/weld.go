package convert

import (
	"github.com/Faultbox/obj2uncrz/pkg/formats"
	"github.com/Faultbox/obj2uncrz/pkg/math"
)

// DefaultNormalDigits is the number of significant digits kept when a
// welded normal is renormalized.
const DefaultNormalDigits = 15

// Weld merges coincident vertices across adjacent segments.
//
// Vertices are visited in list order. For an unmatched vertex v1, the
// members are every vertex at the same position that either shares v1's
// segment or whose segment lists v1's segment as a match target. The weld
// happens only when at least one member of the second kind exists: with
// MatchNormals every member takes the renormalized mean normal, every
// member is marked matched and, in MatchChangeOwner mode, moves to v1's
// segment. Vertex indices never change.
//
// Candidates are bucketed by position; buckets keep list order, so the
// outcome equals a scan over the full list. Returns the number of welds.
func Weld(m *formats.DescriptionModel, normalDigits int) int {
	if normalDigits <= 0 {
		normalDigits = DefaultNormalDigits
	}

	buckets := make(map[string][]int)
	keys := make([]string, len(m.Vertices))
	for i := range m.Vertices {
		keys[i] = m.Vertices[i].Position.Key()
		buckets[keys[i]] = append(buckets[keys[i]], i)
	}

	welds := 0
	for i := range m.Vertices {
		if m.Vertices[i].Matched {
			continue
		}

		owner := m.Vertices[i].Segment
		ownerName := m.Segments[owner].Name

		var members []int
		doMatch := false
		for _, j := range buckets[keys[i]] {
			seg := m.Vertices[j].Segment
			switch {
			case seg == owner:
				members = append(members, j)
			case m.Segments[seg].MatchesInto(ownerName):
				members = append(members, j)
				doMatch = true
			}
		}

		if !doMatch {
			continue
		}

		if m.MatchNormals {
			normals := make([]math.Vec3, len(members))
			for k, j := range members {
				normals[k] = m.Vertices[j].Normal
			}
			mean := math.AverageNormal(normals, normalDigits)
			for _, j := range members {
				m.Vertices[j].Normal = mean
			}
		}

		for _, j := range members {
			m.Vertices[j].Matched = true
			if m.MatchMode == formats.MatchChangeOwner {
				m.Vertices[j].Segment = owner
			}
		}
		welds++
	}

	return welds
}
