package formats

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/obj2uncrz/pkg/math"
)

// UNCRZExt is the conventional extension of converted files.
const UNCRZExt = ".uncrz"

// uncrzWriter emits space-joined token lines and keeps the first error.
type uncrzWriter struct {
	w   *bufio.Writer
	err error
}

func (u *uncrzWriter) line(tokens ...string) {
	if u.err != nil {
		return
	}
	if _, err := u.w.WriteString(strings.Join(tokens, " ")); err != nil {
		u.err = err
		return
	}
	u.err = u.w.WriteByte('\n')
}

// WriteUNCRZ writes every model of desc in UNCRZ text form.
func WriteUNCRZ(w io.Writer, desc *Description) error {
	u := &uncrzWriter{w: bufio.NewWriter(w)}

	for _, m := range desc.Models {
		writeModel(u, m)
	}

	if u.err != nil {
		return u.err
	}
	return u.w.Flush()
}

func writeModel(u *uncrzWriter, m *DescriptionModel) {
	u.line()
	u.line("mdl", m.Name)
	u.line()
	u.line("vertex", "PCT")
	if m.ManualNormals {
		u.line("manualnormals")
	}
	u.line()

	for _, root := range m.Roots {
		writeSegment(u, m, root)
	}

	u.line()

	for i := range m.Vertices {
		v := &m.Vertices[i]

		tokens := make([]string, 0, 12)
		tokens = append(tokens, "v")
		tokens = append(tokens, v.Position.Strings()...)
		if m.ManualNormals {
			tokens = append(tokens, v.Normal.Strings()...)
		}
		tokens = append(tokens, v.Colour.XYZ().Strings()...)
		tokens = append(tokens, v.TexCoord.Strings()...)

		u.line(tokens...)
		u.line("lpt", m.Segments[v.Segment].Name)
	}

	u.line()

	for _, sec := range m.Sections {
		u.line("sec", sec.Name)
		u.line()
		for _, attr := range sec.Attributes {
			u.line(attr...)
		}
		u.line()
		for _, face := range sec.Faces {
			tokens := make([]string, 0, len(face)+1)
			tokens = append(tokens, "f")
			for _, idx := range face {
				tokens = append(tokens, strconv.Itoa(idx))
			}
			u.line(tokens...)
		}
		u.line()
		u.line("end", "sec", "// "+sec.Name)
		u.line()
	}

	u.line("end", "mdl", "// "+m.Name)
	u.line()
}

// writeSegment emits a segment block and its children. Plain segments
// carry their offset from the parent and a zero rotation; blends carry
// their weight.
func writeSegment(u *uncrzWriter, m *DescriptionModel, id SegmentID) {
	seg := &m.Segments[id]

	u.line()
	switch seg.Kind {
	case SegmentBlend:
		u.line("blend", seg.Name, math.FormatNumber(seg.Weight))
	default:
		u.line("seg", seg.Name)
		u.line()
		offset := []string{"0", "0", "0"}
		if seg.Parent != NoSegment {
			offset = seg.Origin.Sub(m.ParentOrigin(id)).Strings()
		}
		u.line(append([]string{"offset"}, offset...)...)
		u.line("rotation", "0", "0", "0")
	}
	u.line()

	for _, child := range seg.Children {
		writeSegment(u, m, child)
	}

	u.line()
	u.line("end", seg.Kind.String(), "// "+seg.Name)
	u.line()
}

// WriteUNCRZFile writes desc to path. The file is replaced atomically so a
// failed conversion never leaves a truncated output behind.
func WriteUNCRZFile(path string, desc *Description) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioError("creating", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteUNCRZ(tmp, desc); err != nil {
		tmp.Close()
		return ioError("writing", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return ioError("writing", path, err)
	}
	if err := tmp.Close(); err != nil {
		return ioError("writing", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return ioError("renaming", path, err)
	}
	return nil
}
