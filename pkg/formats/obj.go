package formats

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/obj2uncrz/pkg/math"
	"github.com/shopspring/decimal"
)

// Names of containers created when geometry appears before any "o" or "g".
const (
	implicitObjectName = "object"
	implicitGroupName  = "group"
)

// Corner is one face corner: 0-based attribute indices, -1 when absent.
type Corner struct {
	Position int
	TexCoord int
	Normal   int
}

// Face is an ordered list of corners.
type Face []Corner

// ModelGroup is a named run of faces sharing one material.
// Material is empty when the group never saw a "usemtl".
type ModelGroup struct {
	Name     string
	Material string
	Faces    []Face
}

// ModelObject is a named object holding groups in file order.
type ModelObject struct {
	Name   string
	Groups []*ModelGroup
}

// FaceCount returns the number of faces across all groups.
func (o *ModelObject) FaceCount() int {
	n := 0
	for _, g := range o.Groups {
		n += len(g.Faces)
	}
	return n
}

// Model is a parsed OBJ file. It is not modified after parsing.
type Model struct {
	Name      string
	Materials []Material

	Positions []math.Vec4
	Normals   []math.Vec3
	TexCoords []math.Vec3

	Objects []*ModelObject
}

// FindObject returns the first object with the given name, or nil.
func (m *Model) FindObject(name string) *ModelObject {
	for _, o := range m.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// FaceCount returns the number of faces across all objects.
func (m *Model) FaceCount() int {
	n := 0
	for _, o := range m.Objects {
		n += o.FaceCount()
	}
	return n
}

// HasMaterial reports whether a loaded library defines name.
func (m *Model) HasMaterial(name string) bool {
	for _, mat := range m.Materials {
		if mat.Name == name {
			return true
		}
	}
	return false
}

// Attributes are the attribute values of one corner; nil when absent.
// OBJ carries no vertex colours, so Colour is always nil here.
type Attributes struct {
	Position *math.Vec4
	Normal   *math.Vec3
	Colour   *math.Vec4
	TexCoord *math.Vec3
}

// Resolve looks up the attributes a corner refers to.
func (m *Model) Resolve(c Corner) Attributes {
	var a Attributes
	if c.Position >= 0 {
		a.Position = &m.Positions[c.Position]
	}
	if c.Normal >= 0 {
		a.Normal = &m.Normals[c.Normal]
	}
	if c.TexCoord >= 0 {
		a.TexCoord = &m.TexCoords[c.TexCoord]
	}
	return a
}

// ResolveFace resolves every corner of f.
func (m *Model) ResolveFace(f Face) []Attributes {
	out := make([]Attributes, len(f))
	for i, c := range f {
		out[i] = m.Resolve(c)
	}
	return out
}

// LoadOBJ reads an OBJ file from disk. Material libraries are resolved
// relative to the file's directory.
func (l *Loader) LoadOBJ(path string) (*Model, error) {
	text, err := l.readText(path)
	if err != nil {
		return nil, err
	}
	return l.parseOBJ(text, path)
}

// ParseOBJ parses OBJ data; name is used for messages and to resolve
// material libraries.
func (l *Loader) ParseOBJ(data []byte, name string) (*Model, error) {
	text, err := l.decode(data, name)
	if err != nil {
		return nil, err
	}
	return l.parseOBJ(text, name)
}

type objParser struct {
	loader *Loader
	file   string
	model  *Model
	obj    *ModelObject
	grp    *ModelGroup

	// faces keeps the line of every face for the final range check
	faces []faceLine
}

type faceLine struct {
	num  int
	face Face
}

func (p *objParser) object() *ModelObject {
	if p.obj == nil {
		p.obj = &ModelObject{Name: implicitObjectName}
		p.model.Objects = append(p.model.Objects, p.obj)
	}
	return p.obj
}

func (p *objParser) group() *ModelGroup {
	if p.grp == nil {
		obj := p.object()
		p.grp = &ModelGroup{Name: implicitGroupName}
		obj.Groups = append(obj.Groups, p.grp)
	}
	return p.grp
}

func (l *Loader) parseOBJ(text, name string) (*Model, error) {
	base := filepath.Base(name)
	p := &objParser{
		loader: l,
		file:   name,
		model:  &Model{Name: strings.TrimSuffix(base, filepath.Ext(base))},
	}

	lines, err := tokenize(text, name)
	if err != nil {
		return nil, err
	}
	for _, ln := range lines {
		if err := p.directive(ln); err != nil {
			return nil, err
		}
	}
	if err := p.checkIndices(); err != nil {
		return nil, err
	}

	return p.model, nil
}

func (p *objParser) directive(ln line) error {
	args := ln.tokens[1:]

	switch ln.tokens[0] {
	case "mtllib":
		if len(args) == 0 {
			return formatError(p.file, ln.num, "mtllib: missing file name")
		}
		for _, lib := range args {
			mats, err := p.loader.loadMTLOptional(filepath.Join(filepath.Dir(p.file), lib), p.file, ln.num)
			if err != nil {
				return err
			}
			p.model.Materials = append(p.model.Materials, mats...)
		}

	case "o":
		if len(args) == 0 {
			return formatError(p.file, ln.num, "o: missing object name")
		}
		p.obj = &ModelObject{Name: args[0]}
		p.model.Objects = append(p.model.Objects, p.obj)
		p.grp = nil

	case "g":
		groupName := implicitGroupName
		if len(args) > 0 {
			groupName = args[0]
		}
		obj := p.object()
		p.grp = &ModelGroup{Name: groupName}
		obj.Groups = append(obj.Groups, p.grp)

	case "usemtl":
		if len(args) == 0 {
			return formatError(p.file, ln.num, "usemtl: missing material name")
		}
		if len(p.model.Materials) > 0 && !p.model.HasMaterial(args[0]) {
			p.loader.Diagnostics.Warnf(ErrReference, p.file, ln.num, "material %q is not defined by any material library", args[0])
		}
		p.group().Material = args[0]

	case "v":
		nums, err := p.numbers(ln, 3, 4)
		if err != nil {
			return err
		}
		v := math.Vec4{X: nums[0], Y: nums[1], Z: nums[2], W: math.One}
		if len(nums) == 4 {
			v.W = nums[3]
		}
		p.model.Positions = append(p.model.Positions, v)

	case "vn":
		nums, err := p.numbers(ln, 3, 3)
		if err != nil {
			return err
		}
		p.model.Normals = append(p.model.Normals, math.Vec3{X: nums[0], Y: nums[1], Z: nums[2]})

	case "vt":
		nums, err := p.numbers(ln, 1, 3)
		if err != nil {
			return err
		}
		vt := math.Vec3{X: nums[0], Y: math.Zero, Z: math.One}
		if len(nums) > 1 {
			vt.Y = nums[1]
		}
		if len(nums) > 2 {
			vt.Z = nums[2]
		}
		p.model.TexCoords = append(p.model.TexCoords, vt)

	case "f":
		if len(args) < 3 {
			p.loader.Diagnostics.Warnf(ErrFormat, p.file, ln.num, "degenerate face with %d corners", len(args))
		}
		face := make(Face, len(args))
		for i, tok := range args {
			c, err := p.corner(tok, ln.num)
			if err != nil {
				return err
			}
			face[i] = c
		}
		grp := p.group()
		grp.Faces = append(grp.Faces, face)
		p.faces = append(p.faces, faceLine{num: ln.num, face: face})

	case "s":
		// smoothing groups carry nothing for this format

	default:
		p.loader.Diagnostics.Warnf(ErrFormat, p.file, ln.num, "unknown directive %q", ln.tokens[0])
	}

	return nil
}

// numbers parses between lo and hi numeric arguments; extra tokens are ignored.
func (p *objParser) numbers(ln line, lo, hi int) ([]decimal.Decimal, error) {
	args := ln.tokens[1:]
	if len(args) < lo {
		return nil, formatError(p.file, ln.num, "%s: expected at least %d values, got %d", ln.tokens[0], lo, len(args))
	}
	if len(args) > hi {
		args = args[:hi]
	}

	nums := make([]decimal.Decimal, len(args))
	for i, tok := range args {
		d, err := math.ParseNumber(tok)
		if err != nil {
			return nil, formatError(p.file, ln.num, "%s: %v", ln.tokens[0], err)
		}
		nums[i] = d
	}
	return nums, nil
}

// corner parses "i", "i/j", "i//k" or "i/j/k".
func (p *objParser) corner(tok string, lineNum int) (Corner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return Corner{}, formatError(p.file, lineNum, "malformed face corner %q", tok)
	}

	c := Corner{Position: -1, TexCoord: -1, Normal: -1}
	var err error

	if c.Position, err = p.index(parts[0], len(p.model.Positions), tok, lineNum); err != nil {
		return Corner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.TexCoord, err = p.index(parts[1], len(p.model.TexCoords), tok, lineNum); err != nil {
			return Corner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.Normal, err = p.index(parts[2], len(p.model.Normals), tok, lineNum); err != nil {
			return Corner{}, err
		}
	}
	return c, nil
}

// index converts a 1-based (or negative, relative) OBJ index to 0-based.
// Zero means absent and yields -1. Relative indices count back from the
// elements read so far; positive ones may point past them and are checked
// once the whole file is read.
func (p *objParser) index(s string, count int, tok string, lineNum int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, formatError(p.file, lineNum, "malformed index in face corner %q", tok)
	}

	switch {
	case i == 0:
		return -1, nil
	case i < 0:
		i += count
		if i < 0 {
			return -1, formatError(p.file, lineNum, "face corner %q refers to element %s of %d", tok, s, count)
		}
	default:
		i--
	}
	return i, nil
}

// checkIndices validates every face corner against the final attribute
// lists.
func (p *objParser) checkIndices() error {
	m := p.model
	for _, fl := range p.faces {
		for _, c := range fl.face {
			switch {
			case c.Position >= len(m.Positions):
				return formatError(p.file, fl.num, "position %d out of range (%d defined)", c.Position+1, len(m.Positions))
			case c.TexCoord >= len(m.TexCoords):
				return formatError(p.file, fl.num, "texture coordinate %d out of range (%d defined)", c.TexCoord+1, len(m.TexCoords))
			case c.Normal >= len(m.Normals):
				return formatError(p.file, fl.num, "normal %d out of range (%d defined)", c.Normal+1, len(m.Normals))
			}
		}
	}
	return nil
}
