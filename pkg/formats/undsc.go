package formats

import (
	"path/filepath"
	"strings"

	"github.com/Faultbox/obj2uncrz/pkg/math"
	"github.com/shopspring/decimal"
)

// sectionAttributes are copied verbatim into the open section.
var sectionAttributes = map[string]bool{
	"shader_dx9":      true,
	"colmod":          true,
	"technique":       true,
	"technique_light": true,
	"technique_decal": true,
	"technique_over":  true,
	"texture":         true,
	"lighting":        true,
	"alpha":           true,
}

// LoadDescription reads a scene description from disk. Geometry named by
// "objfile" is resolved relative to the description's directory.
func (l *Loader) LoadDescription(path string) (*Description, error) {
	text, err := l.readText(path)
	if err != nil {
		return nil, err
	}
	return l.parseDescription(text, path)
}

// ParseDescription parses scene description data; name is used for
// messages and to resolve "objfile" paths.
func (l *Loader) ParseDescription(data []byte, name string) (*Description, error) {
	text, err := l.decode(data, name)
	if err != nil {
		return nil, err
	}
	return l.parseDescription(text, name)
}

type descParser struct {
	loader *Loader
	file   string
	desc   *Description

	model   *DescriptionModel
	segment SegmentID
	section *Section
}

func (l *Loader) parseDescription(text, name string) (*Description, error) {
	p := &descParser{
		loader:  l,
		file:    name,
		desc:    &Description{Name: name},
		segment: NoSegment,
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

	if p.model != nil {
		end := 0
		if len(lines) > 0 {
			end = lines[len(lines)-1].num
		}
		p.warnf(ErrFormat, end, "mdl %q not closed", p.model.Name)
		p.closeModel(end)
	}

	return p.desc, nil
}

func (p *descParser) warnf(kind error, lineNum int, format string, args ...any) {
	p.loader.Diagnostics.Warnf(kind, p.file, lineNum, format, args...)
}

// arg returns argument i or a missing-field error.
func (p *descParser) arg(ln line, i int) (string, error) {
	if len(ln.tokens) <= i {
		return "", formatError(p.file, ln.num, "%s: missing argument %d", ln.tokens[0], i)
	}
	return ln.tokens[i], nil
}

func (p *descParser) requireModel(ln line) error {
	if p.model == nil {
		return formatError(p.file, ln.num, "%s outside of mdl", ln.tokens[0])
	}
	return nil
}

func (p *descParser) requireSegment(ln line) error {
	if err := p.requireModel(ln); err != nil {
		return err
	}
	if p.segment == NoSegment {
		return formatError(p.file, ln.num, "%s outside of seg or blend", ln.tokens[0])
	}
	return nil
}

func (p *descParser) directive(ln line) error {
	key := ln.tokens[0]

	switch key {
	case "mdl":
		name, err := p.arg(ln, 1)
		if err != nil {
			return err
		}
		if p.model != nil {
			p.warnf(ErrFormat, ln.num, "mdl %q opened before end of mdl %q", name, p.model.Name)
			p.closeModel(ln.num)
		}
		p.model = NewDescriptionModel(name)
		p.desc.Models = append(p.desc.Models, p.model)

	case "end":
		return p.end(ln)

	case "flipz":
		if err := p.requireModel(ln); err != nil {
			return err
		}
		p.model.FlipZ = true

	case "matchmode":
		if err := p.requireModel(ln); err != nil {
			return err
		}
		arg, err := p.arg(ln, 1)
		if err != nil {
			return err
		}
		mode, ok := ParseMatchMode(arg)
		if !ok {
			p.warnf(ErrFormat, ln.num, "unknown matchmode %q, keeping owners", arg)
		}
		p.model.MatchMode = mode

	case "matchnormals":
		if err := p.requireModel(ln); err != nil {
			return err
		}
		p.model.MatchNormals = true
		p.model.ManualNormals = true

	case "manualnormals":
		if err := p.requireModel(ln); err != nil {
			return err
		}
		p.model.ManualNormals = true

	case "objfile":
		return p.objfile(ln)

	case "seg", "blend":
		return p.openSegment(ln)

	case "sec":
		if err := p.requireModel(ln); err != nil {
			return err
		}
		name, err := p.arg(ln, 1)
		if err != nil {
			return err
		}
		if p.section != nil {
			p.warnf(ErrFormat, ln.num, "sec %q opened before end of sec %q", name, p.section.Name)
		}
		p.section = &Section{Name: name}
		p.model.Sections = append(p.model.Sections, p.section)

	case "mtl":
		if p.section == nil {
			return formatError(p.file, ln.num, "mtl outside of sec")
		}
		name, err := p.arg(ln, 1)
		if err != nil {
			return err
		}
		p.section.Material = name

	case "obj":
		if err := p.requireSegment(ln); err != nil {
			return err
		}
		name, err := p.arg(ln, 1)
		if err != nil {
			return err
		}
		p.bindObject(ln, name)

	case "origin":
		if err := p.requireSegment(ln); err != nil {
			return err
		}
		origin, err := p.vec3(ln)
		if err != nil {
			return err
		}
		p.model.Segments[p.segment].Origin = origin

	case "match":
		if err := p.requireSegment(ln); err != nil {
			return err
		}
		name, err := p.arg(ln, 1)
		if err != nil {
			return err
		}
		seg := &p.model.Segments[p.segment]
		seg.Match = append(seg.Match, name)

	default:
		if sectionAttributes[key] {
			if p.section != nil {
				// split on single spaces so the line is written back unchanged
				p.section.Attributes = append(p.section.Attributes, strings.Split(ln.raw, " "))
			}
			return nil
		}
		p.warnf(ErrFormat, ln.num, "unknown directive %q", key)
	}

	return nil
}

func (p *descParser) end(ln line) error {
	kind, err := p.arg(ln, 1)
	if err != nil {
		return err
	}

	switch kind {
	case "seg", "blend":
		if p.model == nil || p.segment == NoSegment {
			return formatError(p.file, ln.num, "end %s without open segment", kind)
		}
		seg := &p.model.Segments[p.segment]
		if seg.Kind.String() != kind {
			return formatError(p.file, ln.num, "end %s closes %s %q", kind, seg.Kind, seg.Name)
		}
		p.segment = seg.Parent

	case "sec":
		if p.section == nil {
			return formatError(p.file, ln.num, "end sec without open section")
		}
		p.section = nil

	case "mdl":
		if p.model == nil {
			return formatError(p.file, ln.num, "end mdl without open model")
		}
		p.closeModel(ln.num)

	default:
		p.warnf(ErrFormat, ln.num, "unknown block kind %q in end", kind)
	}
	return nil
}

// closeModel finishes the open model: warns about blocks left open and
// checks segment names and match targets.
func (p *descParser) closeModel(lineNum int) {
	m := p.model

	if p.segment != NoSegment {
		p.warnf(ErrFormat, lineNum, "%s %q not closed", m.Segments[p.segment].Kind, m.Segments[p.segment].Name)
	}
	if p.section != nil {
		p.warnf(ErrFormat, lineNum, "sec %q not closed", p.section.Name)
	}

	for _, name := range m.IndexSegments() {
		p.warnf(ErrReference, 0, "mdl %q: segment name %q declared more than once", m.Name, name)
	}
	for _, seg := range m.Segments {
		for _, target := range seg.Match {
			if _, ok := m.SegmentByName(target); !ok {
				p.warnf(ErrReference, 0, "mdl %q: segment %q matches unknown segment %q", m.Name, seg.Name, target)
			}
		}
	}

	p.model = nil
	p.segment = NoSegment
	p.section = nil
}

func (p *descParser) objfile(ln line) error {
	if err := p.requireModel(ln); err != nil {
		return err
	}
	rel, err := p.arg(ln, 1)
	if err != nil {
		return err
	}
	if p.model.Model != nil {
		p.warnf(ErrFormat, ln.num, "mdl %q already has objfile %s, ignoring %s", p.model.Name, p.model.ModelPath, rel)
		return nil
	}

	path := filepath.Join(filepath.Dir(p.file), rel)
	model, err := p.loader.LoadOBJ(path)
	if err != nil {
		return err
	}
	p.model.Model = model
	p.model.ModelPath = path
	return nil
}

func (p *descParser) openSegment(ln line) error {
	if err := p.requireModel(ln); err != nil {
		return err
	}
	name, err := p.arg(ln, 1)
	if err != nil {
		return err
	}

	kind := SegmentPlain
	if ln.tokens[0] == "blend" {
		kind = SegmentBlend
	}

	id := p.model.AddSegment(name, kind, p.segment)
	if kind == SegmentBlend {
		tok, err := p.arg(ln, 2)
		if err != nil {
			return err
		}
		weight, err := math.ParseNumber(tok)
		if err != nil {
			return formatError(p.file, ln.num, "blend weight: %v", err)
		}
		p.model.Segments[id].Weight = weight
	}

	p.segment = id
	return nil
}

func (p *descParser) bindObject(ln line, name string) {
	if p.model.Model == nil {
		p.warnf(ErrReference, ln.num, "obj %q: mdl %q has no objfile", name, p.model.Name)
		return
	}
	obj := p.model.Model.FindObject(name)
	if obj == nil {
		p.warnf(ErrReference, ln.num, "no object found for %q", name)
		return
	}
	p.model.Segments[p.segment].Object = obj
}

func (p *descParser) vec3(ln line) (math.Vec3, error) {
	if len(ln.tokens) < 4 {
		return math.Vec3{}, formatError(p.file, ln.num, "%s: expected 3 values, got %d", ln.tokens[0], len(ln.tokens)-1)
	}

	var c [3]decimal.Decimal
	for i := range c {
		d, err := math.ParseNumber(ln.tokens[i+1])
		if err != nil {
			return math.Vec3{}, formatError(p.file, ln.num, "%s: %v", ln.tokens[0], err)
		}
		c[i] = d
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}
