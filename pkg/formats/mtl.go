package formats

import (
	"errors"
	"io/fs"
)

// Material is an entry of a Wavefront material library. Only the name is
// kept; shading parameters are mapped to engine materials elsewhere.
type Material struct {
	Name string
}

// mtlIgnoredKeys are understood but carry nothing the converter needs.
var mtlIgnoredKeys = map[string]bool{
	"Ns": true, "Ni": true, "d": true, "Tr": true, "Tf": true, "illum": true,
	"Kd": true, "Ka": true, "Ks": true, "Ke": true,
	"map_Kd": true, "map_Ks": true, "map_Ka": true, "map_d": true,
	"map_Bump": true, "bump": true,
}

// LoadMTL reads a material library from disk.
func (l *Loader) LoadMTL(path string) ([]Material, error) {
	text, err := l.readText(path)
	if err != nil {
		return nil, err
	}
	return l.parseMTL(text, path)
}

// ParseMTL parses material library data; name is used in messages.
func (l *Loader) ParseMTL(data []byte, name string) ([]Material, error) {
	text, err := l.decode(data, name)
	if err != nil {
		return nil, err
	}
	return l.parseMTL(text, name)
}

func (l *Loader) parseMTL(text, name string) ([]Material, error) {
	lines, err := tokenize(text, name)
	if err != nil {
		return nil, err
	}

	var materials []Material
	for _, ln := range lines {
		key := ln.tokens[0]
		switch {
		case key == "newmtl":
			if len(ln.tokens) < 2 {
				return nil, formatError(name, ln.num, "newmtl: missing material name")
			}
			materials = append(materials, Material{Name: ln.tokens[1]})
		case mtlIgnoredKeys[key]:
		default:
			l.Diagnostics.Warnf(ErrFormat, name, ln.num, "unknown material directive %q", key)
		}
	}

	return materials, nil
}

// loadMTLOptional loads a library referenced from an OBJ file. A missing
// library is a reference warning rather than an error.
func (l *Loader) loadMTLOptional(path, from string, lineNum int) ([]Material, error) {
	materials, err := l.LoadMTL(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		l.Diagnostics.Warnf(ErrReference, from, lineNum, "material library %s not found", path)
		return nil, nil
	}
	return materials, err
}
