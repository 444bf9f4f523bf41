// Package formats reads Wavefront OBJ/MTL geometry and UNCRZ scene
// descriptions, and writes the flattened UNCRZ mesh format.
package formats

import (
	"errors"
	"fmt"
)

// Error kinds shared by every reader and writer in this package.
var (
	// ErrFormat marks a malformed or structurally invalid token stream.
	ErrFormat = errors.New("format error")
	// ErrReference marks a name that does not resolve. It is only ever
	// recorded as a warning.
	ErrReference = errors.New("reference error")
	// ErrIO marks a file open, read or write failure.
	ErrIO = errors.New("io error")
)

// Warning is a non-fatal problem found while reading or resolving.
type Warning struct {
	Kind    error  // ErrFormat or ErrReference
	File    string // source file, empty when not tied to one
	Line    int    // 1-based line number, 0 when not tied to one
	Message string
}

// String returns "file:line: message".
func (w Warning) String() string {
	switch {
	case w.File != "" && w.Line > 0:
		return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
	case w.File != "":
		return fmt.Sprintf("%s: %s", w.File, w.Message)
	default:
		return w.Message
	}
}

// Diagnostics collects warnings. A nil *Diagnostics discards them.
type Diagnostics struct {
	Warnings []Warning
}

// Warnf records a warning of the given kind.
func (d *Diagnostics) Warnf(kind error, file string, line int, format string, args ...any) {
	if d == nil {
		return
	}
	d.Warnings = append(d.Warnings, Warning{
		Kind:    kind,
		File:    file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// Count returns the number of warnings of the given kind.
func (d *Diagnostics) Count(kind error) int {
	if d == nil {
		return 0
	}
	n := 0
	for _, w := range d.Warnings {
		if errors.Is(w.Kind, kind) {
			n++
		}
	}
	return n
}

// formatError builds a fatal ErrFormat error with position information.
func formatError(file string, line int, format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d: %s", ErrFormat, file, line, fmt.Sprintf(format, args...))
}

// ioError wraps err as ErrIO.
func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
