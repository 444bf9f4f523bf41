package formats

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/obj2uncrz/pkg/encoding"
)

// line is one significant input line split into whitespace tokens.
type line struct {
	num    int
	raw    string // trimmed line, inner spacing kept
	tokens []string
}

// maxLineSize bounds a single input line.
const maxLineSize = 16 * 1024 * 1024

// tokenize splits text into lines of tokens, dropping blank lines and
// lines starting with "#" or "//". A line longer than maxLineSize is an
// ErrIO error for name.
func tokenize(text, name string) ([]line, error) {
	var lines []line

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	num := 0
	for scanner.Scan() {
		num++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") {
			continue
		}
		lines = append(lines, line{num: num, raw: s, tokens: strings.Fields(s)})
	}
	if err := scanner.Err(); err != nil {
		return nil, ioError("reading", name, fmt.Errorf("line %d: %w", num+1, err))
	}
	return lines, nil
}

// Loader reads the input formats from disk. It remembers every file it
// read so callers can watch them, and collects warnings in Diagnostics.
type Loader struct {
	// Encoding names the text encoding of input files; empty means UTF-8.
	// A byte order mark always wins.
	Encoding string

	Diagnostics *Diagnostics

	sources []string
}

// NewLoader creates a loader with a fresh diagnostics collector.
func NewLoader(enc string) *Loader {
	return &Loader{
		Encoding:    enc,
		Diagnostics: &Diagnostics{},
	}
}

// Sources returns the paths of every file read so far, in read order.
func (l *Loader) Sources() []string {
	return append([]string(nil), l.sources...)
}

// readText reads and decodes a file.
func (l *Loader) readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ioError("reading", path, err)
	}
	l.sources = append(l.sources, path)
	return l.decode(data, path)
}

func (l *Loader) decode(data []byte, path string) (string, error) {
	text, err := encoding.Decode(data, l.Encoding)
	if err != nil {
		return "", ioError("decoding", path, err)
	}
	return text, nil
}
