package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/obj2uncrz/pkg/formats"
)

const triOBJ = `o tri
v 0 0 0
v 1 0 0
v 0 1 0
usemtl M
f 1 2 3
`

const triDesc = `mdl m
objfile tri.obj
seg root
obj tri
end seg
sec S
mtl M
end sec
end mdl
`

// seamOBJ has two triangles sharing the edge from (0,1,0) to (1,1,0).
const seamOBJ = `o upper
v 0 1 0
v 1 1 0
v 0 2 0
f 1 2 3
o lower
v 0 1 0
v 1 1 0
v 0 0 0
f 4 5 6
`

const seamDesc = `mdl body
objfile body.obj
matchmode changeowner
seg upper
obj upper
origin 0 1 0
seg lower
obj lower
match upper
end seg
end seg
sec skin
end sec
end mdl
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func convertFixture(t *testing.T, files map[string]string, input string) (*Result, string) {
	t.Helper()
	dir := writeFiles(t, files)

	res, err := New(Options{}, nil).Convert(filepath.Join(dir, input))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	out, err := os.ReadFile(res.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return res, string(out)
}

func TestConvertSingleTriangle(t *testing.T) {
	res, out := convertFixture(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": triDesc}, "tri.undsc")

	if filepath.Base(res.Output) != "tri.uncrz" {
		t.Errorf("unexpected output path %s", res.Output)
	}

	want := lines(
		"", "mdl m", "", "vertex PCT", "",
		"", "seg root", "", "offset 0 0 0", "rotation 0 0 0", "", "", "end seg // root", "",
		"",
		"v 0 0 0 1 1 1 0 0", "lpt root",
		"v 1 0 0 1 1 1 0 0", "lpt root",
		"v 0 1 0 1 1 1 0 0", "lpt root",
		"",
		"sec S", "", "", "f 0 1 2", "", "end sec // S", "",
		"end mdl // m", "",
	)
	if out != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}

	if len(res.Diagnostics.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Diagnostics.Warnings)
	}
	if len(res.Sources) != 2 {
		t.Errorf("expected description and obj as sources, got %v", res.Sources)
	}
	if res.RunID == "" {
		t.Error("missing run id")
	}
}

func TestConvertFlipZ(t *testing.T) {
	desc := strings.Replace(triDesc, "objfile tri.obj\n", "objfile tri.obj\nflipz\n", 1)
	_, out := convertFixture(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": desc}, "tri.undsc")

	if !strings.Contains(out, "\nf 0 2 1\n") {
		t.Errorf("expected reversed winding:\n%s", out)
	}
	if !strings.Contains(out, "\nv 0 0 0 1 1 1 0 1\n") {
		t.Errorf("expected flipped texture v:\n%s", out)
	}
}

func TestConvertWeldsSeam(t *testing.T) {
	res, out := convertFixture(t, map[string]string{"body.obj": seamOBJ, "body.undsc": seamDesc}, "body.undsc")

	if got := strings.Count(out, "lpt upper\n"); got != 5 {
		t.Errorf("expected 5 vertices owned by upper, got %d:\n%s", got, out)
	}
	if got := strings.Count(out, "lpt lower\n"); got != 1 {
		t.Errorf("expected 1 vertex owned by lower, got %d", got)
	}
	if !strings.Contains(out, "seg lower\n\noffset 0 -1 0\n") {
		t.Errorf("expected lower offset relative to upper:\n%s", out)
	}

	m := res.Description.Models[0]
	if len(m.Vertices) != 6 {
		t.Fatalf("welding must not remove vertices, got %d", len(m.Vertices))
	}
	// the seam vertices of lower now sit relative to upper's origin
	for _, i := range []int{3, 4} {
		if m.Vertices[i].Position.Strings()[1] != "0" {
			t.Errorf("vertex %d: expected y 0, got %v", i, m.Vertices[i].Position.Strings())
		}
	}
	if got := len(m.Sections[0].Faces); got != 2 {
		t.Errorf("expected 2 faces, got %d", got)
	}
}

func TestConvertMissingInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing.undsc")

	res, err := New(Options{}, nil).Convert(input)
	if !errors.Is(err, formats.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if res == nil || res.Err != err {
		t.Fatal("result should carry the error")
	}
	if _, statErr := os.Stat(res.Output); !os.IsNotExist(statErr) {
		t.Error("no output should be written")
	}
}

func TestConvertOutputExt(t *testing.T) {
	dir := writeFiles(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": triDesc})

	res, err := New(Options{OutputExt: ".txt"}, nil).Convert(filepath.Join(dir, "tri.undsc"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tri.txt")); err != nil {
		t.Errorf("expected tri.txt: %v", err)
	}
	if res.Output != filepath.Join(dir, "tri.txt") {
		t.Errorf("unexpected output %s", res.Output)
	}
}

func TestConvertRefusesToOverwriteInput(t *testing.T) {
	dir := writeFiles(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": triDesc})
	input := filepath.Join(dir, "tri.undsc")

	res, err := New(Options{OutputExt: ".undsc"}, nil).Convert(input)
	if !errors.Is(err, formats.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if res.Err == nil {
		t.Error("result should carry the error")
	}

	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	if string(data) != triDesc {
		t.Errorf("input was modified:\n%s", data)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, ext, want string
	}{
		{"a/b.undsc", ".uncrz", "a/b.uncrz"},
		{"b.txt", ".uncrz", "b.uncrz"},
		{"noext", ".uncrz", "noext.uncrz"},
		{"dir.v2/model", ".uncrz", "dir.v2/model.uncrz"},
		{"x.tar.undsc", ".out", "x.tar.out"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.input, tt.ext); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
		}
	}
}

func TestConvertAll(t *testing.T) {
	dir := writeFiles(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": triDesc})
	good := filepath.Join(dir, "tri.undsc")
	bad := filepath.Join(dir, "missing.undsc")

	tests := []struct {
		name        string
		abort       bool
		wantResults int
		wantAborted bool
	}{
		{"continue", false, 3, false},
		{"abort", true, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := New(Options{}, nil).ConvertAll([]string{good, bad, good}, tt.abort)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, formats.ErrIO) {
				t.Errorf("expected ErrIO in %v", err)
			}
			if errors.Is(err, ErrAborted) != tt.wantAborted {
				t.Errorf("aborted = %v, want %v", errors.Is(err, ErrAborted), tt.wantAborted)
			}
			if len(results) != tt.wantResults {
				t.Fatalf("expected %d results, got %d", tt.wantResults, len(results))
			}
			if results[0].Err != nil || results[1].Err == nil {
				t.Error("unexpected per-file errors")
			}
		})
	}
}

func TestConvertAllSuccess(t *testing.T) {
	dir := writeFiles(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": triDesc})

	results, err := New(Options{}, nil).ConvertAll([]string{filepath.Join(dir, "tri.undsc")}, true)
	if err != nil {
		t.Fatalf("ConvertAll: %v", err)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestReport(t *testing.T) {
	res, _ := convertFixture(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": triDesc}, "tri.undsc")

	var buf bytes.Buffer
	res.Report(&buf)
	out := buf.String()

	for _, want := range []string{
		"Converting " + res.Input + " -> " + res.Output + "\n",
		" > Model m has 3 vertices\n",
		"   > Section S has 1 faces\n",
		" > Conversion took ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "warnings") {
		t.Errorf("report should not mention warnings:\n%s", out)
	}
}

func TestReportFailure(t *testing.T) {
	res, _ := New(Options{}, nil).Convert(filepath.Join(t.TempDir(), "missing.undsc"))

	var buf bytes.Buffer
	res.Report(&buf)

	if !strings.Contains(buf.String(), " > Failed: ") {
		t.Errorf("expected failure line:\n%s", buf.String())
	}
}
