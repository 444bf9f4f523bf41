package convert

import (
	"fmt"
	"io"
)

// Report prints the conversion summary: vertex counts per model, face
// counts per section and the elapsed time.
func (r *Result) Report(w io.Writer) {
	fmt.Fprintf(w, "Converting %s -> %s\n", r.Input, r.Output)

	if r.Err != nil {
		fmt.Fprintf(w, " > Failed: %v\n", r.Err)
		return
	}

	for _, m := range r.Description.Models {
		fmt.Fprintf(w, " > Model %s has %d vertices\n", m.Name, len(m.Vertices))
		for _, sec := range m.Sections {
			fmt.Fprintf(w, "   > Section %s has %d faces\n", sec.Name, len(sec.Faces))
		}
	}

	if n := len(r.Diagnostics.Warnings); n > 0 {
		fmt.Fprintf(w, " > %d warnings\n", n)
	}
	fmt.Fprintf(w, " > Conversion took %dms\n", r.Duration.Milliseconds())
}
