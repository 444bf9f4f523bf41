package convert

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/obj2uncrz/pkg/formats"
)

// Options control a Converter.
type Options struct {
	OutputExt    string // replaces the input extension; default ".uncrz"
	NormalDigits int    // significant digits of welded normals; default 15
	Encoding     string // input text encoding; empty means UTF-8
}

// Converter runs the per-file pipeline: parse, resolve, weld, transform,
// write.
type Converter struct {
	opts Options
	log  *zap.Logger
}

// New creates a converter. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Converter {
	if opts.OutputExt == "" {
		opts.OutputExt = formats.UNCRZExt
	}
	if opts.NormalDigits <= 0 {
		opts.NormalDigits = DefaultNormalDigits
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{opts: opts, log: log}
}

// Result describes one conversion.
type Result struct {
	RunID  string
	Input  string
	Output string

	// Description is nil when parsing failed.
	Description *formats.Description
	Diagnostics *formats.Diagnostics

	// Sources lists every file read: the description, its OBJ and MTLs.
	Sources []string

	Duration time.Duration
	Err      error
}

// OutputPath replaces the extension of input with ext.
func OutputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// Convert converts one description file and writes the output next to it.
// The returned Result is never nil; Result.Err repeats the error.
func (c *Converter) Convert(input string) (*Result, error) {
	start := time.Now()

	res := &Result{
		RunID:  uuid.NewString(),
		Input:  input,
		Output: OutputPath(input, c.opts.OutputExt),
	}
	log := c.log.With(zap.String("run", res.RunID), zap.String("input", input))
	log.Info("converting", zap.String("output", res.Output))

	if clean(res.Output) == clean(input) {
		res.Diagnostics = &formats.Diagnostics{}
		return c.fail(res, log, start, fmt.Errorf("%w: output %s would overwrite the input", formats.ErrIO, res.Output))
	}

	loader := formats.NewLoader(c.opts.Encoding)
	res.Diagnostics = loader.Diagnostics

	desc, err := loader.LoadDescription(input)
	res.Sources = loader.Sources()
	if err != nil {
		return c.fail(res, log, start, err)
	}
	res.Description = desc

	c.Process(desc, loader.Diagnostics, log)

	if err := formats.WriteUNCRZFile(res.Output, desc); err != nil {
		return c.fail(res, log, start, err)
	}

	logWarnings(log, res.Diagnostics)
	res.Duration = time.Since(start)
	log.Info("converted",
		zap.Int("models", len(desc.Models)),
		zap.Int("warnings", len(res.Diagnostics.Warnings)),
		zap.Duration("took", res.Duration))

	return res, nil
}

func (c *Converter) fail(res *Result, log *zap.Logger, start time.Time, err error) (*Result, error) {
	logWarnings(log, res.Diagnostics)
	res.Duration = time.Since(start)
	res.Err = err
	log.Error("conversion failed", zap.Error(err))
	return res, err
}

// Process resolves, welds and transforms every model of desc in place.
func (c *Converter) Process(desc *formats.Description, diag *formats.Diagnostics, log *zap.Logger) {
	if log == nil {
		log = c.log
	}

	for _, m := range desc.Models {
		mlog := log.With(zap.String("model", m.Name))

		Resolve(m, diag, mlog)
		welds := Weld(m, c.opts.NormalDigits)
		Transform(m)

		mlog.Debug("processed model",
			zap.Int("vertices", len(m.Vertices)),
			zap.Int("faces", m.FaceCount()),
			zap.Int("welds", welds))
	}
}

func logWarnings(log *zap.Logger, diag *formats.Diagnostics) {
	if diag == nil {
		return
	}
	for _, w := range diag.Warnings {
		log.Warn(w.Message,
			zap.String("kind", w.Kind.Error()),
			zap.String("file", w.File),
			zap.Int("line", w.Line))
	}
}
