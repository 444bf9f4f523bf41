package convert

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-converts descriptions when they or the geometry they
// reference change on disk. Directories are watched rather than files
// so editors that save by rename are still seen.
type Watcher struct {
	conv     *Converter
	debounce time.Duration
	log      *zap.Logger

	fsnotify *fsnotify.Watcher
	dirs     map[string]bool

	// dependents maps a source file to the descriptions that read it.
	dependents map[string]map[string]bool

	// OnResult, if set, is called after every re-conversion.
	OnResult func(*Result)
}

// NewWatcher creates a watcher that debounces bursts of writes.
func NewWatcher(conv *Converter, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		conv:       conv,
		debounce:   debounce,
		log:        log,
		fsnotify:   fsWatch,
		dirs:       make(map[string]bool),
		dependents: make(map[string]map[string]bool),
	}, nil
}

// Track registers the sources of a conversion result. The description
// itself is always tracked, even when its conversion failed.
func (w *Watcher) Track(res *Result) error {
	input := clean(res.Input)
	for src, deps := range w.dependents {
		delete(deps, input)
		if len(deps) == 0 {
			delete(w.dependents, src)
		}
	}

	sources := append([]string{res.Input}, res.Sources...)
	for _, src := range sources {
		src = clean(src)
		if w.dependents[src] == nil {
			w.dependents[src] = make(map[string]bool)
		}
		w.dependents[src][input] = true

		dir := filepath.Dir(src)
		if w.dirs[dir] {
			continue
		}
		if err := w.fsnotify.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	return nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]bool)

	var timer *time.Timer
	var timerC <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return nil
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			deps := w.dependents[clean(e.Name)]
			if len(deps) == 0 {
				continue
			}
			w.log.Debug("source changed", zap.String("file", e.Name), zap.Stringer("op", e.Op))
			for input := range deps {
				pending[input] = true
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", zap.Error(err))

		case <-timerC:
			timerC = nil
			for _, input := range sortedKeys(pending) {
				w.reconvert(input)
			}
			clear(pending)
		}
	}
}

func (w *Watcher) reconvert(input string) {
	res, _ := w.conv.Convert(input)
	if err := w.Track(res); err != nil {
		w.log.Error("watching sources", zap.String("input", input), zap.Error(err))
	}
	if w.OnResult != nil {
		w.OnResult(res)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.fsnotify.Close()
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}

func clean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
