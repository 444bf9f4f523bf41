package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcherReconverts(t *testing.T) {
	dir := writeFiles(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": triDesc})
	input := filepath.Join(dir, "tri.undsc")

	conv := New(Options{}, nil)
	res, err := conv.Convert(input)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	w, err := NewWatcher(conv, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := w.Track(res); err != nil {
		t.Fatalf("Track: %v", err)
	}

	results := make(chan *Result, 8)
	w.OnResult = func(r *Result) { results <- r }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// edit the geometry, not the description
	edited := strings.Replace(triOBJ, "v 0 1 0", "v 0 5 0", 1)
	if err := os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(edited), 0644); err != nil {
		t.Fatalf("write obj: %v", err)
	}

	select {
	case r := <-results:
		if r.Err != nil {
			t.Fatalf("reconversion failed: %v", r.Err)
		}
		out, err := os.ReadFile(r.Output)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if !strings.Contains(string(out), "\nv 0 5 0 1 1 1 0 0\n") {
			t.Errorf("output not updated:\n%s", out)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reconversion")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"tri.obj": triOBJ, "tri.undsc": triDesc})

	conv := New(Options{}, nil)
	res, err := conv.Convert(filepath.Join(dir, "tri.undsc"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	w, err := NewWatcher(conv, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	if err := w.Track(res); err != nil {
		t.Fatalf("Track: %v", err)
	}

	results := make(chan *Result, 8)
	w.OnResult = func(r *Result) { results <- r }

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case r := <-results:
		t.Errorf("unexpected reconversion of %s", r.Input)
	case <-ctx.Done():
	}
}

func TestWatcherTrackReplacesSources(t *testing.T) {
	conv := New(Options{}, nil)
	w, err := NewWatcher(conv, time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "a.undsc")
	old := filepath.Join(dir, "old.obj")
	cur := filepath.Join(dir, "new.obj")

	if err := w.Track(&Result{Input: input, Sources: []string{input, old}}); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := w.Track(&Result{Input: input, Sources: []string{input, cur}}); err != nil {
		t.Fatalf("Track: %v", err)
	}

	if w.dependents[old] != nil {
		t.Error("stale source still tracked")
	}
	if !w.dependents[cur][input] || !w.dependents[input][input] {
		t.Errorf("sources not tracked: %v", w.dependents)
	}
}
