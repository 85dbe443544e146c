package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

func TestIgnored(t *testing.T) {
	root := t.TempDir()
	w := New(root, Options{Ignore: []string{filepath.Join(root, "out")}})

	tests := []struct {
		dir  string
		want bool
	}{
		{root, false},
		{filepath.Join(root, "chapter 1"), false},
		{filepath.Join(root, "chapter 1 [Stitched]"), true},
		{filepath.Join(root, "chapter 1 [Stitched]", "nested"), true},
		{filepath.Join(root, "out"), true},
		{filepath.Join(root, "out", "x"), true},
		{filepath.Join(root, "outside"), false},
	}
	for _, tt := range tests {
		if got := w.ignored(tt.dir); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.dir, got, tt.want)
		}
	}
}

func TestRelevant(t *testing.T) {
	root := t.TempDir()
	w := New(root, Options{})

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: filepath.Join(root, "01.png"), Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: filepath.Join(root, "01.JPG"), Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: filepath.Join(root, "01.png"), Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: filepath.Join(root, "01.png"), Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: filepath.Join(root, "notes.txt"), Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: filepath.Join(root, "a [Stitched]", "01.png"), Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		if got := w.relevant(tt.event); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestRunDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	w := New(root, Options{Debounce: 100 * time.Millisecond, Logger: zerolog.Nop()})

	var calls atomic.Int32
	ran := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			calls.Add(1)
			ran <- struct{}{}
			return nil
		})
	}()

	// fsnotify needs a moment to register the root
	time.Sleep(100 * time.Millisecond)
	for _, name := range []string{"1.png", "2.png", "3.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job never ran")
	}
	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("job ran %d times, want 1", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunTriggerAndMissingRoot(t *testing.T) {
	missing := New(filepath.Join(t.TempDir(), "missing"), Options{Logger: zerolog.Nop()})
	if err := missing.Run(context.Background(), func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for missing root")
	}

	w := New(t.TempDir(), Options{Logger: zerolog.Nop()})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Trigger()
	err := w.Run(ctx, func(context.Context) error {
		cancel()
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}
