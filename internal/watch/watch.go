// Package watch re-runs a job whenever the image files of a folder change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"smartstitch/pkg/imgutil"
)

// DefaultDebounce is how long the folder has to stay quiet before a run.
const DefaultDebounce = 750 * time.Millisecond

// outputMarker tags folders written by the stitcher; changes inside them
// never trigger a run.
const outputMarker = "[Stitched]"

// Options tunes a Watcher.
type Options struct {
	// Batch also watches the direct subfolders of the root.
	Batch bool
	// Ignore lists folders whose contents never trigger a run.
	Ignore   []string
	Debounce time.Duration
	Logger   zerolog.Logger
}

// Watcher monitors one input folder via fsnotify.
type Watcher struct {
	root   string
	opts   Options
	ignore []string

	mu       sync.Mutex
	debounce *time.Timer
	trigger  chan struct{}
}

func New(root string, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	ignore := make([]string, 0, len(opts.Ignore))
	for _, p := range opts.Ignore {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		ignore = append(ignore, filepath.Clean(p))
	}
	root = filepath.Clean(root)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Watcher{
		root:    root,
		opts:    opts,
		ignore:  ignore,
		trigger: make(chan struct{}, 1),
	}
}

// Run watches the root until ctx is cancelled. Each settled burst of
// relevant changes calls job once; calls never overlap. Job errors are
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context, job func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	if w.opts.Batch {
		entries, err := os.ReadDir(w.root)
		if err != nil {
			return fmt.Errorf("read %s: %w", w.root, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				w.addDir(watcher, filepath.Join(w.root, e.Name()))
			}
		}
	}
	w.opts.Logger.Info().Str("root", w.root).Bool("batch", w.opts.Batch).Dur("debounce", w.opts.Debounce).Msg("watching for changes")

	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.opts.Batch && event.Has(fsnotify.Create) && filepath.Dir(event.Name) == w.root {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addDir(watcher, event.Name)
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.opts.Logger.Debug().Str("path", event.Name).Stringer("op", event.Op).Msg("change detected")
			w.schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn().Err(err).Msg("watcher error")

		case <-w.trigger:
			if err := job(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.opts.Logger.Error().Err(err).Msg("run failed, waiting for the next change")
			}
		}
	}
}

func (w *Watcher) addDir(watcher *fsnotify.Watcher, dir string) {
	if w.ignored(dir) {
		return
	}
	if err := watcher.Add(dir); err != nil {
		w.opts.Logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch subfolder")
	}
}

// relevant reports whether event touches a source image.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return imgutil.IsImageName(event.Name) && !w.ignored(filepath.Dir(event.Name))
}

// ignored reports whether dir is, or lies inside, an output folder.
func (w *Watcher) ignored(dir string) bool {
	dir = filepath.Clean(dir)
	for _, p := range w.ignore {
		if dir == p || strings.HasPrefix(dir, p+string(filepath.Separator)) {
			return true
		}
	}
	rel, err := filepath.Rel(w.root, dir)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasSuffix(part, outputMarker) {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.opts.Debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}

// Trigger requests a run as if a change had settled.
func (w *Watcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}
