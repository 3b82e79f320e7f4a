// Package watch re-runs generation when Go sources under the project root
// change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/typomatic/errors"
	"github.com/teranos/typomatic/logger"
)

// DefaultDebounce collapses bursts of events (editor saves, git checkouts)
// into one regeneration.
const DefaultDebounce = 500 * time.Millisecond

// Callback is invoked after a debounced change.
type Callback func(ctx context.Context) error

// Watcher watches every directory under a root for .go file changes.
type Watcher struct {
	root     string
	ignore   []string
	debounce time.Duration
	onChange Callback
	log      *zap.SugaredLogger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	running sync.Mutex
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore skips directories matching any of the globs, relative to the
// root. The output directory belongs here so writes do not retrigger.
func WithIgnore(globs ...string) Option {
	return func(w *Watcher) {
		w.ignore = append(w.ignore, globs...)
	}
}

// New creates a watcher over root. Nothing is watched until Run.
func New(root string, onChange Callback, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve watch root %s", root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		root:     abs,
		debounce: DefaultDebounce,
		onChange: onChange,
		log:      logger.ComponentLogger("watch"),
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches until ctx is cancelled. It always closes the underlying
// watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.log.Infow("Watching for changes", logger.FieldPath, w.root, "debounce", w.debounce.String())

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if isDir, err := statDir(event.Name); err == nil && isDir {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warnw("Failed to watch new directory", logger.FieldPath, event.Name, logger.FieldError, err)
			}
			return
		}
	}

	if !relevant(event) || w.ignored(filepath.Dir(event.Name)) {
		return
	}

	w.log.Debugw("Change detected", logger.FieldFile, event.Name, "op", event.Op.String())
	w.schedule(ctx)
}

// schedule restarts the debounce timer
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.running.Lock()
		defer w.running.Unlock()

		start := time.Now()
		if err := w.onChange(ctx); err != nil {
			w.log.Errorw("Regeneration failed", logger.FieldError, err)
			return
		}
		w.log.Infow("Regenerated", logger.FieldDurationMS, time.Since(start).Milliseconds())
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.log.Warnw("Failed to close watcher", logger.FieldError, err)
	}
}

// addTree adds dir and every non-ignored directory below it
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && (strings.HasPrefix(d.Name(), ".") || w.ignored(path)) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

func (w *Watcher) ignored(dir string) bool {
	rel, err := filepath.Rel(w.root, dir)
	if err != nil || rel == "." {
		return false
	}
	slashed := filepath.ToSlash(rel)
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, slashed+"/"); ok {
			return true
		}
	}
	return false
}

// relevant reports whether event touches Go source
func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".go") {
		return false
	}
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
