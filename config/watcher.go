package config

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/logger"
)

// ChangeFunc is called with the sorted set of files that changed since the
// previous call.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher watches source directories and manifest files and reports changes
// once they settle.
type Watcher struct {
	watcher        *fsnotify.Watcher
	debouncePeriod time.Duration
	log            *zap.SugaredLogger

	mu            sync.Mutex
	debounceTimer *time.Timer
	pending       map[string]bool
	ownWrites     map[string]bool // files we are about to write ourselves

	runMu sync.Mutex // serialises callbacks
}

// NewWatcher creates a watcher that waits debounce after the last event
// before reporting.
func NewWatcher(debounce time.Duration, log *zap.SugaredLogger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Watcher{
		watcher:        watcher,
		debouncePeriod: debounce,
		log:            log,
		pending:        make(map[string]bool),
		ownWrites:      make(map[string]bool),
	}, nil
}

// Add watches each path: a directory for the files directly in it, or a
// single file.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		if err := w.watcher.Add(p); err != nil {
			return errors.Wrapf(err, "failed to watch %s", p)
		}
		w.log.Debugw("Watching", logger.FieldFile, p)
	}
	return nil
}

// MarkOwnWrite makes the next event for each path be ignored, so writing
// generated files does not trigger another generation.
func (w *Watcher) MarkOwnWrite(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.ownWrites[filepath.Clean(p)] = true
	}
}

// checkOwnWrite checks and clears the own-write flag for path
func (w *Watcher) checkOwnWrite(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	path = filepath.Clean(path)
	if w.ownWrites[path] {
		delete(w.ownWrites, path)
		return true
	}
	return false
}

// Run delivers changes to onChange until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if w.checkOwnWrite(event.Name) {
				w.log.Debugw("Watcher ignoring own write", logger.FieldFile, event.Name)
				continue
			}

			w.log.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule(ctx, event.Name, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces rapid file changes
func (w *Watcher) schedule(ctx context.Context, path string, onChange ChangeFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		w.flush(ctx, onChange)
	})
}

func (w *Watcher) flush(ctx context.Context, onChange ChangeFunc) {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if len(changed) == 0 || ctx.Err() != nil {
		return
	}
	sort.Strings(changed)

	w.runMu.Lock()
	defer w.runMu.Unlock()
	onChange(ctx, changed)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}

// relevant reports whether event touches a file generation depends on.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}

	switch filepath.Ext(base) {
	case ".go", ".yaml", ".yml", ".toml", ".json":
		return true
	}
	return false
}
