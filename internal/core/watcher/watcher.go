// Package watcher reports changes to the files a walk printed, debounced into
// batches.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"printts/internal/core/errors"
	"printts/internal/shared/observability"
	"printts/internal/shared/util"

	"github.com/fsnotify/fsnotify"
)

type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	extFilters map[string]bool
	metrics    *observability.Metrics
	onChange   func([]string)
	callbackMu sync.Mutex

	trackMu sync.Mutex
	files   map[string]bool
	dirs    map[string]bool

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
}

// NewWatcher returns a Watcher that calls onChange with the batch of changed
// paths once no event has arrived for debounce. New files in a watched
// directory only count when their extension is in extensions.
func NewWatcher(debounce time.Duration, extensions []string, metrics *observability.Metrics, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New(errors.CodeInvalidUsage, "watcher callback is required")
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create file watcher")
	}

	extFilter := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		extFilter[normalized] = true
	}

	return &Watcher{
		fsWatcher:  fsw,
		debounce:   debounce,
		extFilters: extFilter,
		metrics:    metrics,
		onChange:   onChange,
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		pending:    make(map[string]time.Time),
	}, nil
}

// Track replaces the watched set with files and their parent directories.
// Directories no longer holding a tracked file are dropped. A directory that
// cannot be watched is skipped and the first such error is returned.
func (w *Watcher) Track(files []string) error {
	w.trackMu.Lock()
	defer w.trackMu.Unlock()

	nextFiles := make(map[string]bool, len(files))
	wanted := make(map[string]bool)
	for _, file := range files {
		clean := filepath.Clean(file)
		nextFiles[clean] = true
		wanted[filepath.Dir(clean)] = true
	}

	for dir := range w.dirs {
		if wanted[dir] {
			continue
		}
		if err := w.fsWatcher.Remove(dir); err != nil {
			slog.Debug("failed to unwatch directory", "path", dir, "error", err)
		}
	}

	var firstErr error
	nextDirs := make(map[string]bool, len(wanted))
	for _, dir := range util.SortedStringKeys(wanted) {
		if w.dirs[dir] {
			nextDirs[dir] = true
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			if firstErr == nil {
				firstErr = errors.AddContext(errors.Wrap(err, errors.CodeInternal, "watch directory"), errors.CtxPath, dir)
			}
			continue
		}
		nextDirs[dir] = true
	}

	w.files = nextFiles
	w.dirs = nextDirs
	return firstErr
}

// Dirs returns the watched directories in sorted order.
func (w *Watcher) Dirs() []string {
	w.trackMu.Lock()
	defer w.trackMu.Unlock()
	return util.SortedStringKeys(w.dirs)
}

// Start consumes file system events until Close.
func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.metrics.WatcherEventsTotal.Inc()
			if w.relevant(event) {
				w.scheduleChange(filepath.Clean(event.Name))
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// relevant reports whether event can change the next walk's output: any
// change to a printed file, or a new source file or directory that may now
// satisfy an import that failed to resolve.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	path := filepath.Clean(event.Name)
	w.trackMu.Lock()
	tracked := w.files[path]
	w.trackMu.Unlock()
	if tracked {
		return true
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.extFilters[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.flushChanges()
	})
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
