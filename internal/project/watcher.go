package project

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchEvent describes what needs re-running after a change. Either the user
// edited Swift files in specific targets, or something project-wide (a
// configuration file, or any file in a non-package project) changed.
type WatchEvent struct {
	Targets       []string
	ConfigChanged bool
}

// All reports whether every target should be re-run.
func (e WatchEvent) All() bool {
	return e.ConfigChanged || len(e.Targets) == 0
}

// merge combines two pending events into one.
func merge(a, b *WatchEvent) *WatchEvent {
	if a == nil {
		return b
	}
	if a.All() || b.All() {
		return &WatchEvent{ConfigChanged: a.ConfigChanged || b.ConfigChanged}
	}
	targets := slices.Clone(a.Targets)
	for _, t := range b.Targets {
		if !slices.Contains(targets, t) {
			targets = append(targets, t)
		}
	}
	slices.Sort(targets)
	return &WatchEvent{Targets: targets}
}

// eventWatcher is the subset of *fsnotify.Watcher used here.
type eventWatcher interface {
	Add(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsnotifyWatcher struct {
	w *fsnotify.Watcher
}

func newFsnotifyWatcher() (eventWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &fsnotifyWatcher{w: w}, nil
}

func (f *fsnotifyWatcher) Add(name string) error         { return f.w.Add(name) }
func (f *fsnotifyWatcher) Close() error                  { return f.w.Close() }
func (f *fsnotifyWatcher) Events() <-chan fsnotify.Event { return f.w.Events }
func (f *fsnotifyWatcher) Errors() <-chan error          { return f.w.Errors }

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors a project for changes to Swift sources and configuration.
type Watcher struct {
	layout      *Layout
	logger      *slog.Logger
	configFiles []string
	Ready       chan struct{}

	debounce   time.Duration
	newWatcher func() (eventWatcher, error)
}

// NewWatcher creates a Watcher. configFiles are base names in the project
// root whose modification re-runs every target.
func NewWatcher(l *Layout, logger *slog.Logger, configFiles ...string) *Watcher {
	return &Watcher{
		layout:      l,
		logger:      logger.With("component", "watcher"),
		configFiles: configFiles,
		Ready:       make(chan struct{}),
		debounce:    DefaultDebounce,
		newWatcher:  newFsnotifyWatcher,
	}
}

// Watch blocks until ctx is cancelled, calling callback after each settled
// burst of relevant changes. The callback runs on the watch goroutine; events
// caused while it runs (such as files rewritten in place) are dropped.
func (w *Watcher) Watch(ctx context.Context, callback func(WatchEvent)) error {
	ew, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer ew.Close()

	if err := w.addRecursive(ew, w.layout.Root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "root", w.layout.Root)
	if w.Ready != nil {
		close(w.Ready)
	}

	var (
		pending    *WatchEvent
		timer      *time.Timer
		timerC     <-chan time.Time
		quietUntil time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-ew.Errors():
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-ew.Events():
			if !ok {
				return nil
			}
			if time.Now().Before(quietUntil) {
				continue
			}
			ev := w.handleEvent(ew, event)
			if ev == nil {
				continue
			}
			pending = merge(pending, ev)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			ev := *pending
			pending = nil
			callback(ev)
			quietUntil = time.Now().Add(w.debounce)
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to
// the watcher; relevant file changes are mapped to a WatchEvent.
func (w *Watcher) handleEvent(ew eventWatcher, event fsnotify.Event) *WatchEvent {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return nil
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(ew, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return nil
		}
	}

	return w.mapToWatchEvent(event.Name)
}

// addRecursive adds root and its subdirectories, skipping hidden and excluded ones.
func (w *Watcher) addRecursive(ew eventWatcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.layout.Root {
			rel, rErr := filepath.Rel(w.layout.Root, path)
			if rErr == nil && (skipDir(d.Name()) || w.layout.Excluded(rel)) {
				return filepath.SkipDir
			}
		}
		return ew.Add(path)
	})
}

// mapToWatchEvent maps a changed path to a WatchEvent. Returns nil if the file is not relevant.
func (w *Watcher) mapToWatchEvent(path string) *WatchEvent {
	if filepath.Dir(path) == w.layout.Root && slices.Contains(w.configFiles, filepath.Base(path)) {
		return &WatchEvent{ConfigChanged: true}
	}

	if filepath.Ext(path) != SwiftExt {
		return nil
	}
	rel, err := filepath.Rel(w.layout.Root, path)
	if err != nil || w.layout.Excluded(rel) {
		return nil
	}

	if w.layout.Kind != KindPackage {
		return &WatchEvent{}
	}

	// <group>/<target>/.../<file>.swift
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 3 || !slices.Contains(TargetDirs, parts[0]) {
		return nil
	}
	return &WatchEvent{Targets: []string{parts[1]}}
}
