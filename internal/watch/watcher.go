package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"k6x/internal/discovery"
	"k6x/internal/domain"
)

// Handler receives the outcome of each applied event
type Handler func(ev domain.FileEvent, node *domain.TestNode)

// Watcher turns fsnotify notifications for test files into reconciler events
type Watcher struct {
	watcher    *fsnotify.Watcher
	roots      []string
	scanner    *discovery.Scanner
	reconciler *Reconciler
	log        logrus.FieldLogger
	onEvent    Handler
}

// NewWatcher creates a Watcher over every directory below roots that discovery would walk
func NewWatcher(roots []string, scanner *discovery.Scanner, reconciler *Reconciler, log logrus.FieldLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:    fw,
		roots:      roots,
		scanner:    scanner,
		reconciler: reconciler,
		log:        log.WithField("component", "watcher"),
	}

	for _, root := range roots {
		if err := w.addTree(root, false); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// OnEvent registers a handler called after each applied event
func (w *Watcher) OnEvent(h Handler) {
	w.onEvent = h
}

// Run dispatches events until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.dispatch(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watcher error")
		}
	}
}

func (w *Watcher) dispatch(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.scanner.SkipDir(filepath.Base(event.Name)) {
				// A directory moved in already holds its files
				if err := w.addTree(event.Name, true); err != nil {
					w.log.WithError(err).WithField("dir", event.Name).Warn("Failed to watch directory")
				}
			}
			return
		}
	}

	ev, ok := w.translate(event)
	if !ok {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.removeDir(event.Name)
		}
		return
	}

	w.apply(ev)
}

func (w *Watcher) apply(ev domain.FileEvent) {
	node := w.reconciler.Handle(ev)
	if w.onEvent != nil {
		w.onEvent(ev, node)
	}
}

// removeDir drops every file discovered below a directory that was removed or moved away
func (w *Watcher) removeDir(dir string) {
	removed := w.reconciler.RemoveDir(dir)
	if len(removed) == 0 {
		return
	}
	_ = w.watcher.Remove(dir)
	if w.onEvent != nil {
		for _, path := range removed {
			w.onEvent(domain.FileEvent{Kind: domain.FileDeleted, Path: path}, nil)
		}
	}
}

// translate maps an fsnotify event onto a file event for a matching test file
func (w *Watcher) translate(event fsnotify.Event) (domain.FileEvent, bool) {
	if !w.matches(event.Name) {
		return domain.FileEvent{}, false
	}

	path := event.Name
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return domain.FileEvent{Kind: domain.FileDeleted, Path: path}, true
	case event.Has(fsnotify.Create):
		return domain.FileEvent{Kind: domain.FileCreated, Path: path}, true
	case event.Has(fsnotify.Write):
		return domain.FileEvent{Kind: domain.FileModified, Path: path}, true
	}
	return domain.FileEvent{}, false
}

func (w *Watcher) matches(path string) bool {
	for _, root := range w.roots {
		if w.scanner.Matches(root, path) {
			return true
		}
	}
	return false
}

// addTree watches dir and every subdirectory discovery would descend into.
// With discover set, test files found on the way are reported as created.
func (w *Watcher) addTree(dir string, discover bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if discover && w.matches(path) {
				if abs, err := filepath.Abs(path); err == nil {
					path = abs
				}
				w.apply(domain.FileEvent{Kind: domain.FileCreated, Path: path})
			}
			return nil
		}
		if path != dir && w.scanner.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
