package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind classifies what a changed file means to the editor.
type EventKind int

const (
	// EventConfig is a changed settings file; the editor reloads tuning.
	EventConfig EventKind = iota
	// EventScript is a changed generator script; the editor re-runs it.
	EventScript
)

// Event is one settled file change.
type Event struct {
	Kind EventKind
	Path string
}

// Watcher turns raw filesystem notifications into classified, debounced
// events. A burst of writes to one file collapses into a single event
// that fires once the file has stayed quiet for the debounce window.
type Watcher struct {
	Events chan Event
	Errors chan error

	fs       *fsnotify.Watcher
	debounce time.Duration
	closeCh  chan struct{}
	once     sync.Once
}

// NewWatcher watches the given files and directories. A non-positive
// debounce falls back to 100ms.
func NewWatcher(debounce time.Duration, paths ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := fs.Add(p); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	w := &Watcher{
		Events:   make(chan Event, 16),
		Errors:   make(chan error, 1),
		fs:       fs,
		debounce: debounce,
		closeCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops watching. The Events and Errors channels are closed by the
// run loop, never here, so an in-flight send cannot race a close.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	pending := map[string]Event{}
	var flush <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(ev.Name)
			if !ok {
				continue
			}
			pending[ev.Name] = Event{Kind: kind, Path: ev.Name}
			if flush == nil {
				flush = time.After(w.debounce)
			}

		case <-flush:
			flush = nil
			for _, ev := range pending {
				select {
				case w.Events <- ev:
				case <-w.closeCh:
					return
				}
			}
			pending = map[string]Event{}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}

		case <-w.closeCh:
			return
		}
	}
}

// classify maps a path to an event kind by extension; anything else
// (editor temp files, lock files) is dropped.
func classify(path string) (EventKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EventConfig, true
	case ".tengo":
		return EventScript, true
	}
	return 0, false
}
