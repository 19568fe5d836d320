package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev, ok := <-w.Events:
		if !ok {
			t.Fatal("events channel closed early")
		}
		return ev
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event within 5s")
	}
	return Event{}
}

func TestWatcherClassifiesByExtension(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(20*time.Millisecond, dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "cave.tengo"), []byte(`paint(0, 0)`), 0o644); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, w); ev.Kind != EventScript {
		t.Fatalf("script write classified as %v, want EventScript", ev.Kind)
	}

	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("grid:\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, w); ev.Kind != EventConfig {
		t.Fatalf("yaml write classified as %v, want EventConfig", ev.Kind)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(20*time.Millisecond, dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-w.Events:
		t.Fatalf("unclassified file produced event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(100*time.Millisecond, dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	// Two writes inside one debounce window settle into one event.
	path := filepath.Join(dir, "cave.tengo")
	if err := os.WriteFile(path, []byte(`paint(0, 0)`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`paint(1, 0)`), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, w)
	if ev.Path != path {
		t.Fatalf("event path = %q, want %q", ev.Path, path)
	}
	select {
	case ev := <-w.Events:
		t.Fatalf("burst produced a second event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseIsClean(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(20*time.Millisecond, dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	select {
	case _, ok := <-w.Events:
		if ok {
			t.Fatal("event after close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}
