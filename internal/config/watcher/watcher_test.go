package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNew(t *testing.T) {
	w := New()
	if w == nil {
		t.Fatal("New() returned nil")
	}
	if w.debounce != 100*time.Millisecond {
		t.Errorf("default debounce = %v, want 100ms", w.debounce)
	}
}

func TestNew_WithOptions(t *testing.T) {
	called := false
	w := New(
		WithDebounce(50*time.Millisecond),
		WithErrorHandler(func(error) { called = true }),
	)

	if w.debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v, want 50ms", w.debounce)
	}
	w.onError(nil)
	if !called {
		t.Error("error handler not installed")
	}

	w = New(WithDebounce(-1))
	if w.debounce != 100*time.Millisecond {
		t.Errorf("negative debounce should be ignored, got %v", w.debounce)
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Operation
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRename, true},
		{fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		got, ok := convertOp(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("convertOp(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.toml")
	b := filepath.Join(tmpDir, "b.toml")

	w := New()
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	_ = w.Watch(a)

	files := w.WatchedFiles()
	if len(files) != 2 || files[0] != a || files[1] != b {
		t.Errorf("WatchedFiles() = %v", files)
	}
	if w.dirs[tmpDir] != 2 {
		t.Errorf("dir refcount = %d, want 2", w.dirs[tmpDir])
	}

	_ = w.Unwatch(a)
	_ = w.Unwatch(b)
	if len(w.WatchedFiles()) != 0 {
		t.Error("expected no watched files")
	}
	if _, ok := w.dirs[tmpDir]; ok {
		t.Error("directory should be released")
	}
}

func TestWatcher_WatchDir(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"one.toml", "two.toml", "three.yaml"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte{}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	w := New()
	if err := w.WatchDir(tmpDir, "*.toml"); err != nil {
		t.Fatalf("WatchDir() error = %v", err)
	}

	if n := len(w.WatchedFiles()); n != 2 {
		t.Errorf("watched %d files, want 2", n)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w := New()

	if w.IsRunning() {
		t.Error("watcher should not be running before Start")
	}

	_ = w.Watch(filepath.Join(t.TempDir(), "keymap.toml"))
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if !w.IsRunning() {
		t.Error("watcher should be running after Start")
	}

	w.Stop()
	w.Stop()
	if w.IsRunning() {
		t.Error("watcher should not be running after Stop")
	}
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
	return true
}

func TestWatcher_DetectsFileModification(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.toml")
	other := filepath.Join(tmpDir, "other.toml")
	if err := os.WriteFile(tmpFile, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(WithDebounce(0))

	var mu sync.Mutex
	var events []Event

	w.OnChange(func(event Event) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	})

	_ = w.Watch(tmpFile)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(other, []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tmpFile, []byte("modified"), 0644); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) > 0
	})
	if !ok {
		t.Fatal("did not receive file change event")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, ev := range events {
		if ev.Path != tmpFile {
			t.Errorf("event.Path = %q, want %q", ev.Path, tmpFile)
		}
	}
	if events[0].Op != OpWrite {
		t.Errorf("event.Op = %v, want write", events[0].Op)
	}
}

func TestWatcher_DetectsFileCreation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "new.toml")

	w := New(WithDebounce(0))

	var created atomic.Bool
	w.OnChange(func(event Event) {
		if event.Op == OpCreate {
			created.Store(true)
		}
	})

	_ = w.Watch(tmpFile)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(tmpFile, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, created.Load) {
		t.Fatal("did not receive file creation event")
	}
}

func TestWatcher_DetectsFileDeletion(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "gone.toml")
	if err := os.WriteFile(tmpFile, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(WithDebounce(0))

	var removed atomic.Bool
	w.OnChange(func(event Event) {
		if event.Op == OpRemove {
			removed.Store(true)
		}
	})

	_ = w.Watch(tmpFile)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(tmpFile); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, removed.Load) {
		t.Fatal("did not receive file deletion event")
	}
}

func TestWatcher_QueueCoalesces(t *testing.T) {
	w := New(WithDebounce(50 * time.Millisecond))
	base := time.Unix(100, 0)

	w.queueEvent(Event{Path: "/k.toml", Op: OpCreate, Time: base})
	w.queueEvent(Event{Path: "/k.toml", Op: OpWrite, Time: base.Add(10 * time.Millisecond)})
	w.queueEvent(Event{Path: "/m.toml", Op: OpWrite, Time: base})
	w.queueEvent(Event{Path: "/m.toml", Op: OpRemove, Time: base.Add(5 * time.Millisecond)})

	var got []Event
	w.OnChange(func(event Event) { got = append(got, event) })

	w.processPendingEvents(base.Add(40 * time.Millisecond))
	if len(got) != 0 {
		t.Fatalf("events emitted before they were stable: %v", got)
	}

	w.processPendingEvents(base.Add(100 * time.Millisecond))
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Path != "/k.toml" || got[0].Op != OpCreate {
		t.Errorf("first event = %+v, want create of /k.toml", got[0])
	}
	if got[1].Path != "/m.toml" || got[1].Op != OpRemove {
		t.Errorf("second event = %+v, want remove of /m.toml", got[1])
	}
}

func TestWatcher_Debounce(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "debounce.toml")
	if err := os.WriteFile(tmpFile, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(WithDebounce(100 * time.Millisecond))

	var eventCount atomic.Int32
	w.OnChange(func(event Event) {
		eventCount.Add(1)
	})

	_ = w.Watch(tmpFile)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Rapid modifications
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(tmpFile, []byte("modified"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitFor(t, func() bool { return eventCount.Load() > 0 }) {
		t.Fatal("no debounced event delivered")
	}
	time.Sleep(250 * time.Millisecond)

	// Should have received only 1 debounced event (or possibly 2 at boundaries)
	if count := eventCount.Load(); count > 2 {
		t.Errorf("received %d events, expected 1-2 (debounced)", count)
	}
}

func TestWatcher_HandlerPanicIsRecovered(t *testing.T) {
	w := New(WithDebounce(0))

	var second atomic.Bool
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { second.Store(true) })

	w.emitEvent(Event{Path: "/x", Op: OpWrite})

	if !second.Load() {
		t.Error("handler after a panicking handler was not called")
	}
}
