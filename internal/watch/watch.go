// Package watch reports saves and removals of individual files.
package watch

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrNotFile       = errors.New("path is a directory")
)

// Op is the kind of change delivered for a watched file.
type Op int

const (
	// OpSave means the file content changed.
	OpSave Op = iota
	// OpClose means the file is gone.
	OpClose
)

func (o Op) String() string {
	switch o {
	case OpSave:
		return "save"
	case OpClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is a debounced change to a watched file.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches files through their parent directories so that editors
// which save by renaming a temp file are still seen.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger

	files  map[string]bool
	dirs   map[string]bool
	timers map[string]*time.Timer

	events chan Event
	errors chan error
	fire   chan string

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New creates a Watcher that coalesces bursts of changes to one file
// within debounce into a single Event.
func New(debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		log:      log,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		events:   make(chan Event, 16),
		errors:   make(chan error, 16),
		fire:     make(chan string, 16),
		closeCh:  make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.loop()

	return w, nil
}

// Add starts watching the file at path. It returns the absolute path events
// will carry.
func (w *Watcher) Add(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrNotFile
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return "", ErrWatcherClosed
	}

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return "", err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true

	return abs, nil
}

// Events returns the event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.closedWg.Wait()

	close(w.events)
	close(w.errors)

	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
			select {
			case w.errors <- err:
			default:
			}

		case path := <-w.fire:
			w.emit(path)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[ev.Name] {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}

	w.log.Debug("file event", "path", ev.Name, "op", ev.Op.String())

	if t, ok := w.timers[ev.Name]; ok {
		t.Stop()
	}
	path := ev.Name
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- path:
		case <-w.closeCh:
		}
	})
}

// emit decides the final op from what is on disk once the burst settles.
func (w *Watcher) emit(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	w.mu.Unlock()

	op := OpSave
	if _, err := os.Stat(path); err != nil {
		op = OpClose
	}

	select {
	case w.events <- Event{Path: path, Op: op}:
	case <-w.closeCh:
	}
}
