package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/contre95/shadowbox/src/music"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay untouched before it is emitted.
const DefaultDebounce = 5 * time.Second

// Watcher monitors an inbox directory and emits one event per audio file
// once writes to it have settled.
type Watcher struct {
	watcher   *fsnotify.Watcher
	watchPath string
	debounce  time.Duration
	mu        sync.Mutex
	timers    map[string]*time.Timer
	running   bool
	stopChan  chan struct{}
	eventChan chan<- FileEvent
}

// NewWatcher creates a new file system watcher
func NewWatcher(eventChan chan<- FileEvent, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:   watcher,
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
		eventChan: eventChan,
		stopChan:  make(chan struct{}),
	}, nil
}

// Start begins watching watchPath for new audio files
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.watchPath = watchPath
	slog.Info("Starting file watcher", "path", watchPath, "debounce", w.debounce)

	if err := w.watcher.Add(watchPath); err != nil {
		return err
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	go w.watchLoop(ctx)

	slog.Info("File watcher started successfully")
	return nil
}

// Stop stops the file watcher and drops pending events
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	slog.Info("Stopping file watcher")
	w.running = false
	close(w.stopChan)
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.watcher.Close()
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			w.Stop()
			return
		}
	}
}

// handleEvent (re)starts the debounce timer of the file behind event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !isCandidate(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	if timer, ok := w.timers[event.Name]; ok {
		timer.Reset(w.debounce)
		return
	}
	slog.Debug("Detected new audio file", "file", event.Name)
	path := event.Name
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.emit(path) })
}

// isCandidate accepts audio files, skipping hidden and temporary ones.
func isCandidate(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return music.IsAudioFile(path)
}

// emit sends the settled file on the event channel.
func (w *Watcher) emit(path string) {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	w.mu.Unlock()

	event := FileEvent{Path: path, EventType: FileCreated, Timestamp: time.Now()}
	select {
	case w.eventChan <- event:
		slog.Info("Emitted file event after debounce", "path", path)
	case <-w.stopChan:
	}
}
