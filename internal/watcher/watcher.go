// Package watcher turns bursts of file system events into sequential
// rebuilds. Events are filtered, debounced into batches, and handed to the
// registered handlers on a single goroutine, so a handler never runs
// concurrently with itself or with another handler.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/prism/internal/logging"
)

// FileWatcher watches for file changes with debouncing
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex

	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once
}

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
	Size    int64
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines if a file should be watched
type FileFilter func(path string) bool

// ChangeHandler handles one debounced batch of change events.
type ChangeHandler func(ctx context.Context, events []ChangeEvent) error

// Debouncer groups rapid file changes together. A flushed batch waits in
// ready until the consumer takes it; batches flushed meanwhile are merged
// into it rather than dropped.
type Debouncer struct {
	delay   time.Duration
	timer   *time.Timer
	pending []ChangeEvent
	ready   []ChangeEvent
	notify  chan struct{}
	mutex   sync.Mutex
}

// NewDebouncer creates a debouncer that flushes delay after the last event.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		notify: make(chan struct{}, 1),
	}
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounceDelay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(debounceDelay),
		filters:   make([]FileFilter, 0),
		handlers:  make([]ChangeHandler, 0),
		logger:    logger.WithComponent("watcher"),
		done:      make(chan struct{}),
	}

	return fw, nil
}

// AddFilter adds a file filter
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath adds a path to watch
func (fw *FileWatcher) AddPath(path string) error {
	cleanPath, err := validatePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	return fw.watcher.Add(cleanPath)
}

// validatePath cleans a path and makes it absolute.
func validatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}

	return absPath, nil
}

// Start starts the file watcher. It returns immediately; the watcher runs
// until ctx is cancelled or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.wg.Add(2)
	go fw.processEvents(ctx)
	go fw.watchLoop(ctx)

	return nil
}

// Stop stops the file watcher, waits for a running handler to return, and
// releases the underlying watcher.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.done)
		fw.debouncer.stop()
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return err
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	defer fw.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsnotifyEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue watching
			fw.logger.Warn(ctx, err, "file watcher error")
		}
	}
}

func (fw *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	fw.mutex.RLock()
	filters := fw.filters
	fw.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	var modTime time.Time
	var size int64
	if info, err := os.Stat(event.Name); err == nil {
		modTime = info.ModTime()
		size = info.Size()
	}

	fw.debouncer.Add(ChangeEvent{
		Type:    eventType(event.Op),
		Path:    event.Name,
		ModTime: modTime,
		Size:    size,
	})
}

func eventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Write):
		return EventTypeModified
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer fw.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case <-fw.debouncer.notify:
			events := fw.debouncer.Take()
			if len(events) == 0 {
				continue
			}

			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(ctx, events); err != nil {
					// Log error but continue processing
					fw.logger.Warn(ctx, err, "file watcher handler error",
						"events", len(events))
				}
			}
		}
	}
}

// Add records an event and restarts the quiet-period timer.
func (d *Debouncer) Add(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = append(d.pending, event)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// Ready returns a channel that receives a value whenever a batch is waiting.
func (d *Debouncer) Ready() <-chan struct{} {
	return d.notify
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}

	d.ready = append(d.ready, d.pending...)
	d.pending = d.pending[:0]

	select {
	case d.notify <- struct{}{}:
	default:
		// A notification is already queued; the waiting batch absorbed these events.
	}
}

// Take removes and returns the waiting batch, keeping only the latest
// event for each path, ordered by path.
func (d *Debouncer) Take() []ChangeEvent {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.ready) == 0 {
		return nil
	}

	eventMap := make(map[string]ChangeEvent, len(d.ready))
	for _, event := range d.ready {
		eventMap[event.Path] = event
	}
	d.ready = d.ready[:0]

	events := make([]ChangeEvent, 0, len(eventMap))
	for _, event := range eventMap {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	return events
}

func (d *Debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// BaseNameFilter matches events on files named base in any watched
// directory. Editors that save through a temporary file and a rename still
// produce a Create or Rename event carrying the final name.
func BaseNameFilter(base string) FileFilter {
	return func(path string) bool {
		return filepath.Base(path) == base
	}
}
