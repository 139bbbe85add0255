package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.NotNil(t, watcher.logger)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NoError(t, watcher.AddPath(t.TempDir()))
	assert.Error(t, watcher.AddPath("/non/existent/path"))
	assert.Error(t, watcher.AddPath(""))
}

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	watcher, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	assert.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}

func TestBaseNameFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"tokens/design-tokens.json", true},
		{"/abs/tokens/design-tokens.json", true},
		{"design-tokens.json", true},
		{"tokens/design-tokens.json~", false},
		{"tokens/.design-tokens.json.swp", false},
		{"tokens/other.json", false},
	}

	filter := BaseNameFilter("design-tokens.json")
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, filter(tc.path))
		})
	}
}

func TestDebouncer(t *testing.T) {
	debouncer := NewDebouncer(30 * time.Millisecond)

	debouncer.Add(ChangeEvent{Type: EventTypeCreated, Path: "b.json"})
	debouncer.Add(ChangeEvent{Type: EventTypeModified, Path: "a.json"})
	debouncer.Add(ChangeEvent{Type: EventTypeModified, Path: "b.json"})

	select {
	case <-debouncer.Ready():
	case <-time.After(time.Second):
		t.Fatal("debouncer never flushed")
	}

	events := debouncer.Take()
	require.Len(t, events, 2)
	assert.Equal(t, "a.json", events[0].Path)
	assert.Equal(t, "b.json", events[1].Path)
	// The latest event for a path wins.
	assert.Equal(t, EventTypeModified, events[1].Type)

	assert.Nil(t, debouncer.Take())
}

func TestDebouncerMergesUnconsumedBatches(t *testing.T) {
	debouncer := NewDebouncer(5 * time.Millisecond)

	debouncer.Add(ChangeEvent{Path: "a.json"})
	time.Sleep(40 * time.Millisecond)
	debouncer.Add(ChangeEvent{Path: "b.json"})
	time.Sleep(40 * time.Millisecond)

	// Two flushes, one notification, nothing lost.
	<-debouncer.Ready()
	events := debouncer.Take()
	assert.Len(t, events, 2)

	select {
	case <-debouncer.Ready():
		t.Fatal("unexpected second notification")
	default:
	}
}

func writeTokens(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func startWatch(t *testing.T, path string, debounce time.Duration, rebuild RebuildFunc) (context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, Options{Path: path, Debounce: debounce, Ready: ready}, rebuild)
	}()

	select {
	case <-ready:
	case err := <-done:
		cancel()
		t.Fatalf("watch exited early: %v", err)
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("watch never became ready")
	}

	return cancel, done
}

func TestWatchFileCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design-tokens.json")
	writeTokens(t, path, `{}`)

	var calls int32
	cancel, done := startWatch(t, path, 100*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	for i := 0; i < 5; i++ {
		writeTokens(t, path, `{"spacing":{"1":"4px"}}`)
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 },
		2*time.Second, 20*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchFileIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design-tokens.json")
	writeTokens(t, path, `{}`)

	var calls int32
	cancel, done := startWatch(t, path, 20*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	writeTokens(t, filepath.Join(dir, "notes.txt"), "unrelated")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchFileSurvivesFailuresAndAtomicSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design-tokens.json")
	writeTokens(t, path, `{}`)

	var calls int32
	cancel, done := startWatch(t, path, 20*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("malformed token document")
	})

	writeTokens(t, path, `{"broken":`)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 },
		2*time.Second, 10*time.Millisecond)

	// Replace the file the way editors do: write elsewhere, then rename.
	tmp := filepath.Join(dir, ".design-tokens.json.tmp")
	writeTokens(t, tmp, `{}`)
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchFileRunsRebuildsSequentially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design-tokens.json")
	writeTokens(t, path, `{}`)

	var (
		mu       sync.Mutex
		running  int
		overlaps int
		calls    int32
	)
	cancel, done := startWatch(t, path, 5*time.Millisecond, func(ctx context.Context) error {
		mu.Lock()
		running++
		if running > 1 {
			overlaps++
		}
		mu.Unlock()

		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&calls, 1)

		mu.Lock()
		running--
		mu.Unlock()
		return nil
	})

	for i := 0; i < 10; i++ {
		writeTokens(t, path, `{"n":1}`)
		time.Sleep(15 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, overlaps)
}

func TestWatchFileMissingDirectory(t *testing.T) {
	err := WatchFile(context.Background(), Options{
		Path: filepath.Join(t.TempDir(), "missing", "design-tokens.json"),
	}, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}
