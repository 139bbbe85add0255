package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/conneroisu/prism/internal/logging"
)

// RebuildFunc reloads the watched file and recompiles. Its error is logged
// and never stops the loop.
type RebuildFunc func(ctx context.Context) error

// Options configures WatchFile.
type Options struct {
	// Path is the file to watch.
	Path     string
	Debounce time.Duration
	Logger   logging.Logger
	// Ready, if set, is closed once the watch is registered.
	Ready chan<- struct{}
}

// WatchFile calls rebuild once per debounced burst of changes to
// opts.Path until ctx is cancelled. It watches the containing directory so
// that atomic saves, which replace the file, are still observed.
func WatchFile(ctx context.Context, opts Options, rebuild RebuildFunc) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	path, err := validatePath(opts.Path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	fw, err := NewFileWatcher(opts.Debounce, logger)
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}

	fw.AddFilter(BaseNameFilter(filepath.Base(path)))
	fw.AddHandler(func(ctx context.Context, events []ChangeEvent) error {
		for _, event := range events {
			fw.logger.Debug(ctx, "token file changed",
				"path", event.Path,
				"event", event.Type.String())
		}
		return rebuild(ctx)
	})

	dir := filepath.Dir(path)
	if err := fw.AddPath(dir); err != nil {
		_ = fw.Stop()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return err
	}
	fw.logger.Info(ctx, "watching for changes",
		"path", path,
		"debounce", opts.Debounce.String())

	if opts.Ready != nil {
		close(opts.Ready)
	}

	<-ctx.Done()
	return fw.Stop()
}
