package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/prism/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Rebuild every artifact whenever the token document changes",
	Long: `Build once, then watch the token document and rebuild after every save.
Bursts of changes are debounced into a single rebuild and rebuilds never
overlap. A document that fails to load or an artifact that fails to generate
is reported and the watch continues; the artifacts from the last good pass
stay on disk.

Examples:
  prism watch                          # Same as prism --watch
  prism watch --debounce 500ms         # Wait longer for editors to settle`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("debounce", 0, "quiet period before a rebuild (default from config, 200ms)")
	bindFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return a.watch(cmd.Context(), cmd, nil)
}

// watch runs the initial build and then the watch loop until ctx ends.
// ready, when non-nil, is closed once changes are being observed.
func (a *app) watch(ctx context.Context, cmd *cobra.Command, ready chan<- struct{}) error {
	out := cmd.OutOrStdout()

	batch, err := a.compiler.Build(ctx)
	if batch != nil {
		printSummary(out, batch, a.compiler.OutputDir())
	} else {
		// Keep watching: the next save may fix the document.
		a.logger.Error(ctx, err, "Initial build failed")
	}

	return watcher.WatchFile(ctx, watcher.Options{
		Path:     a.cfg.Tokens.Path,
		Debounce: a.cfg.Watch.Debounce,
		Logger:   a.logger,
		Ready:    ready,
	}, func(ctx context.Context) error {
		batch, err := a.compiler.Rebuild(ctx)
		if batch == nil {
			return fmt.Errorf("reload failed, keeping previous artifacts: %w", err)
		}
		printSummary(out, batch, a.compiler.OutputDir())
		return err
	})
}
