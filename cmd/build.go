package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conneroisu/prism/internal/compiler"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Build every artifact once",
	Long: `Load the token document and write all five artifacts to the output
directory. Each artifact succeeds or fails on its own; the command exits
non-zero when any of them failed or could not be written.

Examples:
  prism build                          # Build with .prism.yml / defaults
  prism build -t brand/tokens.json     # Use another token document
  prism build -o public/themes         # Write somewhere else`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	dim      = color.New(color.Faint).SprintFunc()
)

// BuildFailedError reports a pass in which at least one artifact failed.
type BuildFailedError struct {
	Failed int
	Total  int
}

func (e *BuildFailedError) Error() string {
	return fmt.Sprintf("%d of %d artifacts failed", e.Failed, e.Total)
}

func runBuild(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	batch, err := a.compiler.Build(cmd.Context())
	if batch == nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), batch, a.compiler.OutputDir())

	if !batch.OK() {
		return &BuildFailedError{Failed: len(batch.Failed()), Total: len(batch.Artifacts)}
	}
	return nil
}

// printSummary writes one line per artifact followed by a total line.
func printSummary(w io.Writer, batch *compiler.Batch, outputDir string) {
	for _, artifact := range batch.Artifacts {
		if artifact.OK() {
			fmt.Fprintf(w, "%s %-14s %s\n", okMark("✓"), artifact.File, dim(artifact.Path))
		} else {
			fmt.Fprintf(w, "%s %-14s %v\n", failMark("✗"), artifact.File, artifact.Err)
		}
	}

	for _, d := range batch.Diagnostics {
		fmt.Fprintf(w, "%s %s\n", warnMark("!"), d.Error())
	}

	fmt.Fprintf(w, "%d/%d artifacts written to %s in %s\n",
		batch.Succeeded(), len(batch.Artifacts), outputDir, batch.Duration.Round(100*time.Microsecond))
}
