package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/prism/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for prism including the semantic version,
git commit, build time, Go version and target platform.

Examples:
  prism version                 # Show version
  prism version --short         # Version only
  prism version --format json   # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	switch versionFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "text":
		if versionShort {
			_, err := fmt.Fprintln(out, info.Short())
			return err
		}
		_, err := fmt.Fprint(out, info.String())
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}
}
