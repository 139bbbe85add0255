package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/prism/internal/generators"
)

var cssCmd = &cobra.Command{
	Use:   "css <base|slidev|reveal|webslides>",
	Short: "Print one generated stylesheet",
	Long: `Generate a single stylesheet from the token document and print it to
standard output. Nothing is written to the output directory.

Examples:
  prism css base                       # Custom properties and dark mode
  prism css reveal > theme.css         # Reveal.js theme`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: generators.Default().Stylesheets(),
	RunE:      runCSS,
}

func init() {
	rootCmd.AddCommand(cssCmd)
}

func runCSS(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	css, err := a.compiler.CSS(args[0])
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(css)
	return err
}
