package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/prism/internal/errors"
	"github.com/conneroisu/prism/internal/lint"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Lint the written stylesheets",
	Long: `Check every stylesheet in the output directory (or dir) as one set:
each must parse, every var(--prsm-*) without a fallback must be defined by
some sheet, and every @import must name a sheet of the set.

Syntax errors fail the command; undefined references and unknown imports
are warnings unless --strict is given.

Examples:
  prism check                          # Lint the configured output directory
  prism check public/themes --strict`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

var checkStrict bool

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Treat warnings as failures")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir = cfg.Output.Dir
	}

	files, err := lint.ReadDir(dir)
	if err != nil {
		return err
	}

	report := lint.Check(files)
	out := cmd.OutOrStdout()
	for _, d := range report.Diagnostics() {
		mark := warnMark("!")
		if d.Severity == errors.SeverityError {
			mark = failMark("✗")
		}
		fmt.Fprintf(out, "%s %s\n", mark, d.Error())
	}

	failing := report.Count(errors.SeverityError)
	if checkStrict {
		failing = report.Count(errors.SeverityWarning)
	}
	fmt.Fprintf(out, "%d stylesheets, %d properties defined, %d references checked\n",
		report.Files, len(report.Defined), report.References)

	if failing > 0 {
		return fmt.Errorf("%d problems found in %s", failing, dir)
	}
	return nil
}
