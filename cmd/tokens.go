package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/prism/internal/compiler"
	"github.com/conneroisu/prism/internal/tokens"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the flattened custom properties",
	Long: `Flatten the token document and print every custom property in document
order, optionally restricted to one category.

Categories: colors, typography, spacing, borders-shadows, transitions, other

Examples:
  prism tokens                         # Table of every property
  prism tokens --category colors       # Only the palette
  prism tokens --format json | jq .    # Machine readable`,
	RunE: runTokens,
}

var (
	tokensFormat   string
	tokensCategory string
)

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVarP(&tokensFormat, "format", "f", "table", "Output format (table, json, yaml)")
	tokensCmd.Flags().StringVarP(&tokensCategory, "category", "c", "", "Only show one category")
}

func runTokens(cmd *cobra.Command, args []string) error {
	var filter *tokens.Category
	if tokensCategory != "" {
		cat, err := tokens.ParseCategory(tokensCategory)
		if err != nil {
			return err
		}
		filter = &cat
	}

	switch tokensFormat {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", tokensFormat)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	props, err := a.compiler.CustomProperties()
	if err != nil {
		return err
	}

	if filter != nil {
		kept := props[:0]
		for _, p := range props {
			if p.Category == filter.String() {
				kept = append(kept, p)
			}
		}
		props = kept
	}

	return writeProperties(cmd.OutOrStdout(), tokensFormat, props)
}

func writeProperties(w io.Writer, format string, props []compiler.Property) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(props)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(props); err != nil {
			return err
		}
		return encoder.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PROPERTY\tVALUE\tCATEGORY")
		for _, p := range props {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Value, p.Category)
		}
		return tw.Flush()
	}
}
