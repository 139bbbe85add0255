package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect prism configuration",
	Long: `Inspect the configuration prism resolves from flags, environment
variables, the config file and defaults.

Examples:
  prism config show                    # Print the effective configuration
  prism config validate                # Exit non-zero on invalid settings`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# %s\n", used)
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return err
	}
	return encoder.Close()
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	source := viper.ConfigFileUsed()
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration is valid (%s)\n", okMark("✓"), source)
	return nil
}
