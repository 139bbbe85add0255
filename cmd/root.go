package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/prism/internal/config"
)

var (
	cfgFile   string
	rootWatch bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Compile a design token document into presentation themes",
	Long: `prism compiles one hierarchical design token document into a family of
theme artifacts: a base stylesheet of CSS custom properties, stylesheets for
the Slidev, Reveal.js and WebSlides presentation frameworks, and a
utility-framework configuration module.

Without a subcommand prism builds once and exits non-zero if any artifact
failed. With --watch it keeps running and rebuilds whenever the token
document changes.

Quick Start:
  prism                           Build every artifact once
  prism --watch                   Rebuild on every change
  prism css reveal                Print one stylesheet
  prism tokens --format json      Dump the flattened tokens
  prism serve                     Live style guide with reload

Command Aliases:
  build (b), watch (w), serve (s)`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rootWatch {
			return runWatch(cmd, args)
		}
		return runBuild(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .prism.yml, can also use PRISM_CONFIG_FILE env var)")
	flags.StringP("tokens", "t", config.DefaultTokensPath, "token document to compile")
	flags.StringP("output", "o", config.DefaultOutputDir, "directory the artifacts are written to")
	flags.StringP("log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")

	bindFlag("tokens.path", flags.Lookup("tokens"))
	bindFlag("output.dir", flags.Lookup("output"))
	bindFlag("log.level", flags.Lookup("log-level"))
	bindFlag("log.format", flags.Lookup("log-format"))

	rootCmd.Flags().BoolVarP(&rootWatch, "watch", "w", false, "keep running and rebuild on every change")
}

// initConfig initializes the configuration system.
//
// Configuration file lookup (highest to lowest):
//  1. --config flag
//  2. PRISM_CONFIG_FILE environment variable
//  3. .prism.yml in the current directory
//
// A missing default file is not an error; an explicitly named file that
// cannot be read is reported when the configuration is loaded.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.ConfigFileEnvVar); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.DefaultConfigName)
	}

	// PRISM_OUTPUT_DIR, PRISM_SERVER_PORT, ...
	viper.SetEnvPrefix(config.DefaultEnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			configErr = fmt.Errorf("reading config file: %w", err)
		}
	}
}

// configErr holds a config file read failure until a command loads the
// configuration, so that commands like version still work.
var configErr error
