package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/prism/internal/compiler"
	"github.com/conneroisu/prism/internal/config"
	"github.com/conneroisu/prism/internal/logging"
	"github.com/conneroisu/prism/internal/tokens"
)

// app bundles what every command that touches the token document needs.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	compiler *compiler.Compiler
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// loadConfig returns the validated configuration, reporting a config file
// that exists but could not be read.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	return config.Load()
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    cmd.ErrOrStderr(),
		Component: "prism",
	}), nil
}

// newApp loads the configuration and wires a compiler over the configured
// token document.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	c := compiler.New(tokens.NewStore(cfg.Tokens.Path), compiler.Options{
		OutputDir: cfg.Output.Dir,
		Check:     cfg.Build.Check,
		Logger:    logger,
	})

	return &app{cfg: cfg, logger: logger, compiler: c}, nil
}
