// Package config provides configuration management for prism using Viper
// for loading from files, environment variables, and command-line flags.
//
// Values come from (highest first) flags bound by the CLI, the file named by
// PRISM_CONFIG_FILE, PRISM_* environment variables, a .prism.yml in the
// working directory, and finally the defaults registered by SetDefaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/prism/internal/errors"
)

// Default values for every configuration key.
const (
	DefaultTokensPath    = "tokens/design-tokens.json"
	DefaultOutputDir     = "dist/themes"
	DefaultCheck         = true
	DefaultDebounce      = 200 * time.Millisecond
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultHost          = "localhost"
	DefaultPort          = 4173
	DefaultConfigName    = ".prism"
	DefaultEnvPrefix     = "PRISM"
	ConfigFileEnvVar     = "PRISM_CONFIG_FILE"
	maxDebounce          = time.Minute
	dangerousPathChars   = ";&|$`()<>\"'"
	dangerousHostChars   = ";&|$`()<>\"'\\ \t\r\n"
	controlCharacterLast = 0x1f
)

type Config struct {
	Tokens TokensConfig `mapstructure:"tokens" yaml:"tokens"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Build  BuildConfig  `mapstructure:"build"  yaml:"build"`
	Watch  WatchConfig  `mapstructure:"watch"  yaml:"watch"`
	Log    LogConfig    `mapstructure:"log"    yaml:"log"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

type TokensConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type BuildConfig struct {
	// Check lints the written stylesheets after every pass.
	Check bool `mapstructure:"check" yaml:"check"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tokens.path", DefaultTokensPath)
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("build.check", DefaultCheck)
	v.SetDefault("watch.debounce", DefaultDebounce)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Tokens: TokensConfig{Path: DefaultTokensPath},
		Output: OutputConfig{Dir: DefaultOutputDir},
		Build:  BuildConfig{Check: DefaultCheck},
		Watch:  WatchConfig{Debounce: DefaultDebounce},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Server: ServerConfig{Host: DefaultHost, Port: DefaultPort},
	}
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes and validates the configuration held by v. Keys v has no
// value for fall back to their defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.CodeConfigInvalid,
			"decoding configuration")
	}

	config.Tokens.Path = strings.TrimSpace(config.Tokens.Path)
	config.Output.Dir = strings.TrimSpace(config.Output.Dir)
	config.Log.Level = strings.ToLower(strings.TrimSpace(config.Log.Level))
	config.Log.Format = strings.ToLower(strings.TrimSpace(config.Log.Format))

	if err := validateConfig(&config); err != nil {
		return nil, errors.NewConfigError(errors.CodeConfigInvalid,
			fmt.Sprintf("invalid configuration: %v", err))
	}

	return &config, nil
}

// validateConfig validates configuration values for safety and correctness
func validateConfig(config *Config) error {
	if err := validatePath(config.Tokens.Path); err != nil {
		return fmt.Errorf("tokens.path: %w", err)
	}
	if err := validatePath(config.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	if config.Watch.Debounce < 0 || config.Watch.Debounce > maxDebounce {
		return fmt.Errorf("watch.debounce %s is not in range 0-%s", config.Watch.Debounce, maxDebounce)
	}
	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	return nil
}

func validateLogConfig(config *LogConfig) error {
	switch config.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown level %q", config.Level)
	}

	switch config.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q", config.Format)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Port 0 asks the system for a free port.
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		if i := strings.IndexAny(config.Host, dangerousHostChars); i >= 0 {
			return fmt.Errorf("host contains dangerous character: %q", config.Host[i])
		}
		if hasControlCharacter(config.Host) {
			return fmt.Errorf("host contains control characters")
		}
	}

	return nil
}

// validatePath rejects empty paths, traversal into parent directories, and
// shell metacharacters.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path contains traversal: %s", path)
		}
	}

	if i := strings.IndexAny(cleanPath, dangerousPathChars); i >= 0 {
		return fmt.Errorf("path contains dangerous character: %q", cleanPath[i])
	}
	if hasControlCharacter(cleanPath) {
		return fmt.Errorf("path contains control characters")
	}

	return nil
}

func hasControlCharacter(s string) bool {
	for _, r := range s {
		if r <= controlCharacterLast || r == 0x7f {
			return true
		}
	}
	return false
}
