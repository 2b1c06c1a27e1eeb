package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "barscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "BARSCAN"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	// Use the global viper instance to ensure flag bindings work
	return &Loader{v: viper.GetViper()}
}

// GetViper returns the underlying viper instance.
func (l *Loader) GetViper() *viper.Viper { return l.v }

// Load loads configuration from files, environment variables, and sets
// defaults. It returns the validated configuration.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadWithFile loads configuration from an explicit file path.
func (l *Loader) LoadWithFile(path string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "barscan"))
	}
	l.v.AddConfigPath("/etc/barscan")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)
	l.v.SetDefault("locator.workers", defaults.Locator.Workers)
	l.v.SetDefault("locator.try_harder", defaults.Locator.TryHarder)
	l.v.SetDefault("locator.also_inverted", defaults.Locator.AlsoInverted)
	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.file", defaults.Output.File)
}
