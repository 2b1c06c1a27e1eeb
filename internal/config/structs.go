package config

import (
	"fmt"

	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/symbol"
)

// Config represents the complete configuration for the barscan tool. It is
// assembled from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Locator configuration
	Locator LocatorConfig `mapstructure:"locator" yaml:"locator" json:"locator"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// LocatorConfig contains multi-symbol search settings.
type LocatorConfig struct {
	// Workers selects the parallel search variant when > 1 (0 or 1 keeps
	// the canonical sequential search with deterministic result order).
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`

	// TryHarder enables more exhaustive per-region decoding.
	TryHarder bool `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`

	// AlsoInverted enables decoding light-on-dark symbols.
	AlsoInverted bool `mapstructure:"also_inverted" yaml:"also_inverted" json:"also_inverted"`

	// Formats constrains the symbologies to search, by name
	// (e.g., ["qr","ean13","code128"]). Empty means all.
	Formats []string `mapstructure:"formats" yaml:"formats" json:"formats"`
}

// OutputConfig contains result output settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// Output format names accepted by OutputConfig.Format.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatText = "text"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Locator:  LocatorConfig{Workers: 1},
		Output:   OutputConfig{Format: OutputFormatJSON},
	}
}

// Validate checks the configuration for values no command can act on.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.Locator.Workers < 0 {
		return fmt.Errorf("invalid locator.workers %d (must be >= 0)", c.Locator.Workers)
	}
	for _, name := range c.Locator.Formats {
		if _, ok := symbol.ParseFormat(name); !ok {
			return fmt.Errorf("unknown barcode format %q", name)
		}
	}
	switch c.Output.Format {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatText:
	default:
		return fmt.Errorf("invalid output.format %q (must be json, yaml, or text)", c.Output.Format)
	}
	return nil
}

// DecodeOptions converts the locator settings into the hint bag forwarded
// to the decoder. It returns nil when no hint is set, meaning "no hints".
func (c *LocatorConfig) DecodeOptions() *decode.Options {
	var formats []symbol.Format
	for _, name := range c.Formats {
		if f, ok := symbol.ParseFormat(name); ok {
			formats = append(formats, f)
		}
	}
	if !c.TryHarder && !c.AlsoInverted && len(formats) == 0 {
		return nil
	}
	return &decode.Options{
		TryHarder:       c.TryHarder,
		AlsoInverted:    c.AlsoInverted,
		PossibleFormats: formats,
	}
}
