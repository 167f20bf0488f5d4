package logger

import (
	"fmt"
	"slices"
)

// Config contains logging configuration.
type Config struct {
	// Service is filled in by the service config; it is not read from the
	// logging section.
	Service   string `yaml:"-" mapstructure:"-"`
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	validFormats = []string{FormatJSON, FormatConsole, FormatPretty}
)

// Validate validates logging configuration.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}
