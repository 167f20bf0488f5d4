package observability

import (
	"fmt"
	"time"
)

// Config configures the OTLP exporters.
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration when telemetry is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be within [0, 1] (got: %v)", c.SampleRate)
	}
	return nil
}

// Resource identifies the process in exported telemetry.
type Resource struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}
