package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/kafkasample/logger"
)

var environments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every command needs. Command configs
// embed it:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Kafka kafka.Config   `yaml:"kafka" mapstructure:"kafka"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the embedded ServiceConfig. The method is promoted
// to embedding structs.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values. Embedding structs that override it
// call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.Service == "" {
		c.Logging.Service = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base fields. Embedding structs that override it
// call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
