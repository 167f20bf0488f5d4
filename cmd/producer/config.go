package main

import (
	"fmt"

	"github.com/kbukum/kafkasample/config"
	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/kafka/producer"
	"github.com/kbukum/kafkasample/observability"
	"github.com/kbukum/kafkasample/server"
	"github.com/kbukum/kafkasample/validation"
)

const serviceName = "user-producer"

// Config is the producer command configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Kafka     kafka.Config         `yaml:"kafka" mapstructure:"kafka"`
	Producer  producer.Config      `yaml:"producer" mapstructure:"producer"`
	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`

	// Seed makes the generated users reproducible. Zero seeds from the clock.
	Seed uint64 `yaml:"seed" mapstructure:"seed"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.Producer.ApplyDefaults(c.Kafka.Properties)
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate fails on any invalid section and on broker properties the
// producer does not allow to be overridden. Unknown properties only warn;
// see PropertyWarnings.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Kafka.Validate(); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	if err := validation.New().Merge(c.propertyViolations()).Err(); err != nil {
		return fmt.Errorf("kafka.properties: %w", err)
	}
	if err := c.Producer.Validate(); err != nil {
		return fmt.Errorf("producer: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// PropertyWarnings lists the broker properties the producer ignores.
func (c *Config) PropertyWarnings() []validation.Violation {
	return validation.Warnings(c.propertyViolations())
}

func (c *Config) propertyViolations() []validation.Violation {
	return kafka.ValidateProperties(c.Kafka.Properties, kafka.RoleProducer)
}
