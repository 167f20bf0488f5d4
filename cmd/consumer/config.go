package main

import (
	"fmt"

	"github.com/kbukum/kafkasample/config"
	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/kafka/consumer"
	"github.com/kbukum/kafkasample/observability"
	"github.com/kbukum/kafkasample/server"
	"github.com/kbukum/kafkasample/validation"
)

const serviceName = "user-consumer"

// Config is the consumer command configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Kafka     kafka.Config         `yaml:"kafka" mapstructure:"kafka"`
	Consumer  consumer.Config      `yaml:"consumer" mapstructure:"consumer"`
	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.Consumer.ApplyDefaults(c.Kafka.Properties)
	if c.Consumer.GroupID == "" {
		c.Consumer.GroupID = c.Name
	}
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate fails on any invalid section and on broker properties that would
// change how offsets are committed.
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
	if err := c.Consumer.Validate(); err != nil {
		return fmt.Errorf("consumer: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// PropertyWarnings lists the broker properties the consumer ignores.
func (c *Config) PropertyWarnings() []validation.Violation {
	return validation.Warnings(c.propertyViolations())
}

func (c *Config) propertyViolations() []validation.Violation {
	return kafka.ValidateProperties(c.Kafka.Properties, kafka.RoleConsumer)
}
