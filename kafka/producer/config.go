package producer

import (
	"time"

	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/validation"
)

// DefaultBatchSize is the number of records sent per cycle.
const DefaultBatchSize = 10

// Config holds the producer settings.
type Config struct {
	kafka.TopicSpec `yaml:",inline" mapstructure:",squash"`

	// BatchSize is the number of records generated and sent per cycle.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
	// Prompt waits for the operator to press enter between batches.
	Prompt bool `yaml:"prompt" mapstructure:"prompt"`
	// Interval is the pause between batches when Prompt is off.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// MaxBatches stops the loop after that many batches. Zero runs forever.
	MaxBatches int `yaml:"max_batches" mapstructure:"max_batches"`

	Compression string `yaml:"compression" mapstructure:"compression"`
	// RequiredAcks is -1 (all replicas), 1 (leader) or 0 (none). Unset takes
	// the acks property, then -1.
	RequiredAcks *int `yaml:"required_acks" mapstructure:"required_acks"`
	// SendTimeout bounds the wait for one delivery report.
	SendTimeout time.Duration `yaml:"send_timeout" mapstructure:"send_timeout"`
}

// ApplyDefaults sets defaults for zero-valued fields. Broker properties
// ("acks", "compression.type", "message.timeout.ms") fill the unset fields.
func (c *Config) ApplyDefaults(props map[string]string) {
	if c.Name == "" {
		c.Name = "users"
	}
	c.TopicSpec.ApplyDefaults()
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if !c.Prompt && c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.Compression == "" {
		c.Compression = props["compression.type"]
	}
	if c.RequiredAcks == nil {
		acks := -1
		if n, ok := kafka.PropertyAcks(props); ok {
			acks = n
		}
		c.RequiredAcks = &acks
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
		if d, ok := kafka.PropertyDuration(props, "message.timeout.ms"); ok && d > 0 {
			c.SendTimeout = d
		}
	}
}

// Acks returns the required acks, -1 when unset.
func (c *Config) Acks() int {
	if c.RequiredAcks == nil {
		return -1
	}
	return *c.RequiredAcks
}

// Validate checks the producer settings.
func (c *Config) Validate() error {
	v := validation.New().
		Required("producer.topic", c.Name).
		Min("producer.partitions", c.Partitions, 1).
		Min("producer.replication_factor", c.ReplicationFactor, 1).
		Min("producer.batch_size", c.BatchSize, 1).
		Min("producer.max_batches", c.MaxBatches, 0)
	if _, err := kafka.ResolveCompression(c.Compression); err != nil {
		v.AddError("producer.compression", err.Error())
	}
	if _, err := kafka.ResolveRequiredAcks(c.Acks()); err != nil {
		v.AddError("producer.required_acks", err.Error())
	}
	return v.Err()
}
