package kafka

import (
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/kafkasample/validation"
)

// SASL mechanisms supported by the connection helpers.
const (
	SASLPlain       = "PLAIN"
	SASLScramSHA256 = "SCRAM-SHA-256"
	SASLScramSHA512 = "SCRAM-SHA-512"
)

// Config holds the broker connection settings shared by the admin client,
// the producer and the consumer.
type Config struct {
	// Brokers is the bootstrap list of host:port addresses.
	Brokers []string `yaml:"brokers" mapstructure:"brokers"`
	// ClientID identifies this process to the brokers.
	ClientID string `yaml:"client_id" mapstructure:"client_id"`

	// TLS
	EnableTLS     bool   `yaml:"enable_tls" mapstructure:"enable_tls"`
	TLSSkipVerify bool   `yaml:"tls_skip_verify" mapstructure:"tls_skip_verify"`
	TLSCAFile     string `yaml:"tls_ca_file" mapstructure:"tls_ca_file"`
	TLSCertFile   string `yaml:"tls_cert_file" mapstructure:"tls_cert_file"`
	TLSKeyFile    string `yaml:"tls_key_file" mapstructure:"tls_key_file"`

	// SASL
	EnableSASL    bool   `yaml:"enable_sasl" mapstructure:"enable_sasl"`
	SASLMechanism string `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"`
	Username      string `yaml:"username" mapstructure:"username"`
	Password      string `yaml:"password" mapstructure:"password"`

	// Connection timeouts
	DialTimeout    time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MetadataTTL    time.Duration `yaml:"metadata_ttl" mapstructure:"metadata_ttl"`

	// Properties are librdkafka-style overrides ("session.timeout.ms": "45000").
	// See ValidateProperties for what may be set.
	Properties map[string]string `yaml:"properties" mapstructure:"properties"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.ClientID == "" {
		if v, ok := c.Properties["client.id"]; ok && v != "" {
			c.ClientID = v
		} else {
			c.ClientID = "kafkasample-" + uuid.NewString()[:8]
		}
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
		if d, ok := PropertyDuration(c.Properties, "request.timeout.ms"); ok {
			c.RequestTimeout = d
		}
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 30 * time.Second
	}
	if c.MetadataTTL <= 0 {
		c.MetadataTTL = 6 * time.Second
	}
	if c.EnableSASL && c.SASLMechanism == "" {
		c.SASLMechanism = SASLPlain
	}
}

// Validate checks connection settings. Properties are not checked here
// because what is allowed depends on the client role.
func (c *Config) Validate() error {
	v := validation.New()
	v.NotEmpty("kafka.brokers", len(c.Brokers))
	for _, b := range c.Brokers {
		if _, _, err := net.SplitHostPort(strings.TrimSpace(b)); err != nil {
			v.AddError("kafka.brokers", "invalid broker address "+b)
		}
	}
	v.Custom(c.DialTimeout > 0, "kafka.dial_timeout", "must be positive")
	v.Custom(c.RequestTimeout > 0, "kafka.request_timeout", "must be positive")
	if c.EnableSASL {
		v.OneOf("kafka.sasl_mechanism", c.SASLMechanism, []string{SASLPlain, SASLScramSHA256, SASLScramSHA512})
		v.Required("kafka.username", c.Username)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		v.AddError("kafka.tls_cert_file", "tls_cert_file and tls_key_file must be set together")
	}
	return v.Err()
}
