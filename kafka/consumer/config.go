package consumer

import (
	"time"

	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/validation"
)

// MalformedPolicy tells the loop what to do with a record whose value does
// not decode.
type MalformedPolicy string

const (
	// MalformedSkip logs the record, commits its offset and moves on, so a
	// permanently unparsable record is not redelivered forever.
	MalformedSkip MalformedPolicy = "skip"
	// MalformedHalt stops the loop without committing. A restart reads the
	// record again.
	MalformedHalt MalformedPolicy = "halt"
)

// Config holds the consumer settings.
type Config struct {
	Topic   string `yaml:"topic" mapstructure:"topic"`
	GroupID string `yaml:"group_id" mapstructure:"group_id"`

	// PollTimeout bounds one poll. A poll that times out is not an error.
	PollTimeout time.Duration `yaml:"poll_timeout" mapstructure:"poll_timeout"`
	// CommitTimeout bounds one commit, including the commit of the last
	// record during shutdown.
	CommitTimeout   time.Duration   `yaml:"commit_timeout" mapstructure:"commit_timeout"`
	MalformedPolicy MalformedPolicy `yaml:"malformed_policy" mapstructure:"malformed_policy"`

	// Group membership and fetching
	SessionTimeout    time.Duration `yaml:"session_timeout" mapstructure:"session_timeout"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" mapstructure:"heartbeat_interval"`
	RebalanceTimeout  time.Duration `yaml:"rebalance_timeout" mapstructure:"rebalance_timeout"`
	MinBytes          int           `yaml:"min_bytes" mapstructure:"min_bytes"`
	MaxBytes          int           `yaml:"max_bytes" mapstructure:"max_bytes"`
	MaxWait           time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
}

// ApplyDefaults sets defaults for zero-valued fields. Broker properties
// (session.timeout.ms, heartbeat.interval.ms, max.poll.interval.ms,
// fetch.min.bytes, fetch.max.bytes, fetch.wait.max.ms) fill the unset fields.
func (c *Config) ApplyDefaults(props map[string]string) {
	if c.Topic == "" {
		c.Topic = "users"
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = time.Second
	}
	if c.CommitTimeout <= 0 {
		c.CommitTimeout = 5 * time.Second
	}
	if c.MalformedPolicy == "" {
		c.MalformedPolicy = MalformedSkip
	}
	durationDefault(&c.SessionTimeout, props, "session.timeout.ms", 30*time.Second)
	durationDefault(&c.HeartbeatInterval, props, "heartbeat.interval.ms", 3*time.Second)
	durationDefault(&c.RebalanceTimeout, props, "max.poll.interval.ms", 30*time.Second)
	durationDefault(&c.MaxWait, props, "fetch.wait.max.ms", 500*time.Millisecond)
	intDefault(&c.MinBytes, props, "fetch.min.bytes", 1)
	intDefault(&c.MaxBytes, props, "fetch.max.bytes", 10e6)
}

func durationDefault(field *time.Duration, props map[string]string, key string, def time.Duration) {
	if *field > 0 {
		return
	}
	if d, ok := kafka.PropertyDuration(props, key); ok && d > 0 {
		*field = d
		return
	}
	*field = def
}

func intDefault(field *int, props map[string]string, key string, def int) {
	if *field > 0 {
		return
	}
	if n, ok := kafka.PropertyInt(props, key); ok && n > 0 {
		*field = n
		return
	}
	*field = def
}

// Validate checks the consumer settings.
func (c *Config) Validate() error {
	return validation.New().
		Required("consumer.topic", c.Topic).
		Required("consumer.group_id", c.GroupID).
		Custom(c.PollTimeout > 0, "consumer.poll_timeout", "must be positive").
		Custom(c.CommitTimeout > 0, "consumer.commit_timeout", "must be positive").
		OneOf("consumer.malformed_policy", string(c.MalformedPolicy), []string{string(MalformedSkip), string(MalformedHalt)}).
		Custom(c.MinBytes <= c.MaxBytes, "consumer.min_bytes", "must not exceed max_bytes").
		Err()
}
