package kafka

import (
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkasample/validation"
)

// Well-known header keys.
const (
	HeaderContentType = "content-type"
	HeaderMessageID   = "message-id"
	ContentTypeJSON   = "application/json"
)

// Message is a record as it travels on the wire: raw key and value plus the
// coordinates the broker assigned.
type Message struct {
	Key       string            `json:"key"`
	Value     []byte            `json:"value"`
	Topic     string            `json:"topic"`
	Partition int               `json:"partition"`
	Offset    int64             `json:"offset"`
	Timestamp time.Time         `json:"timestamp"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// FromKafkaMessage converts a kafka-go message to a Message.
func FromKafkaMessage(msg kafkago.Message) Message {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Key:       string(msg.Key),
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Headers:   headers,
	}
}

// ToKafkaMessage converts the Message back to a kafka-go message. The
// partition and offset are kept so the result can be committed.
func (m Message) ToKafkaMessage() kafkago.Message {
	return kafkago.Message{
		Key:       []byte(m.Key),
		Value:     m.Value,
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Time:      m.Timestamp,
		Headers:   m.KafkaHeaders(),
	}
}

// KafkaHeaders returns the headers in kafka-go form.
func (m Message) KafkaHeaders() []kafkago.Header {
	headers := make([]kafkago.Header, 0, len(m.Headers))
	for k, v := range m.Headers {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return headers
}

// Location formats the message coordinates as topic [partition] @offset.
func (m Message) Location() string {
	return fmt.Sprintf("%s [%d] @%d", m.Topic, m.Partition, m.Offset)
}

// TopicSpec describes a topic to provision.
type TopicSpec struct {
	Name              string `yaml:"topic" mapstructure:"topic"`
	Partitions        int    `yaml:"partitions" mapstructure:"partitions"`
	ReplicationFactor int    `yaml:"replication_factor" mapstructure:"replication_factor"`
}

// ApplyDefaults sets one partition and one replica when unset.
func (s *TopicSpec) ApplyDefaults() {
	if s.Partitions == 0 {
		s.Partitions = 1
	}
	if s.ReplicationFactor == 0 {
		s.ReplicationFactor = 1
	}
}

// Validate checks the topic settings.
func (s TopicSpec) Validate() error {
	return validation.New().
		Required("topic", s.Name).
		Min("partitions", s.Partitions, 1).
		Min("replication_factor", s.ReplicationFactor, 1).
		Err()
}

// DeliveryStatus is the outcome of a send.
type DeliveryStatus string

const (
	StatusDelivered DeliveryStatus = "delivered"
	StatusFailed    DeliveryStatus = "failed"
)

// DeliveryReport is the acknowledgment outcome of one sent record. Offset and
// Partition are meaningful only when Status is StatusDelivered.
type DeliveryReport struct {
	Topic     string
	Partition int
	Offset    int64
	Key       string
	Status    DeliveryStatus
	Err       error
	Duration  time.Duration
}

// Delivered reports whether the broker acknowledged the record.
func (r DeliveryReport) Delivered() bool {
	return r.Status == StatusDelivered
}

// Location formats the delivered coordinates as topic [partition] @offset.
func (r DeliveryReport) Location() string {
	return fmt.Sprintf("%s [%d] @%d", r.Topic, r.Partition, r.Offset)
}

// ConsumeResult is a decoded record with its wire message. A poll that
// times out yields no ConsumeResult; Source.Poll reports it with ok false.
type ConsumeResult[T any] struct {
	Value   T
	Message Message
}
