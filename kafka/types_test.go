package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

func TestFromKafkaMessage(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Topic:     "users",
		Partition: 2,
		Offset:    41,
		Key:       []byte("52998224725"),
		Value:     []byte(`{"id":"52998224725","name":"Ana"}`),
		Time:      now,
		Headers: []kafkago.Header{
			{Key: HeaderContentType, Value: []byte(ContentTypeJSON)},
		},
	}

	got := FromKafkaMessage(msg)
	if got.Topic != "users" || got.Partition != 2 || got.Offset != 41 {
		t.Errorf("coordinates = %s", got.Location())
	}
	if got.Key != "52998224725" {
		t.Errorf("Key = %q", got.Key)
	}
	if string(got.Value) != string(msg.Value) {
		t.Errorf("Value = %s", got.Value)
	}
	if !got.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, now)
	}
	if got.Headers[HeaderContentType] != ContentTypeJSON {
		t.Errorf("Headers = %v", got.Headers)
	}
}

func TestMessage_ToKafkaMessage(t *testing.T) {
	m := Message{
		Key:       "k",
		Value:     []byte("v"),
		Topic:     "users",
		Partition: 1,
		Offset:    7,
		Headers:   map[string]string{HeaderMessageID: "id-1"},
	}
	got := m.ToKafkaMessage()
	if string(got.Key) != "k" || string(got.Value) != "v" {
		t.Errorf("key/value = %s/%s", got.Key, got.Value)
	}
	if got.Topic != "users" || got.Partition != 1 || got.Offset != 7 {
		t.Errorf("coordinates = %s [%d] @%d", got.Topic, got.Partition, got.Offset)
	}
	if len(got.Headers) != 1 || got.Headers[0].Key != HeaderMessageID || string(got.Headers[0].Value) != "id-1" {
		t.Errorf("Headers = %v", got.Headers)
	}
}

func TestLocation(t *testing.T) {
	m := Message{Topic: "users", Partition: 0, Offset: 9}
	if got := m.Location(); got != "users [0] @9" {
		t.Errorf("Message.Location() = %q", got)
	}
	r := DeliveryReport{Topic: "users", Partition: 3, Offset: 12, Status: StatusDelivered}
	if got := r.Location(); got != "users [3] @12" {
		t.Errorf("DeliveryReport.Location() = %q", got)
	}
	if !r.Delivered() {
		t.Error("Delivered() = false")
	}
	if (DeliveryReport{Status: StatusFailed}).Delivered() {
		t.Error("failed report reported as delivered")
	}
}

func TestTopicSpec(t *testing.T) {
	s := TopicSpec{Name: "users"}
	s.ApplyDefaults()
	if s.Partitions != 1 || s.ReplicationFactor != 1 {
		t.Errorf("defaults = %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	tests := []TopicSpec{
		{Name: "", Partitions: 1, ReplicationFactor: 1},
		{Name: "users", Partitions: 0, ReplicationFactor: 1},
		{Name: "users", Partitions: 1, ReplicationFactor: -1},
	}
	for _, tt := range tests {
		if err := tt.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", tt)
		}
	}
}
