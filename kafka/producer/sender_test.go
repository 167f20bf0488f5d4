package producer

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/logger"
)

func TestNewSender(t *testing.T) {
	cfg := kafka.Config{}
	cfg.ApplyDefaults()
	pcfg := Config{Compression: "snappy", RequiredAcks: intPtr(1)}

	s, err := NewSender(&cfg, pcfg, logger.NewNop())
	if err != nil {
		t.Fatalf("NewSender() error = %v", err)
	}
	defer s.Close()

	if s.compression != kafkago.Snappy {
		t.Errorf("compression = %v, want snappy", s.compression)
	}
	if s.requiredAcks != kafkago.RequireOne {
		t.Errorf("requiredAcks = %v, want RequireOne", s.requiredAcks)
	}
	if s.transport == nil {
		t.Error("transport not kept for Close")
	}
}

func TestNewSender_InvalidSettings(t *testing.T) {
	cfg := kafka.Config{}
	cfg.ApplyDefaults()
	tests := []Config{
		{Compression: "brotli", RequiredAcks: intPtr(-1)},
		{RequiredAcks: intPtr(5)},
	}
	for _, pcfg := range tests {
		if _, err := NewSender(&cfg, pcfg, logger.NewNop()); err == nil {
			t.Errorf("NewSender(%+v) = nil error", pcfg)
		}
	}
}

func TestKafkaSender_PartitionCache(t *testing.T) {
	s := &KafkaSender{partitions: map[string][]int{"users": {0, 1, 2}}}
	got, err := s.topicPartitions(t.Context(), "users")
	if err != nil || len(got) != 3 {
		t.Fatalf("topicPartitions() = %v, %v", got, err)
	}
	s.invalidate("users")
	if _, ok := s.partitions["users"]; ok {
		t.Error("invalidate() left the topic cached")
	}
}

func intPtr(n int) *int { return &n }
