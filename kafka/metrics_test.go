package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

func TestCollectReaderMetrics(t *testing.T) {
	stats := kafkago.ReaderStats{
		Dials:      1,
		Fetches:    10,
		Messages:   8,
		Bytes:      1024,
		Errors:     2,
		Rebalances: 1,
		Offset:     7,
		Lag:        3,
		Topic:      "users",
		Partition:  "0",
		ClientID:   "c1",
	}
	m := CollectReaderMetrics(stats)
	if m.Messages != 8 || m.Lag != 3 || m.Offset != 7 || m.Errors != 2 {
		t.Errorf("metrics = %+v", m)
	}
	if m.Topic != "users" || m.Partition != "0" || m.ClientID != "c1" {
		t.Errorf("labels = %+v", m)
	}

	fields := m.Fields()
	if fields["messages"] != int64(8) || fields["topic"] != "users" {
		t.Errorf("Fields() = %v", fields)
	}
}
