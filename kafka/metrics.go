package kafka

import (
	kafkago "github.com/segmentio/kafka-go"
)

// ReaderMetrics is a structured snapshot of the group reader's counters.
type ReaderMetrics struct {
	Dials      int64  `json:"dials"`
	Fetches    int64  `json:"fetches"`
	Messages   int64  `json:"messages"`
	Bytes      int64  `json:"bytes"`
	Errors     int64  `json:"errors"`
	Rebalances int64  `json:"rebalances"`
	Offset     int64  `json:"offset"`
	Lag        int64  `json:"lag"`
	Topic      string `json:"topic"`
	Partition  string `json:"partition"`
	ClientID   string `json:"client_id"`
}

// CollectReaderMetrics extracts structured metrics from kafka-go reader stats.
func CollectReaderMetrics(stats kafkago.ReaderStats) ReaderMetrics {
	return ReaderMetrics{
		Dials:      stats.Dials,
		Fetches:    stats.Fetches,
		Messages:   stats.Messages,
		Bytes:      stats.Bytes,
		Errors:     stats.Errors,
		Rebalances: stats.Rebalances,
		Offset:     stats.Offset,
		Lag:        stats.Lag,
		Topic:      stats.Topic,
		Partition:  stats.Partition,
		ClientID:   stats.ClientID,
	}
}

// Fields returns the metrics as logger fields.
func (m ReaderMetrics) Fields() map[string]interface{} {
	return map[string]interface{}{
		"fetches":    m.Fetches,
		"messages":   m.Messages,
		"bytes":      m.Bytes,
		"errors":     m.Errors,
		"rebalances": m.Rebalances,
		"lag":        m.Lag,
		"topic":      m.Topic,
	}
}
