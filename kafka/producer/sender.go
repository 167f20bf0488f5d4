package producer

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/logger"
)

// Sender submits one record to the broker and waits for its acknowledgment.
// The returned message carries the partition and offset the broker assigned.
// There is one attempt per call.
type Sender interface {
	Send(ctx context.Context, msg kafka.Message) (kafka.Message, error)
}

// KafkaSender sends records with the kafka-go produce API. Partitions are
// picked by key hash from cached topic metadata.
type KafkaSender struct {
	client       *kafkago.Client
	transport    *kafkago.Transport
	balancer     kafkago.Balancer
	compression  kafkago.Compression
	requiredAcks kafkago.RequiredAcks
	timeout      time.Duration
	errorLogger  kafkago.Logger

	mu         sync.Mutex
	partitions map[string][]int
}

var _ Sender = (*KafkaSender)(nil)

// NewSender creates a sender for the brokers in cfg.
func NewSender(cfg *kafka.Config, pcfg Config, log *logger.Logger) (*KafkaSender, error) {
	client, err := kafka.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer client: %w", err)
	}
	compression, err := kafka.ResolveCompression(pcfg.Compression)
	if err != nil {
		return nil, err
	}
	acks, err := kafka.ResolveRequiredAcks(pcfg.Acks())
	if err != nil {
		return nil, err
	}
	transport, _ := client.Transport.(*kafkago.Transport)
	return &KafkaSender{
		client:       client,
		transport:    transport,
		balancer:     &kafkago.Hash{},
		compression:  compression,
		requiredAcks: acks,
		timeout:      pcfg.SendTimeout,
		errorLogger:  log.WithComponent("kafka.producer"),
		partitions:   make(map[string][]int),
	}, nil
}

// Send produces msg to a partition chosen from its key.
func (s *KafkaSender) Send(ctx context.Context, msg kafka.Message) (kafka.Message, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	partitions, err := s.topicPartitions(ctx, msg.Topic)
	if err != nil {
		s.errorLogger.Printf("Producer Error: %v", err)
		return msg, err
	}
	msg.Partition = s.balancer.Balance(msg.ToKafkaMessage(), partitions...)

	now := time.Now()
	resp, err := s.client.Produce(ctx, &kafkago.ProduceRequest{
		Topic:        msg.Topic,
		Partition:    msg.Partition,
		RequiredAcks: s.requiredAcks,
		Compression:  s.compression,
		Records: kafkago.NewRecordReader(kafkago.Record{
			Time:    now,
			Key:     kafkago.NewBytes([]byte(msg.Key)),
			Value:   kafkago.NewBytes(msg.Value),
			Headers: msg.KafkaHeaders(),
		}),
	})
	if err == nil && resp.Error != nil {
		err = resp.Error
	}
	if err == nil {
		for _, rerr := range resp.RecordErrors {
			err = rerr
			break
		}
	}
	if err != nil {
		s.invalidate(msg.Topic)
		s.errorLogger.Printf("Producer Error: %v", err)
		return msg, err
	}

	msg.Offset = resp.BaseOffset
	msg.Timestamp = now
	return msg, nil
}

func (s *KafkaSender) topicPartitions(ctx context.Context, topic string) ([]int, error) {
	s.mu.Lock()
	cached, ok := s.partitions[topic]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	meta, err := s.client.Metadata(ctx, &kafkago.MetadataRequest{Topics: []string{topic}})
	if err != nil {
		return nil, fmt.Errorf("metadata for %s: %w", topic, err)
	}
	for _, t := range meta.Topics {
		if t.Name != topic {
			continue
		}
		if t.Error != nil {
			return nil, fmt.Errorf("metadata for %s: %w", topic, t.Error)
		}
		ids := make([]int, 0, len(t.Partitions))
		for _, p := range t.Partitions {
			ids = append(ids, p.ID)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("metadata for %s: %w", topic, kafkago.LeaderNotAvailable)
		}
		s.mu.Lock()
		s.partitions[topic] = ids
		s.mu.Unlock()
		return ids, nil
	}
	return nil, fmt.Errorf("metadata for %s: %w", topic, kafkago.UnknownTopicOrPartition)
}

func (s *KafkaSender) invalidate(topic string) {
	s.mu.Lock()
	delete(s.partitions, topic)
	s.mu.Unlock()
}

// Close releases idle broker connections.
func (s *KafkaSender) Close() error {
	if s.transport != nil {
		s.transport.CloseIdleConnections()
	}
	return nil
}
